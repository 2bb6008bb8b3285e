package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"donorpulse/internal/storage"
)

// HealthService reports liveness and readiness for the HTTP server.
type HealthService struct {
	version   string
	buildTime string
	store     *storage.Store
	logger    *slog.Logger
	startTime time.Time
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth is the status of one dependency.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service.
func NewHealthService(version, buildTime string, store *storage.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}

// LivenessCheck reports whether the process is running. It never fails.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// ReadinessCheck verifies the storage layer is usable.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Checks:    map[string]ServiceHealth{},
	}

	if _, err := hs.store.LoadDonors(); err != nil {
		status.Status = "degraded"
		status.Checks["storage"] = ServiceHealth{Status: "unhealthy", Message: err.Error()}
		hs.logger.WarnContext(ctx, "storage readiness check failed", "error", err)
	} else {
		status.Checks["storage"] = ServiceHealth{Status: "healthy"}
	}

	return status
}

// Version returns build metadata for the version endpoint.
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"build_time": hs.buildTime,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
