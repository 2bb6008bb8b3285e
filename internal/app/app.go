package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donorpulse/internal/config"
	"donorpulse/internal/economic"
	apierrors "donorpulse/internal/errors"
	"donorpulse/internal/infrastructure"
	customMiddleware "donorpulse/internal/middleware"
	"donorpulse/internal/services"
	"donorpulse/internal/storage"
	transport "donorpulse/internal/transport/http"
)

// Version is the application version, overridable at build time with
// -ldflags "-X donorpulse/internal/app.Version=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Application wires together the server's dependencies.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        chi.Router
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders

	Store           *storage.Store
	DonorService    *services.DonorService
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
}

// NewApplication loads configuration and builds the full service graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	var encryptor *storage.Encryptor
	if cfg.Storage.EncryptionPassphrase != "" {
		encryptor, err = storage.NewEncryptor(cfg.Storage.EncryptionPassphrase)
		if err != nil {
			return nil, fmt.Errorf("initialize encryption: %w", err)
		}
	}

	store, err := storage.NewStore(cfg.Storage.DataDir, encryptor, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	provider := economic.NewProvider(economic.Config{
		FredBaseURL: cfg.Economic.FredBaseURL,
		BLSBaseURL:  cfg.Economic.BLSBaseURL,
		FredAPIKey:  cfg.Economic.FredAPIKey,
		BLSAPIKey:   cfg.Economic.BLSAPIKey,
		Timeout:     cfg.Economic.Timeout,
	}, logger)

	a := &Application{
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   otelProviders,
		Store:           store,
		DonorService:    services.NewDonorService(store, otelProviders.Ingest, logger),
		AnalysisService: services.NewAnalysisService(store, provider, otelProviders.Ingest, logger),
		HealthService:   services.NewHealthService(Version, BuildTime, store, logger),
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID"},
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	uploadHandler := transport.NewUploadHandler(a.DonorService, a.Logger, errorHandler, a.Config.Server.MaxUploadBytes)
	donorHandler := transport.NewDonorHandler(a.DonorService, a.Logger, errorHandler)
	analysisHandler := transport.NewAnalysisHandler(a.AnalysisService, a.Logger, errorHandler)
	healthHandler := transport.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/uploads", uploadHandler.Routes())
		r.Mount("/donors", donorHandler.Routes())
		r.Mount("/analysis", analysisHandler.Routes())
		r.Get("/indicators", analysisHandler.Indicators)
	})

	r.Mount("/healthz", healthHandler.Routes())

	// Metrics stay outside the middleware chain so scrapes are not
	// rate limited or logged per request.
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP server. Server errors cancel the context so
// Run can shut down cleanly.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("log_level", a.Config.Logging.Level),
		slog.String("data_dir", a.Config.Storage.DataDir),
		slog.Bool("encryption", a.Config.Storage.EncryptionPassphrase != ""),
	)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "log file close error", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the server and blocks until an interrupt signal arrives
// or the server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
