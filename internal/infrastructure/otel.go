package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// serviceName identifies this service in exported metrics.
const serviceName = "donorpulse"

// OTelProviders bundles the OpenTelemetry providers and the ingestion
// metrics instruments. Metrics are exported through the Prometheus
// bridge and scraped from /metrics.
type OTelProviders struct {
	MeterProvider *sdkmetric.MeterProvider
	Meter         metric.Meter
	Ingest        *IngestMetrics
}

// IngestMetrics holds the instruments recorded by the donor pipeline.
type IngestMetrics struct {
	Uploads              metric.Int64Counter
	RowsProcessed        metric.Int64Counter
	RowsRejected         metric.Int64Counter
	DonationsAdded       metric.Int64Counter
	DuplicatesSuppressed metric.Int64Counter
	AnalysisDuration     metric.Float64Histogram
}

// InitializeOTel wires the metric provider with a Prometheus exporter
// and creates the ingestion instruments.
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(serviceName)
	ingest, err := createIngestMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry initialized",
		slog.String("service", serviceName),
		slog.String("exporter", "prometheus"))

	return &OTelProviders{
		MeterProvider: meterProvider,
		Meter:         meter,
		Ingest:        ingest,
	}, nil
}

func createIngestMetrics(meter metric.Meter) (*IngestMetrics, error) {
	uploads, err := meter.Int64Counter("donorpulse.uploads.total",
		metric.WithDescription("Donation file uploads processed"))
	if err != nil {
		return nil, err
	}
	rowsProcessed, err := meter.Int64Counter("donorpulse.rows.processed",
		metric.WithDescription("Raw rows decoded from uploaded files"))
	if err != nil {
		return nil, err
	}
	rowsRejected, err := meter.Int64Counter("donorpulse.rows.rejected",
		metric.WithDescription("Rows dropped by validation"))
	if err != nil {
		return nil, err
	}
	donationsAdded, err := meter.Int64Counter("donorpulse.donations.added",
		metric.WithDescription("Donations added to the store after merge"))
	if err != nil {
		return nil, err
	}
	duplicates, err := meter.Int64Counter("donorpulse.donations.duplicates",
		metric.WithDescription("Incoming donations suppressed as duplicates"))
	if err != nil {
		return nil, err
	}
	analysisDuration, err := meter.Float64Histogram("donorpulse.analysis.duration",
		metric.WithDescription("Analysis computation time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &IngestMetrics{
		Uploads:              uploads,
		RowsProcessed:        rowsProcessed,
		RowsRejected:         rowsRejected,
		DonationsAdded:       donationsAdded,
		DuplicatesSuppressed: duplicates,
		AnalysisDuration:     analysisDuration,
	}, nil
}

// RecordUpload records the counters for one processed upload.
func (m *IngestMetrics) RecordUpload(ctx context.Context, processed, rejected, added, duplicates int, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.Uploads.Add(ctx, 1, attrs)
	m.RowsProcessed.Add(ctx, int64(processed))
	m.RowsRejected.Add(ctx, int64(rejected))
	m.DonationsAdded.Add(ctx, int64(added))
	m.DuplicatesSuppressed.Add(ctx, int64(duplicates))
}

// ObserveAnalysis records the wall time of one analysis computation.
func (m *IngestMetrics) ObserveAnalysis(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Record(ctx, d.Seconds())
}

// Shutdown flushes and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}
