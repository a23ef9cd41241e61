package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"reportsplit/internal/config"
	"reportsplit/pkg/contracts/domain"
)

const (
	ServiceName    = "reportsplit"
	ServiceVersion = "1.0.0"
	MeterName      = "reportsplit"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string    // "stdout", "none"
	TraceWriter    io.Writer // destination of the stdout exporter, os.Stdout when nil
}

// OTelProviders holds the OpenTelemetry providers for one run.
// Metrics are exported through a private Prometheus registry so a batch run
// can dump them to a textfile when it finishes.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  config.TraceExporterNone,
	}
}

// InitializeOTel initializes tracing and metrics for a run
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}

	ctx := context.Background()

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	), nil
}

// initializeTracing sets up tracing; "none" installs a no-op tracer
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.TraceExporter {
	case config.TraceExporterNone, "":
		providers.Tracer = tracenoop.NewTracerProvider().Tracer(MeterName)
		return nil
	case config.TraceExporterStdout:
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	w := cfg.TraceWriter
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter))

	return nil
}

// initializeMetrics sets up a meter provider backed by a Prometheus registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	providers.Logger.DebugContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))

	return nil
}

// WriteMetricsFile writes the current metric values in the Prometheus text
// format, suitable for the node_exporter textfile collector
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if p.Registry == nil {
		return fmt.Errorf("metrics are not initialized")
	}
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes and shuts down the OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	return nil
}

// SplitMetrics holds the per-run counters of the splitter
type SplitMetrics struct {
	FilesProcessed       metric.Int64Counter
	RowsRead             metric.Int64Counter
	DuplicatesRemoved    metric.Int64Counter
	UnparsableTimestamps metric.Int64Counter
	OutputFiles          metric.Int64Counter
	RowsWritten          metric.Int64Counter
	FileDuration         metric.Float64Histogram
}

// CreateSplitMetrics creates the splitter instruments on meter
func CreateSplitMetrics(meter metric.Meter) (*SplitMetrics, error) {
	filesProcessed, err := meter.Int64Counter(
		"reportsplit_files_processed",
		metric.WithDescription("Input files handled, by final status"),
	)
	if err != nil {
		return nil, err
	}

	rowsRead, err := meter.Int64Counter(
		"reportsplit_rows_read",
		metric.WithDescription("Data rows read from input files"),
	)
	if err != nil {
		return nil, err
	}

	duplicatesRemoved, err := meter.Int64Counter(
		"reportsplit_duplicates_removed",
		metric.WithDescription("Exact-duplicate rows dropped"),
	)
	if err != nil {
		return nil, err
	}

	unparsable, err := meter.Int64Counter(
		"reportsplit_unparsable_timestamps",
		metric.WithDescription("Rows routed to the unknown bucket"),
	)
	if err != nil {
		return nil, err
	}

	outputFiles, err := meter.Int64Counter(
		"reportsplit_output_files",
		metric.WithDescription("Bucket files written"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"reportsplit_rows_written",
		metric.WithDescription("Data rows written to bucket files"),
	)
	if err != nil {
		return nil, err
	}

	fileDuration, err := meter.Float64Histogram(
		"reportsplit_file_duration",
		metric.WithDescription("Time spent processing one input file"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SplitMetrics{
		FilesProcessed:       filesProcessed,
		RowsRead:             rowsRead,
		DuplicatesRemoved:    duplicatesRemoved,
		UnparsableTimestamps: unparsable,
		OutputFiles:          outputFiles,
		RowsWritten:          rowsWritten,
		FileDuration:         fileDuration,
	}, nil
}

// RecordFile adds the outcome of one input file to the counters
func (m *SplitMetrics) RecordFile(ctx context.Context, result domain.FileResult) {
	status := metric.WithAttributes(attribute.String("status", string(result.Status)))

	m.FilesProcessed.Add(ctx, 1, status)
	m.RowsRead.Add(ctx, int64(result.TotalRows))
	m.DuplicatesRemoved.Add(ctx, int64(result.DuplicatesRemoved))
	m.UnparsableTimestamps.Add(ctx, int64(result.UnparsableTimestamps))
	m.OutputFiles.Add(ctx, int64(len(result.Outputs)))
	m.RowsWritten.Add(ctx, int64(result.RowsWritten()))
	m.FileDuration.Record(ctx, result.Duration.Seconds(), status)
}

// SpanAttributes returns the attributes describing a finished file
func SpanAttributes(result domain.FileResult) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("file.source", result.Source),
		attribute.String("file.status", string(result.Status)),
		attribute.String("file.encoding", result.Encoding),
		attribute.Int("file.rows", result.TotalRows),
		attribute.Int("file.duplicates_removed", result.DuplicatesRemoved),
		attribute.Int("file.outputs", len(result.Outputs)),
	}
}

// ShutdownTimeout bounds how long flushing telemetry may take at exit
const ShutdownTimeout = 5 * time.Second
