package dataprocessing

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "reportsplit/internal/errors"
	"reportsplit/internal/files"
	"reportsplit/internal/infrastructure"
	"reportsplit/pkg/contracts/domain"
)

// BucketWriter persists the buckets of one input file
type BucketWriter interface {
	WriteBuckets(stem string, header domain.Header, buckets []domain.Bucket) ([]domain.BucketOutput, error)
}

// Recorder receives the result of every processed file
type Recorder interface {
	RecordFile(ctx context.Context, result domain.FileResult)
}

// Processor runs the load, dedup, classify and write stages for input files
type Processor struct {
	loader   *Loader
	writer   BucketWriter
	recorder Recorder
	tracer   trace.Tracer
	logger   *slog.Logger
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithRecorder reports every FileResult to r
func WithRecorder(r Recorder) ProcessorOption {
	return func(p *Processor) {
		p.recorder = r
	}
}

// WithTracer wraps the batch and every file in spans started on tracer
func WithTracer(tracer trace.Tracer) ProcessorOption {
	return func(p *Processor) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// NewProcessor creates a processor
func NewProcessor(loader *Loader, writer BucketWriter, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		loader: loader,
		writer: writer,
		tracer: tracenoop.NewTracerProvider().Tracer(""),
		logger: infrastructure.WithComponent(logger, "processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBatch processes paths one after another. A failing file is
// reported on its result and never stops the batch; only cancellation of
// ctx does, in which case files not yet started are left out.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) domain.BatchSummary {
	ctx = infrastructure.EnsureRunID(ctx)

	summary := domain.BatchSummary{
		RunID:     infrastructure.GetRunID(ctx),
		StartedAt: time.Now(),
		Files:     make([]domain.FileResult, 0, len(paths)),
	}

	ctx, span := p.tracer.Start(ctx, "ProcessBatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run_id", summary.RunID),
			attribute.Int("batch.files", len(paths)),
		))
	defer span.End()

	p.logger.InfoContext(ctx, "Found CSV files to process", slog.Int("count", len(paths)))

	stems := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			p.logger.WarnContext(ctx, "Batch cancelled",
				slog.Int("remaining", len(paths)-len(summary.Files)),
				slog.String("error", err.Error()))
			break
		}

		stem := files.Stem(path)
		if earlier, ok := stems[stem]; ok {
			p.logger.WarnContext(ctx, "Input shares output names with an earlier file, its outputs will be overwritten",
				slog.String("file", path),
				slog.String("earlier", earlier),
				slog.String("stem", stem))
		} else {
			stems[stem] = path
		}

		summary.Files = append(summary.Files, p.ProcessFile(ctx, path))
	}

	summary.FinishedAt = time.Now()
	span.SetAttributes(
		attribute.Int("batch.processed", summary.Processed()),
		attribute.Int("batch.skipped", summary.Skipped()),
		attribute.Int("batch.failed", summary.Failed()),
	)

	p.logger.InfoContext(ctx, "Processing complete",
		slog.Int("processed", summary.Processed()),
		slog.Int("skipped", summary.Skipped()),
		slog.Int("failed", summary.Failed()),
		slog.Int("output_files", summary.OutputFiles()),
		slog.Int("rows_written", summary.RowsWritten()),
		slog.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)))

	return summary
}

// ProcessFile splits one input file into month buckets
func (p *Processor) ProcessFile(ctx context.Context, path string) (result domain.FileResult) {
	start := time.Now()
	name := filepath.Base(path)

	ctx, span := p.tracer.Start(ctx, "ProcessFile", trace.WithSpanKind(trace.SpanKindInternal))
	result = domain.FileResult{
		Source: path,
		Stem:   files.Stem(path),
	}

	defer func() {
		result.Duration = time.Since(start)
		span.SetAttributes(infrastructure.SpanAttributes(result)...)
		if result.Err != nil {
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Error())
		}
		span.End()
		if p.recorder != nil {
			p.recorder.RecordFile(ctx, result)
		}
	}()

	logger := p.logger.With(slog.String("file", name))
	logger.InfoContext(ctx, "Processing file")

	dataset, err := p.loader.Load(path)
	if err != nil {
		p.fail(ctx, logger, &result, err)
		return result
	}
	result.Encoding = dataset.Encoding
	result.Attempts = dataset.Attempts
	result.TotalRows = len(dataset.Records)

	records, removed := Deduplicate(dataset.Records)
	result.DuplicatesRemoved = removed
	if removed > 0 {
		logger.InfoContext(ctx, "Removed duplicate rows", slog.Int("count", removed))
	}

	buckets := Partition(records, dataset.TimestampIndex, func(_ domain.Record, err error) {
		result.UnparsableTimestamps++
		logger.WarnContext(ctx, "Could not parse timestamp",
			slog.String("value", timestampValue(err)),
			slog.String("error", err.Error()))
	})

	outputs, err := p.writer.WriteBuckets(result.Stem, dataset.Header, buckets)
	result.Outputs = outputs
	for _, out := range outputs {
		logger.InfoContext(ctx, "Created file",
			slog.String("output", out.Name),
			slog.Int("rows", out.Rows))
	}
	if err != nil {
		p.fail(ctx, logger, &result, err)
		return result
	}

	result.Status = domain.FileStatusProcessed
	logger.InfoContext(ctx, "Successfully processed file",
		slog.String("encoding", dataset.Encoding),
		slog.Int("rows", result.TotalRows),
		slog.Int("buckets", len(outputs)))

	return result
}

// fail records err on result and reports it at the level its kind calls for
func (p *Processor) fail(ctx context.Context, logger *slog.Logger, result *domain.FileResult, err error) {
	result.Err = err
	logger = infrastructure.WithError(logger, err).With(slog.String("error_type", string(apperrors.TypeOf(err))))

	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeMissingColumn:
		result.Status = domain.FileStatusSkipped
		logger.WarnContext(ctx, "Column not found, skipping file",
			slog.String("column", p.loader.Column()))
	case apperrors.ErrTypeDecodingExhausted:
		result.Status = domain.FileStatusSkipped
		logger.WarnContext(ctx, "Could not decode file with any encoding",
			slog.Any("attempted", p.loader.encodings))
	case apperrors.ErrTypeMalformedCSV:
		result.Status = domain.FileStatusFailed
		logger.WarnContext(ctx, "Malformed CSV, skipping file")
	default:
		result.Status = domain.FileStatusFailed
		if apperrors.IsFileScoped(err) {
			logger.ErrorContext(ctx, "Error processing file")
			return
		}
		logger.ErrorContext(ctx, "Unexpected error processing file")
	}
}

// timestampValue extracts the offending field from a TIMESTAMP_UNPARSABLE error
func timestampValue(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		if v, ok := appErr.Context["value"].(string); ok {
			return v
		}
	}
	return ""
}
