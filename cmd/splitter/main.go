// Command splitter splits every CSV export in a directory into one file per
// calendar month of its origin_timestamp_utc column.
//
// Usage:
//
//	splitter [-in DIR] [-out DIR] [-column NAME] [-config FILE]
//	         [-summary csv|xlsx] [-metrics-file PATH] [-log-level LEVEL]
//
// Flags override the configuration file and REPORTSPLIT_* environment
// variables. The exit status is 0 once the batch has run, even when single
// files were skipped; it is non-zero only when the run cannot start.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reportsplit/internal/config"
	"reportsplit/internal/dataprocessing"
	"reportsplit/internal/exporter"
	"reportsplit/internal/files"
	"reportsplit/internal/infrastructure"
	"reportsplit/internal/validation"
	"reportsplit/pkg/contracts"
)

const (
	exitOK      = 0
	exitStartup = 1
	exitUsage   = 2
)

// options holds the command line flags; empty values leave the
// configuration untouched
type options struct {
	inputDir    string
	outputDir   string
	column      string
	configFile  string
	summary     string
	metricsFile string
	logLevel    string
	version     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("splitter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.inputDir, "in", "", "directory containing the CSV exports (default from config, \".\")")
	fs.StringVar(&opts.outputDir, "out", "", "directory for the split files (default from config, \"split_by_month\")")
	fs.StringVar(&opts.column, "column", "", "name of the timestamp column (default \"origin_timestamp_utc\")")
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.summary, "summary", "", "also write split_summary.<fmt> into the output directory: csv | xlsx")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug | info | warn | error")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// applyOverrides copies the non-empty flags onto cfg
func (o *options) applyOverrides(cfg *config.Config) {
	if o.inputDir != "" {
		cfg.Split.InputDir = o.inputDir
	}
	if o.outputDir != "" {
		cfg.Split.OutputDir = o.outputDir
	}
	if o.column != "" {
		cfg.Split.TimestampColumn = o.column
	}
	if o.summary != "" {
		cfg.Split.SummaryFormat = o.summary
	}
	if o.metricsFile != "" {
		cfg.Telemetry.MetricsFile = o.metricsFile
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	// Bootstrap logger until the configured one exists
	bootstrap := infrastructure.NewLogger(infrastructure.DefaultConfig(), stderr)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		bootstrap.Error("Failed to load configuration", slog.String("error", err.Error()))
		return exitStartup
	}
	opts.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		bootstrap.Error("Invalid configuration", slog.String("error", err.Error()))
		return exitStartup
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		bootstrap.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return exitStartup
	}
	if err := paths.EnsureDirectories(); err != nil {
		bootstrap.Error("Failed to create required directories", slog.String("error", err.Error()))
		return exitStartup
	}

	loggingCfg := cfg.Logging
	loggingCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(loggingCfg, stdout)
	if err != nil {
		bootstrap.Error("Failed to initialize logger", slog.String("error", err.Error()))
		return exitStartup
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting split",
		slog.String("version", contracts.Version),
		slog.String("timestamp_column", cfg.Split.TimestampColumn),
		slog.Any("encodings", cfg.Split.Encodings))
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(paths.InputDir); err != nil {
		logger.ErrorContext(ctx, "Cannot read input directory", slog.String("error", err.Error()))
		return exitStartup
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		logger.ErrorContext(ctx, "Cannot use output directory", slog.String("error", err.Error()))
		return exitStartup
	}
	validator.SameDirectory(paths.InputDir, paths.OutputDir)

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.ServiceVersion = contracts.Version
	otelCfg.TraceExporter = cfg.Telemetry.TraceExporter
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitStartup
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), infrastructure.ShutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreateSplitMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create metrics", slog.String("error", err.Error()))
		return exitStartup
	}

	discovery := files.NewDiscovery(paths.InputDir)
	inputs, err := discovery.FindCSVFiles(paths.InputDir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list input files", slog.String("error", err.Error()))
		return exitStartup
	}

	processor := dataprocessing.NewProcessor(
		dataprocessing.NewLoader(cfg.Split.TimestampColumn, cfg.Split.Encodings, logger),
		exporter.NewBucketWriter(paths.OutputDir, logger),
		logger,
		dataprocessing.WithRecorder(metrics),
		dataprocessing.WithTracer(providers.Tracer),
	)

	summary := processor.ProcessBatch(ctx, files.Paths(inputs))

	if cfg.Split.SummaryFormat != "" {
		path, err := exporter.NewSummaryWriter(paths.OutputDir).Write(summary, cfg.Split.SummaryFormat)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to write summary", slog.String("error", err.Error()))
		} else {
			logger.InfoContext(ctx, "Summary written", slog.String("path", path))
		}
	}

	if paths.MetricsFile != "" {
		if err := providers.WriteMetricsFile(paths.MetricsFile); err != nil {
			logger.ErrorContext(ctx, "Failed to write metrics file", slog.String("error", err.Error()))
		} else {
			logger.InfoContext(ctx, "Metrics written", slog.String("path", paths.MetricsFile))
		}
	}

	if generated, err := discovery.FindCSVFiles(paths.OutputDir); err == nil {
		logger.InfoContext(ctx, "Split files in output directory", slog.Int("count", len(generated)))
	}

	return exitOK
}
