package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"reportsplit/internal/files"
)

// Paths contains all the resolved locations for one run.
// Every path is absolute; nothing depends on the working directory after
// NewPaths returns.
type Paths struct {
	InputDir    string
	OutputDir   string
	LogFile     string
	MetricsFile string
}

// NewPaths resolves the configured locations to absolute paths
func NewPaths(cfg *Config) (*Paths, error) {
	inputDir, err := filepath.Abs(cfg.Split.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	outputDir, err := filepath.Abs(cfg.Split.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	paths := &Paths{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}

	if cfg.Logging.Output != "console" && cfg.Logging.FilePath != "" {
		if paths.LogFile, err = filepath.Abs(cfg.Logging.FilePath); err != nil {
			return nil, fmt.Errorf("failed to resolve log file: %w", err)
		}
	}
	if cfg.Telemetry.MetricsFile != "" {
		if paths.MetricsFile, err = filepath.Abs(cfg.Telemetry.MetricsFile); err != nil {
			return nil, fmt.Errorf("failed to resolve metrics file: %w", err)
		}
	}

	return paths, nil
}

// EnsureDirectories creates the output directory and the parents of any
// configured log or metrics file
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir}
	if p.LogFile != "" {
		directories = append(directories, filepath.Dir(p.LogFile))
	}
	if p.MetricsFile != "" {
		directories = append(directories, filepath.Dir(p.MetricsFile))
	}

	for _, dir := range directories {
		if err := files.EnsureDirectory(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("input", p.InputDir),
			slog.String("output", p.OutputDir),
		),
		slog.Group("files",
			slog.String("log", p.LogFile),
			slog.String("metrics", p.MetricsFile),
		))
}
