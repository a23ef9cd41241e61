package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "reportsplit/internal/errors"
	"reportsplit/internal/files"
)

// Config represents the complete application configuration
type Config struct {
	Split     SplitConfig     `yaml:"split" envconfig:"SPLIT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// SplitConfig controls which files are split and where outputs go
type SplitConfig struct {
	InputDir        string   `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	OutputDir       string   `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	TimestampColumn string   `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" validate:"required"`
	Encodings       []string `yaml:"encodings" envconfig:"ENCODINGS" validate:"min=1,dive,required"`
	SummaryFormat   string   `yaml:"summary_format" envconfig:"SUMMARY_FORMAT" validate:"omitempty,oneof=csv xlsx"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty
// configFile searches ConfigFileLocations. The result is not validated;
// callers apply their own overrides and then call Validate.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not readable", configFile), err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Only variables that are set override; unset ones keep file or default values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the first existing config file location, or ""
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if files.FileExists(location) {
			return location
		}
	}
	return ""
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Split.SummaryFormat = strings.ToLower(c.Split.SummaryFormat)

	v := validator.New()
	if err := v.Struct(c); err != nil {
		appErr := apperrors.NewValidationError("config validation failed", err)
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			appErr.WithContext("fields", fields)
		}
		return appErr
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	encodings := make([]string, len(DefaultEncodings))
	copy(encodings, DefaultEncodings)

	return &Config{
		Split: SplitConfig{
			InputDir:        DefaultInputDir,
			OutputDir:       DefaultOutputDir,
			TimestampColumn: DefaultTimestampColumn,
			Encodings:       encodings,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: TraceExporterNone,
		},
	}
}
