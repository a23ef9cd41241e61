// Package config provides configuration management for reportsplit.
// It loads settings from multiple sources, validates them, and resolves
// every path the run needs up front.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (reportsplit.yaml or -config)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern REPORTSPLIT_<SECTION>_<KEY>:
//
//	REPORTSPLIT_SPLIT_INPUT_DIR=./reports
//	REPORTSPLIT_SPLIT_OUTPUT_DIR=./reports/split_by_month
//	REPORTSPLIT_SPLIT_TIMESTAMP_COLUMN=origin_timestamp_utc
//	REPORTSPLIT_SPLIT_ENCODINGS=utf-8,latin-1,cp1252,iso-8859-1
//	REPORTSPLIT_LOGGING_LEVEL=debug
//	REPORTSPLIT_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/reportsplit.prom
//
// # Validation
//
// The loaded Config is checked with go-playground/validator struct tags.
// Failures are returned as VALIDATION errors listing the offending fields.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// apply command line overrides here
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.NewPaths(cfg)
package config
