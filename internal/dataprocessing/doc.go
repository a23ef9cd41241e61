// Package dataprocessing splits CSV exports into one file per calendar month.
//
// A file flows through four stages:
//
//	Loader → Deduplicate → Classify/Partition → BucketWriter
//
// The Loader decodes the whole file with the first candidate encoding that
// succeeds and locates the timestamp column. Deduplicate drops exact
// repeated rows, keeping the first. Partition assigns every surviving row to
// a "YYYY-MM" bucket, or to "unknown" when its timestamp is missing or
// malformed. The BucketWriter persists each bucket as <stem>_<bucket>.csv.
//
// # Usage
//
//	loader := dataprocessing.NewLoader("origin_timestamp_utc", config.DefaultEncodings, logger)
//	processor := dataprocessing.NewProcessor(loader, exporter.NewBucketWriter(outDir), logger)
//	summary := processor.ProcessBatch(ctx, paths)
//
// # Error Handling
//
// Failures are scoped to one file or one row and are reported on the
// returned domain.FileResult; ProcessBatch never stops on a bad file.
// Errors are *errors.AppError values and can be inspected with errors.IsType.
package dataprocessing
