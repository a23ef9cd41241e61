// Package exporter writes split results to disk.
//
// CSVWriter is the low-level writer shared by the other components.
// BucketWriter persists one CSV file per month bucket, named
// <stem>_<bucket>.csv, always UTF-8 without a byte-order mark.
// SummaryWriter produces an optional per-run report as CSV or as an
// Excel workbook.
//
// Example usage:
//
//	writer := exporter.NewBucketWriter("split_by_month", logger)
//	outputs, err := writer.WriteBuckets("report", header, buckets)
//
//	summaries := exporter.NewSummaryWriter("split_by_month")
//	path, err := summaries.Write(batch, "xlsx")
package exporter
