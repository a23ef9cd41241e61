package exporter

import (
	"fmt"
	"log/slog"

	"reportsplit/internal/config"
	apperrors "reportsplit/internal/errors"
	"reportsplit/pkg/contracts/domain"
)

// OutputName returns the file name of the bucket key for an input stem
func OutputName(stem string, key domain.BucketKey) string {
	return fmt.Sprintf("%s_%s%s", stem, key, config.OutputExtension)
}

// BucketWriter persists month buckets as UTF-8 CSV files in one directory
type BucketWriter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewBucketWriter creates a writer placing outputs in outputDir
func NewBucketWriter(outputDir string, logger *slog.Logger) *BucketWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketWriter{
		csv:    NewCSVWriter(outputDir),
		logger: logger.With("component", "bucket_writer"),
	}
}

// WriteBuckets writes each non-empty bucket to <stem>_<key>.csv, header
// first, records in the order given. Existing files are overwritten.
// On failure the outputs written so far are returned with an IO_FAILURE error.
func (w *BucketWriter) WriteBuckets(stem string, header domain.Header, buckets []domain.Bucket) ([]domain.BucketOutput, error) {
	outputs := make([]domain.BucketOutput, 0, len(buckets))

	for _, bucket := range buckets {
		if len(bucket.Records) == 0 {
			continue
		}

		name := OutputName(stem, bucket.Key)
		path := w.csv.resolvePath(name)

		records := make([][]string, len(bucket.Records))
		for i, r := range bucket.Records {
			records[i] = r
		}

		err := w.csv.WriteCSV(name, WriteOptions{
			Headers: header,
			Records: records,
			UseCRLF: true,
		})
		if err != nil {
			return outputs, apperrors.NewIOError(fmt.Sprintf("failed to write %s", name), err).
				WithContext("path", path).
				WithContext("bucket", string(bucket.Key))
		}

		w.logger.Debug("Bucket written",
			slog.String("file", name),
			slog.Int("rows", len(records)))

		outputs = append(outputs, domain.BucketOutput{
			Key:  bucket.Key,
			Name: name,
			Path: path,
			Rows: len(records),
		})
	}

	return outputs, nil
}
