package domain

import (
	"time"
)

// FileStatus describes how processing of one input resource ended
type FileStatus string

const (
	FileStatusProcessed FileStatus = "processed"
	FileStatusSkipped   FileStatus = "skipped" // missing column, undecodable
	FileStatusFailed    FileStatus = "failed"  // I/O or malformed CSV
)

// BucketOutput is the observable result of writing one bucket
type BucketOutput struct {
	Key  BucketKey `json:"key"`
	Name string    `json:"name"`
	Path string    `json:"path"`
	Rows int       `json:"rows"`
}

// FileResult summarizes the processing of one input resource
type FileResult struct {
	Source               string         `json:"source"`
	Stem                 string         `json:"stem"`
	Status               FileStatus     `json:"status"`
	Encoding             string         `json:"encoding,omitempty"`
	Attempts             []string       `json:"attempts,omitempty"`
	TotalRows            int            `json:"total_rows"`
	DuplicatesRemoved    int            `json:"duplicates_removed"`
	UnparsableTimestamps int            `json:"unparsable_timestamps"`
	Outputs              []BucketOutput `json:"outputs,omitempty"`
	Duration             time.Duration  `json:"duration"`
	Err                  error          `json:"-"`
}

// RowsWritten returns the number of data rows across all outputs
func (r FileResult) RowsWritten() int {
	total := 0
	for _, out := range r.Outputs {
		total += out.Rows
	}
	return total
}

// BatchSummary collects the results of one run over many input resources
type BatchSummary struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
}

// Processed returns how many files produced outputs
func (s BatchSummary) Processed() int {
	return s.count(FileStatusProcessed)
}

// Skipped returns how many files were skipped with a warning
func (s BatchSummary) Skipped() int {
	return s.count(FileStatusSkipped)
}

// Failed returns how many files failed with an error
func (s BatchSummary) Failed() int {
	return s.count(FileStatusFailed)
}

// OutputFiles returns the number of bucket files written
func (s BatchSummary) OutputFiles() int {
	total := 0
	for _, f := range s.Files {
		total += len(f.Outputs)
	}
	return total
}

// RowsWritten returns the number of data rows written across the batch
func (s BatchSummary) RowsWritten() int {
	total := 0
	for _, f := range s.Files {
		total += f.RowsWritten()
	}
	return total
}

func (s BatchSummary) count(status FileStatus) int {
	n := 0
	for _, f := range s.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}
