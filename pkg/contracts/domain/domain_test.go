package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordField(t *testing.T) {
	r := Record{"a", ""}

	v, ok := r.Field(0)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = r.Field(1)
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = r.Field(2)
	assert.False(t, ok)
	_, ok = r.Field(-1)
	assert.False(t, ok)
}

func TestHeaderIndex(t *testing.T) {
	h := Header{"id", "origin_timestamp_utc", "origin_timestamp_utc"}

	assert.Equal(t, 1, h.Index("origin_timestamp_utc"), "first match wins")
	assert.Equal(t, -1, h.Index("ORIGIN_TIMESTAMP_UTC"))
	assert.Equal(t, -1, h.Index(" id"))
}

func TestBucketKey(t *testing.T) {
	assert.True(t, UnknownBucket.IsUnknown())
	assert.False(t, BucketKey("2022-02").IsUnknown())
}

func TestBatchSummaryCounters(t *testing.T) {
	s := BatchSummary{
		Files: []FileResult{
			{Status: FileStatusProcessed, Outputs: []BucketOutput{{Rows: 2}, {Rows: 3}}},
			{Status: FileStatusProcessed, Outputs: []BucketOutput{{Rows: 1}}},
			{Status: FileStatusSkipped, Err: errors.New("missing column")},
			{Status: FileStatusFailed, Err: errors.New("disk full"), Outputs: []BucketOutput{{Rows: 4}}},
		},
	}

	assert.Equal(t, 2, s.Processed())
	assert.Equal(t, 1, s.Skipped())
	assert.Equal(t, 1, s.Failed())
	assert.Equal(t, 4, s.OutputFiles())
	assert.Equal(t, 10, s.RowsWritten())
	assert.Equal(t, 5, s.Files[0].RowsWritten())
}
