package domain

// UnknownBucket is the bucket key for records whose timestamp is missing or
// cannot be parsed.
const UnknownBucket BucketKey = "unknown"

// Record is one CSV row, positionally aligned to its Header
type Record []string

// Field returns the value at index i and whether the record is long enough
// to hold it. Ragged rows simply report false.
func (r Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Header holds the ordered column names of a dataset
type Header []string

// Index returns the position of name in the header, or -1 when absent.
// Matching is exact and case-sensitive.
func (h Header) Index(name string) int {
	for i, col := range h {
		if col == name {
			return i
		}
	}
	return -1
}

// BucketKey identifies a month bucket ("2006-01") or UnknownBucket
type BucketKey string

// IsUnknown reports whether the key is the sentinel bucket
func (k BucketKey) IsUnknown() bool {
	return k == UnknownBucket
}

// Dataset is the full content of one input resource
type Dataset struct {
	Source         string   `json:"source"`
	Encoding       string   `json:"encoding"`
	Attempts       []string `json:"attempts"`
	Header         Header   `json:"header"`
	Records        []Record `json:"records"`
	TimestampIndex int      `json:"timestamp_index"`
}

// Bucket is a group of records sharing one bucket key
type Bucket struct {
	Key     BucketKey `json:"key"`
	Records []Record  `json:"records"`
}
