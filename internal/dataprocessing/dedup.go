package dataprocessing

import (
	"strconv"
	"strings"

	"reportsplit/pkg/contracts/domain"
)

// Deduplicate keeps the first occurrence of every distinct record and returns
// the survivors in input order together with the number of records removed.
// Records are compared field by field with no normalization.
func Deduplicate(records []domain.Record) ([]domain.Record, int) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]domain.Record, 0, len(records))
	removed := 0

	for _, record := range records {
		key := recordKey(record)
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}

	return unique, removed
}

// recordKey encodes each field as <len>:<value> so that no two different
// tuples share a key.
func recordKey(record domain.Record) string {
	var sb strings.Builder
	for _, field := range record {
		sb.WriteString(strconv.Itoa(len(field)))
		sb.WriteByte(':')
		sb.WriteString(field)
	}
	return sb.String()
}
