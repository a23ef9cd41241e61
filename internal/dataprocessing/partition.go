package dataprocessing

import (
	"reportsplit/pkg/contracts/domain"
)

// UnparsableFunc is called once for every record routed to the unknown bucket
type UnparsableFunc func(record domain.Record, err error)

// Partition groups records by bucket key. Buckets appear in the order their
// first record was seen and keep the relative order of their records, so
// concatenating them yields every input record exactly once.
func Partition(records []domain.Record, index int, onUnparsable UnparsableFunc) []domain.Bucket {
	positions := make(map[domain.BucketKey]int)
	var buckets []domain.Bucket

	for _, record := range records {
		key, err := Classify(record, index)
		if err != nil && onUnparsable != nil {
			onUnparsable(record, err)
		}

		pos, ok := positions[key]
		if !ok {
			pos = len(buckets)
			positions[key] = pos
			buckets = append(buckets, domain.Bucket{Key: key})
		}
		buckets[pos].Records = append(buckets[pos].Records, record)
	}

	return buckets
}
