package dataprocessing

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsplit/pkg/contracts/domain"
)

func TestPartition(t *testing.T) {
	records := []domain.Record{
		{"1", "2022-03-01T00:00:00Z"},
		{"2", "2022-02-15T19:30:03.5628781Z"},
		{"3", "not-a-date"},
		{"4", "2022-03-31T23:59:59"},
		{"5"},
		{"6", ""},
		{"7", "2022-02-01T00:00:00Z"},
	}

	var unparsable []domain.Record
	buckets := Partition(records, 1, func(r domain.Record, err error) {
		require.Error(t, err)
		unparsable = append(unparsable, r)
	})

	require.Len(t, buckets, 3)

	assert.Equal(t, domain.BucketKey("2022-03"), buckets[0].Key, "first-appearance order")
	assert.Equal(t, []domain.Record{records[0], records[3]}, buckets[0].Records)

	assert.Equal(t, domain.BucketKey("2022-02"), buckets[1].Key)
	assert.Equal(t, []domain.Record{records[1], records[6]}, buckets[1].Records)

	assert.Equal(t, domain.UnknownBucket, buckets[2].Key)
	assert.Equal(t, []domain.Record{records[2], records[4], records[5]}, buckets[2].Records)

	assert.Equal(t, buckets[2].Records, unparsable)
}

func TestPartitionCompleteness(t *testing.T) {
	records := []domain.Record{
		{"a", "2021-01-05T10:00:00Z"},
		{"b", "2021-12-05T10:00:00.1Z"},
		{"c", "garbage"},
		{"d", "2021-01-31T23:59:59.999999999Z"},
		{},
		{"f", "2022-01-01T00:00:00"},
	}

	buckets := Partition(records, 1, nil)

	var flattened []string
	for _, b := range buckets {
		for _, r := range b.Records {
			flattened = append(flattened, strings.Join(r, "|"))

			if b.Key.IsUnknown() {
				continue
			}
			ts, err := ParseTimestamp(r[1])
			require.NoError(t, err)
			assert.Equal(t, b.Key, BucketKeyFor(ts), "record in the bucket of its own month")
		}
	}

	var want []string
	for _, r := range records {
		want = append(want, strings.Join(r, "|"))
	}

	sort.Strings(flattened)
	sort.Strings(want)
	assert.Equal(t, want, flattened, "every record lands in exactly one bucket")
}

func TestPartitionEmpty(t *testing.T) {
	assert.Empty(t, Partition(nil, 0, nil))
}
