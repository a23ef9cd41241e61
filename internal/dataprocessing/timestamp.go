package dataprocessing

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	apperrors "reportsplit/internal/errors"
	"reportsplit/pkg/contracts/domain"
)

const (
	secondsLayout      = "2006-01-02T15:04:05"
	microsecondsLayout = "2006-01-02T15:04:05.000000"
	fractionDigits     = 6
	bucketKeyFormat    = "%04d-%02d"
)

// ErrMissingField is the cause reported for rows too short to hold the
// timestamp column.
var ErrMissingField = stderrors.New("record has no timestamp field")

// ParseTimestamp parses an ISO-8601 style timestamp such as
// "2022-02-15T19:30:03.5628781Z". Trailing "Z"s are dropped and the
// fraction is cut or zero-padded to microseconds. The date and time must be
// exactly YYYY-MM-DDTHH:MM:SS and the fraction plain ASCII digits. The
// result carries no zone information and is returned in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimRight(value, "Z")

	whole, fraction, hasFraction := strings.Cut(s, ".")
	if !isSecondsShape(whole) {
		return time.Time{}, fmt.Errorf("%q does not match YYYY-MM-DDTHH:MM:SS", value)
	}
	if whole[:4] == "0000" {
		return time.Time{}, fmt.Errorf("year 0 is out of range in %q", value)
	}
	if !hasFraction {
		return time.Parse(secondsLayout, whole)
	}
	if strings.Contains(fraction, ".") {
		return time.Time{}, fmt.Errorf("too many decimal points in %q", value)
	}
	if !isDigits(fraction) {
		return time.Time{}, fmt.Errorf("fraction of %q is not a digit sequence", value)
	}

	if len(fraction) > fractionDigits {
		fraction = fraction[:fractionDigits]
	} else {
		fraction += strings.Repeat("0", fractionDigits-len(fraction))
	}

	return time.Parse(microsecondsLayout, whole+"."+fraction)
}

// isSecondsShape reports whether s has the exact shape of secondsLayout.
// Range checks are left to time.Parse.
func isSecondsShape(s string) bool {
	if len(s) != len(secondsLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		case 10:
			if s[i] != 'T' {
				return false
			}
		case 13, 16:
			if s[i] != ':' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// BucketKeyFor returns the "YYYY-MM" bucket of t
func BucketKeyFor(t time.Time) domain.BucketKey {
	return domain.BucketKey(fmt.Sprintf(bucketKeyFormat, t.Year(), int(t.Month())))
}

// Classify returns the bucket of record using the field at index. Records
// whose field is missing or unparsable go to domain.UnknownBucket together
// with a TIMESTAMP_UNPARSABLE error describing why.
func Classify(record domain.Record, index int) (domain.BucketKey, error) {
	value, ok := record.Field(index)
	if !ok {
		return domain.UnknownBucket, apperrors.NewTimestampError("", ErrMissingField).
			WithContext("index", index)
	}

	t, err := ParseTimestamp(value)
	if err != nil {
		return domain.UnknownBucket, apperrors.NewTimestampError(value, err)
	}
	return BucketKeyFor(t), nil
}
