package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reportsplit/pkg/contracts/domain"
)

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name        string
		input       []domain.Record
		expected    []domain.Record
		wantRemoved int
	}{
		{
			name:        "empty input",
			input:       nil,
			expected:    []domain.Record{},
			wantRemoved: 0,
		},
		{
			name: "keeps first occurrence in order",
			input: []domain.Record{
				{"a", "2022-02-15T19:30:03Z"},
				{"b", "2022-03-01T00:00:00Z"},
				{"a", "2022-02-15T19:30:03Z"},
				{"b", "2022-03-01T00:00:00Z"},
				{"c", "x"},
			},
			expected: []domain.Record{
				{"a", "2022-02-15T19:30:03Z"},
				{"b", "2022-03-01T00:00:00Z"},
				{"c", "x"},
			},
			wantRemoved: 2,
		},
		{
			name:        "field boundaries matter",
			input:       []domain.Record{{"a", "b"}, {"a,b"}, {"ab"}, {"a", "b"}},
			expected:    []domain.Record{{"a", "b"}, {"a,b"}, {"ab"}},
			wantRemoved: 1,
		},
		{
			name:        "trailing empty field is significant",
			input:       []domain.Record{{"a"}, {"a", ""}, {"a"}},
			expected:    []domain.Record{{"a"}, {"a", ""}},
			wantRemoved: 1,
		},
		{
			name:        "no trimming or case folding",
			input:       []domain.Record{{"x"}, {"x "}, {"X"}, {"1"}, {"1.0"}},
			expected:    []domain.Record{{"x"}, {"x "}, {"X"}, {"1"}, {"1.0"}},
			wantRemoved: 0,
		},
		{
			name:        "length prefix cannot be forged",
			input:       []domain.Record{{"1:a", ""}, {"", "1:a"}, {"1:a1:"}},
			expected:    []domain.Record{{"1:a", ""}, {"", "1:a"}, {"1:a1:"}},
			wantRemoved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := Deduplicate(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, len(tt.input), len(got)+removed)
		})
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	input := []domain.Record{
		{"a", "1"}, {"b", "2"}, {"a", "1"}, {"c"}, {"c"}, {"b", "2"},
	}

	once, _ := Deduplicate(input)
	twice, removed := Deduplicate(once)

	assert.Equal(t, once, twice)
	assert.Zero(t, removed)
}
