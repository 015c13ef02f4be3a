// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ids

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty sheet", nil, "CMT-001"},
		{"after highest", []string{"CMT-001", "CMT-007", "CMT-003"}, "CMT-008"},
		{"other prefixes ignored", []string{"MTG-050", "CMT-002"}, "CMT-003"},
		{"malformed ignored", []string{"CMT-abc", "CMT-", "CMT-004"}, "CMT-005"},
		{"signed suffix ignored", []string{"CMT-+50", "CMT--7", "CMT- 9", "CMT-002"}, "CMT-003"},
		{"grows past three digits", []string{"CMT-999"}, "CMT-1000"},
		{"gaps not reused", []string{"CMT-001", "CMT-010"}, "CMT-011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(PrefixComment, tt.existing))
		})
	}
}

func TestNextDaily(t *testing.T) {
	day := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	existing := []string{"WL-20260213-001", "WL-20260213-002", "WL-20260212-009"}

	assert.Equal(t, "WL-20260213-003", NextDaily(PrefixWorklog, day, existing))
	assert.Equal(t, "WL-20260214-001", NextDaily(PrefixWorklog, day.AddDate(0, 0, 1), existing))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"PRJ-999", "PRJ-1000", -1},
		{"PRJ-1000", "PRJ-998", 1},
		{"PRJ-007", "PRJ-007", 0},
		{"WL-20250312-999", "WL-20250312-1000", -1},
		{"WL-20250311-1000", "WL-20250312-001", -1},
		{"CMT-002", "PRJ-001", -1},
		{"PRJ-010", "PRJ-abc", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestLess_SortsPastThreeDigits(t *testing.T) {
	keys := []string{"PRJ-1000", "PRJ-998", "PRJ-1001", "PRJ-999"}
	sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
	assert.Equal(t, []string{"PRJ-998", "PRJ-999", "PRJ-1000", "PRJ-1001"}, keys)
}
