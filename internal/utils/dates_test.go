package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("2025-07-14")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseISODate("14/07/2025")
	assert.Error(t, err)
	_, err = ParseISODate("")
	assert.Error(t, err)
}

func TestParseImportDateFormats(t *testing.T) {
	want := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	cases := []string{
		"Monday, July 14, 2025",
		"Monday, 14 July 2025",
		"2025-07-14",
		"14/07/2025",
		"14.07.2025",
	}
	for _, in := range cases {
		got, err := ParseImportDate(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseImportDateAmbiguousPrefersDayFirst(t *testing.T) {
	// 03/04/2025 parses as 3 April, not 4 March: the day-first layout
	// is tried before the month-first fallback.
	got, err := ParseImportDate("03/04/2025")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestParseImportDateMonthFirstFallback(t *testing.T) {
	// Day 25 cannot be a month, so only the month-first layout matches.
	got, err := ParseImportDate("12/25/2025")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), got)
}

func TestParseImportDateInvalid(t *testing.T) {
	_, err := ParseImportDate("not a date")
	assert.Error(t, err)
}

func TestDaysInclusive(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseISODate(s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return v
	}
	assert.Equal(t, 1, DaysInclusive(d("2025-07-14"), d("2025-07-14")))
	assert.Equal(t, 5, DaysInclusive(d("2025-07-14"), d("2025-07-18")))
	assert.Equal(t, 31, DaysInclusive(d("2025-01-01"), d("2025-01-31")))
}
