package utils

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the wire format for dates on the HTTP API.
const ISODate = "2006-01-02"

// importDateFormats lists the layouts accepted in import files, tried
// in order with the first match winning. The verbose forms come first
// because exported spreadsheets commonly carry them.
var importDateFormats = []string{
	"Monday, January 2, 2006", // 'Friday, August 30, 2019'
	"Monday, 2 January 2006",
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	"01/02/2006",
}

// ParseISODate parses a YYYY-MM-DD date as a UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(ISODate, strings.TrimSpace(s))
}

// ParseImportDate parses a date string from an import file against the
// accepted layouts, first match wins.
func ParseImportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// DaysInclusive returns the length of the closed interval [start, end]
// in days; a single-day vacation counts as 1. Both arguments are
// expected to be date values (midnights in the same location).
func DaysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
