package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Import files are comma-delimited and header-prefixed. The parsers
// below only tokenize: they keep every data row, valid or not, so the
// orchestrator can report per-row errors instead of silently dropping
// bad input. Data rows are numbered starting at 1, header lines
// excluded; every error message uses that numbering.

// userRow is one tokenized row of a users file.
type userRow struct {
	line     int // 1-based data row number
	email    string
	password string
	fullName string
}

// vacationRow is one tokenized row of a vacation-records file.
type vacationRow struct {
	line     int
	email    string
	startRaw string
	endRaw   string
}

// entitlementRow is one tokenized row of an entitlements file.
type entitlementRow struct {
	line    int
	email   string
	daysRaw string
}

func readDelimited(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid file format: %w", err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseUserFile expects two header lines ("Vacation year,<year>" and a
// column header) followed by email,password rows.
func parseUserFile(r io.Reader) ([]userRow, error) {
	rows, err := readDelimited(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}
	if len(rows) < 3 {
		return nil, errors.New("file must have at least 3 rows (headers + data)")
	}
	data := rows[2:]
	out := make([]userRow, 0, len(data))
	for i, row := range data {
		email := strings.ToLower(cell(row, 0))
		out = append(out, userRow{
			line:     i + 1,
			email:    email,
			password: cell(row, 1),
			fullName: fullNameFromEmail(email),
		})
	}
	return out, nil
}

// parseVacationFile expects one column-header line followed by
// email,start_date,end_date rows.
func parseVacationFile(r io.Reader) ([]vacationRow, error) {
	rows, err := readDelimited(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}
	data := rows[1:]
	if len(data) == 0 {
		return nil, errors.New("no data rows after skipping header")
	}
	out := make([]vacationRow, 0, len(data))
	for i, row := range data {
		out = append(out, vacationRow{
			line:     i + 1,
			email:    strings.ToLower(cell(row, 0)),
			startRaw: cell(row, 1),
			endRaw:   cell(row, 2),
		})
	}
	return out, nil
}

// parseEntitlementFile expects a leading "Vacation year,<year>" line
// and a column-header line, followed by email,total_days rows. It
// returns the rows and the year the file applies to.
func parseEntitlementFile(r io.Reader) ([]entitlementRow, int, error) {
	rows, err := readDelimited(r)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, 0, errors.New("file must have at least 2 columns")
	}
	if !strings.HasPrefix(strings.ToLower(cell(rows[0], 0)), "vacation year") {
		return nil, 0, errors.New("first row must start with 'Vacation year'")
	}
	year, err := strconv.Atoi(cell(rows[0], 1))
	if err != nil {
		return nil, 0, errors.New("invalid year in first row, second column")
	}
	if len(rows) < 3 {
		return nil, 0, errors.New("no data rows found")
	}
	data := rows[2:]
	out := make([]entitlementRow, 0, len(data))
	for i, row := range data {
		out = append(out, entitlementRow{
			line:    i + 1,
			email:   strings.ToLower(cell(row, 0)),
			daysRaw: cell(row, 1),
		})
	}
	return out, year, nil
}

// fullNameFromEmail derives a display name from the local part of an
// email: dots and underscores become spaces and each word is
// capitalized, so "jane.doe@example.com" becomes "Jane Doe".
func fullNameFromEmail(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func validEmail(s string) bool {
	return s != "" && strings.Contains(s, "@")
}
