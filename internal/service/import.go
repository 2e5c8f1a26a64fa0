package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// ImportStore executes import chunks, each inside its own transaction.
type ImportStore interface {
	WithChunk(ctx context.Context, fn func(tx repository.ImportTx) error) error
}

// ImportResult is the outcome of one bulk import. Success is false
// only when the file itself could not be processed; row failures keep
// Success true and are listed in Errors, capped at maxReportedErrors.
type ImportResult struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Imported int            `json:"imported"`
	Errors   []string       `json:"errors"`
	Details  map[string]any `json:"details"`
}

const (
	defaultChunkSize  = 100
	maxReportedErrors = 50
)

// ImportService replays the accounting engine's validation and commit
// logic over rows parsed from uploaded files. Rows are processed in
// chunks; each chunk commits independently, so a failed chunk loses
// only its own rows and the import keeps going.
type ImportService struct {
	store      ImportStore
	bcryptCost int
	chunkSize  int
}

func NewImportService(store ImportStore, bcryptCost int) *ImportService {
	if store == nil {
		panic("nil store passed to NewImportService")
	}
	return &ImportService{store: store, bcryptCost: bcryptCost, chunkSize: defaultChunkSize}
}

// SetChunkSize overrides how many rows share one transaction.
func (s *ImportService) SetChunkSize(n int) {
	if n > 0 {
		s.chunkSize = n
	}
}

// ImportUsers reads a users file (two header lines, then
// email,password rows) and creates an employee account per valid row.
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) ImportResult {
	rows, err := parseUserFile(r)
	if err != nil {
		return failedImport(err)
	}
	var errs []string
	imported := 0
	for start := 0; start < len(rows); start += s.chunkSize {
		chunk := rows[start:min(start+s.chunkSize, len(rows))]
		chunkImported := 0
		cerr := s.store.WithChunk(ctx, func(tx repository.ImportTx) error {
			for _, row := range chunk {
				if !validEmail(row.email) {
					errs = append(errs, fmt.Sprintf("Row %d: invalid email %q", row.line, row.email))
					continue
				}
				if row.password == "" {
					errs = append(errs, fmt.Sprintf("Row %d: password is required - %s", row.line, row.email))
					continue
				}
				hash, err := utils.HashPassword(row.password, s.bcryptCost)
				if err != nil {
					errs = append(errs, fmt.Sprintf("Row %d: %s - %v", row.line, row.email, err))
					continue
				}
				if _, err := tx.CreateUser(ctx, row.email, hash, row.fullName); err != nil {
					if errors.Is(err, repository.ErrEmailExists) {
						errs = append(errs, fmt.Sprintf("Row %d: email already in use - %s", row.line, row.email))
					} else {
						errs = append(errs, fmt.Sprintf("Row %d: %s - unexpected error: %v", row.line, row.email, err))
					}
					continue
				}
				chunkImported++
			}
			return nil
		})
		if cerr != nil {
			errs = append(errs, chunkError(chunk[0].line, chunk[len(chunk)-1].line, cerr))
			continue
		}
		imported += chunkImported
	}
	log.Printf("user import finished: %d of %d rows imported, %d errors", imported, len(rows), len(errs))
	return ImportResult{
		Success:  true,
		Message:  fmt.Sprintf("Imported %d out of %d users successfully.", imported, len(rows)),
		Imported: imported,
		Errors:   capErrors(errs),
		Details:  map[string]any{"total_processed": len(rows), "chunk_size": s.chunkSize},
	}
}

// ImportVacations reads a vacation-records file (one header line, then
// email,start,end rows) and books each row under the same overlap and
// capacity rules as a live booking.
func (s *ImportService) ImportVacations(ctx context.Context, r io.Reader) ImportResult {
	rows, err := parseVacationFile(r)
	if err != nil {
		return failedImport(err)
	}
	var errs []string
	imported := 0
	for start := 0; start < len(rows); start += s.chunkSize {
		chunk := rows[start:min(start+s.chunkSize, len(rows))]
		chunkImported := 0
		cerr := s.store.WithChunk(ctx, func(tx repository.ImportTx) error {
			for _, row := range chunk {
				if !validEmail(row.email) {
					errs = append(errs, fmt.Sprintf("Row %d: invalid email %q", row.line, row.email))
					continue
				}
				startDate, err := utils.ParseImportDate(row.startRaw)
				if err != nil {
					errs = append(errs, fmt.Sprintf("Row %d: %s - %v", row.line, row.email, err))
					continue
				}
				endDate, err := utils.ParseImportDate(row.endRaw)
				if err != nil {
					errs = append(errs, fmt.Sprintf("Row %d: %s - %v", row.line, row.email, err))
					continue
				}
				if endDate.Before(startDate) {
					errs = append(errs, fmt.Sprintf("Row %d: %s - end date must be on or after start date", row.line, row.email))
					continue
				}
				user, err := tx.UserByEmail(ctx, row.email)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						errs = append(errs, fmt.Sprintf("Row %d: user not found - %s", row.line, row.email))
					} else {
						errs = append(errs, fmt.Sprintf("Row %d: %s - db error: %v", row.line, row.email, err))
					}
					continue
				}
				// Serialize against live bookings for this user before
				// replaying the overlap and capacity checks.
				if err := tx.LockUser(ctx, user.ID); err != nil {
					errs = append(errs, fmt.Sprintf("Row %d: %s - db error: %v", row.line, row.email, err))
					continue
				}
				if _, err := bookInTx(ctx, tx, user.ID, startDate, endDate, "Imported from file"); err != nil {
					if IsValidation(err) {
						errs = append(errs, fmt.Sprintf("Row %d: %s - %v", row.line, row.email, err))
					} else {
						errs = append(errs, fmt.Sprintf("Row %d: %s - db error: %v", row.line, row.email, err))
					}
					continue
				}
				chunkImported++
			}
			return nil
		})
		if cerr != nil {
			errs = append(errs, chunkError(chunk[0].line, chunk[len(chunk)-1].line, cerr))
			continue
		}
		imported += chunkImported
	}
	log.Printf("vacation import finished: %d of %d rows imported, %d errors", imported, len(rows), len(errs))
	return ImportResult{
		Success:  true,
		Message:  fmt.Sprintf("Imported %d vacation records.", imported),
		Imported: imported,
		Errors:   capErrors(errs),
		Details:  map[string]any{"total_processed": len(rows), "chunk_size": s.chunkSize},
	}
}

// ImportEntitlements reads an entitlements file (a "Vacation year"
// line, a column header, then email,total_days rows) and grants the
// listed days for the declared year, updating existing grants in place.
func (s *ImportService) ImportEntitlements(ctx context.Context, r io.Reader) ImportResult {
	rows, year, err := parseEntitlementFile(r)
	if err != nil {
		return failedImport(err)
	}
	var errs []string
	imported := 0
	for start := 0; start < len(rows); start += s.chunkSize {
		chunk := rows[start:min(start+s.chunkSize, len(rows))]
		chunkImported := 0
		cerr := s.store.WithChunk(ctx, func(tx repository.ImportTx) error {
			for _, row := range chunk {
				if !validEmail(row.email) {
					errs = append(errs, fmt.Sprintf("Row %d: invalid email %q", row.line, row.email))
					continue
				}
				days, err := strconv.Atoi(row.daysRaw)
				if err != nil || days < 0 {
					errs = append(errs, fmt.Sprintf("Row %d: total_days is not a valid number - %q", row.line, row.daysRaw))
					continue
				}
				user, err := tx.UserByEmail(ctx, row.email)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						errs = append(errs, fmt.Sprintf("Row %d: user not found - %s", row.line, row.email))
					} else {
						errs = append(errs, fmt.Sprintf("Row %d: %s - db error: %v", row.line, row.email, err))
					}
					continue
				}
				if err := tx.UpsertEntitlement(ctx, user.ID, year, days); err != nil {
					errs = append(errs, fmt.Sprintf("Row %d: db error for %s - %v", row.line, row.email, err))
					continue
				}
				chunkImported++
			}
			return nil
		})
		if cerr != nil {
			errs = append(errs, chunkError(chunk[0].line, chunk[len(chunk)-1].line, cerr))
			continue
		}
		imported += chunkImported
	}
	log.Printf("entitlement import finished: %d of %d rows imported for %d, %d errors", imported, len(rows), year, len(errs))
	return ImportResult{
		Success:  true,
		Message:  fmt.Sprintf("Imported %d entitlements for year %d.", imported, year),
		Imported: imported,
		Errors:   capErrors(errs),
		Details:  map[string]any{"year": year, "total_processed": len(rows), "chunk_size": s.chunkSize},
	}
}

func failedImport(err error) ImportResult {
	return ImportResult{
		Success: false,
		Message: "Import failed: " + err.Error(),
		Errors:  []string{},
		Details: map[string]any{},
	}
}

func chunkError(firstLine, lastLine int, err error) string {
	return fmt.Sprintf("database error in chunk (rows %d-%d): %v", firstLine, lastLine, err)
}

func capErrors(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	if len(errs) > maxReportedErrors {
		return errs[:maxReportedErrors]
	}
	return errs
}
