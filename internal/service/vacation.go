// Package service holds the business logic of the vacation tracker:
// the accounting engine that derives available days and validates
// bookings, user management, and the bulk file importer. Services
// depend on small store interfaces implemented by the repository layer
// and are wired together explicitly at startup.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// EntitlementStore is the entitlement contract the engine depends on.
type EntitlementStore interface {
	// Total returns days granted for (user, year), zero when no row exists.
	Total(ctx context.Context, userID int64, year int) (int, error)
	// Upsert grants total_days, updating an existing row in place.
	Upsert(ctx context.Context, userID int64, year, totalDays int) (model.VacationEntitlement, error)
}

// RecordStore is the vacation-record contract the engine depends on.
// WithUserLock provides the transactional region that keeps the
// booking sequence atomic per user.
type RecordStore interface {
	SumDays(ctx context.Context, userID int64, year int) (int, error)
	HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error)
	ListByDateRange(ctx context.Context, userID int64, from, to time.Time, page, perPage int) ([]model.VacationRecord, error)
	CountByDateRange(ctx context.Context, userID int64, from, to time.Time) (int, error)
	WithUserLock(ctx context.Context, userID int64, fn func(tx repository.BookingTx) error) error
}

// Summary packages the per-year accounting for one user.
type Summary struct {
	TotalDays     int `json:"total_days"`
	UsedDays      int `json:"used_days"`
	AvailableDays int `json:"available_days"`
	Year          int `json:"year"`
}

// RecordPage is one page of a user's records plus pagination metadata.
type RecordPage struct {
	Records []model.VacationRecord
	Total   int
	Page    int
	PerPage int
	HasNext bool
	HasPrev bool
}

// VacationService is the accounting engine. It combines the
// entitlement and record stores to derive available days and to
// validate and commit bookings.
type VacationService struct {
	entitlements EntitlementStore
	records      RecordStore
}

func NewVacationService(entitlements EntitlementStore, records RecordStore) *VacationService {
	if entitlements == nil || records == nil {
		panic("nil store passed to NewVacationService")
	}
	return &VacationService{entitlements: entitlements, records: records}
}

// availableDays floors the entitlement balance at zero; over-booked
// years report zero remaining days rather than a negative number.
func availableDays(total, used int) int {
	if a := total - used; a > 0 {
		return a
	}
	return 0
}

// AvailableDays returns how many vacation days the user still has in
// the year. A user without an entitlement row has zero, not an error.
func (s *VacationService) AvailableDays(ctx context.Context, userID int64, year int) (int, error) {
	sum, err := s.Summary(ctx, userID, year)
	if err != nil {
		return 0, err
	}
	return sum.AvailableDays, nil
}

// Summary computes total, used and available days for (user, year).
// A year of zero or less means the current calendar year.
func (s *VacationService) Summary(ctx context.Context, userID int64, year int) (Summary, error) {
	if year <= 0 {
		year = time.Now().UTC().Year()
	}
	total, err := s.entitlements.Total(ctx, userID, year)
	if err != nil {
		return Summary{}, err
	}
	used, err := s.records.SumDays(ctx, userID, year)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalDays:     total,
		UsedDays:      used,
		AvailableDays: availableDays(total, used),
		Year:          year,
	}, nil
}

// CheckOverlap reports whether [start, end] intersects any existing
// record of the user. Endpoints are inclusive, so touching periods
// overlap.
func (s *VacationService) CheckOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error) {
	return s.records.HasOverlap(ctx, userID, start, end)
}

// Book validates and persists one vacation period. The overlap check,
// the capacity check and the insert all run inside WithUserLock, so
// two concurrent bookings for the same user cannot both pass the
// checks. Business rejections come back as ValidationError; on any
// error nothing is committed.
func (s *VacationService) Book(ctx context.Context, userID int64, start, end time.Time, note string) (*model.VacationRecord, error) {
	if end.Before(start) {
		return nil, Validationf("end_date must be on or after start_date")
	}
	var rec *model.VacationRecord
	err := s.records.WithUserLock(ctx, userID, func(tx repository.BookingTx) error {
		r, err := bookInTx(ctx, tx, userID, start, end, note)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("vacation created for user %d: %s - %s (%d days)",
		userID, start.Format("2006-01-02"), end.Format("2006-01-02"), rec.DaysCount)
	return rec, nil
}

// bookInTx replays the booking checks and the insert against tx. Book
// and the file importer share it so both enforce identical rules.
// Callers must have validated that end is not before start.
func bookInTx(ctx context.Context, tx repository.BookingTx, userID int64, start, end time.Time, note string) (*model.VacationRecord, error) {
	overlap, err := tx.HasOverlap(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, Validationf("there is already vacation in this time period")
	}
	year := start.Year()
	daysNeeded := utils.DaysInclusive(start, end)
	total, err := tx.EntitlementTotal(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	used, err := tx.UsedDays(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if avail := availableDays(total, used); daysNeeded > avail {
		return nil, Validationf("not enough vacation days left: needed %d, available %d", daysNeeded, avail)
	}
	rec := &model.VacationRecord{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		DaysCount: daysNeeded,
		Year:      year,
		Note:      note,
	}
	if err := tx.CreateRecord(ctx, rec); err != nil {
		// A constraint violation at insert time is a conflict the caller
		// can retry, not a server fault.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Validationf("error while creating vacation: conflicting record")
		}
		return nil, err
	}
	return rec, nil
}

// UpsertEntitlement grants total_days to (user, year). When a row for
// the pair already exists its total is updated in place; the unique
// (user_id, year) key keeps the pair unique under concurrent creation.
func (s *VacationService) UpsertEntitlement(ctx context.Context, userID int64, year, totalDays int) (model.VacationEntitlement, error) {
	if year <= 0 {
		return model.VacationEntitlement{}, Validationf("year is required")
	}
	if totalDays < 0 {
		return model.VacationEntitlement{}, Validationf("total_days must not be negative")
	}
	return s.entitlements.Upsert(ctx, userID, year, totalDays)
}

// ListRecords returns the user's records fully inside [from, to],
// newest start date first, with pagination metadata.
func (s *VacationService) ListRecords(ctx context.Context, userID int64, from, to time.Time, page, perPage int) (RecordPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	records, err := s.records.ListByDateRange(ctx, userID, from, to, page, perPage)
	if err != nil {
		return RecordPage{}, err
	}
	total, err := s.records.CountByDateRange(ctx, userID, from, to)
	if err != nil {
		return RecordPage{}, err
	}
	return RecordPage{
		Records: records,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: page*perPage < total,
		HasPrev: page > 1,
	}, nil
}
