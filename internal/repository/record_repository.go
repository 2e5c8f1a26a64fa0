package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// RecordRepo provides access to the vacation_records table. Booked
// periods are closed date intervals; the overlap predicate therefore
// treats touching endpoints as a conflict. All date columns are DATE
// and are handled as UTC midnights.
type RecordRepo struct{ DB *sql.DB }

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{DB: db} }

// SumDays returns the total days already booked by the user in the
// given year, zero when no records exist.
func (r *RecordRepo) SumDays(ctx context.Context, userID int64, year int) (int, error) {
	return sumDays(ctx, r.DB, userID, year)
}

// HasOverlap reports whether any existing record for the user
// intersects the closed interval [start, end].
func (r *RecordRepo) HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error) {
	return hasOverlap(ctx, r.DB, userID, start, end)
}

// ListByDateRange returns a page of the user's records fully contained
// in [from, to], newest start date first.
func (r *RecordRepo) ListByDateRange(ctx context.Context, userID int64, from, to time.Time, page, perPage int) ([]model.VacationRecord, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	const q = `SELECT id, user_id, start_date, end_date, days_count, year, note, created_at
	           FROM vacation_records
	           WHERE user_id=? AND start_date>=? AND end_date<=?
	           ORDER BY start_date DESC
	           LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, q, userID, dateArg(from), dateArg(to), perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.VacationRecord, 0)
	for rows.Next() {
		var rec model.VacationRecord
		var note sql.NullString
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.StartDate, &rec.EndDate, &rec.DaysCount, &rec.Year, &note, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Note = note.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByDateRange returns how many of the user's records fall fully
// inside [from, to]; it backs the pagination metadata for ListByDateRange.
func (r *RecordRepo) CountByDateRange(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vacation_records WHERE user_id=? AND start_date>=? AND end_date<=?",
		userID, dateArg(from), dateArg(to)).Scan(&n)
	return n, err
}

// WithUserLock runs fn inside one transaction while holding an
// exclusive row lock on the user. Concurrent bookings for the same
// user serialize on this lock, so the check-then-act sequence inside
// fn cannot interleave with another booking for that user. fn's writes
// commit together; any error rolls the whole transaction back.
func (r *RecordRepo) WithUserLock(ctx context.Context, userID int64, fn func(tx BookingTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
