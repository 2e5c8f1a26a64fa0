package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// EntitlementRepo provides access to the vacation_entitlements table.
// The table carries a unique key on (user_id, year); at most one row
// exists per pair.
type EntitlementRepo struct{ DB *sql.DB }

func NewEntitlementRepo(db *sql.DB) *EntitlementRepo { return &EntitlementRepo{DB: db} }

// Total returns the number of days granted to the user for the year.
// A missing entitlement row is not an error; it means zero days.
func (r *EntitlementRepo) Total(ctx context.Context, userID int64, year int) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT total_days FROM vacation_entitlements WHERE user_id=? AND year=? LIMIT 1",
		userID, year).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return total, err
}

// GetByUserYear fetches the entitlement row for (user, year).
func (r *EntitlementRepo) GetByUserYear(ctx context.Context, userID int64, year int) (model.VacationEntitlement, error) {
	var e model.VacationEntitlement
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, year, total_days, created_at, updated_at
		 FROM vacation_entitlements WHERE user_id=? AND year=? LIMIT 1`,
		userID, year).Scan(&e.ID, &e.UserID, &e.Year, &e.TotalDays, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.VacationEntitlement{}, ErrNotFound
	}
	return e, err
}

// Upsert grants total_days to (user, year), updating the existing row
// in place when one exists. The unique key makes this safe under
// concurrent creation: two racing upserts cannot produce two rows.
func (r *EntitlementRepo) Upsert(ctx context.Context, userID int64, year, totalDays int) (model.VacationEntitlement, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO vacation_entitlements (user_id, year, total_days)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE total_days=VALUES(total_days), updated_at=NOW()`,
		userID, year, totalDays)
	if err != nil {
		return model.VacationEntitlement{}, err
	}
	return r.GetByUserYear(ctx, userID, year)
}
