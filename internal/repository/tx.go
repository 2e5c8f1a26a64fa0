package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// BookingTx is the transactional view handed to the accounting engine
// while a booking is in flight. Every method reads or writes through
// the same transaction, so the overlap check, the capacity check and
// the insert observe one consistent snapshot and commit atomically.
type BookingTx interface {
	// EntitlementTotal returns the days granted for (user, year),
	// zero when no entitlement row exists.
	EntitlementTotal(ctx context.Context, userID int64, year int) (int, error)
	// UsedDays returns the sum of days_count over the user's records
	// in the year, zero when there are none.
	UsedDays(ctx context.Context, userID int64, year int) (int, error)
	// HasOverlap reports whether an existing record for the user
	// intersects the closed interval [start, end].
	HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error)
	// CreateRecord inserts a record and fills in its generated ID.
	// A uniqueness violation maps to ErrDuplicate.
	CreateRecord(ctx context.Context, rec *model.VacationRecord) error
}

// ImportTx extends BookingTx with the lookups and writes the bulk file
// importer replays per row. One ImportTx spans one import chunk.
type ImportTx interface {
	BookingTx
	// LockUser takes the same exclusive users-row lock a live booking
	// holds, serializing this transaction against concurrent bookings
	// for the user. ErrNotFound when the user is absent or deleted.
	LockUser(ctx context.Context, userID int64) error
	// UserByEmail resolves an active user; ErrNotFound when absent.
	UserByEmail(ctx context.Context, email string) (model.User, error)
	// CreateUser inserts a user with the default employee role and
	// returns the new ID. A duplicate email maps to ErrEmailExists.
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (int64, error)
	// UpsertEntitlement grants total_days to (user, year), updating
	// the existing row in place when one exists.
	UpsertEntitlement(ctx context.Context, userID int64, year, totalDays int) error
}

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting the overlap and sum queries run both inside and outside a
// transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// txStore implements BookingTx and ImportTx on top of *sql.Tx.
type txStore struct{ tx *sql.Tx }

func (s *txStore) EntitlementTotal(ctx context.Context, userID int64, year int) (int, error) {
	var total int
	err := s.tx.QueryRowContext(ctx,
		"SELECT total_days FROM vacation_entitlements WHERE user_id=? AND year=? LIMIT 1",
		userID, year).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return total, err
}

func (s *txStore) UsedDays(ctx context.Context, userID int64, year int) (int, error) {
	return sumDays(ctx, s.tx, userID, year)
}

func (s *txStore) HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error) {
	return hasOverlap(ctx, s.tx, userID, start, end)
}

func (s *txStore) CreateRecord(ctx context.Context, rec *model.VacationRecord) error {
	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO vacation_records (user_id, start_date, end_date, days_count, year, note)
		 VALUES (?,?,?,?,?,?)`,
		rec.UserID, dateArg(rec.StartDate), dateArg(rec.EndDate), rec.DaysCount, rec.Year, rec.Note)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	rec.CreatedAt = time.Now().UTC()
	return nil
}

func (s *txStore) LockUser(ctx context.Context, userID int64) error {
	return lockUser(ctx, s.tx, userID)
}

func (s *txStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email = ?` + activeUser + ` LIMIT 1`
	var u model.User
	err := s.tx.QueryRowContext(ctx, q, NormalizeEmail(email)).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.RoleID, &u.Capability, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func (s *txStore) CreateUser(ctx context.Context, email, passwordHash, fullName string) (int64, error) {
	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, role_id)
		 VALUES (?,?,?,(SELECT id FROM roles WHERE capability=? LIMIT 1))`,
		NormalizeEmail(email), passwordHash, fullName, string(model.CapabilityEmployee))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *txStore) UpsertEntitlement(ctx context.Context, userID int64, year, totalDays int) error {
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO vacation_entitlements (user_id, year, total_days)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE total_days=VALUES(total_days), updated_at=NOW()`,
		userID, year, totalDays)
	return err
}

// ImportRepo executes bulk import chunks. Each chunk runs inside its
// own transaction: row failures inside fn simply skip the row, while a
// failed begin or commit loses only that chunk.
type ImportRepo struct{ DB *sql.DB }

func NewImportRepo(db *sql.DB) *ImportRepo { return &ImportRepo{DB: db} }

// WithChunk runs fn against a fresh transaction and commits it when fn
// returns nil. The error from fn or from the commit is returned so the
// caller can record it against the chunk's row range.
func (r *ImportRepo) WithChunk(ctx context.Context, fn func(tx ImportTx) error) error {
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
	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// lockUser acquires an exclusive row lock on an active user for the
// duration of tx. Every write path that replays the booking checks
// goes through this lock, so check-then-act sequences for one user
// cannot interleave.
func lockUser(ctx context.Context, tx *sql.Tx, userID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id=? AND deleted_at IS NULL FOR UPDATE", userID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// sumDays and hasOverlap hold the two accounting queries in one place;
// RecordRepo and txStore both delegate here so transactional and plain
// reads cannot drift apart.

func sumDays(ctx context.Context, q queryer, userID int64, year int) (int, error) {
	var used int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(days_count),0) FROM vacation_records WHERE user_id=? AND year=?",
		userID, year).Scan(&used)
	return used, err
}

func hasOverlap(ctx context.Context, q queryer, userID int64, start, end time.Time) (bool, error) {
	// Closed intervals intersect iff existing.start <= end AND
	// existing.end >= start; touching endpoints count as overlap.
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM vacation_records WHERE user_id=? AND start_date<=? AND end_date>=? LIMIT 1",
		userID, dateArg(end), dateArg(start)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// dateArg formats a time as the DATE literal the schema stores,
// discarding any time-of-day component.
func dateArg(t time.Time) string { return t.Format("2006-01-02") }
