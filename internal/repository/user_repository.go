package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// activeUser is the shared soft-delete predicate. Every query that
// should only see live users appends this fragment; the rule is stated
// here once instead of being rewritten per query.
const activeUser = " AND u.deleted_at IS NULL"

// userColumns lists the columns scanned into model.User, with the role
// capability joined in so authorization never needs a second query.
const userColumns = `u.id, u.email, u.password_hash, u.full_name, u.role_id, r.capability, u.created_at, u.updated_at`

// UserRepo provides access to the users table. All lookups exclude
// soft-deleted rows via the activeUser predicate.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an address the same way on every
// write and lookup path.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user with an already-hashed password and returns the
// new ID. A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName string, roleID uint8) (int64, error) {
	email = NormalizeEmail(email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, role_id) VALUES (?,?,?,?)",
		email, passwordHash, fullName, roleID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByEmail fetches an active user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email = ?` + activeUser + ` LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, NormalizeEmail(email)))
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = ?` + activeUser + ` LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, id))
}

// List returns a page of active users, optionally filtered by role
// name, ordered by id for deterministic paging.
func (r *UserRepo) List(ctx context.Context, roleName string, page, perPage int) ([]model.User, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	q := `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE 1=1` + activeUser
	args := make([]interface{}, 0, 3)
	if roleName != "" {
		q += " AND r.name = ?"
		args = append(args, roleName)
	}
	q += " ORDER BY u.id LIMIT ? OFFSET ?"
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.RoleID, &u.Capability, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update persists the mutable profile fields of an active user. A
// duplicate email maps to ErrEmailExists; an unknown or deleted user
// maps to ErrNotFound.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users u SET u.email=?, u.full_name=?, u.password_hash=?, u.updated_at=NOW() WHERE u.id=?"+activeUser,
		NormalizeEmail(u.Email), u.FullName, u.PasswordHash, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The row may exist with identical values; distinguish by lookup.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete marks a user as deleted. The row stays in place so that
// historical vacation data keeps a valid owner.
func (r *UserRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users u SET u.deleted_at=NOW() WHERE u.id=?"+activeUser, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.RoleID, &u.Capability, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}
