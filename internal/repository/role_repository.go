package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// RoleRepo provides access to the small, mostly static roles table.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GetByName fetches a role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, capability FROM roles WHERE name=? LIMIT 1", name).
		Scan(&role.ID, &role.Name, &role.Capability)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}

// GetByCapability fetches the role carrying the given capability.
func (r *RoleRepo) GetByCapability(ctx context.Context, c model.Capability) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, capability FROM roles WHERE capability=? LIMIT 1", string(c)).
		Scan(&role.ID, &role.Name, &role.Capability)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}

// Ensure returns the role with the given name, creating it with the
// supplied capability when it does not exist yet. Used at seed time and
// to lazily provision the default employee role.
func (r *RoleRepo) Ensure(ctx context.Context, name string, c model.Capability) (model.Role, error) {
	role, err := r.GetByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if err != ErrNotFound {
		return model.Role{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO roles (name, capability) VALUES (?,?)", name, string(c))
	if err != nil {
		if isDuplicateKey(err) {
			// Lost a race with a concurrent Ensure; read the winner.
			return r.GetByName(ctx, name)
		}
		return model.Role{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Role{}, err
	}
	return model.Role{ID: uint8(id), Name: name, Capability: c}, nil
}
