package model

import "time"

// Capability names what a role is permitted to do. Authorization checks
// compare capabilities instead of numeric role IDs so that the mapping
// between role rows and permissions lives in the database, not in code.
type Capability string

const (
	// CapabilityAdmin grants access to user management and file imports
	// as well as every employee operation.
	CapabilityAdmin Capability = "admin"
	// CapabilityEmployee grants access to the caller's own vacation data.
	CapabilityEmployee Capability = "employee"
)

// Role represents a row in the `roles` table. Users reference this
// table via their RoleID field.
//
// Fields:
//  ID         – numeric identifier of the role.
//  Name       – unique role name (e.g. "Admin", "Employee").
//  Capability – what holders of this role may do.
type Role struct {
	ID         uint8      // roles.id
	Name       string     // roles.name
	Capability Capability // roles.capability
}

// User represents an application user record as stored in the `users`
// table. The json tags are omitted here because these structs are used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags. Users are never hard-deleted: a
// soft delete sets DeletedAt and the repository excludes such rows from
// every active query.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, normalized (lower-case) email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name, may be derived from the email on import.
//  RoleID       – foreign key into the roles table.
//  Capability   – capability of the user's role, populated by joins.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
//  DeletedAt    – soft-deletion timestamp (nil while active).
type User struct {
	ID           int64      // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FullName     string     // users.full_name
	RoleID       uint8      // users.role_id (references roles.id)
	Capability   Capability // roles.capability, joined on reads
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
	DeletedAt    *time.Time // users.deleted_at (nullable)
}

// IsAdmin reports whether the user's role carries the admin capability.
func (u User) IsAdmin() bool { return u.Capability == CapabilityAdmin }
