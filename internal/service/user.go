package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// UserStore is the user contract the service depends on.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, fullName string, roleID uint8) (int64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context, roleName string, page, perPage int) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	SoftDelete(ctx context.Context, id int64) error
}

// RoleStore resolves and provisions roles.
type RoleStore interface {
	GetByCapability(ctx context.Context, c model.Capability) (model.Role, error)
	Ensure(ctx context.Context, name string, c model.Capability) (model.Role, error)
}

// UpdateUser carries the optional profile changes of a PATCH request;
// nil fields are left untouched.
type UpdateUser struct {
	Email    *string
	FullName *string
	Password *string
}

// UserService implements signup, profile updates, soft deletion and
// credential verification on top of the user and role stores.
type UserService struct {
	users      UserStore
	roles      RoleStore
	bcryptCost int
}

func NewUserService(users UserStore, roles RoleStore, bcryptCost int) *UserService {
	if users == nil || roles == nil {
		panic("nil store passed to NewUserService")
	}
	return &UserService{users: users, roles: roles, bcryptCost: bcryptCost}
}

// Create registers a new user with the default employee role. The
// email must be unique among active users; collisions come back as
// ValidationError.
func (s *UserService) Create(ctx context.Context, email, password, fullName string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, Validationf("a valid email is required")
	}
	if password == "" {
		return model.User{}, Validationf("password is required")
	}
	role, err := s.roles.Ensure(ctx, "Employee", model.CapabilityEmployee)
	if err != nil {
		return model.User{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	id, err := s.users.Create(ctx, email, hash, fullName, role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, Validationf("email already in use")
		}
		return model.User{}, err
	}
	log.Printf("created user %s (id %d)", email, id)
	return s.users.GetByID(ctx, id)
}

// Authenticate resolves Basic credentials to a user. Unknown emails and
// wrong passwords both map to ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// ByID fetches an active user by id.
func (s *UserService) ByID(ctx context.Context, id int64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a page of active users, optionally filtered by role name.
func (s *UserService) List(ctx context.Context, roleName string, page, perPage int) ([]model.User, error) {
	return s.users.List(ctx, roleName, page, perPage)
}

// Update applies the non-nil fields of upd to the user. Changing the
// email to one already in use is a validation failure.
func (s *UserService) Update(ctx context.Context, id int64, upd UpdateUser) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return model.User{}, Validationf("a valid email is required")
		}
		u.Email = email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return model.User{}, Validationf("password must not be empty")
		}
		hash, err := utils.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return model.User{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, Validationf("email already in use")
		}
		return model.User{}, err
	}
	log.Printf("updated user %d", id)
	return s.users.GetByID(ctx, id)
}

// SoftDelete marks the user as deleted; their vacation history stays.
func (s *UserService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}
	log.Printf("soft deleted user %d", id)
	return nil
}
