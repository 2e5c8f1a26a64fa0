package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

type memUsers struct {
	byID   map[int64]model.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]model.User{}, nextID: 1} }

func (m *memUsers) Create(ctx context.Context, email, passwordHash, fullName string, roleID uint8) (int64, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	id := m.nextID
	m.nextID++
	m.byID[id] = model.User{
		ID: id, Email: email, PasswordHash: passwordHash, FullName: fullName,
		RoleID: roleID, Capability: model.CapabilityEmployee,
	}
	return id, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) && u.DeletedAt == nil {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) List(ctx context.Context, roleName string, page, perPage int) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byID {
		if u.DeletedAt == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(ctx context.Context, u *model.User) error {
	for id, other := range m.byID {
		if id != u.ID && other.Email == u.Email && other.DeletedAt == nil {
			return repository.ErrEmailExists
		}
	}
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) SoftDelete(ctx context.Context, id int64) error {
	u, ok := m.byID[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	m.byID[id] = u
	return nil
}

type memRoles struct{}

func (memRoles) GetByCapability(ctx context.Context, c model.Capability) (model.Role, error) {
	return model.Role{ID: 2, Name: "Employee", Capability: c}, nil
}

func (memRoles) Ensure(ctx context.Context, name string, c model.Capability) (model.Role, error) {
	return model.Role{ID: 2, Name: name, Capability: c}, nil
}

func newUserSvc() (*UserService, *memUsers) {
	m := newMemUsers()
	return NewUserService(m, memRoles{}, 4), m
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	svc, _ := newUserSvc()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Jane.Doe@Example.com", "secret", "Jane Doe")
	assert.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", u.Email, "emails are normalized to lower case")
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret"))

	got, err := svc.Authenticate(ctx, "jane.doe@example.com", "secret")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "jane.doe@example.com", "wrong")
	assert.Equal(t, ErrInvalidCredentials, err)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestUserCreateValidation(t *testing.T) {
	svc, _ := newUserSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "secret", "")
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, "no-at-sign", "secret", "")
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, "a@b.c", "", "")
	assert.True(t, IsValidation(err))

	_, err = svc.Create(ctx, "a@b.c", "secret", "A B")
	assert.NoError(t, err)
	_, err = svc.Create(ctx, "a@b.c", "secret", "A B")
	assert.True(t, IsValidation(err), "duplicate email is a validation failure")
	assert.EqualError(t, err, "email already in use")
}

func TestUserUpdate(t *testing.T) {
	svc, _ := newUserSvc()
	ctx := context.Background()

	u, err := svc.Create(ctx, "a@b.c", "secret", "A B")
	assert.NoError(t, err)

	name := "New Name"
	updated, err := svc.Update(ctx, u.ID, UpdateUser{FullName: &name})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "a@b.c", updated.Email, "unset fields stay untouched")

	empty := ""
	_, err = svc.Update(ctx, u.ID, UpdateUser{Password: &empty})
	assert.True(t, IsValidation(err))

	_, err = svc.Update(ctx, 999, UpdateUser{FullName: &name})
	assert.Equal(t, repository.ErrNotFound, err)
}

func TestUserSoftDelete(t *testing.T) {
	svc, m := newUserSvc()
	ctx := context.Background()

	u, err := svc.Create(ctx, "a@b.c", "secret", "A B")
	assert.NoError(t, err)

	assert.NoError(t, svc.SoftDelete(ctx, u.ID))
	_, err = svc.ByID(ctx, u.ID)
	assert.Equal(t, repository.ErrNotFound, err)
	_, err = svc.Authenticate(ctx, "a@b.c", "secret")
	assert.Equal(t, ErrInvalidCredentials, err, "deleted users cannot log in")

	// The row itself survives for history.
	raw, exists := m.byID[u.ID]
	assert.True(t, exists)
	assert.NotNil(t, raw.DeletedAt)
}
