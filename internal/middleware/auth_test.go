package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/service"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

const testSecret = "test-secret"

type fakeUsers struct {
	byEmail map[string]string // email -> password
	byID    map[int64]model.User
}

func (f *fakeUsers) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	if pw, ok := f.byEmail[email]; ok && pw == password {
		for _, u := range f.byID {
			if u.Email == email {
				return u, nil
			}
		}
	}
	return model.User{}, service.ErrInvalidCredentials
}

func (f *fakeUsers) ByID(ctx context.Context, id int64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, service.ErrInvalidCredentials
	}
	return u, nil
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: map[string]string{"jane@example.com": "secret"},
		byID: map[int64]model.User{
			7: {ID: 7, Email: "jane@example.com", Capability: model.CapabilityEmployee},
		},
	}
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Authenticate(newFakeUsers(), testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return rec, c, called
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestAuthenticateBasic(t *testing.T) {
	rec, c, called := runAuth(t, basic("jane@example.com", "secret"))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	u, ok := CurrentUser(c)
	assert.True(t, ok)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, int64(7), c.Get("user_id"))
}

func TestAuthenticateBasicWrongPassword(t *testing.T) {
	rec, _, called := runAuth(t, basic("jane@example.com", "wrong"))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	rec, _, called := runAuth(t, "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateBadBase64(t *testing.T) {
	rec, _, called := runAuth(t, "Basic not-base64!!")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateBearer(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "employee", 15)
	assert.NoError(t, err)

	rec, c, called := runAuth(t, "Bearer "+tok.Token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	u, _ := CurrentUser(c)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestAuthenticateBearerBadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, "employee", 15)
	assert.NoError(t, err)

	rec, _, called := runAuth(t, "Bearer "+tok.Token)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name string
		user any
		want int
	}{
		{"admin passes", model.User{ID: 1, Capability: model.CapabilityAdmin}, http.StatusOK},
		{"employee forbidden", model.User{ID: 2, Capability: model.CapabilityEmployee}, http.StatusForbidden},
		{"unauthenticated forbidden", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.user != nil {
			c.Set("user", tc.user)
		}
		assert.NoError(t, RequireAdmin()(next)(c))
		assert.Equal(t, tc.want, rec.Code, tc.name)
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name   string
		user   model.User
		target string
		want   int
	}{
		{"self passes", model.User{ID: 7, Capability: model.CapabilityEmployee}, "7", http.StatusOK},
		{"admin passes for others", model.User{ID: 1, Capability: model.CapabilityAdmin}, "7", http.StatusOK},
		{"other employee forbidden", model.User{ID: 8, Capability: model.CapabilityEmployee}, "7", http.StatusForbidden},
		{"bad id", model.User{ID: 7, Capability: model.CapabilityEmployee}, "abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("user_id")
		c.SetParamValues(tc.target)
		c.Set("user", tc.user)
		assert.NoError(t, RequireSelfOrAdmin()(next)(c))
		assert.Equal(t, tc.want, rec.Code, tc.name)
	}
}
