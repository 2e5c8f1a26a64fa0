package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/middleware"
	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// Credentialer verifies an email/password pair.
type Credentialer interface {
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

// AuthHandler issues access tokens for clients that prefer Bearer tokens
// over sending Basic credentials on every request.
type AuthHandler struct {
	Users        Credentialer
	JWTSecret    string
	AccessTTLMin int
}

// Login handles POST /v1/auth/login. On valid credentials it returns a
// signed access token, its lifetime in seconds and the user's profile.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	u, err := h.Users.Authenticate(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return response.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, err)
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, string(u.Capability), h.AccessTTLMin)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, map[string]any{
		"token":      tok.Token,
		"expires_in": h.AccessTTLMin * 60,
		"user":       toUserDTO(u),
	})
}

// Me handles GET /v1/auth/me and returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}
	return response.Success(c, http.StatusOK, toUserDTO(u))
}
