package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/response"
)

// Authenticator resolves credentials to a user. It is implemented by
// service.UserService; the interface keeps this middleware testable
// without a database.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	ByID(ctx context.Context, id int64) (model.User, error)
}

// Authenticate validates the Authorization header and stores the resolved
// user in the context under "user" (model.User) and "user_id" (int64).
// Both Basic credentials and Bearer tokens issued by the login endpoint
// are accepted; requests without valid credentials get 401.
func Authenticate(users Authenticator, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			switch {
			case strings.HasPrefix(auth, "Basic "):
				u, err := basicUser(c, users, strings.TrimPrefix(auth, "Basic "))
				if err != nil {
					return response.Error(c, http.StatusUnauthorized, "invalid credentials")
				}
				setUser(c, u)
			case strings.HasPrefix(auth, "Bearer "):
				u, err := bearerUser(c, users, jwtSecret, strings.TrimPrefix(auth, "Bearer "))
				if err != nil {
					return response.Error(c, http.StatusUnauthorized, "invalid token")
				}
				setUser(c, u)
			default:
				return response.Error(c, http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func setUser(c echo.Context, u model.User) {
	c.Set("user", u)
	c.Set("user_id", u.ID)
}

func basicUser(c echo.Context, users Authenticator, encoded string) (model.User, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return model.User{}, err
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return model.User{}, echo.ErrUnauthorized
	}
	return users.Authenticate(c.Request().Context(), email, password)
}

func bearerUser(c echo.Context, users Authenticator, secret, raw string) (model.User, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.User{}, echo.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.User{}, echo.ErrUnauthorized
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return model.User{}, echo.ErrUnauthorized
	}
	return users.ByID(c.Request().Context(), int64(sub))
}
