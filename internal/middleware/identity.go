package middleware

// identity.go holds helpers shared across middleware files for reading the
// authenticated user that Authenticate stored in the Echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/model"
)

// CurrentUser returns the authenticated user from the context. The second
// return value is false when no user has been set.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}

// currentUserID returns a string identity for rate-limit keys. It returns
// "anon" when no user is authenticated.
func currentUserID(c echo.Context) string {
	if id, ok := c.Get("user_id").(int64); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
