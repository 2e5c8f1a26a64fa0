package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/response"
)

// RequireAdmin aborts with 403 unless the authenticated user has the
// admin capability. It assumes Authenticate ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok || !u.IsAdmin() {
				return response.Error(c, http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin aborts with 403 unless the authenticated user is an
// admin or the :user_id path parameter names their own account. A
// malformed :user_id yields 400.
func RequireSelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return response.Error(c, http.StatusForbidden, "forbidden")
			}
			target, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
			if err != nil {
				return response.Error(c, http.StatusBadRequest, "invalid user id")
			}
			if !u.IsAdmin() && u.ID != target {
				return response.Error(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
