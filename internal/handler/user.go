package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
)

// UsersAPI is the slice of the user service these handlers need.
type UsersAPI interface {
	Create(ctx context.Context, email, password, fullName string) (model.User, error)
	ByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context, roleName string, page, perPage int) ([]model.User, error)
	Update(ctx context.Context, id int64, upd service.UpdateUser) (model.User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// UserHandler serves the /users management endpoints.
type UserHandler struct {
	Svc UsersAPI
}

// Create handles POST /users.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&body); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	u, err := h.Svc.Create(c.Request().Context(), body.Email, body.Password, body.FullName)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusCreated, toUserDTO(u))
}

// Get handles GET /users/:user_id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	u, err := h.Svc.ByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, toUserDTO(u))
}

// List handles GET /users with optional role, page and per_page filters.
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	users, err := h.Svc.List(c.Request().Context(), c.QueryParam("role"), page, perPage)
	if err != nil {
		return fail(c, err)
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return response.Success(c, http.StatusOK, map[string]any{"users": out})
}

// Update handles PATCH /users/:user_id. Absent fields are left unchanged.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	var body struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	u, err := h.Svc.Update(c.Request().Context(), id, service.UpdateUser{
		Email:    body.Email,
		FullName: body.FullName,
		Password: body.Password,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, toUserDTO(u))
}

// Delete handles DELETE /users/:user_id and soft-deletes the account.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	if err := h.Svc.SoftDelete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, map[string]any{"deleted": true})
}
