// Package handler contains the HTTP handlers for the vacation tracker API.
// Handlers bind and validate request payloads, delegate to the service
// layer, and translate errors into the shared response envelope.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// pathUserID parses the :user_id path parameter.
func pathUserID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("user_id"), 10, 64)
}

// fail maps a service or repository error onto the response envelope.
// Validation failures become 400, missing records 404 and everything
// else a logged 500 with a generic body.
func fail(c echo.Context, err error) error {
	switch {
	case service.IsValidation(err):
		return response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return response.Error(c, http.StatusNotFound, "not found")
	default:
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

// userDTO is the wire shape of a user; password hashes never leave the server.
type userDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toUserDTO(u model.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Capability),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// recordDTO is the wire shape of a vacation record, dates as 2006-01-02.
type recordDTO struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DaysCount int    `json:"days_count"`
	Year      int    `json:"year"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toRecordDTO(r model.VacationRecord) recordDTO {
	return recordDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		StartDate: r.StartDate.Format(utils.ISODate),
		EndDate:   r.EndDate.Format(utils.ISODate),
		DaysCount: r.DaysCount,
		Year:      r.Year,
		Note:      r.Note,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
