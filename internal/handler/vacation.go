package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/queue"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
	"github.com/iliyamo/vacation-tracker/internal/utils"
)

// VacationAPI is the slice of the vacation service these handlers need.
type VacationAPI interface {
	Book(ctx context.Context, userID int64, start, end time.Time, note string) (*model.VacationRecord, error)
	CheckOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error)
	Summary(ctx context.Context, userID int64, year int) (service.Summary, error)
	ListRecords(ctx context.Context, userID int64, from, to time.Time, page, perPage int) (service.RecordPage, error)
	UpsertEntitlement(ctx context.Context, userID int64, year, totalDays int) (model.VacationEntitlement, error)
}

// UserGetter fetches a user by id, used to enrich published events.
type UserGetter interface {
	ByID(ctx context.Context, id int64) (model.User, error)
}

// VacationHandler serves booking, overlap checks, summaries, record
// listings and entitlement grants under /vacation/users/:user_id.
type VacationHandler struct {
	Svc    VacationAPI
	Users  UserGetter
	Events *queue.Publisher
}

type dateRangeBody struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Note      string `json:"note"`
}

// bindRange binds and parses a start/end date payload.
func bindRange(c echo.Context) (start, end time.Time, note string, err error) {
	var body dateRangeBody
	if err = c.Bind(&body); err != nil {
		return start, end, "", service.Validationf("invalid request body")
	}
	if start, err = utils.ParseISODate(body.StartDate); err != nil {
		return start, end, "", service.Validationf("invalid start_date: expected %s", utils.ISODate)
	}
	if end, err = utils.ParseISODate(body.EndDate); err != nil {
		return start, end, "", service.Validationf("invalid end_date: expected %s", utils.ISODate)
	}
	return start, end, body.Note, nil
}

// Create handles POST /vacation/users/:user_id/create and books a vacation.
func (h *VacationHandler) Create(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	start, end, note, err := bindRange(c)
	if err != nil {
		return fail(c, err)
	}
	rec, err := h.Svc.Book(c.Request().Context(), userID, start, end, note)
	if err != nil {
		return fail(c, err)
	}
	h.publishBooked(c.Request().Context(), rec)
	return response.Success(c, http.StatusCreated, toRecordDTO(*rec))
}

// Check handles POST /vacation/users/:user_id/check and reports whether
// the given period overlaps an existing vacation.
func (h *VacationHandler) Check(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	start, end, _, err := bindRange(c)
	if err != nil {
		return fail(c, err)
	}
	overlap, err := h.Svc.CheckOverlap(c.Request().Context(), userID, start, end)
	if err != nil {
		return fail(c, err)
	}
	msg := "no overlapping vacation"
	if overlap {
		msg = "there is already vacation in this time period"
	}
	return response.Success(c, http.StatusOK, map[string]any{
		"overlap": overlap,
		"message": msg,
	})
}

// Summary handles GET /vacation/users/:user_id/summary. The year query
// parameter defaults to the current year.
func (h *VacationHandler) Summary(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	year := 0
	if y := c.QueryParam("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid year")
		}
	}
	sum, err := h.Svc.Summary(c.Request().Context(), userID, year)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusOK, sum)
}

// Records handles GET /vacation/users/:user_id/records. Both from_date
// and to_date are required; results are paginated, newest start first.
func (h *VacationHandler) Records(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	fromStr, toStr := c.QueryParam("from_date"), c.QueryParam("to_date")
	if fromStr == "" || toStr == "" {
		return response.Error(c, http.StatusBadRequest, "from_date and to_date are required")
	}
	from, err := utils.ParseISODate(fromStr)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid from_date: expected "+utils.ISODate)
	}
	to, err := utils.ParseISODate(toStr)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid to_date: expected "+utils.ISODate)
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	pg, err := h.Svc.ListRecords(c.Request().Context(), userID, from, to, page, perPage)
	if err != nil {
		return fail(c, err)
	}
	records := make([]recordDTO, 0, len(pg.Records))
	for _, r := range pg.Records {
		records = append(records, toRecordDTO(r))
	}
	return response.Success(c, http.StatusOK, map[string]any{
		"records":  records,
		"total":    pg.Total,
		"page":     pg.Page,
		"per_page": pg.PerPage,
		"has_next": pg.HasNext,
		"has_prev": pg.HasPrev,
	})
}

// CreateEntitlement handles POST /vacation/users/:user_id/entitlements
// and grants (or updates) the user's vacation days for a year.
func (h *VacationHandler) CreateEntitlement(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id")
	}
	var body struct {
		Year      int `json:"year"`
		TotalDays int `json:"total_days"`
	}
	if err := c.Bind(&body); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	ent, err := h.Svc.UpsertEntitlement(c.Request().Context(), userID, body.Year, body.TotalDays)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, http.StatusCreated, map[string]any{
		"id":         ent.ID,
		"user_id":    ent.UserID,
		"year":       ent.Year,
		"total_days": ent.TotalDays,
	})
}

// publishBooked emits a vacation.booked event. Failures are ignored so
// the booking response is never held hostage by the broker.
func (h *VacationHandler) publishBooked(ctx context.Context, rec *model.VacationRecord) {
	if h.Events == nil {
		return
	}
	email := ""
	if h.Users != nil {
		if u, err := h.Users.ByID(ctx, rec.UserID); err == nil {
			email = u.Email
		}
	}
	_ = h.Events.PublishVacationBooked(ctx, queue.VacationBookedEvent{
		RecordID:  rec.ID,
		UserID:    rec.UserID,
		Email:     email,
		StartDate: rec.StartDate.Format(utils.ISODate),
		EndDate:   rec.EndDate.Format(utils.ISODate),
		DaysCount: rec.DaysCount,
		Year:      rec.Year,
		BookedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
