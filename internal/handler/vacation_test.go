package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/vacation-tracker/internal/model"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
)

// fakeVacationAPI returns canned values and records the arguments it saw.
type fakeVacationAPI struct {
	bookErr    error
	lastUserID int64
	lastStart  time.Time
	lastEnd    time.Time
	overlap    bool
}

func (f *fakeVacationAPI) Book(ctx context.Context, userID int64, start, end time.Time, note string) (*model.VacationRecord, error) {
	f.lastUserID, f.lastStart, f.lastEnd = userID, start, end
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &model.VacationRecord{
		ID: 42, UserID: userID, StartDate: start, EndDate: end,
		DaysCount: 5, Year: start.Year(), Note: note, CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeVacationAPI) CheckOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error) {
	return f.overlap, nil
}

func (f *fakeVacationAPI) Summary(ctx context.Context, userID int64, year int) (service.Summary, error) {
	return service.Summary{TotalDays: 25, UsedDays: 5, AvailableDays: 20, Year: year}, nil
}

func (f *fakeVacationAPI) ListRecords(ctx context.Context, userID int64, from, to time.Time, page, perPage int) (service.RecordPage, error) {
	return service.RecordPage{Page: 1, PerPage: 20}, nil
}

func (f *fakeVacationAPI) UpsertEntitlement(ctx context.Context, userID int64, year, totalDays int) (model.VacationEntitlement, error) {
	return model.VacationEntitlement{ID: 1, UserID: userID, Year: year, TotalDays: totalDays}, nil
}

func doVacation(t *testing.T, f *fakeVacationAPI, method, target, userID, body string, h func(*VacationHandler, echo.Context) error) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues(userID)

	assert.NoError(t, h(&VacationHandler{Svc: f}, c))

	var env response.Envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, rec.Code, env.StatusCode)
	return rec, env
}

func TestCreateVacation(t *testing.T) {
	f := &fakeVacationAPI{}
	rec, env := doVacation(t, f, http.MethodPost, "/vacation/users/7/create", "7",
		`{"start_date":"2025-07-14","end_date":"2025-07-18","note":"summer"}`,
		(*VacationHandler).Create)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, int64(7), f.lastUserID)

	data := env.Data.(map[string]any)
	assert.Equal(t, "2025-07-14", data["start_date"])
	assert.Equal(t, "2025-07-18", data["end_date"])
	assert.Equal(t, float64(5), data["days_count"])
}

func TestCreateVacationValidationRejection(t *testing.T) {
	f := &fakeVacationAPI{bookErr: service.Validationf("not enough vacation days left: needed 5, available 3")}
	rec, env := doVacation(t, f, http.MethodPost, "/vacation/users/7/create", "7",
		`{"start_date":"2025-07-14","end_date":"2025-07-18"}`,
		(*VacationHandler).Create)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "not enough vacation days left: needed 5, available 3", *env.Error)
}

func TestCreateVacationBadDate(t *testing.T) {
	rec, env := doVacation(t, &fakeVacationAPI{}, http.MethodPost, "/vacation/users/7/create", "7",
		`{"start_date":"14/07/2025","end_date":"2025-07-18"}`,
		(*VacationHandler).Create)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, *env.Error, "invalid start_date")
}

func TestCreateVacationBadUserID(t *testing.T) {
	rec, _ := doVacation(t, &fakeVacationAPI{}, http.MethodPost, "/vacation/users/abc/create", "abc",
		`{"start_date":"2025-07-14","end_date":"2025-07-18"}`,
		(*VacationHandler).Create)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckVacation(t *testing.T) {
	f := &fakeVacationAPI{overlap: true}
	rec, env := doVacation(t, f, http.MethodPost, "/vacation/users/7/check", "7",
		`{"start_date":"2025-07-14","end_date":"2025-07-18"}`,
		(*VacationHandler).Check)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, true, data["overlap"])
	assert.Equal(t, "there is already vacation in this time period", data["message"])
}

func TestSummaryEndpoint(t *testing.T) {
	rec, env := doVacation(t, &fakeVacationAPI{}, http.MethodGet, "/vacation/users/7/summary?year=2025", "7", "",
		(*VacationHandler).Summary)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(25), data["total_days"])
	assert.Equal(t, float64(20), data["available_days"])
	assert.Equal(t, float64(2025), data["year"])
}

func TestRecordsRequiresDateRange(t *testing.T) {
	cases := []string{
		"/vacation/users/7/records",
		"/vacation/users/7/records?from_date=2025-01-01",
		"/vacation/users/7/records?to_date=2025-12-31",
	}
	for _, target := range cases {
		rec, env := doVacation(t, &fakeVacationAPI{}, http.MethodGet, target, "7", "",
			(*VacationHandler).Records)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "from_date and to_date are required", *env.Error)
	}
}

func TestRecordsOK(t *testing.T) {
	rec, env := doVacation(t, &fakeVacationAPI{}, http.MethodGet,
		"/vacation/users/7/records?from_date=2025-01-01&to_date=2025-12-31", "7", "",
		(*VacationHandler).Records)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(1), data["page"])
	assert.NotNil(t, data["records"])
}

func TestCreateEntitlementEndpoint(t *testing.T) {
	rec, env := doVacation(t, &fakeVacationAPI{}, http.MethodPost, "/vacation/users/7/entitlements", "7",
		`{"year":2025,"total_days":25}`,
		(*VacationHandler).CreateEntitlement)

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(2025), data["year"])
	assert.Equal(t, float64(25), data["total_days"])
}
