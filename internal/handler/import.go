package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/queue"
	"github.com/iliyamo/vacation-tracker/internal/response"
	"github.com/iliyamo/vacation-tracker/internal/service"
)

// ImportAPI is the slice of the import service these handlers need.
type ImportAPI interface {
	ImportUsers(ctx context.Context, r io.Reader) service.ImportResult
	ImportVacations(ctx context.Context, r io.Reader) service.ImportResult
	ImportEntitlements(ctx context.Context, r io.Reader) service.ImportResult
}

// ImportHandler serves the admin-only bulk import endpoints. Every
// endpoint takes a multipart upload under the field name "file".
type ImportHandler struct {
	Svc    ImportAPI
	Events *queue.Publisher
}

// Users handles POST /import/users.
func (h *ImportHandler) Users(c echo.Context) error {
	return h.run(c, "users", h.Svc.ImportUsers)
}

// Vacations handles POST /import/vacations.
func (h *ImportHandler) Vacations(c echo.Context) error {
	return h.run(c, "vacations", h.Svc.ImportVacations)
}

// Entitlements handles POST /import/entitlements.
func (h *ImportHandler) Entitlements(c echo.Context) error {
	return h.run(c, "entitlements", h.Svc.ImportEntitlements)
}

func (h *ImportHandler) run(c echo.Context, kind string, do func(context.Context, io.Reader) service.ImportResult) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "file required")
	}
	if fh.Filename == "" {
		return response.Error(c, http.StatusBadRequest, "empty file name")
	}
	f, err := fh.Open()
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "could not read file")
	}
	defer f.Close()

	res := do(c.Request().Context(), f)
	h.publishCompleted(c.Request().Context(), kind, res)

	// The result body carries its own success flag; the HTTP status
	// mirrors it so scripted clients can fail fast.
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, response.Envelope{Success: res.Success, Data: res, StatusCode: status})
}

func (h *ImportHandler) publishCompleted(ctx context.Context, kind string, res service.ImportResult) {
	if h.Events == nil {
		return
	}
	processed := 0
	if v, ok := res.Details["total_processed"].(int); ok {
		processed = v
	}
	_ = h.Events.PublishImportCompleted(ctx, queue.ImportCompletedEvent{
		Kind:        kind,
		Imported:    res.Imported,
		Processed:   processed,
		ErrorCount:  len(res.Errors),
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
