// Package response defines the JSON envelope every endpoint returns.
// The body always carries success, data, error and status_code fields,
// with the HTTP status mirroring status_code, so clients can parse one
// shape regardless of outcome.
package response

import "github.com/labstack/echo/v4"

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool    `json:"success"`
	Data       any     `json:"data"`
	Error      *string `json:"error"`
	StatusCode int     `json:"status_code"`
}

// Success writes a successful envelope with the given payload.
func Success(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data, StatusCode: status})
}

// Error writes a failed envelope with the given message.
func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: false, Error: &msg, StatusCode: status})
}
