package service

import (
	"errors"
	"fmt"
)

// ValidationError marks a business-rule rejection: a bad date range, an
// overlapping booking, insufficient days, a duplicate email. Handlers
// map it to HTTP 400 without inspecting the message text; everything
// else is treated as a server fault.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ErrInvalidCredentials is returned by Authenticate when the email is
// unknown or the password does not match. Middleware maps it to 401.
var ErrInvalidCredentials = errors.New("invalid credentials")
