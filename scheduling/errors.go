package scheduling

import (
	"errors"
)

type ErrorCode string

const (
	CodeValidation             ErrorCode = "validation_error"
	CodeTenantMismatch         ErrorCode = "tenant_mismatch"
	CodeSlotTaken              ErrorCode = "slot_taken"
	CodeTimeBlocked            ErrorCode = "time_blocked"
	CodeOutsideWorkingHours    ErrorCode = "outside_working_hours"
	CodeInvalidServiceDuration ErrorCode = "invalid_service_duration"
	CodeInvalidRange           ErrorCode = "invalid_range"
	CodeRangeTooLarge          ErrorCode = "range_too_large"
	CodeOverlapExists          ErrorCode = "overlap_exists"
	CodeTooManyAttempts        ErrorCode = "too_many_attempts"
	CodeCodeExpired            ErrorCode = "code_expired"
)

// Error is a structured, field-attributed domain error. Controllers map
// it onto HTTP responses; nothing in the core swallows one silently.
type Error struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus maps the error onto the status the API surface uses for it.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeTooManyAttempts:
		return 429
	case CodeTenantMismatch:
		return 404
	default:
		return 422
	}
}

func newError(code ErrorCode, field, message string) *Error {
	return &Error{Code: code, Field: field, Message: message}
}

// AsError unwraps err into a domain *Error when it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func ErrTenantMismatch(field string) *Error {
	return newError(CodeTenantMismatch, field, "entity does not belong to this business")
}

func ErrSlotTaken() *Error {
	return newError(CodeSlotTaken, "starts_at", "this time slot is already booked")
}

func ErrTimeBlocked() *Error {
	return newError(CodeTimeBlocked, "starts_at", "this time is blocked (break / day off)")
}

func ErrOutsideWorkingHours() *Error {
	return newError(CodeOutsideWorkingHours, "starts_at", "time is outside staff working hours")
}

func ErrInvalidServiceDuration() *Error {
	return newError(CodeInvalidServiceDuration, "service_id", "service duration must be between 5 and 600 minutes")
}
