package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ServiceError for the HTTP layer
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindForbidden
)

// ServiceError is a domain failure the caller can act on.
// Anything that is not a ServiceError is treated as an internal error.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Field   string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Is matches service errors by code so sentinel values work with errors.Is
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

func validationError(field, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: "VALIDATION_ERROR", Field: field, Message: fmt.Sprintf(format, args...)}
}

// Booking and directory failures
var (
	ErrSlotTaken           = &ServiceError{Kind: KindConflict, Code: "SLOT_TAKEN", Message: "This time slot is already booked"}
	ErrClientDoubleBooked  = &ServiceError{Kind: KindConflict, Code: "CLIENT_DOUBLE_BOOKED", Message: "You already have an appointment at this time"}
	ErrCoachUnavailable    = &ServiceError{Kind: KindValidation, Code: "COACH_UNAVAILABLE", Message: "Coach not available on this day"}
	ErrOutsideAvailability = &ServiceError{Kind: KindValidation, Code: "OUTSIDE_AVAILABILITY", Message: "Requested time is outside the coach's available hours"}
	ErrInvalidTransition   = &ServiceError{Kind: KindValidation, Code: "INVALID_TRANSITION", Message: "Appointment cannot move to the requested status"}
	ErrCoachNotFound       = &ServiceError{Kind: KindNotFound, Code: "COACH_NOT_FOUND", Message: "Coach not found"}
	ErrAppointmentNotFound = &ServiceError{Kind: KindNotFound, Code: "APPOINTMENT_NOT_FOUND", Message: "Appointment not found"}
	ErrNotCancellable      = &ServiceError{Kind: KindNotFound, Code: "APPOINTMENT_NOT_FOUND", Message: "Appointment not found or cannot be cancelled"}
	ErrForbidden           = &ServiceError{Kind: KindForbidden, Code: "FORBIDDEN", Message: "You do not have permission to access this appointment"}
)

// User administration failures
var (
	ErrUserNotFound         = &ServiceError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrEmailExists          = &ServiceError{Kind: KindConflict, Code: "EMAIL_EXISTS", Message: "User with this email already exists"}
	ErrSelfModification     = &ServiceError{Kind: KindForbidden, Code: "SELF_MODIFICATION", Message: "You cannot change or delete your own account"}
	ErrCoachHasAppointments = &ServiceError{Kind: KindConflict, Code: "COACH_HAS_APPOINTMENTS", Message: "Cannot delete coach with active appointments. Cancel all appointments first."}
)

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

// isUniqueViolation detects unique constraint failures from both SQLite and PostgreSQL
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
