// Package errors provides custom error types for the API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Structure errors.
var (
	ErrStructureNotFound    = &AppError{Code: "STRUCTURE_NOT_FOUND", Message: "Structure not found", StatusCode: http.StatusNotFound}
	ErrStructureNotBuilding = &AppError{Code: "STRUCTURE_NOT_BUILDING", Message: "Structure can only be edited while building", StatusCode: http.StatusConflict}
	ErrInvalidTransition    = &AppError{Code: "INVALID_TRANSITION", Message: "Structure status can only advance forward", StatusCode: http.StatusConflict}
	ErrStructureHasNoLegs   = &AppError{Code: "STRUCTURE_HAS_NO_LEGS", Message: "Structure has no legs", StatusCode: http.StatusBadRequest}
	ErrStructureNotActive   = &AppError{Code: "STRUCTURE_NOT_ACTIVE", Message: "Structure is not active", StatusCode: http.StatusConflict}
)

// Roll errors.
var (
	ErrRollNotFound   = &AppError{Code: "ROLL_NOT_FOUND", Message: "Roll not found", StatusCode: http.StatusNotFound}
	ErrRollValidation = &AppError{Code: "ROLL_VALIDATION", Message: "Roll has validation errors", StatusCode: http.StatusBadRequest}
)

// Exercise errors.
var (
	ErrExerciseNotFound  = &AppError{Code: "EXERCISE_NOT_FOUND", Message: "Exercise not found", StatusCode: http.StatusNotFound}
	ErrNoLegsSelected    = &AppError{Code: "NO_LEGS_SELECTED", Message: "At least one leg must be selected for exercise", StatusCode: http.StatusBadRequest}
	ErrNoExercisableLegs = &AppError{Code: "NO_EXERCISABLE_LEGS", Message: "Selected legs contain no exercisable options", StatusCode: http.StatusBadRequest}
)

// Treasury errors.
var (
	ErrAssetNotFound         = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrCashFlowEntryNotFound = &AppError{Code: "CASH_FLOW_ENTRY_NOT_FOUND", Message: "Cash flow entry not found", StatusCode: http.StatusNotFound}
)

// Operation import errors.
var (
	ErrOperationNotFound = &AppError{Code: "OPERATION_NOT_FOUND", Message: "Operation not found", StatusCode: http.StatusNotFound}
	ErrImportRejected    = &AppError{Code: "IMPORT_REJECTED", Message: "CSV import contains invalid rows", StatusCode: http.StatusBadRequest}
)
