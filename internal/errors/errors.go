// Package errors provides custom error types for the Ledgercast API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Details, when set, is serialized into the response body so clients
// can act on structured conflict information.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
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

// WithDetails creates a new AppError carrying structured details that
// are included in the response body.
func WithDetails(sentinel *AppError, details interface{}) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Details:    details,
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

// Workbook errors.
var (
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrSubcategoryNotFound = &AppError{Code: "SUBCATEGORY_NOT_FOUND", Message: "Subcategory not found", StatusCode: http.StatusNotFound}
	ErrRowNotFound         = &AppError{Code: "ROW_NOT_FOUND", Message: "Financial row not found", StatusCode: http.StatusNotFound}
	ErrCalculatedCategory  = &AppError{Code: "CALCULATED_CATEGORY", Message: "Calculated categories cannot hold rows or values", StatusCode: http.StatusBadRequest}
	ErrRowInUse            = &AppError{Code: "ROW_IN_USE", Message: "Row is targeted by an active forecast or scenario", StatusCode: http.StatusConflict}
	ErrInvalidFormula      = &AppError{Code: "INVALID_FORMULA", Message: "Category formula cannot be evaluated", StatusCode: http.StatusBadRequest}
)

// Forecast and scenario errors.
var (
	ErrRecordNotFound    = &AppError{Code: "RECORD_NOT_FOUND", Message: "Forecast or scenario not found", StatusCode: http.StatusNotFound}
	ErrOverlapConflict   = &AppError{Code: "OVERLAP_CONFLICT", Message: "Another active record targets the same accounts in an overlapping period", StatusCode: http.StatusConflict}
	ErrUnsupportedMethod = &AppError{Code: "UNSUPPORTED_METHOD", Message: "Projection method has no backing calculation", StatusCode: http.StatusBadRequest}
	ErrInvalidDateRange  = &AppError{Code: "INVALID_DATE_RANGE", Message: "End date must not precede start date", StatusCode: http.StatusBadRequest}
	ErrMissingParameter  = &AppError{Code: "MISSING_PARAMETER", Message: "Projection method parameter is missing", StatusCode: http.StatusBadRequest}
)

// Quote errors.
var (
	ErrQuoteNotFound    = &AppError{Code: "QUOTE_NOT_FOUND", Message: "Quote not found", StatusCode: http.StatusNotFound}
	ErrQuoteNotEditable = &AppError{Code: "QUOTE_NOT_EDITABLE", Message: "Only draft quotes can be edited", StatusCode: http.StatusBadRequest}
)
