// Package errors provides structured error types for the spendtrack API.
// Service-layer code returns AppError values so handlers can map failures to
// consistent JSON responses without leaking internals to clients.
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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Anti-forgery errors.
var (
	ErrForgeryToken = &AppError{Code: "FORGERY_TOKEN_MISMATCH", Message: "Anti-forgery token missing or invalid", StatusCode: http.StatusForbidden}
)

// Transaction errors.
var (
	ErrTransactionNotFound      = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrNegativeAmount           = &AppError{Code: "NEGATIVE_AMOUNT", Message: "Amount must be non-negative", StatusCode: http.StatusBadRequest}
	ErrInvalidTransactionStatus = &AppError{Code: "INVALID_TRANSACTION_STATUS", Message: "Status must be earned or spent", StatusCode: http.StatusBadRequest}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryExists   = &AppError{Code: "CATEGORY_EXISTS", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Plan errors.
var (
	ErrPlanNotFound     = &AppError{Code: "PLAN_NOT_FOUND", Message: "Plan not found", StatusCode: http.StatusNotFound}
	ErrInvalidPlanType  = &AppError{Code: "INVALID_PLAN_TYPE", Message: "Plan type must be monthly or custom", StatusCode: http.StatusBadRequest}
	ErrInvalidDateRange = &AppError{Code: "INVALID_DATE_RANGE", Message: "from_date must not be after to_date", StatusCode: http.StatusBadRequest}
)

// Report errors.
var (
	ErrEmptyReport         = &AppError{Code: "EMPTY_REPORT", Message: "No transactions match the report filters", StatusCode: http.StatusBadRequest}
	ErrInvalidReportFormat = &AppError{Code: "INVALID_REPORT_FORMAT", Message: "Report format must be excel or pdf", StatusCode: http.StatusBadRequest}
)
