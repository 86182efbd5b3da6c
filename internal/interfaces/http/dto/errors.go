package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were created with.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeNoCoverage   = "NO_COVERAGE"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeRouteMissing = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation -> 400
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Lookups
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeNoCoverage:   http.StatusNotFound,
	ErrCodeRouteMissing: http.StatusNotFound,

	// Conflicts -> 409
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"VERSION_CONFLICT":        http.StatusConflict,
	"IN_USE":                  http.StatusConflict,

	// Business rules -> 422
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"NO_CAPACITY":        http.StatusUnprocessableEntity,
	"CAPACITY_INVARIANT": http.StatusUnprocessableEntity,

	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code. Codes missing from
// the table fall back on their shape: INVALID_* and *_REQUIRED are client
// input errors, OPTIMISTIC_LOCK_* are conflicts, anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"), strings.HasSuffix(code, "_REQUIRED"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "OPTIMISTIC_LOCK"):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
