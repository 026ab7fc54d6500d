package dto

import (
	"net/http"
	"strings"
)

// General error codes used by handlers and middleware
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from this map fall back to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	"ALREADY_EXISTS":       http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"TOKEN_EXPIRED":     http.StatusUnauthorized,
	"TOKEN_INVALID":     http.StatusUnauthorized,
	"TOKEN_REVOKED":     http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH": http.StatusUnauthorized,
	"TOKEN_ERROR":       http.StatusUnauthorized,

	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"APPROVAL_PENDING":    http.StatusForbidden,

	"SCHEDULE_MISMATCH":  http.StatusUnprocessableEntity,
	"LAST_INSTALLMENT":   http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"CONTACT_UNFOLLOWED": http.StatusUnprocessableEntity,
	"OUTBOX_NOT_DEAD":    http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code. Validation
// style codes (INVALID_*) map to 400; anything unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
