package dto

import "net/http"

// Stable API error codes. Handlers respond with these; domain error codes
// are normalized via NormalizeErrorCode before they reach the wire.
const (
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeBadRequest     = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeConflict       = "ERR_CONFLICT"
	ErrCodeAlreadyExists  = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState   = "ERR_INVALID_STATE"
	ErrCodeRateLimited    = "ERR_RATE_LIMITED"
	ErrCodeUnavailable    = "ERR_UNAVAILABLE"
	ErrCodeInternal       = "ERR_INTERNAL"
	ErrCodeRunInProgress  = "ERR_RUN_IN_PROGRESS"
	ErrCodeTenantInactive = "ERR_TENANT_INACTIVE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeAlreadyExists:  http.StatusConflict,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeRateLimited:    http.StatusTooManyRequests,
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeRunInProgress:  http.StatusConflict,
	ErrCodeTenantInactive: http.StatusUnprocessableEntity,
}

// domainCodeMapping translates domain error codes into API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeValidation,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code into the stable API code.
// Unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainCodeMapping[code]; ok {
		return normalized
	}
	return code
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
