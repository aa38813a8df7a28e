package dto

import "net/http"

// Error codes produced by the HTTP layer itself. Domain codes such as
// NOT_FOUND or COUPON_EXPIRED come from the domain packages unchanged.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTimeout      = "REQUEST_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Malformed requests -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Well-formed but invalid input -> 422 Unprocessable Entity
	"VALIDATION_ERROR":       http.StatusUnprocessableEntity,
	"INVALID_INPUT":          http.StatusUnprocessableEntity,
	"ORDER_BELOW_MINIMUM":    http.StatusUnprocessableEntity,
	"UNSUPPORTED_RESTORE":    http.StatusUnprocessableEntity,
	"IDEMPOTENCY_KEY_REUSED": http.StatusUnprocessableEntity,

	// State conflicts -> 409 Conflict
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusConflict,
	"INSUFFICIENT_STOCK":   http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"COUPON_EXHAUSTED":     http.StatusConflict,
	"COUPON_EXPIRED":       http.StatusConflict,
	"COUPON_NOT_STARTED":   http.StatusConflict,
	"COUPON_INACTIVE":      http.StatusConflict,
	"CHECKOUT_IN_PROGRESS": http.StatusConflict,

	// Missing resources -> 404 Not Found
	"NOT_FOUND":        http.StatusNotFound,
	"COUPON_NOT_FOUND": http.StatusNotFound,

	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:      http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
