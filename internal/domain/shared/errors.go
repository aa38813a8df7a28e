package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so that errors
// enriched with details still match the package-level sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy of the error carrying the given details.
func (e *DomainError) WithDetails(details map[string]any) *DomainError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &DomainError{Code: e.Code, Message: e.Message, Details: merged}
}

// AsDomainError unwraps err into a DomainError if it is one
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDomainErrorCode reports whether err is a DomainError with the given code
func IsDomainErrorCode(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a caller-fixable input error
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewConflictError reports a stale version token for the given resource.
func NewConflictError(resource string, id any, currentVersion int) *DomainError {
	return ErrConcurrencyConflict.WithDetails(map[string]any{
		"resource":        resource,
		"id":              fmt.Sprint(id),
		"current_version": currentVersion,
	})
}

// NewInsufficientStockError reports an export that exceeds available stock.
func NewInsufficientStockError(productID any, requested, available int) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock: requested %d, available %d", requested, available),
		Details: map[string]any{
			"product_id": fmt.Sprint(productID),
			"requested":  requested,
			"available":  available,
		},
	}
}

// Error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeUnsupportedRestore  = "UNSUPPORTED_RESTORE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeAlreadyExists       = "ALREADY_EXISTS"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "stale data, reload before retrying")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrUnsupportedRestore  = NewDomainError(CodeUnsupportedRestore, "Only updated history entries can be restored")
)
