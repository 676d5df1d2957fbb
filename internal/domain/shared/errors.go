package shared

import (
	"errors"
	"fmt"
)

// Error codes shared across bounded contexts
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodeConcurrency        = "CONCURRENCY_CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeLockNotObtained    = "LOCK_NOT_OBTAINED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrLockNotObtained     = NewDomainError(CodeLockNotObtained, "Resource is busy, retry later")
	ErrServiceUnavailable  = NewDomainError(CodeServiceUnavailable, "Service temporarily unavailable")
)

// NewNotFoundError reports a missing resource by name
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewDuplicateError reports a unique key collision, e.g. "menu code ADMIN already exists"
func NewDuplicateError(resource, key string) *DomainError {
	return NewDomainError(CodeAlreadyExists, fmt.Sprintf("%s %s already exists", resource, key))
}

// NewValidationError reports invalid input
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// NewStateError reports an operation that the current status does not allow
func NewStateError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidState, fmt.Sprintf(format, args...))
}

// HasCode reports whether err is a DomainError carrying code
func HasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
