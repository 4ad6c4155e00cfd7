package shared

// ErrorKind classifies a domain error so callers can decide how to react
// (and the HTTP layer can pick a status code) without string matching.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindValidation   ErrorKind = "VALIDATION"
	KindConflict     ErrorKind = "CONFLICT"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindUnexpected   ErrorKind = "UNEXPECTED"
)

// DomainError represents an expected business failure. Handlers return it,
// they never panic with it; only infrastructure faults travel as plain errors.
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error with an explicit kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// NewNotFoundError creates a NotFound error
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewValidationError creates a Validation error
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewConflictError creates a Conflict error
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// KindOf returns the kind of err if it is a DomainError, KindUnexpected otherwise.
func KindOf(err error) ErrorKind {
	if de, ok := err.(*DomainError); ok {
		return de.Kind
	}
	return KindUnexpected
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrTenantNotFound      = NewNotFoundError("TENANT_NOT_FOUND", "Tenant not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(KindUnauthorized, "UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewConflictError("INVALID_STATE", "Operation not allowed in current state")
	ErrReasonRequired      = NewValidationError("REASON_REQUIRED", "A reason is required for this operation")
)
