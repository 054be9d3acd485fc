package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Stable error codes. Callers match on these, do not change casually.
const (
	CodeValidationFailed   = "validation_failed"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeStoreUnavailable   = "store_unavailable"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeHashFailed         = "hash_failed"
	CodeTokenInvalid       = "token_invalid"
	CodeTokenSignFailed    = "token_sign_failed"
	CodeInvalidJSON        = "invalid_json"
	CodeInternal           = "internal_error"
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code
// - Message: safe summary for clients (never store diagnostics)
// - Meta: optional details (field, constraint, etc.)
// - Cause: wrapped internal error for logging only
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is a domain error carrying code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation (400)
// ----------------------

func ErrValidationFailed(msg string) *Error {
	return New(KindValidation, CodeValidationFailed, msg)
}

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, CodeInvalidJSON, "invalid request body", cause)
}

// ----------------------
// Auth (401)
// ----------------------

// ErrInvalidCredentials is returned for unknown email and wrong password alike.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, CodeInvalidCredentials, "invalid email or password")
}

func ErrUnauthenticated() *Error {
	return New(KindAuth, CodeUnauthenticated, "authentication required")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, CodeTokenInvalid, "invalid session token")
}

// ----------------------
// Not found (404)
// ----------------------

func ErrNotFound(entity string) *Error {
	return WithMeta(New(KindNotFound, CodeNotFound, entity+" not found"), map[string]string{
		"entity": entity,
	})
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrDuplicateEmail(cause error) *Error {
	return Wrap(KindConflict, CodeDuplicateEmail, "email already registered", cause)
}

func ErrConflict(constraint string, cause error) *Error {
	return WithMeta(Wrap(KindConflict, CodeConflict, "constraint violation", cause), map[string]string{
		"constraint": constraint,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrStoreUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeStoreUnavailable, "database error", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, CodeHashFailed, "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, CodeTokenSignFailed, "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, CodeInternal, "internal error", cause)
}
