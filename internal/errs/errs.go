// Package errs carries tagged domain errors and the single mapping from kind to HTTP status.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Repository sentinels, translated into tagged errors by the services.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficient indicates a decrement larger than the stored quantity.
	ErrInsufficient = errors.New("insufficient quantity")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate")
	// ErrOverflow indicates an increment past the largest storable quantity.
	ErrOverflow = errors.New("quantity overflow")
)

// Kind tags an error with the class of failure it represents
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBatchNotFound
	KindInsufficientQuantity
	KindUserNotFound
	KindConflict
	KindUnauthorized
	KindInvalidToken
	KindForbidden
)

var statusByKind = map[Kind]int{
	KindInternal:             http.StatusInternalServerError,
	KindValidation:           http.StatusBadRequest,
	KindBatchNotFound:        http.StatusBadRequest,
	KindInsufficientQuantity: http.StatusBadRequest,
	KindUserNotFound:         http.StatusNotFound,
	KindConflict:             http.StatusConflict,
	KindUnauthorized:         http.StatusUnauthorized,
	KindInvalidToken:         http.StatusUnauthorized,
	KindForbidden:            http.StatusForbidden,
}

var nameByKind = map[Kind]string{
	KindInternal:             "internal",
	KindValidation:           "validation",
	KindBatchNotFound:        "batch_not_found",
	KindInsufficientQuantity: "insufficient_quantity",
	KindUserNotFound:         "user_not_found",
	KindConflict:             "conflict",
	KindUnauthorized:         "unauthorized",
	KindInvalidToken:         "invalid_token",
	KindForbidden:            "forbidden",
}

// String returns the snake_case kind name used in logs.
func (k Kind) String() string {
	if name, ok := nameByKind[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status for a kind.
func Status(k Kind) int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a domain failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New builds a tagged error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a tagged error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a tagged error that keeps the underlying cause for logging.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Error renders kind, message and cause.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the tagged error from a chain, or nil.
func As(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// KindOf returns the kind of err, KindInternal for untagged errors.
func KindOf(err error) Kind {
	if typed := As(err); typed != nil {
		return typed.Kind
	}
	return KindInternal
}
