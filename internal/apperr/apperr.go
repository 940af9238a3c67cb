// Package apperr defines the typed error taxonomy services return.
// Handlers translate each Kind to an HTTP status; services never map
// errors to transport concerns themselves.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation: malformed or missing input. No storage mutation occurred.
	Validation Kind = iota + 1
	// NotFound: a referenced entity does not exist.
	NotFound
	// Conflict: the operation would violate a business invariant
	// (delete-with-references, duplicate unique key, last active admin).
	Conflict
	// InsufficientStock: sale creation only. Carries product name and
	// the quantity actually available.
	InsufficientStock
	// Auth: login or permission failure.
	Auth
)

// Error is the concrete error type for every failure a service reports.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause

	// Set only when Kind == InsufficientStock.
	Product   string
	Available int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

func Authf(format string, args ...interface{}) *Error {
	return &Error{Kind: Auth, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockErr reports that product has only available units left.
func InsufficientStockErr(product string, available int) *Error {
	return &Error{
		Kind:      InsufficientStock,
		Msg:       fmt.Sprintf("insufficient stock for %s: %d available", product, available),
		Product:   product,
		Available: available,
	}
}

// Wrap attaches a cause to a typed error without losing the Kind.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
