package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DatabaseError so callers can branch with errors.Is
// instead of parsing messages.
type ErrorKind int

const (
	KindInvalidDbHeader ErrorKind = iota
	KindInvalidVarint
	KindUnexpectedType
	KindTableDoesNotExist
	KindColumnDoesNotExist
	KindIO
	KindText
)

// Sentinel values for errors.Is comparisons; Is compares by Kind only, so
// these match any concrete DatabaseError of the same kind regardless of
// message or cause.
var (
	ErrInvalidDbHeader    = &DatabaseError{Kind: KindInvalidDbHeader}
	ErrInvalidVarint      = &DatabaseError{Kind: KindInvalidVarint}
	ErrUnexpectedType     = &DatabaseError{Kind: KindUnexpectedType}
	ErrTableDoesNotExist  = &DatabaseError{Kind: KindTableDoesNotExist}
	ErrColumnDoesNotExist = &DatabaseError{Kind: KindColumnDoesNotExist}
)

// DatabaseError is the one error-wrapping type used throughout this module:
// an operation label, an optional cause, and a context map for diagnostics.
type DatabaseError struct {
	Kind      ErrorKind
	Operation string
	Message   string
	Err       error
	Context   map[string]interface{}
}

func (e *DatabaseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Context == nil {
		return fmt.Sprintf("%s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("%s: %s (context: %+v)", e.Operation, msg, e.Context)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func (e *DatabaseError) Is(target error) bool {
	other, ok := target.(*DatabaseError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newDatabaseError(kind ErrorKind, operation, message string, cause error, ctx map[string]interface{}) *DatabaseError {
	return &DatabaseError{Kind: kind, Operation: operation, Message: message, Err: cause, Context: ctx}
}

func invalidDbHeader(message string) error {
	return newDatabaseError(KindInvalidDbHeader, "parse header", message, nil, nil)
}

func invalidVarint() error {
	return newDatabaseError(KindInvalidVarint, "read varint", "truncated or malformed varint", nil, nil)
}

func unexpectedType(operation string, expected, actual FieldKind) error {
	return newDatabaseError(KindUnexpectedType, operation, fmt.Sprintf("expected %s, got %s", expected, actual), nil, nil)
}

func tableDoesNotExist(name string) error {
	return newDatabaseError(KindTableDoesNotExist, "resolve table", fmt.Sprintf("table %q does not exist", name), nil, map[string]interface{}{"table": name})
}

func columnDoesNotExist(table, name string) error {
	return newDatabaseError(KindColumnDoesNotExist, "resolve column", fmt.Sprintf("column %q does not exist on table %q", name, table), nil, map[string]interface{}{"table": table, "column": name})
}

func wrapIO(operation string, err error) error {
	return newDatabaseError(KindIO, operation, "", err, nil)
}

func wrapText(operation string, err error) error {
	return newDatabaseError(KindText, operation, "", err, nil)
}

// isKind reports whether err is (or wraps) a DatabaseError of the given kind.
func isKind(err error, kind ErrorKind) bool {
	var de *DatabaseError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
