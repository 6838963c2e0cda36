package core

import "fmt"

// Kind classifies pipeline failures.
type Kind string

const (
	// KindInvalidInput covers wrong file type, oversize input and unusable
	// URLs. Nothing reaches the repository.
	KindInvalidInput Kind = "invalid_input"
	// KindSourceFetch covers network and read failures while acquiring a
	// source. The canonical record is left untouched.
	KindSourceFetch Kind = "source_fetch"
	// KindSerialization covers persistence encode/decode/write failures.
	// Non-fatal: the in-memory record stays authoritative.
	KindSerialization Kind = "serialization"
	// KindEditWithoutSheet rejects an edit session on an empty repository.
	KindEditWithoutSheet Kind = "edit_without_sheet"
	// KindNoActiveEdit rejects a commit when no edit session is open.
	KindNoActiveEdit Kind = "no_active_edit"
)

// Error is a kinded pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same kind, so errors.Is(err,
// core.ErrInvalidInput) works for every invalid-input failure.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrSourceFetch      = &Error{Kind: KindSourceFetch, Message: "source fetch failed"}
	ErrSerialization    = &Error{Kind: KindSerialization, Message: "serialization failed"}
	ErrEditWithoutSheet = &Error{Kind: KindEditWithoutSheet, Message: "no sheet loaded"}
	ErrNoActiveEdit     = &Error{Kind: KindNoActiveEdit, Message: "no active edit session"}
)

// Errorf builds a kinded error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a kinded error around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
