// Package errz defines the error taxonomy for the bytecode cache.
//
// Every failure in the cache layer is one of three kinds, none of which is
// retried internally: the caller owns the cache-vs-recompile decision.
package errz

import (
	"errors"
	"fmt"
)

// Kind represents the category of a cache error.
type Kind int

const (
	// ExhaustedLog indicates peek or pop was called on a recording with no
	// actions remaining: the replayed load sequence is longer than the
	// recorded one.
	ExhaustedLog Kind = iota
	// MalformedStream indicates framing, decompression, or structural
	// decode failure in a cached byte stream.
	MalformedStream
	// CorruptIndex indicates a dense index pointing outside its table's
	// bounds during decode. Treated identically to MalformedStream by
	// callers: the artifact must be discarded.
	CorruptIndex
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case ExhaustedLog:
		return "exhausted log"
	case MalformedStream:
		return "malformed stream"
	case CorruptIndex:
		return "corrupt index"
	default:
		return "error"
	}
}

// Error is a cache error with a kind and an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind carrying an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind reports whether err is (or wraps) a cache error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
