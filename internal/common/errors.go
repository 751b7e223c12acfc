package common

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	ValidationError   ErrorKind = iota // Malformed input from the caller
	PreconditionError                  // Operation not legal in the current state
	ResourceError                      // Not enough candidates, persistence failures
	UpstreamError                      // External provider failures
)

var kindNames = map[ErrorKind]string{
	ValidationError:   "validation",
	PreconditionError: "precondition",
	ResourceError:     "resource",
	UpstreamError:     "upstream",
}

func (kind ErrorKind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// Error is the error type returned by the core packages.
// Sentinels are declared as *Error values and compared with errors.Is
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap an error giving it a kind and some context
func Wrap(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in the chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Answers from upstream services
var (
	ErrRateLimited = NewError(UpstreamError, "rate limit exceeded")
	ErrNotFound    = NewError(UpstreamError, "data not found")
)
