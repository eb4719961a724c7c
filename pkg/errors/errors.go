package errors

import (
	goErrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(msg string) error {
	return goErrors.New(msg)
}

// contextError annotates an error with the operation that was being
// performed when it occurred.
type contextError struct {
	context string
	err     error
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextError) Unwrap() error {
	return err.err
}

// WithContext wraps `err` with a short description of what was happening
// when it occurred. Returns nil if `err` is nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, err: err}
}

// RootCause strips all context added by WithContext and returns the
// original error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}

// FriendlyError is an error whose message is meant to be shown to users
// as-is, without the context chain.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError using fmt.Sprintf formatting.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{msg: fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message shown to users.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

// Friendly is implemented by errors that know how to describe themselves to
// users.
type Friendly interface {
	FriendlyMessage() string
}

// Is and As are re-exported so that callers don't need to import both
// error packages.
var (
	Is = goErrors.Is
	As = goErrors.As
)
