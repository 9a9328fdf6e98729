// Package errors defines the error vocabulary shared by every layer of
// tinyblockfs, from raw block I/O up through the FileSys API and the wire
// protocol.
package errors

import (
	stderrors "errors"
	"fmt"
)

// FSError is the common interface satisfied by every error this module
// returns. It behaves like a normal Go error but also carries a stable
// numeric Code for the wire protocol, and can be specialized with
// additional context via WithMessage/Wrap without losing its identity:
// errors.Is still matches the Sentinel a value was derived from, and, for
// Wrap, the wrapped cause too.
type FSError interface {
	error
	Code() uint16
	WithMessage(message string) FSError
	Wrap(err error) FSError
}

// -----------------------------------------------------------------------------

// wrappedError is the concrete type produced by Sentinel.WithMessage and
// Sentinel.Wrap. It always unwraps to the Sentinel it was derived from, and
// additionally matches its wrapped cause (if any) via Is, so
// errors.Is(derived, originalCause) and errors.Is(derived, sentinel) both
// hold.
type wrappedError struct {
	sentinel Sentinel
	message  string
	cause    error
}

func (e wrappedError) Error() string {
	return e.message
}

func (e wrappedError) Code() uint16 {
	return e.sentinel.Code()
}

func (e wrappedError) WithMessage(message string) FSError {
	return wrappedError{
		sentinel: e.sentinel,
		message:  fmt.Sprintf("%s: %s", e.message, message),
		cause:    e.cause,
	}
}

func (e wrappedError) Wrap(err error) FSError {
	return wrappedError{
		sentinel: e.sentinel,
		message:  fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		cause:    err,
	}
}

// Is lets errors.Is reach the wrapped cause directly, in addition to the
// normal Unwrap chain (which leads to the originating Sentinel).
func (e wrappedError) Is(target error) bool {
	return e.cause != nil && stderrors.Is(e.cause, target)
}

func (e wrappedError) Unwrap() error {
	return e.sentinel
}

// Code extracts the wire-protocol error code from err, returning
// CodeUnknown if err is nil or doesn't carry one of ours.
func Code(err error) uint16 {
	if err == nil {
		return 0
	}
	if fsErr, ok := err.(FSError); ok {
		return fsErr.Code()
	}
	return CodeUnknown
}
