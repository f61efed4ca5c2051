package ccperrors

import "github.com/pkg/errors"

// Code classifies an error raised by the CCP codec layer.
type Code int

// Error categories. Every error surfaced by the codec packages carries
// exactly one of these.
const (
	// ErrFormat signifies a truncated buffer, a malformed length prefix,
	// or a malformed identifier string.
	ErrFormat Code = iota

	// ErrProtocolMismatch signifies an envelope whose destination does not
	// match the expected CCP message type.
	ErrProtocolMismatch

	// ErrAuthentication signifies a condition or fulfillment that does not
	// match the fixed peer-protocol commitment.
	ErrAuthentication

	// ErrExpired signifies a request whose expiry timestamp is not
	// strictly in the future.
	ErrExpired

	// ErrValidation signifies a structural precondition violated on
	// encode, such as an auth field that is not exactly 32 bytes.
	ErrValidation
)

func (code Code) String() string {
	switch code {
	case ErrFormat:
		return "FormatError"
	case ErrProtocolMismatch:
		return "ProtocolMismatch"
	case ErrAuthentication:
		return "AuthenticationError"
	case ErrExpired:
		return "Expired"
	case ErrValidation:
		return "ValidationError"
	}
	return "unknown error code"
}

// Error is an error that signifies a violation of the CCP peer protocol
// or of the codec's structural preconditions.
type Error struct {
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error.
// Errorf also records the stack trace at the point it was called.
func Errorf(code Code, format string, args ...interface{}) error {
	return &Error{
		Code:  code,
		Cause: errors.Errorf(format, args...),
	}
}

// New returns an error with the supplied message.
// New also records the stack trace at the point it was called.
func New(code Code, message string) error {
	return &Error{
		Code:  code,
		Cause: errors.New(message),
	}
}

// Wrap returns an error annotating err with a stack trace
// at the point Wrap is called, and the supplied message.
func Wrap(code Code, err error, message string) error {
	return &Error{
		Code:  code,
		Cause: errors.Wrap(err, message),
	}
}

// Wrapf returns an error annotating err with a stack trace
// at the point Wrapf is called, and the format specifier.
func Wrapf(code Code, err error, format string, args ...interface{}) error {
	return &Error{
		Code:  code,
		Cause: errors.Wrapf(err, format, args...),
	}
}

// IsCode reports whether err is a codec error carrying the given code.
func IsCode(err error, code Code) bool {
	var ccpErr *Error
	if !errors.As(err, &ccpErr) {
		return false
	}
	return ccpErr.Code == code
}
