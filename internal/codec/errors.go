package codec

import (
	"errors"
	"fmt"
)

// Kind classifies codec failures.
type Kind uint8

const (
	KindUnknownFormat Kind = iota + 1
	KindMalformedInput
	KindExecutionLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindUnknownFormat:
		return "unknown_format"
	case KindMalformedInput:
		return "malformed_input"
	case KindExecutionLimitExceeded:
		return "execution_limit_exceeded"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

var (
	// ErrUnknownFormat matches errors for unsupported format identifiers.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrMalformedInput matches errors for text that violates a format's grammar.
	ErrMalformedInput = errors.New("malformed input")
	// ErrExecutionLimitExceeded matches Brainfuck programs stopped by the step limit.
	ErrExecutionLimitExceeded = errors.New("execution limit exceeded")
	// ErrInvalidLength is the MalformedInput variant for fixed-width radix
	// input whose cleaned length is not a multiple of the group width.
	ErrInvalidLength = errors.New("invalid length")
)

// Error is returned by every failing codec operation.
type Error struct {
	Kind   Kind
	Format Format
	// Name is the requested identifier for KindUnknownFormat.
	Name   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindUnknownFormat {
		return fmt.Sprintf("unknown format: %q", e.Name)
	}
	return fmt.Sprintf("%s decode failed: %s", e.Format, e.Reason)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindUnknownFormat:
		errs = append(errs, ErrUnknownFormat)
	case KindMalformedInput:
		errs = append(errs, ErrMalformedInput)
	case KindExecutionLimitExceeded:
		errs = append(errs, ErrExecutionLimitExceeded)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a codec error, or zero when err is not one.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

func unknownFormat(name string) *Error {
	return &Error{Kind: KindUnknownFormat, Name: name}
}

func malformed(f Format, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedInput, Format: f, Reason: fmt.Sprintf(format, args...)}
}

func malformedErr(f Format, err error) *Error {
	return &Error{Kind: KindMalformedInput, Format: f, Reason: err.Error(), Err: err}
}

func invalidLength(f Format, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedInput, Format: f, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidLength}
}
