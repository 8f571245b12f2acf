// Package ormerr defines the error kinds raised while resolving metadata and
// translating expressions, before anything reaches the transport layer.
package ormerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a translation-time failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindUnsupportedExpression
	KindInvalidMemberReference
	KindUnsupportedOption
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsupportedExpression:
		return "unsupported expression"
	case KindInvalidMemberReference:
		return "invalid member reference"
	case KindUnsupportedOption:
		return "unsupported option"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. Every *Error matches its sentinel with errors.Is.
var (
	ErrInvalidArgument        = errors.New("minorm: invalid argument")
	ErrUnsupportedExpression  = errors.New("minorm: unsupported expression")
	ErrInvalidMemberReference = errors.New("minorm: invalid member reference")
	ErrUnsupportedOption      = errors.New("minorm: unsupported option")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindUnsupportedExpression:
		return ErrUnsupportedExpression
	case KindInvalidMemberReference:
		return ErrInvalidMemberReference
	case KindUnsupportedOption:
		return ErrUnsupportedOption
	default:
		return nil
	}
}

// Error is a structured translation error.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "visitor.Translate".
	Op  string
	Msg string
	// Err is an optional underlying cause.
	Err error
}

// Error returns the error string.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("minorm: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a nil, absent or malformed required input.
func InvalidArgument(op, format string, args ...any) *Error {
	return newError(KindInvalidArgument, op, format, args...)
}

// UnsupportedExpression reports an expression shape with no SQL equivalent.
func UnsupportedExpression(op, format string, args ...any) *Error {
	return newError(KindUnsupportedExpression, op, format, args...)
}

// InvalidMemberReference reports a member that cannot be resolved against the target entity.
func InvalidMemberReference(op, format string, args ...any) *Error {
	return newError(KindInvalidMemberReference, op, format, args...)
}

// UnsupportedOption reports a feature requested against a dialect that lacks it.
func UnsupportedOption(op, format string, args ...any) *Error {
	return newError(KindUnsupportedOption, op, format, args...)
}

// KindOf returns the Kind of the first *Error found in err's chain.
// Errors aggregated by AsyncError are searched too.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is kind helpers.

func IsInvalidArgument(err error) bool        { return errors.Is(err, ErrInvalidArgument) }
func IsUnsupportedExpression(err error) bool  { return errors.Is(err, ErrUnsupportedExpression) }
func IsInvalidMemberReference(err error) bool { return errors.Is(err, ErrInvalidMemberReference) }
func IsUnsupportedOption(err error) bool      { return errors.Is(err, ErrUnsupportedOption) }
