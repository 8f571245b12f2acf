package ormerr

import (
	"errors"
	"strings"
)

// AsyncError aggregates the errors delivered by an asynchronous call.
// The wrapped errors keep their kind: errors.Is(asyncErr, ErrUnsupportedOption)
// holds whenever one of them is an UnsupportedOption error.
type AsyncError struct {
	Op   string
	Errs []error
}

// NewAsyncError wraps errs. Nil entries are dropped; nil is returned when
// nothing remains.
func NewAsyncError(op string, errs ...error) error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &AsyncError{Op: op, Errs: kept}
}

// Error returns the error string.
func (e *AsyncError) Error() string {
	var sb strings.Builder
	sb.WriteString("minorm: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString("one or more errors occurred")
	for _, err := range e.Errs {
		sb.WriteString("; ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *AsyncError) Unwrap() []error { return e.Errs }

// IsAsync reports whether err was delivered through an asynchronous path.
func IsAsync(err error) bool {
	var e *AsyncError
	return errors.As(err, &e)
}
