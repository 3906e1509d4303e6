package utils

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the codecs. Match them with errors.Is.
var (
	ErrMalformedSignature = errors.New("malformed signature")
	ErrUnknownVersion     = errors.New("unknown version")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSizeMismatch       = errors.New("size mismatch")
	ErrPrematureEOS       = errors.New("premature end of stream")
	ErrInconsistentState  = errors.New("inconsistent state")
)

// CodecError is a failure of one decode or encode step.
type CodecError struct {
	Kind   error  // One of the Err* kinds above.
	Msg    string // Details such as the offending field and value.
	Offset int64  // Absolute stream offset of the failing item, -1 if unknown.
	trace  []string
}

// NewError creates a CodecError of the given kind.
func NewError(kind error, format string, args ...any) error {
	return &CodecError{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Offset: -1,
	}
}

// Error returns the kind, message, offset and the contexts the error passed through.
func (e *CodecError) Error() string {
	sb := new(strings.Builder)
	sb.WriteString("goflv: ")
	sb.WriteString(e.Kind.Error())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(sb, " at offset %d", e.Offset)
	}
	if len(e.trace) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(e.trace, " < "))
		sb.WriteString("]")
	}
	return sb.String()
}

// Unwrap exposes the kind to errors.Is.
func (e *CodecError) Unwrap() error {
	return e.Kind
}

// Trace returns the contexts recorded by Track, innermost first.
func (e *CodecError) Trace() []string {
	return append([]string(nil), e.trace...)
}

// Track records ctx on a CodecError. Other errors are returned unchanged.
func Track(err error, ctx string) error {
	var ce *CodecError
	if err == nil || !errors.As(err, &ce) {
		return err
	}
	cp := *ce
	cp.trace = append(append([]string(nil), ce.trace...), ctx)
	return &cp
}

// WithOffset attaches an absolute stream offset unless one is already set.
func WithOffset(err error, offset int64) error {
	var ce *CodecError
	if err == nil || !errors.As(err, &ce) || ce.Offset >= 0 {
		return err
	}
	cp := *ce
	cp.Offset = offset
	return &cp
}
