package capture

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a capture is requested while another is running.
var ErrBusy = errors.New("capture already in progress")

// Kind classifies a capture failure.
type Kind int

const (
	// KindEnumeration means the platform could not list displays.
	KindEnumeration Kind = iota + 1
	// KindAcquisition means a display could not be captured.
	KindAcquisition
	// KindCompositingBounds means a display would be drawn outside the canvas.
	KindCompositingBounds
	// KindEncoding means the encoder rejected the canvas.
	KindEncoding
)

func (k Kind) String() string {
	switch k {
	case KindEnumeration:
		return "enumeration failure"
	case KindAcquisition:
		return "acquisition failure"
	case KindCompositingBounds:
		return "compositing bounds error"
	case KindEncoding:
		return "encoding error"
	default:
		return "unknown failure"
	}
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrEnumeration       = &Error{Kind: KindEnumeration, Screen: -1}
	ErrAcquisition       = &Error{Kind: KindAcquisition, Screen: -1}
	ErrCompositingBounds = &Error{Kind: KindCompositingBounds, Screen: -1}
	ErrEncoding          = &Error{Kind: KindEncoding, Screen: -1}
)

// Error is a failed capture request. Screen is the display index involved,
// or -1 when the failure is not tied to one display.
type Error struct {
	Kind   Kind
	Screen int
	Err    error
}

func newError(kind Kind, screen int, err error) *Error {
	return &Error{Kind: kind, Screen: screen, Err: err}
}

func (e *Error) Error() string {
	var prefix string
	switch e.Kind {
	case KindEncoding:
		prefix = "couldn't encode buffer"
	default:
		prefix = "couldn't capture displays"
	}
	msg := fmt.Sprintf("%s: %s", prefix, e.Kind)
	if e.Screen >= 0 {
		msg += fmt.Sprintf(" on screen %d", e.Screen)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
