package capture

import (
	"time"

	"github.com/google/uuid"
)

// Status is the progress of the current capture request, as shown to users.
type Status int

const (
	// Ready means no capture is running.
	Ready Status = iota
	// CapturingDisplays covers enumeration, acquisition and compositing.
	CapturingDisplays
	// EncodingBuffer covers serialization of the composited canvas.
	EncodingBuffer
	// Captured means the last request produced an image.
	Captured
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case CapturingDisplays:
		return "capturing_displays"
	case EncodingBuffer:
		return "encoding_buffer"
	case Captured:
		return "captured"
	default:
		return "unknown"
	}
}

// Describe returns the progress text shown next to the capture button.
func (s Status) Describe() string {
	switch s {
	case Ready:
		return "ready to capture!"
	case CapturingDisplays:
		return "capturing displays..."
	case EncodingBuffer:
		return "encoding capture..."
	case Captured:
		return "captured!"
	default:
		return "unknown"
	}
}

// Transition is delivered to subscribers on every status change. Err is set
// when a failed request drops the pipeline back to Ready.
type Transition struct {
	RequestID uuid.UUID
	From      Status
	To        Status
	Err       error
	At        time.Time
}
