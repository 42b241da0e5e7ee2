package capture

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/rviscarra/desktop-capture/internal/composite"
)

func TestError_MatchesSentinelByKind(t *testing.T) {
	sentinels := map[Kind]error{
		KindEnumeration:       ErrEnumeration,
		KindAcquisition:       ErrAcquisition,
		KindCompositingBounds: ErrCompositingBounds,
		KindEncoding:          ErrEncoding,
	}

	for kind := range sentinels {
		err := fmt.Errorf("request: %w", newError(kind, 0, errors.New("cause")))
		for other, sentinel := range sentinels {
			if got := errors.Is(err, sentinel); got != (other == kind) {
				t.Errorf("%v matched %v sentinel: %v", kind, other, got)
			}
		}
	}
}

func TestError_UnwrapsBoundsError(t *testing.T) {
	cause := &composite.BoundsError{Layer: 1, Bounds: image.Rect(0, 0, 4, 4), Reason: "buffer too small"}
	err := newError(KindCompositingBounds, 3, cause)

	var boundsErr *composite.BoundsError
	if !errors.As(err, &boundsErr) || boundsErr != cause {
		t.Error("BoundsError not reachable through errors.As")
	}
}

func TestError_Message(t *testing.T) {
	testCases := []struct {
		err  *Error
		want string
	}{
		{newError(KindEnumeration, -1, errors.New("no displays")), "couldn't capture displays: enumeration failure: no displays"},
		{newError(KindAcquisition, 2, errors.New("lost")), "couldn't capture displays: acquisition failure on screen 2: lost"},
		{newError(KindEncoding, -1, errors.New("short buffer")), "couldn't encode buffer: encoding error: short buffer"},
	}
	for _, tc := range testCases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
	if !strings.Contains(ErrCompositingBounds.Error(), "compositing bounds error") {
		t.Errorf("sentinel message: %q", ErrCompositingBounds.Error())
	}
}

func TestStatus_Text(t *testing.T) {
	want := map[Status]string{
		Ready:             "ready to capture!",
		CapturingDisplays: "capturing displays...",
		EncodingBuffer:    "encoding capture...",
		Captured:          "captured!",
	}
	for s, text := range want {
		if s.Describe() != text {
			t.Errorf("%v: got %q, want %q", s, s.Describe(), text)
		}
	}
}
