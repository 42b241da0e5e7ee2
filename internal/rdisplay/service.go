package rdisplay

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/rviscarra/desktop-capture/internal/pixfmt"
)

var (
	// ErrWouldBlock is returned by FrameGrabber.Frame when no frame is ready yet.
	ErrWouldBlock = errors.New("frame not ready")
	// ErrNoScreens is returned by Service.Screens when no display is attached.
	ErrNoScreens = errors.New("no active displays")
)

// FrameGrabber grabs single frames from one screen
type FrameGrabber interface {
	io.Closer
	Frame() (Frame, error)
	Screen() *Screen
}

// Screen is one attached display and its absolute position on the desktop
type Screen struct {
	Index  int
	Bounds image.Rectangle
}

// Validate rejects screens without area.
func (s Screen) Validate() error {
	if s.Bounds.Dx() <= 0 || s.Bounds.Dy() <= 0 {
		return fmt.Errorf("screen %d has no area: %v", s.Index, s.Bounds)
	}
	return nil
}

// Frame is a raw capture of one screen. Pix holds Height rows of Stride
// bytes each; only the first Width pixels of every row are visible.
type Frame struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
	Format pixfmt.Format
}

// Validate checks the stride and length invariants of the frame.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame has no area: %dx%d", f.Width, f.Height)
	}
	if err := f.Format.Validate(); err != nil {
		return err
	}
	if f.Stride < f.Format.RowBytes(f.Width) {
		return fmt.Errorf("stride %d shorter than %d %s pixels", f.Stride, f.Width, f.Format)
	}
	if len(f.Pix) != f.Stride*f.Height {
		return fmt.Errorf("frame holds %d bytes, want stride %d x height %d", len(f.Pix), f.Stride, f.Height)
	}
	return nil
}

// Service enumerates screens and opens grabbers on them
type Service interface {
	CreateFrameGrabber(screen Screen) (FrameGrabber, error)
	Screens() ([]Screen, error)
}
