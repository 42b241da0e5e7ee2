package rdisplay

import (
	"github.com/kbinani/screenshot"
	"github.com/rviscarra/desktop-capture/internal/pixfmt"
)

// ScreenshotProvider implements the rdisplay.Service interface on top of
// github.com/kbinani/screenshot
type ScreenshotProvider struct{}

// ScreenshotGrabber grabs frames of one screen through kbinani/screenshot
type ScreenshotGrabber struct {
	screen Screen
	closed bool
}

// CreateFrameGrabber creates a frame grabber for the given screen
func (*ScreenshotProvider) CreateFrameGrabber(screen Screen) (FrameGrabber, error) {
	if err := screen.Validate(); err != nil {
		return nil, err
	}
	return &ScreenshotGrabber{screen: screen}, nil
}

// Screens returns the active screens in display order
func (*ScreenshotProvider) Screens() ([]Screen, error) {
	numScreens := screenshot.NumActiveDisplays()
	if numScreens <= 0 {
		return nil, ErrNoScreens
	}
	screens := make([]Screen, numScreens)
	for i := 0; i < numScreens; i++ {
		screens[i] = Screen{
			Index:  i,
			Bounds: screenshot.GetDisplayBounds(i),
		}
	}
	return screens, nil
}

// Frame captures the screen bounds. The returned pixels alias the captured
// image, no copy is made.
func (g *ScreenshotGrabber) Frame() (Frame, error) {
	if g.closed {
		return Frame{}, errGrabberClosed
	}
	img, err := screenshot.CaptureRect(g.screen.Bounds)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Pix:    img.Pix,
		Stride: img.Stride,
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
		Format: pixfmt.RGBA,
	}, nil
}

// Screen returns a pointer to the screen we're grabbing
func (g *ScreenshotGrabber) Screen() *Screen {
	return &g.screen
}

// Close releases the grabber
func (g *ScreenshotGrabber) Close() error {
	g.closed = true
	return nil
}

// NewDisplayProvider returns a kbinani/screenshot based display provider
func NewDisplayProvider() (Service, error) {
	return &ScreenshotProvider{}, nil
}
