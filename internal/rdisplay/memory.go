package rdisplay

import (
	"fmt"
	"sync"
)

// MemoryScreen is a screen served by MemoryProvider.
type MemoryScreen struct {
	Screen Screen
	Frame  Frame
	// NotReady is how many ErrWouldBlock replies precede the frame.
	NotReady int
	// Err, when set, is returned by Frame instead of the frame.
	Err error
	// OpenErr, when set, is returned by CreateFrameGrabber.
	OpenErr error
}

// MemoryProvider is an rdisplay.Service backed by prepared frames. It
// records how often each screen was polled and whether its grabbers were
// closed.
type MemoryProvider struct {
	ScreensErr error

	mu      sync.Mutex
	screens []MemoryScreen
	polls   map[int]int
	open    map[int]int
}

// NewMemoryProvider returns a provider serving the given screens in order
func NewMemoryProvider(screens ...MemoryScreen) *MemoryProvider {
	return &MemoryProvider{
		screens: screens,
		polls:   make(map[int]int),
		open:    make(map[int]int),
	}
}

// Screens returns the configured screens
func (m *MemoryProvider) Screens() ([]Screen, error) {
	if m.ScreensErr != nil {
		return nil, m.ScreensErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.screens) == 0 {
		return nil, ErrNoScreens
	}
	out := make([]Screen, len(m.screens))
	for i, s := range m.screens {
		out[i] = s.Screen
	}
	return out, nil
}

// CreateFrameGrabber opens a grabber on a configured screen
func (m *MemoryProvider) CreateFrameGrabber(screen Screen) (FrameGrabber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.screens {
		if m.screens[i].Screen.Index != screen.Index {
			continue
		}
		if m.screens[i].OpenErr != nil {
			return nil, m.screens[i].OpenErr
		}
		m.open[screen.Index]++
		return &memoryGrabber{provider: m, screen: m.screens[i].Screen}, nil
	}
	return nil, fmt.Errorf("unknown screen %d", screen.Index)
}

// Polls returns how many times Frame was called for the screen
func (m *MemoryProvider) Polls(index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls[index]
}

// OpenGrabbers returns how many grabbers of the screen are not closed
func (m *MemoryProvider) OpenGrabbers(index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open[index]
}

type memoryGrabber struct {
	provider *MemoryProvider
	screen   Screen
	closed   bool
}

func (g *memoryGrabber) Frame() (Frame, error) {
	m := g.provider
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.closed {
		return Frame{}, errGrabberClosed
	}
	m.polls[g.screen.Index]++
	for _, s := range m.screens {
		if s.Screen.Index != g.screen.Index {
			continue
		}
		if s.Err != nil {
			return Frame{}, s.Err
		}
		if m.polls[g.screen.Index] <= s.NotReady {
			return Frame{}, ErrWouldBlock
		}
		return s.Frame, nil
	}
	return Frame{}, fmt.Errorf("unknown screen %d", g.screen.Index)
}

func (g *memoryGrabber) Screen() *Screen {
	return &g.screen
}

func (g *memoryGrabber) Close() error {
	m := g.provider
	m.mu.Lock()
	defer m.mu.Unlock()
	if !g.closed {
		g.closed = true
		m.open[g.screen.Index]--
	}
	return nil
}
