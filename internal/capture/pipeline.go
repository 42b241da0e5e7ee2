package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rviscarra/desktop-capture/internal/composite"
	"github.com/rviscarra/desktop-capture/internal/encoders"
	"github.com/rviscarra/desktop-capture/internal/pixfmt"
	"github.com/rviscarra/desktop-capture/internal/rdisplay"
)

// Image is an encoded capture of every display.
type Image struct {
	ID          uuid.UUID
	Bytes       []byte
	Width       int
	Height      int
	Codec       encoders.ImageCodec
	ContentType string
	Extension   string
	Screens     int
	CapturedAt  time.Time
}

// Result is the outcome of an asynchronous capture.
type Result struct {
	Image *Image
	Err   error
}

// Pipeline runs capture requests: enumerate displays, grab one frame from
// each, stitch them into one canvas and encode it. Requests are serialized;
// the last successful image stays available until the next one replaces it.
type Pipeline struct {
	display  rdisplay.Service
	encoders encoders.Service
	cfg      Config
	log      *slog.Logger

	busy atomic.Bool

	mu      sync.RWMutex
	status  Status
	lastErr error
	message string
	last    *Image

	subMu       sync.Mutex
	nextSub     int
	subscribers map[int]func(Transition)
}

// NewPipeline creates a pipeline in the Ready state.
func NewPipeline(display rdisplay.Service, enc encoders.Service, cfg Config) (*Pipeline, error) {
	if display == nil || enc == nil {
		return nil, errors.New("display and encoder services are required")
	}
	cfg = cfg.withDefaults()
	if !enc.Supports(cfg.Codec) {
		return nil, fmt.Errorf("%w: %s", encoders.ErrCodecNotSupported, encoders.CodecName(cfg.Codec))
	}
	if cfg.TargetFormat != pixfmt.RGB && cfg.TargetFormat != pixfmt.RGBA {
		return nil, fmt.Errorf("unsupported canvas format %s", cfg.TargetFormat)
	}
	return &Pipeline{
		display:     display,
		encoders:    enc,
		cfg:         cfg,
		log:         cfg.Logger,
		status:      Ready,
		subscribers: make(map[int]func(Transition)),
	}, nil
}

// Status returns the current status.
func (p *Pipeline) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// LastError returns the error of the most recent request, nil if it succeeded.
func (p *Pipeline) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Message returns the human-readable outcome of the most recent step.
func (p *Pipeline) Message() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.message
}

// Last returns the most recent successful image, or nil.
func (p *Pipeline) Last() *Image {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Subscribe registers fn for every status transition and returns a function
// that removes it. fn runs on the capturing goroutine and must not block.
func (p *Pipeline) Subscribe(fn func(Transition)) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subscribers, id)
	}
}

// CaptureAsync runs Capture on its own goroutine and delivers the result.
func (p *Pipeline) CaptureAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		img, err := p.Capture(ctx)
		out <- Result{Image: img, Err: err}
		close(out)
	}()
	return out
}

// Capture runs one full request. It returns ErrBusy without touching the
// status when another request is in flight; every other failure is an *Error.
func (p *Pipeline) Capture(ctx context.Context) (*Image, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	id := uuid.New()
	log := p.log.With("request_id", id.String())
	log.Info("capture requested")

	p.transition(id, CapturingDisplays, nil, func() {})
	canvas, screens, err := p.captureDisplays(ctx, log)
	if err != nil {
		return nil, p.fail(id, log, err)
	}
	log.Info("displays captured",
		"screens", screens,
		"width", canvas.Width,
		"height", canvas.Height,
		"origin", canvas.Origin.String())

	p.transition(id, EncodingBuffer, nil, func() {
		p.message = "displays captured without error"
	})
	img, err := p.encode(id, canvas, screens)
	if err != nil {
		return nil, p.fail(id, log, err)
	}
	log.Info("capture encoded", "codec", encoders.CodecName(img.Codec), "bytes", len(img.Bytes))

	p.transition(id, Captured, nil, func() {
		p.last = img
		p.lastErr = nil
		p.message = "buffer encoded without error"
	})
	return img, nil
}

func (p *Pipeline) captureDisplays(ctx context.Context, log *slog.Logger) (*composite.Canvas, int, error) {
	screens, err := p.display.Screens()
	if err != nil {
		return nil, 0, newError(KindEnumeration, -1, err)
	}
	if len(screens) == 0 {
		return nil, 0, newError(KindEnumeration, -1, rdisplay.ErrNoScreens)
	}
	for _, s := range screens {
		if err := s.Validate(); err != nil {
			return nil, 0, newError(KindEnumeration, s.Index, err)
		}
	}

	opts := rdisplay.AcquireOptions{
		PollInterval: p.cfg.PollInterval,
		Timeout:      p.cfg.AcquireTimeout,
	}
	layers := make([]composite.Layer, 0, len(screens))
	for _, s := range screens {
		frame, err := rdisplay.Acquire(ctx, p.display, s, opts)
		if err != nil {
			return nil, 0, newError(KindAcquisition, s.Index, err)
		}
		log.Debug("frame acquired",
			"screen", s.Index,
			"bounds", s.Bounds.String(),
			"stride", frame.Stride,
			"format", frame.Format.String())
		layers = append(layers, composite.Layer{
			Bounds: s.Bounds,
			Pix:    frame.Pix,
			Stride: frame.Stride,
			Format: frame.Format,
		})
	}

	canvas, err := composite.Compose(layers, p.cfg.TargetFormat)
	if err != nil {
		screen := -1
		var boundsErr *composite.BoundsError
		if errors.As(err, &boundsErr) {
			screen = screens[boundsErr.Layer].Index
		}
		return nil, 0, newError(KindCompositingBounds, screen, err)
	}
	return canvas, len(screens), nil
}

func (p *Pipeline) encode(id uuid.UUID, canvas *composite.Canvas, screens int) (*Image, error) {
	enc, err := p.encoders.NewEncoder(p.cfg.Codec)
	if err != nil {
		return nil, newError(KindEncoding, -1, err)
	}
	payload, err := enc.Encode(canvas)
	if err != nil {
		return nil, newError(KindEncoding, -1, err)
	}
	return &Image{
		ID:          id,
		Bytes:       payload,
		Width:       canvas.Width,
		Height:      canvas.Height,
		Codec:       p.cfg.Codec,
		ContentType: enc.ContentType(),
		Extension:   enc.Extension(),
		Screens:     screens,
		CapturedAt:  time.Now(),
	}, nil
}

func (p *Pipeline) fail(id uuid.UUID, log *slog.Logger, err error) error {
	log.Error("capture failed", "error", err)
	p.transition(id, Ready, err, func() {
		p.lastErr = err
		p.message = err.Error()
	})
	return err
}

// transition moves to status to, applying update under the same lock so
// readers never see the new status without its data.
func (p *Pipeline) transition(id uuid.UUID, to Status, err error, update func()) {
	p.mu.Lock()
	from := p.status
	p.status = to
	update()
	p.mu.Unlock()

	t := Transition{RequestID: id, From: from, To: to, Err: err, At: time.Now()}
	p.subMu.Lock()
	subs := make([]func(Transition), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.subMu.Unlock()
	for _, fn := range subs {
		fn(t)
	}
}
