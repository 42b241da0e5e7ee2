package rdisplay

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultPollInterval matches a 60 Hz capture cadence.
const DefaultPollInterval = time.Second / 60

var errGrabberClosed = errors.New("frame grabber closed")

// AcquireOptions tune the frame acquisition loop
type AcquireOptions struct {
	// PollInterval is the sleep between "not ready" attempts.
	// Zero selects DefaultPollInterval.
	PollInterval time.Duration
	// Timeout bounds the whole loop. Zero waits forever.
	Timeout time.Duration
}

// Acquire opens a grabber on screen and blocks until it yields one frame.
//
// ErrWouldBlock replies are retried every PollInterval; any other error ends
// the loop. The grabber is closed before Acquire returns, whatever the outcome.
func Acquire(ctx context.Context, svc Service, screen Screen, opts AcquireOptions) (frame Frame, err error) {
	if err := screen.Validate(); err != nil {
		return Frame{}, err
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	grabber, err := svc.CreateFrameGrabber(screen)
	if err != nil {
		return Frame{}, fmt.Errorf("open grabber: %w", err)
	}
	defer func() {
		if cerr := grabber.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close grabber: %w", cerr)
		}
	}()

	for {
		frame, err = grabber.Frame()
		if err == nil {
			break
		}
		if !errors.Is(err, ErrWouldBlock) {
			return Frame{}, err
		}
		if err := sleep(ctx, interval); err != nil {
			return Frame{}, fmt.Errorf("waiting for frame: %w", err)
		}
	}

	if err := frame.Validate(); err != nil {
		return Frame{}, err
	}
	if frame.Width != screen.Bounds.Dx() || frame.Height != screen.Bounds.Dy() {
		return Frame{}, fmt.Errorf("frame is %dx%d, screen %d is %dx%d",
			frame.Width, frame.Height, screen.Index, screen.Bounds.Dx(), screen.Bounds.Dy())
	}
	return frame, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
