package capture

import (
	"log/slog"
	"time"

	"github.com/rviscarra/desktop-capture/internal/encoders"
	"github.com/rviscarra/desktop-capture/internal/pixfmt"
	"github.com/rviscarra/desktop-capture/internal/rdisplay"
)

// Config is everything a Pipeline needs beyond its collaborators.
type Config struct {
	// PollInterval is the sleep between "frame not ready" retries.
	PollInterval time.Duration
	// AcquireTimeout bounds the wait for a single display. Zero waits forever.
	AcquireTimeout time.Duration
	// Codec selects the output image format.
	Codec encoders.ImageCodec
	// TargetFormat is the canvas layout, pixfmt.RGB or pixfmt.RGBA.
	TargetFormat pixfmt.Format
	// Logger receives pipeline logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a 60 Hz poll, no timeout, RGB canvas and PNG output.
func DefaultConfig() Config {
	return Config{
		PollInterval: rdisplay.DefaultPollInterval,
		Codec:        encoders.PNGCodec,
		TargetFormat: pixfmt.RGB,
	}
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = rdisplay.DefaultPollInterval
	}
	if c.TargetFormat.BytesPerPixel == 0 {
		c.TargetFormat = pixfmt.RGB
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
