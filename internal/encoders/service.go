package encoders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rviscarra/desktop-capture/internal/composite"
)

// ErrCodecNotSupported is returned for codecs with no registered encoder
var ErrCodecNotSupported = errors.New("codec not supported")

// Service creates encoder instances
type Service interface {
	NewEncoder(codec ImageCodec) (Encoder, error)
	Supports(codec ImageCodec) bool
}

// Encoder takes a composited canvas and serializes it losslessly
type Encoder interface {
	Encode(*composite.Canvas) ([]byte, error)
	ContentType() string
	Extension() string
}

// ImageCodec can be either png or bmp
type ImageCodec = int

const (
	// PNGCodec png
	PNGCodec ImageCodec = iota
	// BMPCodec bmp
	BMPCodec
)

var codecNames = map[ImageCodec]string{
	PNGCodec: "png",
	BMPCodec: "bmp",
}

// CodecName returns the short name of a codec
func CodecName(codec ImageCodec) string {
	if name, ok := codecNames[codec]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", codec)
}

// ParseCodec resolves a codec from its short name
func ParseCodec(name string) (ImageCodec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for codec, n := range codecNames {
		if n == name {
			return codec, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrCodecNotSupported, name)
}
