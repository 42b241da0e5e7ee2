package encoders

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/rviscarra/desktop-capture/internal/composite"
)

// PNGEncoder png encoder, writes 8-bit truecolor without alpha
type PNGEncoder struct {
	encoder png.Encoder
}

func newPNGEncoder() (Encoder, error) {
	return &PNGEncoder{
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}, nil
}

// Encode encodes a canvas into a png payload
func (e *PNGEncoder) Encode(canvas *composite.Canvas) ([]byte, error) {
	img, err := canvas.RGBA()
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	if err := e.encoder.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}
	return buffer.Bytes(), nil
}

// ContentType returns the MIME type of the payload
func (*PNGEncoder) ContentType() string {
	return "image/png"
}

// Extension returns the file extension for the payload
func (*PNGEncoder) Extension() string {
	return ".png"
}

func init() {
	registeredEncoders[PNGCodec] = newPNGEncoder
}
