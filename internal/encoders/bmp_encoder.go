package encoders

import (
	"bytes"
	"fmt"

	"github.com/rviscarra/desktop-capture/internal/composite"
	"golang.org/x/image/bmp"
)

// BMPEncoder bmp encoder, writes 24-bit uncompressed bitmaps
type BMPEncoder struct{}

func newBMPEncoder() (Encoder, error) {
	return &BMPEncoder{}, nil
}

// Encode encodes a canvas into a bmp payload
func (*BMPEncoder) Encode(canvas *composite.Canvas) ([]byte, error) {
	img, err := canvas.RGBA()
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	if err := bmp.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("bmp: %w", err)
	}
	return buffer.Bytes(), nil
}

// ContentType returns the MIME type of the payload
func (*BMPEncoder) ContentType() string {
	return "image/bmp"
}

// Extension returns the file extension for the payload
func (*BMPEncoder) Extension() string {
	return ".bmp"
}

func init() {
	registeredEncoders[BMPCodec] = newBMPEncoder
}
