// Package preview renders scaled-down copies of encoded captures for display
// next to the capture button.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp" // decoder registration
)

// Options controls the preview size. With Zoom set the image is returned at
// full resolution; otherwise it is scaled to fit MaxWidth x MaxHeight while
// keeping its aspect ratio. Images already smaller are never enlarged.
type Options struct {
	MaxWidth  uint
	MaxHeight uint
	Zoom      bool
}

// Render decodes an encoded capture and returns a PNG preview of it.
func Render(encoded []byte, opts Options) ([]byte, image.Point, error) {
	src, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode capture: %w", err)
	}

	out := src
	if !opts.Zoom && opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		out = resize.Thumbnail(opts.MaxWidth, opts.MaxHeight, src, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), out.Bounds().Size(), nil
}
