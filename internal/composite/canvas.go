package composite

import (
	"fmt"
	"image"

	"github.com/rviscarra/desktop-capture/internal/pixfmt"
)

// Canvas is a packed pixel buffer covering the union of all captured screens.
// Pixel (0,0) maps to the top-left corner of the union bounding box.
type Canvas struct {
	Pix           []byte
	Width         int
	Height        int
	BytesPerPixel int
	Format        pixfmt.Format
	// Origin is the desktop coordinate of pixel (0,0).
	Origin image.Point
}

// NewCanvas allocates a zero-filled canvas.
func NewCanvas(width, height int, format pixfmt.Format) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	return &Canvas{
		Pix:           make([]byte, width*height*format.BytesPerPixel),
		Width:         width,
		Height:        height,
		BytesPerPixel: format.BytesPerPixel,
		Format:        format,
	}, nil
}

// Stride returns the number of bytes between consecutive canvas rows.
func (c *Canvas) Stride() int {
	return c.Width * c.BytesPerPixel
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (c *Canvas) PixOffset(x, y int) int {
	return y*c.Stride() + x*c.BytesPerPixel
}

// At returns the bytes of pixel (x, y), or nil when out of range.
func (c *Canvas) At(x, y int) []byte {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return nil
	}
	i := c.PixOffset(x, y)
	return c.Pix[i : i+c.BytesPerPixel]
}

// Validate checks the buffer length invariant.
func (c *Canvas) Validate() error {
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if c.BytesPerPixel != c.Format.BytesPerPixel {
		return fmt.Errorf("canvas declares %d bytes per pixel, format %s has %d",
			c.BytesPerPixel, c.Format, c.Format.BytesPerPixel)
	}
	if want := c.Width * c.Height * c.BytesPerPixel; len(c.Pix) != want {
		return fmt.Errorf("canvas %dx%dx%d holds %d bytes, want %d",
			c.Width, c.Height, c.BytesPerPixel, len(c.Pix), want)
	}
	return nil
}

// RGBA copies the canvas into an opaque image.RGBA. Any alpha stored in
// the canvas is dropped; encoded captures never carry transparency.
func (c *Canvas) RGBA() (*image.RGBA, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		dst := img.Pix[y*img.Stride : (y+1)*img.Stride]
		if err := pixfmt.ConvertRow(dst, c.Pix, y, c.Stride(), c.Width, c.Format, pixfmt.RGBA); err != nil {
			return nil, err
		}
		for i := 3; i < len(dst); i += 4 {
			dst[i] = 0xff
		}
	}
	return img, nil
}
