package pixfmt

import "fmt"

// Format describes the byte layout of one packed pixel.
// R, G and B are byte offsets inside the pixel; A is -1 when the
// layout carries no alpha channel.
type Format struct {
	Name          string
	BytesPerPixel int
	R, G, B, A    int
}

var (
	// BGRA is the native layout of most platform capture buffers.
	BGRA = Format{Name: "bgra", BytesPerPixel: 4, R: 2, G: 1, B: 0, A: 3}
	// BGR is BGRA without the alpha byte.
	BGR = Format{Name: "bgr", BytesPerPixel: 3, R: 2, G: 1, B: 0, A: -1}
	// RGBA matches image.RGBA.Pix.
	RGBA = Format{Name: "rgba", BytesPerPixel: 4, R: 0, G: 1, B: 2, A: 3}
	// RGB is the canvas layout consumed by the encoders.
	RGB = Format{Name: "rgb", BytesPerPixel: 3, R: 0, G: 1, B: 2, A: -1}
)

var formats = map[string]Format{
	BGRA.Name: BGRA,
	BGR.Name:  BGR,
	RGBA.Name: RGBA,
	RGB.Name:  RGB,
}

// HasAlpha reports whether the layout stores an alpha byte.
func (f Format) HasAlpha() bool {
	return f.A >= 0
}

func (f Format) String() string {
	return f.Name
}

// Validate rejects layouts that are unset or whose channel offsets fall
// outside the pixel.
func (f Format) Validate() error {
	if f.BytesPerPixel <= 0 {
		return fmt.Errorf("pixel format %q has %d bytes per pixel", f.Name, f.BytesPerPixel)
	}
	for _, off := range []int{f.R, f.G, f.B} {
		if off < 0 || off >= f.BytesPerPixel {
			return fmt.Errorf("pixel format %q has channel offset %d outside %d bytes", f.Name, off, f.BytesPerPixel)
		}
	}
	if f.A >= f.BytesPerPixel {
		return fmt.Errorf("pixel format %q has alpha offset %d outside %d bytes", f.Name, f.A, f.BytesPerPixel)
	}
	return nil
}

// RowBytes returns the number of meaningful bytes in a row of width pixels.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel
}

// Lookup resolves a format by its lowercase name.
func Lookup(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown pixel format %q", name)
	}
	return f, nil
}
