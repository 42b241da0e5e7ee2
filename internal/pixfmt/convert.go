package pixfmt

import "fmt"

const opaque = 0xff

// ConvertRow reinterprets scanline row of src, laid out as from with the
// given stride, and writes width pixels laid out as to into dst.
//
// The scanline starts at stride*row. Bytes between the end of the visible
// pixels and the next stride boundary are padding and never read.
func ConvertRow(dst, src []byte, row, stride, width int, from, to Format) error {
	if row < 0 || width < 0 {
		return fmt.Errorf("invalid row %d or width %d", row, width)
	}
	if err := from.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := to.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if stride < from.RowBytes(width) {
		return fmt.Errorf("stride %d smaller than %d pixels of %s", stride, width, from)
	}
	start := stride * row
	end := start + from.RowBytes(width)
	if end > len(src) {
		return fmt.Errorf("row %d ends at byte %d, source holds %d", row, end, len(src))
	}
	if len(dst) < to.RowBytes(width) {
		return fmt.Errorf("destination holds %d bytes, need %d", len(dst), to.RowBytes(width))
	}

	line := src[start:end]
	for x := 0; x < width; x++ {
		s := line[x*from.BytesPerPixel : (x+1)*from.BytesPerPixel]
		d := dst[x*to.BytesPerPixel : (x+1)*to.BytesPerPixel]
		d[to.R] = s[from.R]
		d[to.G] = s[from.G]
		d[to.B] = s[from.B]
		if to.HasAlpha() {
			if from.HasAlpha() {
				d[to.A] = s[from.A]
			} else {
				d[to.A] = opaque
			}
		}
	}
	return nil
}
