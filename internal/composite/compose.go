package composite

import (
	"fmt"
	"image"

	"github.com/rviscarra/desktop-capture/internal/pixfmt"
)

// Layer is one captured screen: where it sits on the desktop and the raw
// pixels grabbed from it.
type Layer struct {
	Bounds image.Rectangle
	Pix    []byte
	Stride int
	Format pixfmt.Format
}

// BoundsError reports a write that would land outside the canvas, or a
// layer whose buffer cannot hold the geometry it declares.
type BoundsError struct {
	Layer  int
	Bounds image.Rectangle
	Canvas image.Rectangle
	Reason string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("layer %d %v outside canvas %v: %s", e.Layer, e.Bounds, e.Canvas, e.Reason)
}

// Union returns the smallest rectangle containing every rectangle in rects.
// Unlike image.Rectangle.Union it does not skip empty rectangles, so a
// malformed input still shows up in the result.
func Union(rects []image.Rectangle) image.Rectangle {
	if len(rects) == 0 {
		return image.Rectangle{}
	}
	u := rects[0]
	for _, r := range rects[1:] {
		u.Min.X = min(u.Min.X, r.Min.X)
		u.Min.Y = min(u.Min.Y, r.Min.Y)
		u.Max.X = max(u.Max.X, r.Max.X)
		u.Max.Y = max(u.Max.Y, r.Max.Y)
	}
	return u
}

// Compose stitches layers into one canvas sized to their union, converting
// each row into format. Layers are written in order, so when two overlap the
// later one wins. Uncovered pixels stay zero.
func Compose(layers []Layer, format pixfmt.Format) (*Canvas, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("nothing to compose")
	}

	rects := make([]image.Rectangle, len(layers))
	for i, l := range layers {
		rects[i] = l.Bounds
	}
	union := Union(rects)

	canvas, err := NewCanvas(union.Dx(), union.Dy(), format)
	if err != nil {
		return nil, err
	}
	canvas.Origin = union.Min

	frame := image.Rect(0, 0, canvas.Width, canvas.Height)
	for i, l := range layers {
		if err := canvas.draw(i, l, frame); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

func (c *Canvas) draw(index int, l Layer, frame image.Rectangle) error {
	dst := l.Bounds.Sub(c.Origin)
	fail := func(reason string) error {
		return &BoundsError{Layer: index, Bounds: l.Bounds, Canvas: frame.Add(c.Origin), Reason: reason}
	}

	if l.Bounds.Empty() {
		return fail("empty rectangle")
	}
	if !dst.In(frame) {
		return fail("write coordinates exceed canvas")
	}
	width, height := dst.Dx(), dst.Dy()
	if l.Stride < l.Format.RowBytes(width) {
		return fail(fmt.Sprintf("stride %d shorter than %d pixels", l.Stride, width))
	}
	if len(l.Pix) < l.Stride*(height-1)+l.Format.RowBytes(width) {
		return fail(fmt.Sprintf("buffer of %d bytes too small for %d rows", len(l.Pix), height))
	}

	for row := 0; row < height; row++ {
		off := c.PixOffset(dst.Min.X, dst.Min.Y+row)
		if err := pixfmt.ConvertRow(c.Pix[off:off+c.BytesPerPixel*width], l.Pix, row, l.Stride, width, l.Format, c.Format); err != nil {
			return fail(err.Error())
		}
	}
	return nil
}
