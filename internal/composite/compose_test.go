package composite

import (
	"bytes"
	"errors"
	"image"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/rviscarra/desktop-capture/internal/pixfmt"
)

// solidLayer builds a BGRA layer filled with one colour, padded by extra
// bytes per row.
func solidLayer(bounds image.Rectangle, r, g, b byte, padding int) Layer {
	stride := bounds.Dx()*4 + padding
	pix := make([]byte, stride*bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := y*stride + x*4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = b, g, r, 0xff
		}
	}
	return Layer{Bounds: bounds, Pix: pix, Stride: stride, Format: pixfmt.BGRA}
}

func TestCompose_SingleDisplay(t *testing.T) {
	// Four pixels laid out A,R,G,B.
	pix := []byte{
		0xA0, 0x10, 0x20, 0x30, 0xA1, 0x11, 0x21, 0x31,
		0xA2, 0x12, 0x22, 0x32, 0xA3, 0x13, 0x23, 0x33,
	}
	layer := Layer{Bounds: image.Rect(0, 0, 2, 2), Pix: pix, Stride: 8, Format: pixfmt.BGRA}

	canvas, err := Compose([]Layer{layer}, pixfmt.RGB)
	if err != nil {
		t.Fatalf("Compose() failed: %v", err)
	}
	if canvas.Width != 2 || canvas.Height != 2 || canvas.BytesPerPixel != 3 {
		t.Fatalf("unexpected canvas %dx%dx%d", canvas.Width, canvas.Height, canvas.BytesPerPixel)
	}
	if err := canvas.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		x, y := i%2, i/2
		src := pix[i*4 : i*4+4]
		want := []byte{src[2], src[1], src[0]}
		if got := canvas.At(x, y); !bytes.Equal(got, want) {
			t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
		}
	}
}

func TestCompose_NegativeOffset(t *testing.T) {
	left := solidLayer(image.Rect(-100, 0, -50, 50), 0xff, 0, 0, 0)
	right := solidLayer(image.Rect(0, 0, 50, 50), 0, 0, 0xff, 12)

	canvas, err := Compose([]Layer{left, right}, pixfmt.RGB)
	if err != nil {
		t.Fatalf("Compose() failed: %v", err)
	}

	if canvas.Width != 150 || canvas.Height != 50 {
		t.Fatalf("canvas size: got %dx%d, want 150x50", canvas.Width, canvas.Height)
	}
	if canvas.Origin != image.Pt(-100, 0) {
		t.Errorf("origin: got %v, want (-100,0)", canvas.Origin)
	}

	red, blue, zero := []byte{0xff, 0, 0}, []byte{0, 0, 0xff}, []byte{0, 0, 0}
	checks := []struct {
		x    int
		want []byte
	}{
		{0, red},
		{49, red},
		{50, zero},
		{99, zero},
		{100, blue},
		{149, blue},
	}
	for _, c := range checks {
		for _, y := range []int{0, 25, 49} {
			if got := canvas.At(c.x, y); !bytes.Equal(got, c.want) {
				t.Errorf("pixel (%d,%d): got %v, want %v", c.x, y, got, c.want)
			}
		}
	}
}

func TestCompose_OverlapLastWriterWins(t *testing.T) {
	first := solidLayer(image.Rect(0, 0, 4, 4), 1, 1, 1, 0)
	second := solidLayer(image.Rect(2, 2, 6, 6), 2, 2, 2, 0)

	canvas, err := Compose([]Layer{first, second}, pixfmt.RGB)
	if err != nil {
		t.Fatalf("Compose() failed: %v", err)
	}
	if got := canvas.At(3, 3); !bytes.Equal(got, []byte{2, 2, 2}) {
		t.Errorf("overlap pixel: got %v, want second layer", got)
	}
	if got := canvas.At(1, 1); !bytes.Equal(got, []byte{1, 1, 1}) {
		t.Errorf("first-only pixel: got %v", got)
	}
}

func TestCompose_RGBATarget(t *testing.T) {
	layer := solidLayer(image.Rect(0, 0, 3, 1), 9, 8, 7, 4)

	canvas, err := Compose([]Layer{layer}, pixfmt.RGBA)
	if err != nil {
		t.Fatalf("Compose() failed: %v", err)
	}
	if canvas.BytesPerPixel != 4 {
		t.Fatalf("bytes per pixel: got %d, want 4", canvas.BytesPerPixel)
	}
	if got := canvas.At(2, 0); !bytes.Equal(got, []byte{9, 8, 7, 0xff}) {
		t.Errorf("got %v", got)
	}
}

func TestCompose_BoundsErrors(t *testing.T) {
	testCases := []struct {
		name  string
		layer Layer
	}{
		{
			name:  "short_buffer",
			layer: Layer{Bounds: image.Rect(0, 0, 4, 4), Pix: make([]byte, 4*4*4-1), Stride: 16, Format: pixfmt.BGRA},
		},
		{
			name:  "narrow_stride",
			layer: Layer{Bounds: image.Rect(0, 0, 4, 4), Pix: make([]byte, 64), Stride: 8, Format: pixfmt.BGRA},
		},
		{
			name:  "inverted_rectangle",
			layer: Layer{Bounds: image.Rectangle{Min: image.Pt(4, 4), Max: image.Pt(0, 0)}, Pix: make([]byte, 64), Stride: 16, Format: pixfmt.BGRA},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok := solidLayer(image.Rect(0, 0, 4, 4), 1, 2, 3, 0)
			_, err := Compose([]Layer{ok, tc.layer}, pixfmt.RGB)
			var boundsErr *BoundsError
			if !errors.As(err, &boundsErr) {
				t.Fatalf("expected *BoundsError, got %v", err)
			}
			if boundsErr.Layer != 1 {
				t.Errorf("layer index: got %d, want 1", boundsErr.Layer)
			}
		})
	}
}

func TestCompose_Empty(t *testing.T) {
	if _, err := Compose(nil, pixfmt.RGB); err == nil {
		t.Error("expected error composing zero layers")
	}
}

func TestCompose_UnsetFormat(t *testing.T) {
	layer := solidLayer(image.Rect(0, 0, 2, 2), 1, 2, 3, 0)

	if _, err := Compose([]Layer{layer}, pixfmt.Format{}); err == nil {
		t.Error("expected error for unset canvas format")
	}

	layer.Format = pixfmt.Format{}
	layer.Stride = 8
	_, err := Compose([]Layer{layer}, pixfmt.RGB)
	var boundsErr *BoundsError
	if !errors.As(err, &boundsErr) {
		t.Errorf("expected BoundsError for unset layer format, got %v", err)
	}
}

func TestNewCanvas_RejectsUnsetFormat(t *testing.T) {
	if _, err := NewCanvas(2, 2, pixfmt.Format{}); err == nil {
		t.Error("expected error for zero bytes per pixel")
	}
	canvas := &Canvas{Width: 2, Height: 2}
	if err := canvas.Validate(); err == nil {
		t.Error("expected Validate error for unset format")
	}
}

// layout is a random row of non-overlapping screens with gaps, some placed
// at negative coordinates.
type layout struct {
	Rects  []image.Rectangle
	Colors [][3]byte
}

func (layout) Generate(r *rand.Rand, _ int) reflect.Value {
	n := 1 + r.Intn(4)
	l := layout{}
	x := -r.Intn(40)
	for i := 0; i < n; i++ {
		w, h := 1+r.Intn(12), 1+r.Intn(12)
		y := r.Intn(20) - 10
		l.Rects = append(l.Rects, image.Rect(x, y, x+w, y+h))
		l.Colors = append(l.Colors, [3]byte{byte(1 + r.Intn(255)), byte(r.Intn(256)), byte(r.Intn(256))})
		x += w + r.Intn(5)
	}
	return reflect.ValueOf(l)
}

// TestCompose_Properties checks, for random non-overlapping layouts, that the
// canvas matches the union bounds, that covered pixels hold their screen's
// colour and that every other pixel is zero.
func TestCompose_Properties(t *testing.T) {
	property := func(l layout) bool {
		layers := make([]Layer, len(l.Rects))
		for i, rect := range l.Rects {
			c := l.Colors[i]
			layers[i] = solidLayer(rect, c[0], c[1], c[2], i*4)
		}

		canvas, err := Compose(layers, pixfmt.RGB)
		if err != nil {
			t.Logf("Compose() failed: %v", err)
			return false
		}

		union := Union(l.Rects)
		if canvas.Width != union.Dx() || canvas.Height != union.Dy() {
			return false
		}

		for y := 0; y < canvas.Height; y++ {
			for x := 0; x < canvas.Width; x++ {
				p := image.Pt(x, y).Add(canvas.Origin)
				want := []byte{0, 0, 0}
				for i, rect := range l.Rects {
					if p.In(rect) {
						want = l.Colors[i][:]
					}
				}
				if !bytes.Equal(canvas.At(x, y), want) {
					t.Logf("pixel (%d,%d): got %v, want %v", x, y, canvas.At(x, y), want)
					return false
				}
			}
		}
		return true
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

func TestCanvas_RGBA(t *testing.T) {
	canvas, err := NewCanvas(2, 1, pixfmt.RGB)
	if err != nil {
		t.Fatalf("NewCanvas() failed: %v", err)
	}
	copy(canvas.Pix, []byte{1, 2, 3, 4, 5, 6})

	img, err := canvas.RGBA()
	if err != nil {
		t.Fatalf("RGBA() failed: %v", err)
	}
	if !img.Opaque() {
		t.Error("expected opaque image")
	}
	want := []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("got %v, want %v", img.Pix, want)
	}
}

func TestCanvas_Validate(t *testing.T) {
	canvas := &Canvas{Pix: make([]byte, 11), Width: 2, Height: 2, BytesPerPixel: 3, Format: pixfmt.RGB}
	if err := canvas.Validate(); err == nil {
		t.Error("expected length mismatch error")
	}
	canvas.Pix = make([]byte, 12)
	if err := canvas.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}
