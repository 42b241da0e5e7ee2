package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rviscarra/desktop-capture/internal/capture"
)

// FileSink writes each capture to its own file under Dir.
type FileSink struct {
	Dir string
}

// NewFileSink creates the directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}
	return &FileSink{Dir: dir}, nil
}

// FileName returns the name a capture is stored under,
// e.g. capture_20060102_150405_<id>.png.
func FileName(img *capture.Image) string {
	return fmt.Sprintf("capture_%s_%s%s",
		img.CapturedAt.Format("20060102_150405"), img.ID.String()[:8], img.Extension)
}

// Save implements Sink.
func (s *FileSink) Save(_ context.Context, img *capture.Image) (string, error) {
	path := filepath.Join(s.Dir, FileName(img))
	tmp, err := os.CreateTemp(s.Dir, ".capture-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img.Bytes); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename to %q: %w", path, err)
	}
	return path, nil
}
