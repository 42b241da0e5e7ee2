package store

import (
	"context"

	"github.com/rviscarra/desktop-capture/internal/capture"
)

// Sink persists encoded captures and returns where the capture went.
type Sink interface {
	Save(ctx context.Context, img *capture.Image) (string, error)
}

// Multi saves to every sink in order and stops at the first failure.
type Multi []Sink

// Save implements Sink. The returned location is the first sink's.
func (m Multi) Save(ctx context.Context, img *capture.Image) (string, error) {
	var first string
	for i, s := range m {
		loc, err := s.Save(ctx, img)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = loc
		}
	}
	return first, nil
}
