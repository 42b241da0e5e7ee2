//go:build !windows

package hotkey

import "context"

// Listen is not available on this platform.
func Listen(context.Context) (<-chan struct{}, error) {
	return nil, ErrUnsupported
}
