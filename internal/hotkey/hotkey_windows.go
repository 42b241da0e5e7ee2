//go:build windows

package hotkey

import (
	"context"
	"fmt"

	"github.com/moutend/go-hook/pkg/keyboard"
	"github.com/moutend/go-hook/pkg/types"
)

// Listen installs a low-level keyboard hook and sends on the returned channel
// each time the shortcut is pressed. Presses arriving while the previous one
// has not been consumed are dropped. The hook is removed when ctx ends.
func Listen(ctx context.Context) (<-chan struct{}, error) {
	events := make(chan types.KeyboardEvent, 100)
	if err := keyboard.Install(nil, events); err != nil {
		return nil, fmt.Errorf("install keyboard hook: %w", err)
	}

	triggers := make(chan struct{}, 1)
	go func() {
		defer close(triggers)
		defer keyboard.Uninstall()

		var c combo
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				isShift := event.VKCode == types.VK_LSHIFT || event.VKCode == types.VK_RSHIFT
				isTrigger := event.VKCode == types.VK_RETURN
				var down bool
				switch event.Message {
				case types.WM_KEYDOWN:
					down = true
				case types.WM_KEYUP:
					down = false
				default:
					continue
				}
				if c.key(isShift, isTrigger, down) {
					select {
					case triggers <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return triggers, nil
}
