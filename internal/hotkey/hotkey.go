// Package hotkey turns a global keyboard shortcut into capture requests.
package hotkey

import (
	"errors"
)

// ErrUnsupported is returned on platforms without a global keyboard hook.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Shortcut is the key combination that triggers a capture.
const Shortcut = "Shift+Enter"

// combo tracks modifier state and reports when the trigger key goes down
// while shift is held.
type combo struct {
	shift bool
}

// key reports whether this event fires the shortcut.
func (c *combo) key(isShift, isTrigger, down bool) bool {
	if isShift {
		c.shift = down
		return false
	}
	return isTrigger && down && c.shift
}
