package notify

import "github.com/gen2brain/beeep"

// Notify shows a desktop notification. Best-effort.
func Notify(title, message string) {
	_ = beeep.Notify(title, message, "")
}
