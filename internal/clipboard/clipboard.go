// Package clipboard delivers text to the focused window: clipboard write
// followed by a synthesized paste chord.
package clipboard

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// PasteText writes text to the clipboard and sends the paste chord to the
// focused window. The previous clipboard content is restored after a
// successful paste; on failure the text is left on the clipboard so the
// user can still paste it by hand.
func PasteText(text string) error {
	orig, _ := clipboard.ReadAll()
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	// Give the clipboard owner time to settle before the paste lands.
	time.Sleep(80 * time.Millisecond)

	if err := sendPasteChord(); err != nil {
		return fmt.Errorf("paste keystroke failed: %w", err)
	}

	time.Sleep(120 * time.Millisecond)
	_ = clipboard.WriteAll(orig)
	return nil
}

func sendPasteChord() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}
