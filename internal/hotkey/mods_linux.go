//go:build linux

package hotkey

import "golang.design/x/hotkey"

// X11 maps Alt to Mod1 and the Super key to Mod4.
var modifiersByName = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.Mod1,
	"win":     hotkey.Mod4,
	"super":   hotkey.Mod4,
	"meta":    hotkey.Mod4,
}
