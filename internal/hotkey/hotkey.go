// Package hotkey registers the global toggle shortcut and delivers one
// callback per physical press. Registration and duplicate suppression are
// handled by golang.design/x/hotkey.
package hotkey

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.design/x/hotkey"
)

// Parse accepts combos like "ctrl+alt+space", "shift+F2" or "f9" and
// returns the modifier set and key. Modifier names are platform-specific
// (see mods_*.go); key names are shared.
func Parse(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	if strings.TrimSpace(combo) == "" {
		return nil, 0, fmt.Errorf("empty hotkey")
	}

	parts := strings.Split(combo, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}

	keyToken := parts[len(parts)-1]
	var mods []hotkey.Modifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifiersByName[p]
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier '%s' in hotkey '%s'", p, combo)
		}
		mods = append(mods, m)
	}

	key, ok := keysByName[keyToken]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported key '%s' in hotkey '%s'", keyToken, combo)
	}
	return mods, key, nil
}

// Listen registers combo and invokes handler once per keydown until ctx is
// canceled, then unregisters. The handler runs on the listen goroutine and
// must not block.
func Listen(ctx context.Context, combo string, handler func(), log *zap.Logger) error {
	mods, key, err := Parse(combo)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey '%s' failed: %w", combo, err)
	}
	log.Info("global hotkey registered", zap.String("hotkey", combo))

	for {
		select {
		case <-ctx.Done():
			if err := hk.Unregister(); err != nil {
				log.Warn("hotkey unregister failed", zap.Error(err))
			}
			return nil
		case <-hk.Keydown():
			handler()
		}
	}
}

var keysByName = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"space":  hotkey.KeySpace,
	"esc":    hotkey.KeyEscape,
	"escape": hotkey.KeyEscape,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"f13": hotkey.KeyF13, "f14": hotkey.KeyF14, "f15": hotkey.KeyF15,
	"f16": hotkey.KeyF16, "f17": hotkey.KeyF17, "f18": hotkey.KeyF18,
	"f19": hotkey.KeyF19, "f20": hotkey.KeyF20,
}
