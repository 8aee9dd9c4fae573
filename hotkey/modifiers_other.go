//go:build !darwin && !windows

package hotkey

import xhotkey "golang.design/x/hotkey"

var platformModifiers = map[string]xhotkey.Modifier{
	ModMeta:    xhotkey.Mod4, // Super
	ModShift:   xhotkey.ModShift,
	ModAlt:     xhotkey.Mod1,
	ModControl: xhotkey.ModCtrl,
}
