//go:build windows

package hotkey

import xhotkey "golang.design/x/hotkey"

var platformModifiers = map[string]xhotkey.Modifier{
	ModMeta:    xhotkey.ModWin,
	ModShift:   xhotkey.ModShift,
	ModAlt:     xhotkey.ModAlt,
	ModControl: xhotkey.ModCtrl,
}
