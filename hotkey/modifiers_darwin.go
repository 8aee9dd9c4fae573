//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

var platformModifiers = map[string]xhotkey.Modifier{
	ModMeta:    xhotkey.ModCmd,
	ModShift:   xhotkey.ModShift,
	ModAlt:     xhotkey.ModOption,
	ModControl: xhotkey.ModCtrl,
}
