// Package hotkey captures, formats, and registers the global push-to-talk
// trigger binding.
package hotkey

import "strings"

// Modifier names in canonical collection order.
const (
	ModMeta    = "Meta"
	ModShift   = "Shift"
	ModAlt     = "Alt"
	ModControl = "Control"
)

var modifierOrder = []string{ModMeta, ModShift, ModAlt, ModControl}

// Binding is the canonical primary-key + modifier-set representation of
// the global trigger. Immutable; replaced wholesale on recapture.
type Binding struct {
	Key       string
	Modifiers []string
}

// DefaultBinding is Meta+Shift+Space.
func DefaultBinding() Binding {
	return Binding{Key: "Space", Modifiers: []string{ModMeta, ModShift}}
}

// HasModifier reports whether name is in the binding's modifier set.
func (b Binding) HasModifier(name string) bool {
	for _, m := range b.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// Encode renders the binding as a persistable "Meta+Shift+Space" string.
func (b Binding) Encode() string {
	return strings.Join(append(append([]string{}, b.Modifiers...), b.Key), "+")
}

// DecodeBinding parses an Encode()d string. Empty or malformed input
// yields the default binding.
func DecodeBinding(s string) Binding {
	parts := strings.Split(s, "+")
	if len(parts) == 0 || parts[0] == "" {
		return DefaultBinding()
	}
	key := parts[len(parts)-1]
	var mods []string
	for _, p := range parts[:len(parts)-1] {
		if isModifierName(p) {
			mods = append(mods, p)
		}
	}
	return Binding{Key: key, Modifiers: mods}
}

func isModifierName(s string) bool {
	for _, m := range modifierOrder {
		if s == m {
			return true
		}
	}
	return false
}

var modifierGlyphs = map[string]string{
	ModMeta:    "⌘",
	ModShift:   "⇧",
	ModAlt:     "⌥",
	ModControl: "⌃",
}

var specialKeyGlyphs = map[string]string{
	"MetaLeft":     "⌘",
	"MetaRight":    "⌘",
	"ShiftLeft":    "⇧",
	"ShiftRight":   "⇧",
	"AltLeft":      "⌥",
	"AltRight":     "⌥",
	"ControlLeft":  "⌃",
	"ControlRight": "⌃",
	"Space":        "Space",
}

// Format renders a binding for display: one glyph per modifier, then the
// key (glyph for special codes, raw token otherwise).
func Format(b Binding) string {
	var sb strings.Builder
	for _, m := range b.Modifiers {
		if g, ok := modifierGlyphs[m]; ok {
			sb.WriteString(g)
		}
	}
	if g, ok := specialKeyGlyphs[b.Key]; ok {
		sb.WriteString(g)
	} else {
		sb.WriteString(b.Key)
	}
	return sb.String()
}
