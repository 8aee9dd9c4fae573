package hotkey

import (
	"strings"
	"unicode"

	"murmur/log"
	"murmur/store"
)

// RawKeyEvent is one key-down observed while capturing a new binding.
// Code is the physical key code ("ShiftRight", "KeyA"), Key the logical
// value ("a", " "). The four booleans reflect modifiers held at the time
// of the event.
type RawKeyEvent struct {
	Code    string
	Key     string
	Meta    bool
	Shift   bool
	Alt     bool
	Control bool
}

var rightModifierCodes = map[string]string{
	"MetaRight":    ModMeta,
	"ShiftRight":   ModShift,
	"AltRight":     ModAlt,
	"ControlRight": ModControl,
}

// Settings is the slice of the persistence store the engine writes to.
type Settings interface {
	Set(key, value string) error
	SetBool(key string, on bool) error
}

// Engine owns the current binding, capture mode, and registrar lifecycle.
type Engine struct {
	settings  Settings
	registrar Registrar

	binding   Binding
	enabled   bool
	capturing bool
}

func NewEngine(settings Settings, registrar Registrar, binding Binding, enabled bool) *Engine {
	return &Engine{
		settings:  settings,
		registrar: registrar,
		binding:   binding,
		enabled:   enabled,
	}
}

func (e *Engine) Binding() Binding { return e.binding }
func (e *Engine) Enabled() bool    { return e.enabled }
func (e *Engine) Capturing() bool  { return e.capturing }

// BeginCapture puts the engine into capture mode; subsequent raw key
// events are interpreted as a new binding until one commits.
func (e *Engine) BeginCapture() {
	e.capturing = true
}

// CancelCapture leaves capture mode without changing the binding.
func (e *Engine) CancelCapture() {
	e.capturing = false
}

// HandleRawKey processes one raw key event while capturing. It returns
// the committed binding and true once a valid combination is observed;
// until then it keeps listening.
func (e *Engine) HandleRawKey(ev RawKeyEvent) (Binding, bool) {
	if !e.capturing {
		return Binding{}, false
	}

	// A right-side modifier key pressed on its own becomes the primary
	// key, with the other held modifiers collected around it.
	if self, ok := rightModifierCodes[ev.Code]; ok {
		var mods []string
		for _, m := range heldModifiers(ev) {
			if m != self {
				mods = append(mods, m)
			}
		}
		e.commit(Binding{Key: ev.Code, Modifiers: mods})
		return e.binding, true
	}

	mods := heldModifiers(ev)
	key := normalizeKey(ev.Key)
	if len(mods) == 0 || isModifierName(key) {
		return Binding{}, false
	}
	e.commit(Binding{Key: key, Modifiers: mods})
	return e.binding, true
}

func heldModifiers(ev RawKeyEvent) []string {
	var mods []string
	for _, m := range modifierOrder {
		switch m {
		case ModMeta:
			if ev.Meta {
				mods = append(mods, m)
			}
		case ModShift:
			if ev.Shift {
				mods = append(mods, m)
			}
		case ModAlt:
			if ev.Alt {
				mods = append(mods, m)
			}
		case ModControl:
			if ev.Control {
				mods = append(mods, m)
			}
		}
	}
	return mods
}

func normalizeKey(key string) string {
	if key == " " {
		return "Space"
	}
	runes := []rune(key)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) {
		return strings.ToUpper(key)
	}
	return key
}

func (e *Engine) commit(b Binding) {
	e.binding = b
	e.capturing = false
	if err := e.settings.Set(store.KeyBinding, b.Encode()); err != nil {
		log.Warnf("persist binding: %v", err)
	}
	if e.enabled {
		e.reregister()
	}
}

func (e *Engine) reregister() {
	e.registrar.UnregisterAll()
	if err := e.registrar.Register(e.binding); err != nil {
		log.Warnf("register hotkey %s: %v", e.binding.Encode(), err)
	}
}

// SetEnabled toggles the global hotkey. Enabling re-registers the current
// binding; disabling unregisters everything. The flag is persisted.
func (e *Engine) SetEnabled(on bool) {
	e.enabled = on
	if err := e.settings.SetBool(store.KeyHotkeyEnabled, on); err != nil {
		log.Warnf("persist hotkey flag: %v", err)
	}
	if on {
		e.reregister()
	} else {
		e.registrar.UnregisterAll()
	}
}
