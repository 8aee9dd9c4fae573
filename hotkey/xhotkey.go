package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// XRegistrar registers bindings through golang.design/x/hotkey
// (X11/Cocoa/Win32) and fans key events into plain channels.
type XRegistrar struct {
	pressed  chan struct{}
	released chan struct{}

	mu sync.Mutex
	hk *xhotkey.Hotkey
}

func NewXRegistrar() *XRegistrar {
	return &XRegistrar{
		pressed:  make(chan struct{}, 1),
		released: make(chan struct{}, 1),
	}
}

var keyCodes = map[string]xhotkey.Key{
	"A": xhotkey.KeyA, "B": xhotkey.KeyB, "C": xhotkey.KeyC, "D": xhotkey.KeyD,
	"E": xhotkey.KeyE, "F": xhotkey.KeyF, "G": xhotkey.KeyG, "H": xhotkey.KeyH,
	"I": xhotkey.KeyI, "J": xhotkey.KeyJ, "K": xhotkey.KeyK, "L": xhotkey.KeyL,
	"M": xhotkey.KeyM, "N": xhotkey.KeyN, "O": xhotkey.KeyO, "P": xhotkey.KeyP,
	"Q": xhotkey.KeyQ, "R": xhotkey.KeyR, "S": xhotkey.KeyS, "T": xhotkey.KeyT,
	"U": xhotkey.KeyU, "V": xhotkey.KeyV, "W": xhotkey.KeyW, "X": xhotkey.KeyX,
	"Y": xhotkey.KeyY, "Z": xhotkey.KeyZ,
	"Space":  xhotkey.KeySpace,
	"Enter":  xhotkey.KeyReturn,
	"Escape": xhotkey.KeyEscape,
	"Tab":    xhotkey.KeyTab,
	"F1":     xhotkey.KeyF1, "F2": xhotkey.KeyF2, "F3": xhotkey.KeyF3,
	"F4": xhotkey.KeyF4, "F5": xhotkey.KeyF5, "F6": xhotkey.KeyF6,
	"F7": xhotkey.KeyF7, "F8": xhotkey.KeyF8, "F9": xhotkey.KeyF9,
	"F10": xhotkey.KeyF10, "F11": xhotkey.KeyF11, "F12": xhotkey.KeyF12,
}

func (r *XRegistrar) Register(b Binding) error {
	key, ok := keyCodes[b.Key]
	if !ok {
		// Bare right-side modifier bindings have no OS-level key code;
		// they only work through the raw capture path.
		return fmt.Errorf("key %q cannot be registered as a global hotkey", b.Key)
	}

	var mods []xhotkey.Modifier
	for _, m := range b.Modifiers {
		mod, ok := platformModifiers[m]
		if !ok {
			return fmt.Errorf("modifier %q not supported on this platform", m)
		}
		mods = append(mods, mod)
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return err
	}

	r.mu.Lock()
	r.hk = hk
	r.mu.Unlock()

	go func() {
		for range hk.Keydown() {
			select {
			case r.pressed <- struct{}{}:
			default:
			}
		}
	}()
	go func() {
		for range hk.Keyup() {
			select {
			case r.released <- struct{}{}:
			default:
			}
		}
	}()
	return nil
}

func (r *XRegistrar) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hk != nil {
		r.hk.Unregister()
		r.hk = nil
	}
}

func (r *XRegistrar) Pressed() <-chan struct{}  { return r.pressed }
func (r *XRegistrar) Released() <-chan struct{} { return r.released }
