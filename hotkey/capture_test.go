package hotkey

import (
	"testing"

	"murmur/store"
)

type fakeSettings struct {
	strings map[string]string
	bools   map[string]bool
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{strings: map[string]string{}, bools: map[string]bool{}}
}

func (s *fakeSettings) Set(key, value string) error {
	s.strings[key] = value
	return nil
}

func (s *fakeSettings) SetBool(key string, on bool) error {
	s.bools[key] = on
	return nil
}

func newTestEngine(t *testing.T, enabled bool) (*Engine, *fakeSettings, *FakeRegistrar) {
	t.Helper()
	settings := newFakeSettings()
	reg := NewFakeRegistrar()
	return NewEngine(settings, reg, DefaultBinding(), enabled), settings, reg
}

func TestCaptureRightModifierAlone(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	b, ok := e.HandleRawKey(RawKeyEvent{Code: "ShiftRight", Key: "Shift", Shift: true})
	if !ok {
		t.Fatal("expected commit for right-side modifier")
	}
	if b.Key != "ShiftRight" {
		t.Errorf("primary key = %q, want ShiftRight", b.Key)
	}
	if b.HasModifier(ModShift) {
		t.Error("modifier set must not include the pressed key itself")
	}
	if e.Capturing() {
		t.Error("capture mode should end on commit")
	}
}

func TestCaptureRightModifierWithOthersHeld(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	b, ok := e.HandleRawKey(RawKeyEvent{Code: "MetaRight", Key: "Meta", Meta: true, Control: true})
	if !ok {
		t.Fatal("expected commit")
	}
	if b.Key != "MetaRight" {
		t.Errorf("primary key = %q, want MetaRight", b.Key)
	}
	if b.HasModifier(ModMeta) {
		t.Error("self-included Meta modifier")
	}
	if !b.HasModifier(ModControl) {
		t.Error("held Control modifier missing")
	}
}

func TestCaptureModifierPlusLetter(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	b, ok := e.HandleRawKey(RawKeyEvent{Code: "KeyA", Key: "a", Meta: true, Shift: true})
	if !ok {
		t.Fatal("expected commit")
	}
	if b.Key != "A" {
		t.Errorf("key = %q, want upper-cased A", b.Key)
	}
	if len(b.Modifiers) != 2 || b.Modifiers[0] != ModMeta || b.Modifiers[1] != ModShift {
		t.Errorf("modifiers = %v, want [Meta Shift] in fixed order", b.Modifiers)
	}
}

func TestCaptureSpaceNormalized(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	b, ok := e.HandleRawKey(RawKeyEvent{Code: "Space", Key: " ", Control: true})
	if !ok {
		t.Fatal("expected commit")
	}
	if b.Key != "Space" {
		t.Errorf("key = %q, want Space", b.Key)
	}
}

func TestCaptureRejectsBareKey(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	if _, ok := e.HandleRawKey(RawKeyEvent{Code: "KeyA", Key: "a"}); ok {
		t.Error("committed without any modifier")
	}
	if !e.Capturing() {
		t.Error("engine should keep listening")
	}
}

func TestCaptureRejectsLeftModifierKey(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	e.BeginCapture()

	// Left-side modifier pressed while another is held: the logical key
	// normalizes to a modifier name, so no commit.
	if _, ok := e.HandleRawKey(RawKeyEvent{Code: "ShiftLeft", Key: "Shift", Shift: true, Meta: true}); ok {
		t.Error("committed a bare modifier as primary key")
	}
}

func TestCommitPersistsAndReregistersWhenEnabled(t *testing.T) {
	e, settings, reg := newTestEngine(t, true)
	e.BeginCapture()

	if _, ok := e.HandleRawKey(RawKeyEvent{Code: "KeyD", Key: "d", Meta: true}); !ok {
		t.Fatal("expected commit")
	}
	if settings.strings[store.KeyBinding] != "Meta+D" {
		t.Errorf("persisted %q, want Meta+D", settings.strings[store.KeyBinding])
	}
	if reg.UnregisterCalls != 1 {
		t.Errorf("UnregisterAll calls = %d, want 1", reg.UnregisterCalls)
	}
	if len(reg.Registered) != 1 || reg.Registered[0].Key != "D" {
		t.Errorf("registered = %v, want [Meta+D]", reg.Registered)
	}
}

func TestCommitSkipsRegistrationWhenDisabled(t *testing.T) {
	e, settings, reg := newTestEngine(t, false)
	e.BeginCapture()

	if _, ok := e.HandleRawKey(RawKeyEvent{Code: "KeyD", Key: "d", Meta: true}); !ok {
		t.Fatal("expected commit")
	}
	if settings.strings[store.KeyBinding] == "" {
		t.Error("binding should persist even while disabled")
	}
	if len(reg.Registered) != 0 || reg.UnregisterCalls != 0 {
		t.Error("registrar should not be touched while disabled")
	}
}

func TestSetEnabledToggling(t *testing.T) {
	e, settings, reg := newTestEngine(t, false)

	e.SetEnabled(true)
	if !settings.bools[store.KeyHotkeyEnabled] {
		t.Error("enabled flag not persisted")
	}
	if len(reg.Registered) != 1 {
		t.Errorf("expected registration on enable, got %d", len(reg.Registered))
	}

	e.SetEnabled(false)
	if settings.bools[store.KeyHotkeyEnabled] {
		t.Error("disabled flag not persisted")
	}
	if reg.UnregisterCalls < 2 {
		t.Errorf("expected unregister on disable, got %d calls", reg.UnregisterCalls)
	}
}

func TestHandleRawKeyIgnoredOutsideCapture(t *testing.T) {
	e, _, _ := newTestEngine(t, false)
	if _, ok := e.HandleRawKey(RawKeyEvent{Code: "KeyA", Key: "a", Meta: true}); ok {
		t.Error("event handled while not capturing")
	}
}
