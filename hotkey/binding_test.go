package hotkey

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := Binding{Key: "Space", Modifiers: []string{ModMeta, ModShift}}
	got := DecodeBinding(b.Encode())
	if got.Key != "Space" || len(got.Modifiers) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestDecodeEmptyFallsBackToDefault(t *testing.T) {
	got := DecodeBinding("")
	want := DefaultBinding()
	if got.Key != want.Key || len(got.Modifiers) != len(want.Modifiers) {
		t.Errorf("got %+v, want default %+v", got, want)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		binding Binding
		want    string
	}{
		{Binding{Key: "Space", Modifiers: []string{ModMeta, ModShift}}, "⌘⇧Space"},
		{Binding{Key: "ShiftRight", Modifiers: nil}, "⇧"},
		{Binding{Key: "A", Modifiers: []string{ModControl}}, "⌃A"},
		{Binding{Key: "F5", Modifiers: []string{ModAlt}}, "⌥F5"},
	}
	for _, c := range cases {
		if got := Format(c.binding); got != c.want {
			t.Errorf("Format(%+v) = %q, want %q", c.binding, got, c.want)
		}
	}
}
