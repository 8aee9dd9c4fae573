package device

import (
	"testing"

	"murmur/audio"
	"murmur/store"
)

type memSettings map[string]string

func (m memSettings) Get(key string) (string, error) {
	return m[key], nil
}

func (m memSettings) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memSettings) Delete(key string) error {
	delete(m, key)
	return nil
}

type fakeRecorder struct {
	devices []audio.DeviceInfo
	current string
}

func (f *fakeRecorder) Devices() ([]audio.DeviceInfo, error) { return f.devices, nil }

func (f *fakeRecorder) SetDevice(d *audio.DeviceInfo) {
	if d == nil {
		f.current = ""
		return
	}
	f.current = d.ID
}

func (f *fakeRecorder) DeviceID() string { return f.current }

func twoDevices() []audio.DeviceInfo {
	return []audio.DeviceInfo{
		{ID: "aa01", Name: "Built-in Microphone"},
		{ID: "bb02", Name: "USB Headset"},
	}
}

func TestSelectPersists(t *testing.T) {
	settings := memSettings{}
	rec := &fakeRecorder{devices: twoDevices()}
	s := NewSelector(settings, rec)

	if err := s.Select("bb02"); err != nil {
		t.Fatal(err)
	}
	if rec.current != "bb02" {
		t.Errorf("recorder device = %q, want bb02", rec.current)
	}
	if settings[store.KeyDevice] != "bb02" {
		t.Errorf("persisted = %q, want bb02", settings[store.KeyDevice])
	}
}

func TestSelectDefaultClearsPreference(t *testing.T) {
	settings := memSettings{store.KeyDevice: "bb02"}
	rec := &fakeRecorder{devices: twoDevices(), current: "bb02"}
	s := NewSelector(settings, rec)

	if err := s.Select(""); err != nil {
		t.Fatal(err)
	}
	if rec.current != "" {
		t.Errorf("recorder device = %q, want system default", rec.current)
	}
	if _, ok := settings[store.KeyDevice]; ok {
		t.Error("preference not cleared")
	}
}

func TestSelectUnknownDevice(t *testing.T) {
	settings := memSettings{}
	s := NewSelector(settings, &fakeRecorder{devices: twoDevices()})

	if err := s.Select("zz99"); err == nil {
		t.Fatal("expected error for unknown device")
	}
	if len(settings) != 0 {
		t.Error("failed selection must not persist")
	}
}

func TestRestoreAttachedDevice(t *testing.T) {
	settings := memSettings{store.KeyDevice: "bb02"}
	rec := &fakeRecorder{devices: twoDevices()}
	NewSelector(settings, rec).Restore()

	if rec.current != "bb02" {
		t.Errorf("recorder device = %q, want bb02", rec.current)
	}
}

func TestRestoreMissingDeviceKeepsPreference(t *testing.T) {
	settings := memSettings{store.KeyDevice: "gone"}
	rec := &fakeRecorder{devices: twoDevices()}
	NewSelector(settings, rec).Restore()

	if rec.current != "" {
		t.Errorf("recorder device = %q, want system default", rec.current)
	}
	if settings[store.KeyDevice] != "gone" {
		t.Error("preference must survive a missing device")
	}
}
