// Package device manages capture-device enumeration and the persisted
// device preference.
package device

import (
	"fmt"

	"murmur/audio"
	"murmur/log"
	"murmur/store"
)

// Settings is the slice of the persistence store the selector uses.
type Settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Recorder is the capture side the selector drives.
type Recorder interface {
	Devices() ([]audio.DeviceInfo, error)
	SetDevice(*audio.DeviceInfo)
	DeviceID() string
}

type Selector struct {
	settings Settings
	recorder Recorder
}

func NewSelector(settings Settings, recorder Recorder) *Selector {
	return &Selector{settings: settings, recorder: recorder}
}

// Devices enumerates the currently available capture devices.
func (s *Selector) Devices() ([]audio.DeviceInfo, error) {
	devices, err := s.recorder.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	return devices, nil
}

// Select switches capture to the device with the given id and persists
// the choice. An empty id reverts to the system default and clears the
// persisted preference.
func (s *Selector) Select(id string) error {
	if id == "" {
		s.recorder.SetDevice(nil)
		if err := s.settings.Delete(store.KeyDevice); err != nil {
			log.Warnf("clear device preference: %v", err)
		}
		log.Info("capture device: system default")
		return nil
	}

	devices, err := s.recorder.Devices()
	if err != nil {
		return fmt.Errorf("enumerate capture devices: %w", err)
	}
	for _, d := range devices {
		if d.ID == id {
			dev := d
			s.recorder.SetDevice(&dev)
			if err := s.settings.Set(store.KeyDevice, id); err != nil {
				log.Warnf("persist device preference: %v", err)
			}
			log.Info("capture device: " + d.Name)
			return nil
		}
	}
	return fmt.Errorf("capture device not found: %s", id)
}

// Restore applies the persisted device preference if that device is
// still attached. A missing device leaves the system default selected
// without clearing the preference, so the device is picked up again
// once replugged.
func (s *Selector) Restore() {
	id, err := s.settings.Get(store.KeyDevice)
	if err != nil {
		log.Warnf("read device preference: %v", err)
		return
	}
	if id == "" {
		return
	}
	devices, err := s.recorder.Devices()
	if err != nil {
		log.Warnf("enumerate capture devices: %v", err)
		return
	}
	for _, d := range devices {
		if d.ID == id {
			dev := d
			s.recorder.SetDevice(&dev)
			log.Info("restored capture device: " + d.Name)
			return
		}
	}
	log.Warn("preferred capture device not attached, using system default")
}
