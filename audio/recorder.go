package audio

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNotRecording = errors.New("not recording")

// Recorder owns the active capture device and buffers samples between
// Start and Stop. Only one capture runs at a time; the session layer
// guarantees Start/Stop are not interleaved.
type Recorder struct {
	ctx    Context
	config CaptureConfig

	mu        sync.Mutex
	capture   CaptureDevice
	device    *DeviceInfo
	buf       []byte
	recording bool
}

func NewRecorder(ctx Context) *Recorder {
	return &Recorder{
		ctx:    ctx,
		config: CaptureConfig{SampleRate: SampleRate, Channels: Channels},
	}
}

// Devices returns the current capture device enumeration.
func (r *Recorder) Devices() ([]DeviceInfo, error) {
	return r.ctx.Devices()
}

// SetDevice switches the input device. nil selects the system default.
// The new device takes effect on the next Start.
func (r *Recorder) SetDevice(device *DeviceInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.device = device
}

// DeviceID returns the id of the selected device, or "" for default.
func (r *Recorder) DeviceID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return ""
	}
	return r.device.ID
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return errors.New("already recording")
	}
	device := r.device
	r.buf = r.buf[:0]
	r.mu.Unlock()

	capture, err := r.ctx.NewCapture(device, r.config)
	if err != nil {
		return fmt.Errorf("init capture: %w", err)
	}

	capture.SetCallback(func(data []byte, _ uint32) {
		r.mu.Lock()
		if r.recording {
			r.buf = append(r.buf, data...)
		}
		r.mu.Unlock()
	})

	r.mu.Lock()
	r.capture = capture
	r.recording = true
	r.mu.Unlock()

	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		capture.Close()
		r.mu.Lock()
		r.capture = nil
		r.recording = false
		r.mu.Unlock()
		return fmt.Errorf("start capture: %w", err)
	}
	return nil
}

// Stop finalizes the capture and returns the recording as WAV bytes.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.recording = false
	capture := r.capture
	r.capture = nil
	r.mu.Unlock()

	capture.Stop()
	capture.ClearCallback()
	capture.Close()

	r.mu.Lock()
	pcm := make([]byte, len(r.buf))
	copy(pcm, r.buf)
	r.mu.Unlock()

	return EncodeWAV(pcm, r.config.SampleRate, r.config.Channels), nil
}
