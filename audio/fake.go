package audio

import "sync"

// FakeContext feeds canned PCM to its capture device, for tests and the
// headless test mode.
type FakeContext struct {
	pcm     []byte
	devices []DeviceInfo
}

func NewFakeContext(pcm []byte, devices ...DeviceInfo) *FakeContext {
	return &FakeContext{pcm: pcm, devices: devices}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return f.devices, nil }
func (f *FakeContext) Close()                         {}

func (f *FakeContext) NewCapture(device *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm, device: device}, nil
}

type FakeCapture struct {
	pcm    []byte
	device *DeviceInfo

	mu sync.Mutex
	cb DataCallback
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

// Start delivers the canned PCM in one callback, like a very fast mic.
func (f *FakeCapture) Start() error {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil && len(f.pcm) > 0 {
		chunk := make([]byte, len(f.pcm))
		copy(chunk, f.pcm)
		cb(chunk, uint32(len(chunk)/2))
	}
	return nil
}

func (f *FakeCapture) Stop()  {}
func (f *FakeCapture) Close() {}
