package overlay

import (
	"fmt"
	"sync"
)

// FakeWindow records window calls for tests.
type FakeWindow struct {
	mu    sync.Mutex
	Calls []string
}

func (f *FakeWindow) Show(state State, modeTag string) {
	f.record(fmt.Sprintf("show %s %s", state, modeTag))
}

func (f *FakeWindow) Update(state State, modeTag string) {
	f.record(fmt.Sprintf("update %s %s", state, modeTag))
}

func (f *FakeWindow) Hide() {
	f.record("hide")
}

func (f *FakeWindow) record(s string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, s)
	f.mu.Unlock()
}

func (f *FakeWindow) Log() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.Calls...)
}
