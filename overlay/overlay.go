// Package overlay drives the small always-on-top status pill shown
// during a dictation session.
package overlay

import "sync"

type State string

const (
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateGenerating State = "generating"
	StateDone       State = "done"
)

// Window is the rendering side of the overlay. Implementations must be
// safe to call from any goroutine.
type Window interface {
	Show(state State, modeTag string)
	Update(state State, modeTag string)
	Hide()
}

// Coordinator tracks overlay visibility and forwards state changes to
// the window. Hide is idempotent so error paths can call it blindly.
type Coordinator struct {
	mu      sync.Mutex
	window  Window
	visible bool
	state   State
	modeTag string
}

func NewCoordinator(w Window) *Coordinator {
	return &Coordinator{window: w}
}

// ShowRecording makes the overlay visible in the recording state.
func (c *Coordinator) ShowRecording(modeTag string) {
	c.mu.Lock()
	c.visible = true
	c.state = StateRecording
	c.modeTag = modeTag
	c.mu.Unlock()
	c.window.Show(StateRecording, modeTag)
}

// SetState advances the pill through the pipeline states. Ignored while
// hidden.
func (c *Coordinator) SetState(s State) {
	c.mu.Lock()
	if !c.visible {
		c.mu.Unlock()
		return
	}
	c.state = s
	modeTag := c.modeTag
	c.mu.Unlock()
	c.window.Update(s, modeTag)
}

// SetMode updates the mode tag. The tag is re-sent to a visible window
// so a mode switch during a session shows up immediately.
func (c *Coordinator) SetMode(modeTag string) {
	c.mu.Lock()
	c.modeTag = modeTag
	visible := c.visible
	state := c.state
	c.mu.Unlock()
	if visible {
		c.window.Update(state, modeTag)
	}
}

func (c *Coordinator) Hide() {
	c.mu.Lock()
	if !c.visible {
		c.mu.Unlock()
		return
	}
	c.visible = false
	c.mu.Unlock()
	c.window.Hide()
}

func (c *Coordinator) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}
