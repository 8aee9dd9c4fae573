package hotkey

// Registrar is the OS global-hotkey service. Pressed/Released fire for
// the currently registered binding.
type Registrar interface {
	Register(b Binding) error
	UnregisterAll()
	Pressed() <-chan struct{}
	Released() <-chan struct{}
}
