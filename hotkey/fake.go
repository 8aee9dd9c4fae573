package hotkey

type FakeRegistrar struct {
	pressed  chan struct{}
	released chan struct{}

	Registered      []Binding
	UnregisterCalls int
}

func NewFakeRegistrar() *FakeRegistrar {
	return &FakeRegistrar{
		pressed:  make(chan struct{}, 1),
		released: make(chan struct{}, 1),
	}
}

func (f *FakeRegistrar) Register(b Binding) error {
	f.Registered = append(f.Registered, b)
	return nil
}

func (f *FakeRegistrar) UnregisterAll()            { f.UnregisterCalls++ }
func (f *FakeRegistrar) Pressed() <-chan struct{}  { return f.pressed }
func (f *FakeRegistrar) Released() <-chan struct{} { return f.released }

func (f *FakeRegistrar) SimPress()   { f.pressed <- struct{}{} }
func (f *FakeRegistrar) SimRelease() { f.released <- struct{}{} }
