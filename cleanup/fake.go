package cleanup

import "context"

// Fake is a scripted cleaner for tests and the headless harness.
type Fake struct {
	Response  string
	Err       error
	Reachable bool
	On        bool
	Calls     []string
}

func NewFake(response string) *Fake {
	return &Fake{Response: response, Reachable: true, On: true}
}

func (f *Fake) Available(context.Context) bool { return f.Reachable }

func (f *Fake) Enabled() bool { return f.On }

func (f *Fake) SetEnabled(enabled bool) { f.On = enabled }

func (f *Fake) Cleanup(_ context.Context, text, modeID, languageName string) (string, error) {
	f.Calls = append(f.Calls, text)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}
