package transcriber

import "context"

// Fake is a scripted transcriber for tests and the headless harness.
type Fake struct {
	Text     string
	Language string
	Err      error
	Ready    bool
	Audio    [][]byte
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Language: "english", Err: err, Ready: true}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Loaded() bool { return f.Ready }

func (f *Fake) LoadModel(context.Context, string) error {
	f.Ready = true
	return nil
}

func (f *Fake) Transcribe(_ context.Context, wav []byte) (*Result, error) {
	f.Audio = append(f.Audio, wav)
	if f.Err != nil {
		return nil, f.Err
	}
	return &Result{Text: f.Text, Language: f.Language}, nil
}
