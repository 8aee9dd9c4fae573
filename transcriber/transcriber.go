// Package transcriber turns captured WAV audio into text through a
// local whisper server.
package transcriber

import "context"

// Result is one finished transcription. Language is the model's
// detected language name, "english" when detection is unavailable.
type Result struct {
	Text     string
	Language string
}

type Transcriber interface {
	Name() string
	Loaded() bool
	LoadModel(ctx context.Context, model string) error
	Transcribe(ctx context.Context, wav []byte) (*Result, error)
}
