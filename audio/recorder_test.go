package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestRecorderBuffersAndWrapsWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	rec := NewRecorder(NewFakeContext(pcm))

	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	wav, err := rec.Stop()
	if err != nil {
		t.Fatal(err)
	}

	if len(wav) != WAVHeaderSize+len(pcm) {
		t.Fatalf("got %d bytes, want %d", len(wav), WAVHeaderSize+len(pcm))
	}
	if !bytes.Equal(wav[:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing WAV magic")
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Errorf("sample rate %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(wav[WAVHeaderSize:], pcm) {
		t.Error("PCM payload not preserved")
	}
}

func TestRecorderStopWithoutStart(t *testing.T) {
	rec := NewRecorder(NewFakeContext(nil))
	if _, err := rec.Stop(); err != ErrNotRecording {
		t.Errorf("got %v, want ErrNotRecording", err)
	}
}

func TestRecorderRestartClearsBuffer(t *testing.T) {
	pcm := []byte{9, 0, 9, 0}
	rec := NewRecorder(NewFakeContext(pcm))

	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Stop(); err != nil {
		t.Fatal(err)
	}

	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	wav, err := rec.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if len(wav) != WAVHeaderSize+len(pcm) {
		t.Errorf("second recording has %d bytes, want %d (buffer not cleared?)", len(wav), WAVHeaderSize+len(pcm))
	}
}

func TestPeakAmplitude(t *testing.T) {
	silent := make([]byte, 32)
	if got := PeakAmplitude(silent); got != 0 {
		t.Errorf("silent peak = %f, want 0", got)
	}

	loud := make([]byte, 8)
	sample := int16(-16384)
	binary.LittleEndian.PutUint16(loud[4:], uint16(sample))
	got := PeakAmplitude(loud)
	if got < 0.49 || got > 0.51 {
		t.Errorf("peak = %f, want ~0.5", got)
	}
}
