package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"murmur/audio"
	"murmur/overlay"
	"murmur/store"
)

type fakeRecorder struct {
	startCalls int
	stopCalls  int
	wav        []byte
	startErr   error
	stopErr    error
}

func (f *fakeRecorder) Start() error {
	f.startCalls++
	return f.startErr
}

func (f *fakeRecorder) Stop() ([]byte, error) {
	f.stopCalls++
	return f.wav, f.stopErr
}

type fakeTranscriber struct {
	loaded   bool
	text     string
	language string
	err      error
}

func (f *fakeTranscriber) Loaded() bool { return f.loaded }

func (f *fakeTranscriber) Transcribe(context.Context, []byte) (string, string, error) {
	return f.text, f.language, f.err
}

type fakeCleaner struct {
	enabled bool
	out     string
	err     error
	calls   int
}

func (f *fakeCleaner) Enabled() bool { return f.enabled }

func (f *fakeCleaner) Cleanup(context.Context, string, string, string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeDelivery struct {
	mu         sync.Mutex
	copied     []string
	notified   []string
	pasteCalls int
}

func (f *fakeDelivery) Copy(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copied = append(f.copied, text)
	return nil
}

func (f *fakeDelivery) NotifyRecent(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, text)
}

func (f *fakeDelivery) Paste() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pasteCalls++
	return nil
}

func (f *fakeDelivery) pastes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pasteCalls
}

type fakeHistory struct {
	records []store.Record
}

func (f *fakeHistory) Push(r store.Record) { f.records = append(f.records, r) }

type fakeStats struct {
	completed int
}

func (f *fakeStats) Complete(string) { f.completed++ }

type harness struct {
	machine  *Machine
	recorder *fakeRecorder
	scribe   *fakeTranscriber
	cleaner  *fakeCleaner
	window   *overlay.FakeWindow
	delivery *fakeDelivery
	history  *fakeHistory
	stats    *fakeStats
}

func newHarness() *harness {
	h := &harness{
		recorder: &fakeRecorder{wav: make([]byte, audio.WAVHeaderSize+4096)},
		scribe:   &fakeTranscriber{loaded: true, text: "buy milk and eggs", language: "en"},
		cleaner:  &fakeCleaner{},
		window:   &overlay.FakeWindow{},
		delivery: &fakeDelivery{},
		history:  &fakeHistory{},
		stats:    &fakeStats{},
	}
	h.machine = New(Config{
		Recorder:      h.recorder,
		Transcriber:   h.scribe,
		Cleaner:       h.cleaner,
		Overlay:       overlay.NewCoordinator(h.window),
		Delivery:      h.delivery,
		History:       h.history,
		Stats:         h.stats,
		ReassertDelay: time.Millisecond,
		SettleDelay:   5 * time.Millisecond,
	})
	return h
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartWithoutModel(t *testing.T) {
	h := newHarness()
	h.scribe.loaded = false

	if err := h.machine.Start(); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("err = %v, want ErrModelNotLoaded", err)
	}
	if h.machine.Phase() != Idle {
		t.Errorf("phase = %v, want idle", h.machine.Phase())
	}
	if h.recorder.startCalls != 0 {
		t.Error("capture must not start without a model")
	}
}

func TestStartWhileRecordingIsNoOp(t *testing.T) {
	h := newHarness()
	if err := h.machine.Start(); err != nil {
		t.Fatal(err)
	}
	if err := h.machine.Start(); err != nil {
		t.Fatalf("second start must be silent, got %v", err)
	}
	if h.recorder.startCalls != 1 {
		t.Errorf("capture started %d times, want 1", h.recorder.startCalls)
	}
}

func TestStopOutsideRecordingIsNoOp(t *testing.T) {
	h := newHarness()
	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.recorder.stopCalls != 0 || len(h.history.records) != 0 {
		t.Error("stop outside recording must have no side effects")
	}
}

func TestEmptyTranscription(t *testing.T) {
	h := newHarness()
	h.scribe.text = " a "

	h.machine.Start()
	err := h.machine.Stop(context.Background())
	if !errors.Is(err, ErrEmptyTranscription) {
		t.Fatalf("err = %v, want ErrEmptyTranscription", err)
	}
	if h.machine.Phase() != Idle {
		t.Errorf("phase = %v, want idle", h.machine.Phase())
	}
	if len(h.history.records) != 0 {
		t.Error("no record must be created")
	}
	hidden := false
	for _, call := range h.window.Log() {
		if call == "hide" {
			hidden = true
		}
	}
	if !hidden {
		t.Error("overlay must be hidden on empty transcription")
	}
}

func TestTooLittleAudio(t *testing.T) {
	h := newHarness()
	h.recorder.wav = make([]byte, audio.WAVHeaderSize+10)

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("err = %v, want ErrNoAudio", err)
	}
	if h.machine.Phase() != Idle {
		t.Errorf("phase = %v", h.machine.Phase())
	}
}

func TestCleanupApplied(t *testing.T) {
	h := newHarness()
	h.scribe.text = "hello world"
	h.cleaner.enabled = true
	h.cleaner.out = "Hello, world!"

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	r := h.history.records[0]
	if r.RawText != "hello world" || r.CleanedText != "Hello, world!" {
		t.Errorf("record = %+v", r)
	}
}

func TestCleanupRefusalKeepsRaw(t *testing.T) {
	h := newHarness()
	h.scribe.text = "hello world"
	h.cleaner.enabled = true
	h.cleaner.out = "Please provide the transcript to clean up."

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.history.records[0].CleanedText != "hello world" {
		t.Errorf("cleaned = %q, want raw text", h.history.records[0].CleanedText)
	}
	if h.machine.LastError() != "" {
		t.Error("refusal must not surface an error")
	}
}

func TestCleanupFailureKeepsRaw(t *testing.T) {
	h := newHarness()
	h.scribe.text = "hello world"
	h.cleaner.enabled = true
	h.cleaner.err = errors.New("model exploded")

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.history.records[0].CleanedText != "hello world" {
		t.Error("cleanup failure must fall back to raw text")
	}
	if h.machine.LastError() != "" {
		t.Error("cleanup failure must be silent")
	}
}

func TestCleanupSkippedForShortText(t *testing.T) {
	h := newHarness()
	h.scribe.text = "abc"
	h.cleaner.enabled = true
	h.cleaner.out = "ABC"

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.cleaner.calls != 0 {
		t.Error("cleanup must be skipped for text of length <= 3")
	}
	if h.history.records[0].CleanedText != "abc" {
		t.Errorf("cleaned = %q", h.history.records[0].CleanedText)
	}
}

func TestTranscribeFailure(t *testing.T) {
	h := newHarness()
	h.scribe.err = errors.New("server on fire")

	h.machine.Start()
	if err := h.machine.Stop(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if h.machine.LastError() != "server on fire" {
		t.Errorf("lastError = %q", h.machine.LastError())
	}
	if h.machine.Phase() != Idle {
		t.Errorf("phase = %v", h.machine.Phase())
	}
}

func TestEndToEnd(t *testing.T) {
	h := newHarness()
	h.machine.SetMode("default")

	if err := h.machine.Start(); err != nil {
		t.Fatal(err)
	}
	if h.machine.Phase() != Recording {
		t.Fatalf("phase = %v, want recording", h.machine.Phase())
	}

	if err := h.machine.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.machine.Phase() != Ready {
		t.Fatalf("phase = %v, want ready", h.machine.Phase())
	}

	r := h.history.records[0]
	if r.RawText != "buy milk and eggs" || r.CleanedText != "buy milk and eggs" || r.Language != "en" {
		t.Errorf("record = %+v", r)
	}
	if len(h.delivery.copied) != 1 || h.delivery.copied[0] != "buy milk and eggs" {
		t.Errorf("copied = %v", h.delivery.copied)
	}
	if len(h.delivery.notified) != 1 {
		t.Errorf("notified = %v", h.delivery.notified)
	}
	if h.stats.completed != 1 {
		t.Errorf("stats completed = %d", h.stats.completed)
	}
	if h.machine.LastText() != "buy milk and eggs" {
		t.Errorf("lastText = %q", h.machine.LastText())
	}

	waitFor(t, "settle to idle", func() bool { return h.machine.Phase() == Idle })
	waitFor(t, "paste", func() bool { return h.delivery.pastes() == 1 })

	log := h.window.Log()
	if log[len(log)-1] != "hide" {
		t.Errorf("overlay log ends with %q, want hide", log[len(log)-1])
	}
}

func TestReadyAllowsRestart(t *testing.T) {
	h := newHarness()
	h.machine.Start()
	h.machine.Stop(context.Background())
	if h.machine.Phase() != Ready {
		t.Fatalf("phase = %v", h.machine.Phase())
	}
	if err := h.machine.Start(); err != nil {
		t.Fatal(err)
	}
	if h.machine.Phase() != Recording {
		t.Errorf("phase = %v, want recording", h.machine.Phase())
	}
	if h.recorder.startCalls != 2 {
		t.Errorf("capture started %d times, want 2", h.recorder.startCalls)
	}
}

func TestModeReassertedToOverlay(t *testing.T) {
	h := newHarness()
	h.machine.SetMode("email")
	h.machine.Start()

	waitFor(t, "mode reassert", func() bool {
		for _, call := range h.window.Log() {
			if call == "update recording email" {
				return true
			}
		}
		return false
	})
}
