// Package session owns the recording session state machine: the
// press-to-release pipeline from audio capture through transcription,
// cleanup, history, and clipboard delivery.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/cleanup"
	"murmur/log"
	"murmur/overlay"
	"murmur/store"
)

type Phase int

const (
	Idle Phase = iota
	Recording
	Transcribing
	Cleaning
	Ready
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	case Cleaning:
		return "cleaning"
	case Ready:
		return "ready"
	}
	return "unknown"
}

var (
	ErrModelNotLoaded     = errors.New("load a transcription model first")
	ErrEmptyTranscription = errors.New("no speech detected")
	ErrNoAudio            = errors.New("no audio captured, check microphone permissions")
)

// minAudioBytes is the smallest PCM payload worth sending to the
// transcriber. Anything below this is a capture failure, usually a
// denied microphone permission.
const minAudioBytes = 1000

// Recorder is the audio capture side of the pipeline.
type Recorder interface {
	Start() error
	Stop() ([]byte, error)
}

type Transcriber interface {
	Loaded() bool
	Transcribe(ctx context.Context, wav []byte) (text, language string, err error)
}

type Cleaner interface {
	Enabled() bool
	Cleanup(ctx context.Context, text, modeID, languageName string) (string, error)
}

type Overlay interface {
	ShowRecording(modeTag string)
	SetState(s overlay.State)
	SetMode(modeTag string)
	Hide()
}

type Delivery interface {
	Copy(text string) error
	NotifyRecent(text string)
	Paste() error
}

type History interface {
	Push(store.Record)
}

type Stats interface {
	Complete(finalText string)
}

type Config struct {
	Recorder    Recorder
	Transcriber Transcriber
	Cleaner     Cleaner
	Overlay     Overlay
	Delivery    Delivery
	History     History
	Stats       Stats

	// ReassertDelay is how long after showing the overlay the mode tag
	// is sent again. The overlay window may still be initializing when
	// the first SetMode lands, so the repeat is required, not cosmetic.
	ReassertDelay time.Duration
	// SettleDelay is how long the "done" pill stays up before the
	// overlay hides and the paste keystroke fires.
	SettleDelay time.Duration
}

type Machine struct {
	mu        sync.Mutex
	phase     Phase
	lastError string
	lastText  string
	modeID    string

	recorder    Recorder
	transcriber Transcriber
	cleaner     Cleaner
	overlay     Overlay
	delivery    Delivery
	history     History
	stats       Stats

	reassertDelay time.Duration
	settleDelay   time.Duration
}

func New(cfg Config) *Machine {
	if cfg.ReassertDelay == 0 {
		cfg.ReassertDelay = 100 * time.Millisecond
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}
	return &Machine{
		phase:         Idle,
		modeID:        "default",
		recorder:      cfg.Recorder,
		transcriber:   cfg.Transcriber,
		cleaner:       cfg.Cleaner,
		overlay:       cfg.Overlay,
		delivery:      cfg.Delivery,
		history:       cfg.History,
		stats:         cfg.Stats,
		reassertDelay: cfg.ReassertDelay,
		settleDelay:   cfg.SettleDelay,
	}
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Machine) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// SetMode updates the active mode id. Event handlers live for the
// process lifetime, so the mode must be read at use time, never
// captured at wiring time.
func (m *Machine) SetMode(id string) {
	m.mu.Lock()
	m.modeID = id
	m.mu.Unlock()
}

func (m *Machine) ModeID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modeID
}

// SetLastText seeds the displayed result, used once at startup to
// surface the most recent persisted transcript.
func (m *Machine) SetLastText(text string) {
	m.mu.Lock()
	m.lastText = text
	m.mu.Unlock()
}

// Start begins a recording session. A missing model is surfaced as
// ErrModelNotLoaded; a wrong-phase call is a silent no-op. Any capture
// failure lands in LastError rather than being returned.
func (m *Machine) Start() error {
	if !m.transcriber.Loaded() {
		m.mu.Lock()
		m.lastError = ErrModelNotLoaded.Error()
		m.mu.Unlock()
		return ErrModelNotLoaded
	}

	m.mu.Lock()
	if m.phase != Idle && m.phase != Ready {
		m.mu.Unlock()
		return nil
	}
	m.lastError = ""
	m.lastText = ""
	modeID := m.modeID
	m.mu.Unlock()

	if err := m.recorder.Start(); err != nil {
		log.Errorf("start capture: %v", err)
		m.mu.Lock()
		m.lastError = err.Error()
		m.phase = Idle
		m.mu.Unlock()
		return nil
	}

	m.overlay.ShowRecording(modeID)
	// The overlay window races its own initialization against this
	// first SetMode, so repeat it shortly after.
	time.AfterFunc(m.reassertDelay, func() {
		m.overlay.SetMode(m.ModeID())
	})

	m.mu.Lock()
	m.phase = Recording
	m.mu.Unlock()
	return nil
}

// Stop finalizes the session and runs the pipeline to completion. A
// call outside the Recording phase is a silent no-op.
func (m *Machine) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.phase != Recording {
		m.mu.Unlock()
		return nil
	}
	m.phase = Transcribing
	modeID := m.modeID
	m.mu.Unlock()

	started := time.Now()

	// Step 1: finalize capture.
	m.overlay.SetState(overlay.StateProcessing)
	wav, err := m.recorder.Stop()
	if err != nil {
		return m.fail(err)
	}
	if len(wav) < audio.WAVHeaderSize+minAudioBytes {
		return m.fail(ErrNoAudio)
	}

	// Step 2: transcribe and trim.
	text, language, err := m.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return m.fail(err)
	}
	raw := strings.TrimSpace(text)
	if len(raw) < 2 {
		return m.fail(ErrEmptyTranscription)
	}

	// Step 3: optional cleanup. Failures and refusal-shaped answers
	// fall back to the raw transcript without surfacing an error.
	final := raw
	cleanupApplied := false
	if m.cleaner.Enabled() && len(raw) > 3 {
		m.mu.Lock()
		m.phase = Cleaning
		m.mu.Unlock()
		m.overlay.SetState(overlay.StateGenerating)
		cleaned, err := m.cleaner.Cleanup(ctx, raw, modeID, language)
		switch {
		case err != nil:
			log.Warnf("cleanup failed, keeping raw transcript: %v", err)
		case cleaned == "" || cleanup.IsRefusal(cleaned):
			log.Warn("cleanup returned a refusal, keeping raw transcript")
		default:
			final = cleaned
			cleanupApplied = true
		}
	}

	// Step 4: bookkeeping.
	record := store.Record{
		RawText:     raw,
		CleanedText: final,
		Language:    language,
		ModeID:      modeID,
		Timestamp:   time.Now(),
	}
	m.history.Push(record)
	m.stats.Complete(final)

	// Step 5: deliver.
	if err := m.delivery.Copy(final); err != nil {
		return m.fail(err)
	}
	m.delivery.NotifyRecent(final)

	// Step 6: done.
	m.overlay.SetState(overlay.StateDone)
	m.mu.Lock()
	m.phase = Ready
	m.lastText = final
	m.mu.Unlock()

	log.Pipeline(modeID, language, len(raw), len(final), cleanupApplied,
		float64(time.Since(started).Milliseconds()))
	log.TranscriptionText(final)

	// Step 7: settle, then hide and paste. The timer is not tied to
	// this session; if a new session starts within the delay the hide
	// and paste still fire. Known ordering hazard, kept as is.
	time.AfterFunc(m.settleDelay, func() {
		m.overlay.Hide()
		if err := m.delivery.Paste(); err != nil {
			log.Warnf("paste: %v", err)
		}
		m.mu.Lock()
		if m.phase == Ready {
			m.phase = Idle
		}
		m.mu.Unlock()
	})
	return nil
}

// fail records the error, forces Idle, and hides the overlay. The hide
// is best-effort; overlay implementations keep it idempotent.
func (m *Machine) fail(err error) error {
	log.Errorf("session failed: %v", err)
	m.mu.Lock()
	m.lastError = err.Error()
	m.phase = Idle
	m.mu.Unlock()
	m.overlay.Hide()
	return err
}
