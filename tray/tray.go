package tray

import (
	"sync"
	"time"
)

// ModeItem is one output mode entry for the tray menu.
type ModeItem struct {
	ID     string
	Name   string
	Active bool
}

// maxRecent bounds the recent-transcripts section of the menu.
const maxRecent = 3

// displayWidth is the truncation point for recent-transcript titles.
const displayWidth = 50

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	recordFn func()
	stopFn   func()

	recording bool

	recentMu    sync.Mutex
	recentTexts []string
	recentCb    func(text string)

	deviceMu    sync.Mutex
	deviceNames []string
	deviceSel   string
	deviceCb    func(string)

	modeMu    sync.Mutex
	modeItems []ModeItem
	modeCb    func(string)

	cleanupOn bool
	cleanupCb func(bool)

	hotkeyOn bool
	hotkeyCb func(bool)
)

func OnRecord(start, stop func())   { recordFn = start; stopFn = stop }
func SetCleanup(on bool)            { cleanupOn = on }
func OnCleanup(fn func(bool))       { cleanupCb = fn }
func SetHotkeyEnabled(on bool)      { hotkeyOn = on }
func OnHotkeyEnabled(fn func(bool)) { hotkeyCb = fn }

func SetRecording(rec bool) {
	recording = rec
	updateRecordingIcon(rec)
	if rec {
		disableDevices()
	} else {
		enableDevices()
	}
}

func SetError(msg string) {
	updateTooltip("murmur – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateTooltip("murmur – push to talk")
	}()
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

func SetDevices(names []string, selected string, onSwitch func(name string)) {
	deviceMu.Lock()
	deviceNames = names
	deviceSel = selected
	if onSwitch != nil {
		deviceCb = onSwitch
	}
	deviceMu.Unlock()
}

func SetModes(items []ModeItem, onSwitch func(id string)) {
	modeMu.Lock()
	modeItems = items
	modeCb = onSwitch
	modeMu.Unlock()
}

// PushRecent puts text at the front of the recent-transcripts section,
// keeping the newest three. Clicking an entry hands its full text to
// the copy callback; titles are truncated for display only.
func PushRecent(text string, onCopy func(text string)) {
	recentMu.Lock()
	recentTexts = append([]string{text}, recentTexts...)
	if len(recentTexts) > maxRecent {
		recentTexts = recentTexts[:maxRecent]
	}
	if onCopy != nil {
		recentCb = onCopy
	}
	texts := append([]string{}, recentTexts...)
	recentMu.Unlock()
	refreshRecent(texts)
}

func displayTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= displayWidth {
		return text
	}
	return string(runes[:displayWidth]) + "..."
}
