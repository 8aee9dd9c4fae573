package main

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/hotkey"
	"murmur/overlay"
)

// TUI message types
type OverlayMsg struct {
	Visible bool
	State   overlay.State
	ModeTag string
}
type TranscriptionMsg struct{ Text string }
type ErrorMsg struct{ Text string }
type ModeLineMsg struct{ Text string }
type DeviceLineMsg struct{ Text string }
type BindingLineMsg struct{ Text string }
type StatsMsg struct {
	Completed int
	Words     int
	Streak    int
}
type CaptureMsg struct{ Active bool }
type LogMsg struct{ Text string }

// uiCommands carries key-driven actions from the TUI goroutine to the
// main event loop. All sends are non-blocking.
type uiCommands struct {
	record        chan struct{}
	stop          chan struct{}
	nextMode      chan struct{}
	toggleCleanup chan struct{}
	toggleHotkey  chan struct{}
	beginCapture  chan struct{}
	cancelCapture chan struct{}
	captureKey    chan hotkey.RawKeyEvent
}

func newUICommands() *uiCommands {
	return &uiCommands{
		record:        make(chan struct{}, 1),
		stop:          make(chan struct{}, 1),
		nextMode:      make(chan struct{}, 1),
		toggleCleanup: make(chan struct{}, 1),
		toggleHotkey:  make(chan struct{}, 1),
		beginCapture:  make(chan struct{}, 1),
		cancelCapture: make(chan struct{}, 1),
		captureKey:    make(chan hotkey.RawKeyEvent, 4),
	}
}

func fire(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	tuiReady     = make(chan struct{})
	tuiReadyOnce sync.Once
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleText  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	stateStyles = map[overlay.State]lipgloss.Style{
		overlay.StateRecording:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		overlay.StateProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		overlay.StateGenerating: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		overlay.StateDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
	stateLines = map[overlay.State]string{
		overlay.StateRecording:  "● listening",
		overlay.StateProcessing: "◌ transcribing",
		overlay.StateGenerating: "✦ formatting",
		overlay.StateDone:       "✓ copied",
	}
)

type tuiModel struct {
	cmds *uiCommands

	visible   bool
	state     overlay.State
	modeTag   string
	capturing bool

	modeLine    string
	deviceLine  string
	bindingLine string
	statsLine   string
	lastText    string
	lastError   string
	logLine     string

	width int
}

func NewTUIProgram(cmds *uiCommands) *tea.Program {
	return tea.NewProgram(tuiModel{cmds: cmds}, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	tuiReadyOnce.Do(func() { close(tuiReady) })
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OverlayMsg:
		m.visible = msg.Visible
		m.state = msg.State
		if msg.ModeTag != "" {
			m.modeTag = msg.ModeTag
		}

	case TranscriptionMsg:
		m.lastText = msg.Text
		m.lastError = ""

	case ErrorMsg:
		m.lastError = msg.Text

	case ModeLineMsg:
		m.modeLine = msg.Text

	case DeviceLineMsg:
		m.deviceLine = msg.Text

	case BindingLineMsg:
		m.bindingLine = msg.Text

	case StatsMsg:
		m.statsLine = fmt.Sprintf("today: %d sessions | %d words | streak: %dd",
			msg.Completed, msg.Words, msg.Streak)

	case CaptureMsg:
		m.capturing = msg.Active

	case LogMsg:
		m.logLine = msg.Text
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.capturing {
		if msg.Type == tea.KeyEsc {
			m.capturing = false
			fire(m.cmds.cancelCapture)
			return m, nil
		}
		if ev, ok := rawKeyFromTea(msg); ok {
			select {
			case m.cmds.captureKey <- ev:
			default:
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "r":
		if m.visible {
			fire(m.cmds.stop)
		} else {
			fire(m.cmds.record)
		}
	case "m":
		fire(m.cmds.nextMode)
	case "c":
		fire(m.cmds.toggleCleanup)
	case "h":
		fire(m.cmds.toggleHotkey)
	case "b":
		m.capturing = true
		fire(m.cmds.beginCapture)
	}
	return m, nil
}

// rawKeyFromTea converts a terminal key press into a raw binding event.
// Terminals cannot report right-side modifier codes or a held meta key,
// so only the ctrl/alt+key paths are reachable from the TUI.
func rawKeyFromTea(msg tea.KeyMsg) (hotkey.RawKeyEvent, bool) {
	s := msg.String()
	ev := hotkey.RawKeyEvent{Alt: msg.Alt}

	if strings.HasPrefix(s, "ctrl+") {
		ev.Control = true
		s = strings.TrimPrefix(s, "ctrl+")
	}
	if strings.HasPrefix(s, "alt+") {
		ev.Alt = true
		s = strings.TrimPrefix(s, "alt+")
	}

	switch {
	case s == " " || s == "space":
		ev.Key = " "
	case len([]rune(s)) == 1:
		r := []rune(s)[0]
		if unicode.IsUpper(r) {
			ev.Shift = true
		}
		ev.Key = s
	default:
		return hotkey.RawKeyEvent{}, false
	}
	return ev, true
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("murmur - push to talk"))
	b.WriteString("\n\n")

	if m.capturing {
		b.WriteString(styleErr.Render("press the new hotkey combination (esc to cancel)"))
		b.WriteString("\n\n")
	} else if m.visible {
		line := stateLines[m.state]
		if m.modeTag != "" {
			line += " [" + m.modeTag + "]"
		}
		b.WriteString(stateStyles[m.state].Render(line))
		b.WriteString("\n\n")
	} else {
		b.WriteString(styleDim.Render("○ idle - hold the hotkey and speak"))
		b.WriteString("\n\n")
	}

	for _, line := range []string{m.modeLine, m.deviceLine, m.bindingLine, m.statsLine} {
		if line != "" {
			b.WriteString(styleDim.Render(line))
			b.WriteString("\n")
		}
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(styleErr.Render("error: " + m.lastError))
		b.WriteString("\n")
	} else if m.lastText != "" {
		b.WriteString("\n")
		for _, line := range wrapText(m.lastText, max(20, m.width-4)) {
			b.WriteString(styleText.Render(line))
			b.WriteString("\n")
		}
	}

	if m.logLine != "" {
		b.WriteString("\n")
		b.WriteString(styleDim.Render(m.logLine))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render("r record | m mode | c cleanup | h hotkey | b rebind | ctrl+c quit"))
	return b.String()
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
		} else if len(cur)+1+len(w) <= width {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func logToTUI(format string, args ...interface{}) {
	tuiSend(LogMsg{Text: fmt.Sprintf(format, args...)})
}

// tuiWindow adapts the overlay contract onto TUI messages so terminal
// builds get the same state feedback as the gui overlay.
type tuiWindow struct{}

func (tuiWindow) Show(state overlay.State, modeTag string) {
	tuiSend(OverlayMsg{Visible: true, State: state, ModeTag: modeTag})
}

func (tuiWindow) Update(state overlay.State, modeTag string) {
	tuiSend(OverlayMsg{Visible: true, State: state, ModeTag: modeTag})
}

func (tuiWindow) Hide() {
	tuiSend(OverlayMsg{Visible: false})
}
