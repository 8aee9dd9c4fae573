//go:build gui

package overlay

import (
	"image/color"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	pillWidth  = 220
	pillHeight = 44
	dotRadius  = 7
)

var stateColors = map[State]color.Color{
	StateRecording:  color.RGBA{255, 59, 48, 255},
	StateProcessing: color.RGBA{255, 204, 0, 255},
	StateGenerating: color.RGBA{90, 200, 250, 255},
	StateDone:       color.RGBA{52, 199, 89, 255},
}

var stateLabels = map[State]string{
	StateRecording:  "Listening",
	StateProcessing: "Transcribing",
	StateGenerating: "Formatting",
	StateDone:       "Copied",
}

// PillWidget is the rounded status capsule: a pulsing dot, the state
// label, and the active mode tag.
type PillWidget struct {
	widget.BaseWidget
	mu      sync.Mutex
	frame   int
	state   State
	modeTag string
	stopCh  chan struct{}
}

func NewPillWidget() *PillWidget {
	p := &PillWidget{state: StateRecording, stopCh: make(chan struct{})}
	p.ExtendBaseWidget(p)
	go p.animate()
	return p
}

func (p *PillWidget) Set(state State, modeTag string) {
	p.mu.Lock()
	p.state = state
	p.modeTag = modeTag
	p.mu.Unlock()
	fyne.Do(func() {
		p.Refresh()
	})
}

func (p *PillWidget) Stop() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

func (p *PillWidget) animate() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.frame++
			pulsing := p.state == StateRecording
			p.mu.Unlock()
			if pulsing {
				fyne.Do(func() {
					p.Refresh()
				})
			}
		}
	}
}

func (p *PillWidget) MinSize() fyne.Size {
	return fyne.NewSize(pillWidth, pillHeight)
}

func (p *PillWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &pillRenderer{pill: p}
	r.background = canvas.NewRectangle(color.RGBA{24, 24, 24, 235})
	r.background.CornerRadius = pillHeight / 2
	r.dot = canvas.NewCircle(stateColors[StateRecording])
	r.label = canvas.NewText("Listening", color.RGBA{230, 230, 230, 255})
	r.label.TextSize = 14
	r.label.TextStyle.Bold = true
	r.mode = canvas.NewText("", color.RGBA{150, 150, 150, 255})
	r.mode.TextSize = 11
	return r
}

type pillRenderer struct {
	pill       *PillWidget
	background *canvas.Rectangle
	dot        *canvas.Circle
	label      *canvas.Text
	mode       *canvas.Text
}

func (r *pillRenderer) Layout(size fyne.Size) {
	r.background.Move(fyne.NewPos(0, 0))
	r.background.Resize(size)

	cy := size.Height / 2
	r.dot.Move(fyne.NewPos(16, cy-dotRadius))
	r.dot.Resize(fyne.NewSize(dotRadius*2, dotRadius*2))

	r.label.Move(fyne.NewPos(16+dotRadius*2+10, cy-16))
	r.mode.Move(fyne.NewPos(16+dotRadius*2+10, cy+2))
}

func (r *pillRenderer) MinSize() fyne.Size {
	return r.pill.MinSize()
}

func (r *pillRenderer) Refresh() {
	r.pill.mu.Lock()
	frame := r.pill.frame
	state := r.pill.state
	modeTag := r.pill.modeTag
	r.pill.mu.Unlock()

	c := stateColors[state]
	if state == StateRecording {
		// Pulse the dot's alpha with a slow sine
		pulse := (math.Sin(float64(frame)*0.2) + 1) / 2
		rc := c.(color.RGBA)
		rc.A = uint8(120 + pulse*135)
		c = rc
	}
	r.dot.FillColor = c
	r.dot.Refresh()

	r.label.Text = stateLabels[state]
	r.label.Refresh()

	r.mode.Text = modeTag
	r.mode.Refresh()
}

func (r *pillRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.dot, r.label, r.mode}
}

func (r *pillRenderer) Destroy() {
	r.pill.Stop()
}
