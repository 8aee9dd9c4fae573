//go:build gui

package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// App owns the fyne lifecycle and renders the status pill in a
// frameless splash window pinned bottom-center.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	pill    *PillWidget
	onReady func()
	posX    int
	posY    int
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

// Run starts the fyne event loop. Must be called from the main
// goroutine; it blocks until Quit.
func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.murmur.overlay")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	var screenW, screenH int
	monitor := glfw.GetPrimaryMonitor()
	if monitor != nil {
		_, _, screenW, screenH = monitor.GetWorkarea()
	} else {
		screenW, screenH = 1920, 1080 // fallback
	}

	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = a.fyneApp.NewWindow("murmur")
	}

	a.pill = NewPillWidget()
	a.window.SetContent(a.pill)
	a.window.SetFixedSize(true)
	a.window.SetPadded(false)

	pillSize := a.pill.MinSize()
	a.window.Resize(pillSize)

	a.posX = (screenW - int(pillSize.Width)) / 2
	a.posY = screenH - int(pillSize.Height) - 20

	go a.onReady()

	// Event loop runs with the window hidden until the first Show.
	a.fyneApp.Run()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

func (a *App) Show(state State, modeTag string) {
	a.pill.Set(state, modeTag)
	fyne.Do(func() {
		if a.window == nil {
			return
		}
		if glfwWin := glfw.GetCurrentContext(); glfwWin != nil {
			glfwWin.SetPos(a.posX, a.posY)
			glfwWin.SetAttrib(glfw.FocusOnShow, glfw.False)
			glfwWin.SetAttrib(glfw.Floating, glfw.True)
			glfwWin.Show()
		} else {
			a.window.Show()
		}
	})
}

func (a *App) Update(state State, modeTag string) {
	a.pill.Set(state, modeTag)
}

func (a *App) Hide() {
	fyne.Do(func() {
		if a.window != nil {
			a.window.Hide()
		}
	})
}
