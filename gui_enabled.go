//go:build gui

package main

import (
	"runtime"

	"murmur/overlay"
)

var guiApp *overlay.App

func initGUI() {
	// Fyne/GLFW needs the main thread; the pipeline runs alongside it.
	runtime.LockOSThread()

	guiApp = overlay.NewApp(func() {
		go runWith(guiApp, false)
	})
	if err := overlay.Run(guiApp); err != nil {
		panic(err)
	}
}
