//go:build linux

package main

import "os"

func main() {
	// -gui swaps the terminal UI for the desktop overlay and must own
	// the main thread, so decide before flag.Parse in run().
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	run()
}
