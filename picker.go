package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"murmur/audio"
)

// pickDevice runs a small raw-mode picker over the available capture
// devices. Returns nil when the user keeps the system default.
func pickDevice(recorder *audio.Recorder) (*audio.DeviceInfo, error) {
	devices, err := recorder.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Println("No capture devices found, using system default.")
		return nil, nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	// First entry is the system default.
	names := make([]string, 0, len(devices)+1)
	names = append(names, "System default")
	for _, d := range devices {
		names = append(names, d.Name)
	}

	selected := 0
	for i, d := range devices {
		if d.ID == recorder.DeviceID() {
			selected = i + 1
		}
	}

	draw := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Select microphone (↑/↓ or j/k, enter to confirm, q to cancel):\r\n")
		for i, name := range names {
			marker := "  "
			if i == selected {
				marker = "> "
			}
			fmt.Printf("%s%s\r\n", marker, name)
		}
		fmt.Printf("\x1b[%dA", len(names)+1)
	}

	defer fmt.Print("\r\x1b[J")

	buf := make([]byte, 3)
	for {
		draw()
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, err
		}

		switch {
		case n == 1 && (buf[0] == 'q' || buf[0] == 3 || buf[0] == 27):
			return nil, nil
		case n == 1 && (buf[0] == '\r' || buf[0] == '\n'):
			if selected == 0 {
				return nil, nil
			}
			dev := devices[selected-1]
			return &dev, nil
		case n == 1 && (buf[0] == 'k'):
			if selected > 0 {
				selected--
			}
		case n == 1 && (buf[0] == 'j'):
			if selected < len(names)-1 {
				selected++
			}
		case n == 3 && buf[0] == 27 && buf[1] == '[':
			switch buf[2] {
			case 'A':
				if selected > 0 {
					selected--
				}
			case 'B':
				if selected < len(names)-1 {
					selected++
				}
			}
		}
	}
}
