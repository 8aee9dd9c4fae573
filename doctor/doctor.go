// Package doctor runs system diagnostics for the -doctor flag.
package doctor

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/hotkey"
)

// Run executes the diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(whisperURL, ollamaURL string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - system diagnostics")
	fmt.Println("==================================")

	allPass := true

	if !checkWhisper(whisperURL) {
		allPass = false
	}
	if !checkOllama(ollamaURL) {
		allPass = false
	}
	if !checkMicrophone() {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}
	if !checkHotkey() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkWhisper(baseURL string) bool {
	fmt.Println()
	fmt.Println("[1/5] Whisper server")

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		fmt.Printf("  FAIL: whisper server not reachable at %s: %v\n", baseURL, err)
		return false
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  FAIL: whisper server returned %s\n", resp.Status)
		return false
	}
	fmt.Println("  PASS: whisper server reachable")
	return true
}

func checkOllama(baseURL string) bool {
	fmt.Println()
	fmt.Println("[2/5] Ollama server (transcript cleanup)")

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		fmt.Printf("  WARN: Ollama not reachable at %s (cleanup will be skipped): %v\n", baseURL, err)
		// Cleanup degrades gracefully, so this never fails the run.
		return true
	}
	resp.Body.Close()
	fmt.Println("  PASS: Ollama reachable")
	return true
}

func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[3/5] Microphone capture")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		fmt.Printf("  found: %s\n", d.Name)
	}

	data, err := recordFor(ctx, time.Second)
	if err != nil {
		fmt.Printf("  FAIL: recording error: %v\n", err)
		return false
	}
	if len(data) == 0 {
		fmt.Println("  FAIL: no audio captured in 1s (check microphone permissions)")
		return false
	}
	fmt.Printf("  PASS: captured %.1f KB in 1s\n", float64(len(data))/1024)
	return true
}

func recordFor(ctx audio.Context, d time.Duration) ([]byte, error) {
	var buf []byte
	var mu sync.Mutex

	config := audio.CaptureConfig{SampleRate: audio.SampleRate, Channels: audio.Channels}
	capture, err := ctx.NewCapture(nil, config)
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	capture.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		buf = append(buf, data...)
		mu.Unlock()
	})
	if err := capture.Start(); err != nil {
		return nil, err
	}

	time.Sleep(d)
	capture.Stop()

	mu.Lock()
	defer mu.Unlock()
	return buf, nil
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[4/5] Clipboard round-trip")

	testStr := fmt.Sprintf("murmur-doctor-%d", time.Now().UnixNano())

	type cbResult struct {
		readback string
		err      error
		phase    string
	}
	ch := make(chan cbResult, 1)
	go func() {
		if err := clipboard.Copy(testStr); err != nil {
			ch <- cbResult{err: err, phase: "write"}
			return
		}
		got, err := clipboard.Read()
		if err != nil {
			ch <- cbResult{err: err, phase: "read"}
			return
		}
		ch <- cbResult{readback: got}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			fmt.Printf("  FAIL: clipboard %s failed: %v\n", res.phase, res.err)
			return false
		}
		if res.readback != testStr {
			fmt.Printf("  FAIL: clipboard mismatch: wrote %q, got %q\n", testStr, res.readback)
			return false
		}
		fmt.Println("  PASS: clipboard write/read verified")
		return true
	case <-time.After(3 * time.Second):
		fmt.Println("  FAIL: clipboard timed out (clipboard tool hung - compositor not accessible?)")
		return false
	}
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[5/5] Global hotkey")

	binding := hotkey.DefaultBinding()
	registrar := hotkey.NewXRegistrar()
	if err := registrar.Register(binding); err != nil {
		fmt.Printf("  FAIL: could not register %s: %v\n", hotkey.Format(binding), err)
		return false
	}
	defer registrar.UnregisterAll()

	fmt.Printf("  Press %s within 10s...\n", hotkey.Format(binding))
	select {
	case <-registrar.Pressed():
		fmt.Println("  PASS: hotkey detected")
		select {
		case <-registrar.Released():
		case <-time.After(5 * time.Second):
		}
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}
