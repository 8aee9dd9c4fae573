package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"murmur/audio"
	"murmur/cleanup"
	"murmur/history"
	"murmur/hotkey"
	"murmur/log"
	"murmur/overlay"
	"murmur/session"
	"murmur/store"
	"murmur/transcriber"
)

// stdoutDelivery prints transcripts instead of touching the clipboard,
// so the harness runs on headless CI machines.
type stdoutDelivery struct{}

func (stdoutDelivery) Copy(text string) error {
	fmt.Printf("TRANSCRIPT %s\n", text)
	return nil
}

func (stdoutDelivery) NotifyRecent(string) {}
func (stdoutDelivery) Paste() error        { return nil }

// runTestMode drives the full pipeline from stdin commands against fake
// capture, transcription, and cleanup backends. Commands: KEYDOWN,
// KEYUP, WAIT (blocks until the session settles), SLEEP <ms>, QUIT.
func runTestMode(st *store.Store) {
	pcm := make([]byte, 64000)
	fakeCtx := audio.NewFakeContext(pcm, audio.DeviceInfo{ID: "fake0", Name: "Fake Microphone"})
	recorder := audio.NewRecorder(fakeCtx)

	scriber := transcriber.NewFake("the quick brown fox jumps over the lazy dog", nil)
	cleaner := cleanup.NewFake("The quick brown fox jumps over the lazy dog.")

	hist := history.Load(st)
	stats := history.NewStats(hist)

	machine := session.New(session.Config{
		Recorder:    recorder,
		Transcriber: scribe{scriber},
		Cleaner:     cleaner,
		Overlay:     overlay.NewCoordinator(&overlay.FakeWindow{}),
		Delivery:    stdoutDelivery{},
		History:     hist,
		Stats:       stats,
		SettleDelay: 10 * time.Millisecond,
	})

	registrar := hotkey.NewFakeRegistrar()
	sessionDone := make(chan struct{}, 1)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			switch cmd {
			case "KEYDOWN":
				registrar.SimPress()
			case "KEYUP":
				registrar.SimRelease()
			case "WAIT":
				<-sessionDone
			case "QUIT":
				log.SessionEnd(stats.CompletedToday)
				os.Exit(0)
			default:
				if strings.HasPrefix(cmd, "SLEEP ") {
					if ms, err := strconv.Atoi(cmd[6:]); err == nil {
						time.Sleep(time.Duration(ms) * time.Millisecond)
					}
				}
			}
		}
		os.Exit(0)
	}()

	for {
		select {
		case <-registrar.Pressed():
			if err := machine.Start(); err != nil {
				log.Errorf("start error: %v", err)
			}

		case <-registrar.Released():
			if err := machine.Stop(context.Background()); err != nil {
				log.Errorf("stop error: %v", err)
			}
			select {
			case sessionDone <- struct{}{}:
			default:
			}
		}
	}
}
