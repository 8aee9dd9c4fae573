package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"murmur/audio"
	"murmur/cleanup"
	"murmur/clipboard"
	"murmur/device"
	"murmur/doctor"
	"murmur/history"
	"murmur/hotkey"
	"murmur/log"
	"murmur/modes"
	"murmur/overlay"
	"murmur/paste"
	"murmur/session"
	"murmur/shutdown"
	"murmur/store"
	"murmur/transcriber"
	"murmur/tray"
)

var version = "dev"

var autoPaste bool

var shutdownOnce sync.Once

func gracefulShutdown(st *store.Store, stats *history.Stats) {
	shutdownOnce.Do(func() {
		if stats != nil && stats.CompletedToday > 0 {
			log.SessionEnd(stats.CompletedToday)
		}
		log.Close()
		if st != nil {
			st.Close()
		}
		tray.Quit()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

// scribe adapts the whisper client to the session contract.
type scribe struct {
	t transcriber.Transcriber
}

func (s scribe) Loaded() bool { return s.t.Loaded() }

func (s scribe) Transcribe(ctx context.Context, wav []byte) (string, string, error) {
	result, err := s.t.Transcribe(ctx, wav)
	if err != nil {
		return "", "", err
	}
	return result.Text, result.Language, nil
}

// delivery is the clipboard/paste/tray side of the pipeline.
type delivery struct{}

func (delivery) Copy(text string) error { return clipboard.Copy(text) }

func (delivery) NotifyRecent(text string) {
	tray.PushRecent(text, func(t string) {
		if err := clipboard.Copy(t); err != nil {
			log.Warnf("copy recent transcript: %v", err)
		}
	})
}

func (delivery) Paste() error {
	if !autoPaste {
		return nil
	}
	return paste.Send()
}

func run() {
	runWith(tuiWindow{}, true)
}

func runWith(window overlay.Window, withTUI bool) {
	deviceFlag := flag.String("device", "", "Use named microphone device")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively")
	whisperFlag := flag.String("whisper", transcriber.DefaultWhisperURL, "Whisper server URL")
	modelFlag := flag.String("model", "", "Model file to load into the whisper server at startup")
	ollamaFlag := flag.String("ollama", cleanup.DefaultBaseURL, "Ollama base URL for transcript cleanup")
	storeFlag := flag.String("db", "", "Settings database path (default: OS-specific location)")
	autoPasteFlag := flag.Bool("autopaste", true, "Auto-paste to focused window after transcription")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Bool("gui", false, "Run with the desktop overlay (requires a gui build)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*whisperFlag, *ollamaFlag))
	}

	autoPaste = *autoPasteFlag

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	storePath := *storeFlag
	if storePath == "" {
		storePath = store.DefaultPath()
	}
	st, err := store.Open(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening settings database: %v\n", err)
		os.Exit(1)
	}

	whisper := transcriber.NewWhisper(*whisperFlag)
	cleaner := cleanup.NewOllama(*ollamaFlag, st)

	if *testFlag {
		runTestMode(st)
		return
	}

	if *modelFlag != "" {
		go func() {
			if err := whisper.LoadModel(context.Background(), *modelFlag); err != nil {
				log.Errorf("load model: %v", err)
				logToTUI("load model: %v", err)
			}
		}()
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	recorder := audio.NewRecorder(audioCtx)
	selector := device.NewSelector(st, recorder)
	selector.Restore()

	if *setupFlag {
		if dev, err := pickDevice(recorder); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\n", err)
		} else if dev != nil {
			selector.Select(dev.ID)
		}
	} else if *deviceFlag != "" {
		if err := selectDeviceByName(selector, recorder, *deviceFlag); err != nil {
			log.Warnf("%v", err)
			fmt.Fprintf(os.Stderr, "Warning: %v, using system default\n", err)
		}
	}

	hist := history.Load(st)
	stats := history.NewStats(hist)

	coord := overlay.NewCoordinator(window)
	machine := session.New(session.Config{
		Recorder:    recorder,
		Transcriber: scribe{whisper},
		Cleaner:     cleaner,
		Overlay:     coord,
		Delivery:    delivery{},
		History:     hist,
		Stats:       stats,
	})

	registry := modes.NewRegistry(st, store.KeyMode, func() bool {
		return cleaner.Available(context.Background())
	})
	registry.OnSelect(
		func(id string) { machine.SetMode(id) },
		func(id string) {
			coord.SetMode(id)
			tray.MarkMode(id)
			tuiSend(ModeLineMsg{Text: modeLineText(registry, cleaner)})
		},
	)
	if savedMode, err := st.Get(store.KeyMode); err == nil {
		registry.Restore(savedMode)
	}
	machine.SetMode(registry.ActiveID())

	bindingStr, _ := st.Get(store.KeyBinding)
	binding := hotkey.DecodeBinding(bindingStr)
	hotkeyOn, _ := st.GetBool(store.KeyHotkeyEnabled, true)
	registrar := hotkey.NewXRegistrar()
	engine := hotkey.NewEngine(st, registrar, binding, hotkeyOn)
	if hotkeyOn {
		if err := registrar.Register(binding); err != nil {
			log.Errorf("hotkey register error: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: could not register hotkey %s: %v\n", binding.Encode(), err)
		}
	}
	defer registrar.UnregisterAll()

	cmds := newUICommands()

	tray.OnRecord(
		func() { fire(cmds.record) },
		func() { fire(cmds.stop) },
	)
	tray.SetCleanup(cleaner.Enabled())
	tray.OnCleanup(func(on bool) {
		cleaner.SetEnabled(on)
		tuiSend(ModeLineMsg{Text: modeLineText(registry, cleaner)})
	})
	tray.SetHotkeyEnabled(engine.Enabled())
	tray.OnHotkeyEnabled(func(on bool) {
		engine.SetEnabled(on)
		tuiSend(BindingLineMsg{Text: bindingLineText(engine)})
	})

	if devices, err := recorder.Devices(); err == nil && len(devices) > 0 {
		names := make([]string, len(devices))
		for i := range devices {
			names[i] = devices[i].Name
		}
		selName := ""
		for _, d := range devices {
			if d.ID == recorder.DeviceID() {
				selName = d.Name
			}
		}
		tray.SetDevices(names, selName, func(name string) {
			if err := selectDeviceByName(selector, recorder, name); err != nil {
				log.Warnf("%v", err)
				return
			}
			tuiSend(DeviceLineMsg{Text: deviceLineText(recorder)})
		})
	}

	items := make([]tray.ModeItem, 0, len(registry.Catalog()))
	for _, m := range registry.Catalog() {
		items = append(items, tray.ModeItem{ID: m.ID, Name: m.Name, Active: m.ID == registry.ActiveID()})
	}
	tray.SetModes(items, func(id string) {
		if !registry.Select(id) {
			tray.SetError("mode needs Ollama running")
		}
	})

	trayQuit := tray.Init()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		select {
		case <-sigChan:
		case <-trayQuit:
		}
		gracefulShutdown(st, stats)
	}()

	if withTUI && *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(cmds)
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
				os.Exit(1)
			}
			gracefulShutdown(st, stats)
		}()
		<-tuiReady
	}

	log.SessionStart(whisper.Name(), cleaner.Model(), registry.ActiveID())

	tuiSend(ModeLineMsg{Text: modeLineText(registry, cleaner)})
	tuiSend(DeviceLineMsg{Text: deviceLineText(recorder)})
	tuiSend(BindingLineMsg{Text: bindingLineText(engine)})
	tuiSend(StatsMsg{Completed: stats.CompletedToday, Words: stats.WordCount, Streak: stats.StreakDays})
	if rec, ok := hist.Rehydrate(); ok {
		machine.SetLastText(rec.CleanedText)
		tuiSend(TranscriptionMsg{Text: rec.CleanedText})
	}

	eventLoop(machine, engine, registrar, registry, cleaner, stats, cmds)
}

// eventLoop is the single dispatch point for both trigger sources. The
// machine's phase gating makes a stray double trigger harmless, so the
// loop never tracks session state itself.
func eventLoop(machine *session.Machine, engine *hotkey.Engine, registrar hotkey.Registrar,
	registry *modes.Registry, cleaner *cleanup.Ollama, stats *history.Stats, cmds *uiCommands) {
	for {
		select {
		case <-registrar.Pressed():
			log.Info("hotkey_down")
			startSession(machine)

		case <-registrar.Released():
			log.Info("hotkey_up")
			stopSession(machine, stats)

		case <-cmds.record:
			log.Info("ui_record")
			startSession(machine)

		case <-cmds.stop:
			log.Info("ui_stop")
			stopSession(machine, stats)

		case <-cmds.nextMode:
			selectNextMode(registry)

		case <-cmds.toggleCleanup:
			cleaner.SetEnabled(!cleaner.Enabled())
			tray.SetCleanup(cleaner.Enabled())
			tuiSend(ModeLineMsg{Text: modeLineText(registry, cleaner)})

		case <-cmds.toggleHotkey:
			engine.SetEnabled(!engine.Enabled())
			tray.SetHotkeyEnabled(engine.Enabled())
			tuiSend(BindingLineMsg{Text: bindingLineText(engine)})

		case <-cmds.beginCapture:
			engine.BeginCapture()
			tuiSend(CaptureMsg{Active: true})

		case <-cmds.cancelCapture:
			engine.CancelCapture()
			tuiSend(CaptureMsg{Active: false})

		case ev := <-cmds.captureKey:
			if _, ok := engine.HandleRawKey(ev); ok {
				tuiSend(CaptureMsg{Active: false})
				tuiSend(BindingLineMsg{Text: bindingLineText(engine)})
			}
		}
	}
}

func startSession(machine *session.Machine) {
	if err := machine.Start(); err != nil {
		if errors.Is(err, session.ErrModelNotLoaded) {
			logToTUI("load a transcription model first (-model)")
			tray.SetError(err.Error())
		}
		return
	}
	if machine.Phase() == session.Recording {
		tray.SetRecording(true)
	}
}

func stopSession(machine *session.Machine, stats *history.Stats) {
	wasRecording := machine.Phase() == session.Recording
	err := machine.Stop(context.Background())
	if !wasRecording {
		return
	}
	tray.SetRecording(false)
	if err != nil {
		tuiSend(ErrorMsg{Text: machine.LastError()})
		tray.SetError(machine.LastError())
		return
	}
	tuiSend(TranscriptionMsg{Text: machine.LastText()})
	tuiSend(StatsMsg{Completed: stats.CompletedToday, Words: stats.WordCount, Streak: stats.StreakDays})
}

// selectNextMode advances through the catalog, skipping entries the
// registry rejects (cleanup-gated modes while Ollama is down).
func selectNextMode(registry *modes.Registry) {
	catalog := registry.Catalog()
	cur := 0
	for i, m := range catalog {
		if m.ID == registry.ActiveID() {
			cur = i
			break
		}
	}
	for i := 1; i <= len(catalog); i++ {
		next := catalog[(cur+i)%len(catalog)]
		if registry.Select(next.ID) {
			return
		}
	}
}

func selectDeviceByName(selector *device.Selector, recorder *audio.Recorder, name string) error {
	devices, err := recorder.Devices()
	if err != nil {
		return fmt.Errorf("enumerate capture devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == name {
			return selector.Select(d.ID)
		}
	}
	return fmt.Errorf("capture device not found: %s", name)
}

func modeLineText(registry *modes.Registry, cleaner *cleanup.Ollama) string {
	cleanupLabel := "off"
	if cleaner.Enabled() {
		cleanupLabel = cleaner.Model()
	}
	return fmt.Sprintf("mode: %s | cleanup: %s (m/c)", registry.ActiveID(), cleanupLabel)
}

func deviceLineText(recorder *audio.Recorder) string {
	name := "system default"
	if id := recorder.DeviceID(); id != "" {
		if devices, err := recorder.Devices(); err == nil {
			for _, d := range devices {
				if d.ID == id {
					name = d.Name
				}
			}
		}
	}
	return "mic: " + name
}

func bindingLineText(engine *hotkey.Engine) string {
	state := ""
	if !engine.Enabled() {
		state = " (disabled)"
	}
	return "hotkey: " + hotkey.Format(engine.Binding()) + state + " (b rebind, h toggle)"
}
