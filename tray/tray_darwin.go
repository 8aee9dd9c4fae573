//go:build darwin

package tray

import (
	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"
)

var (
	mRecord     *systray.MenuItem
	mRecent     [maxRecent]*systray.MenuItem
	mDevices    *systray.MenuItem
	deviceItems []*systray.MenuItem
	deviceReady chan struct{}

	mSettings *systray.MenuItem
	mCleanup  *systray.MenuItem
	mHotkey   *systray.MenuItem
	mModes    *systray.MenuItem
	modeMenu  []*systray.MenuItem
)

func Init() <-chan struct{} {
	deviceReady = make(chan struct{})
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateRecordingIcon(rec bool) {
	if rec {
		systray.SetIcon(iconRecHi)
		if mRecord != nil {
			mRecord.SetTitle("Stop Recording")
		}
	} else {
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
		if mRecord != nil {
			mRecord.SetTitle("Start Recording")
		}
	}
}

func disableDevices() {
	if mDevices != nil {
		mDevices.Disable()
	}
}

func enableDevices() {
	if mDevices != nil {
		mDevices.Enable()
	}
}

func updateTooltip(msg string) {
	systray.SetTooltip(msg)
}

func refreshRecent(texts []string) {
	if deviceReady == nil {
		return
	}
	<-deviceReady
	for i, item := range mRecent {
		if item == nil {
			continue
		}
		if i < len(texts) {
			item.SetTitle(displayTitle(texts[i]))
			item.SetTooltip("Copy to clipboard")
			item.Show()
			item.Enable()
		} else {
			item.Hide()
		}
	}
}

func addDeviceItem(parent *systray.MenuItem, idx int, name string, checked bool) *systray.MenuItem {
	item := parent.AddSubMenuItemCheckbox(name, name, checked)
	item.Click(func() {
		deviceMu.Lock()
		// Use current name from deviceNames, not the captured name
		// (RefreshDevices may have changed the title)
		currentName := ""
		if idx < len(deviceNames) {
			currentName = deviceNames[idx]
		}
		cb := deviceCb
		deviceMu.Unlock()
		if cb != nil && currentName != "" {
			cb(currentName)
		}
		deviceMu.Lock()
		for _, it := range deviceItems {
			it.Uncheck()
		}
		if idx < len(deviceItems) {
			deviceItems[idx].Check()
		}
		deviceMu.Unlock()
	})
	return item
}

func RefreshDevices(names []string, selected string) {
	if deviceReady == nil {
		return
	}
	<-deviceReady

	deviceMu.Lock()
	defer deviceMu.Unlock()

	deviceNames = names
	deviceSel = selected

	for i, item := range deviceItems {
		if i < len(names) {
			item.SetTitle(names[i])
			item.SetTooltip(names[i])
			item.Show()
			if names[i] == selected {
				item.Check()
			} else {
				item.Uncheck()
			}
		} else {
			item.Hide()
			item.Uncheck()
		}
	}

	for i := len(deviceItems); i < len(names); i++ {
		item := addDeviceItem(mDevices, i, names[i], names[i] == selected)
		deviceItems = append(deviceItems, item)
	}
}

func onReady() {
	systray.SetTemplateIcon(iconIdleHi, iconIdle)
	systray.SetTooltip("murmur – push to talk")

	for i := range mRecent {
		idx := i
		item := systray.AddMenuItem("", "Copy to clipboard")
		item.Hide()
		item.Click(func() {
			recentMu.Lock()
			text := ""
			if idx < len(recentTexts) {
				text = recentTexts[idx]
			}
			cb := recentCb
			recentMu.Unlock()
			if cb != nil && text != "" {
				cb(text)
			}
		})
		mRecent[idx] = item
	}

	systray.AddSeparator()

	mRecord = systray.AddMenuItem("Start Recording", "Start or stop recording")
	mRecord.Click(func() {
		if recording {
			if stopFn != nil {
				stopFn()
			}
		} else {
			if recordFn != nil {
				recordFn()
			}
		}
	})

	modeMu.Lock()
	if len(modeItems) > 0 {
		mModes = systray.AddMenuItem("Mode", "Select output mode")
		modeMenu = make([]*systray.MenuItem, 0, len(modeItems))
		for i, m := range modeItems {
			idx := i
			item := mModes.AddSubMenuItemCheckbox(m.Name, m.Name, m.Active)
			item.Click(func() {
				modeMu.Lock()
				mode := modeItems[idx]
				cb := modeCb
				modeMu.Unlock()
				if cb == nil {
					return
				}
				cb(mode.ID)
			})
			modeMenu = append(modeMenu, item)
		}
	}
	modeMu.Unlock()

	mSettings = systray.AddMenuItem("Settings", "Settings")

	mDevices = mSettings.AddSubMenuItem("Devices", "Select input device")

	deviceMu.Lock()
	deviceItems = make([]*systray.MenuItem, 0, len(deviceNames))
	for i, name := range deviceNames {
		item := addDeviceItem(mDevices, i, name, name == deviceSel)
		deviceItems = append(deviceItems, item)
	}
	deviceMu.Unlock()

	mCleanup = mSettings.AddSubMenuItemCheckbox("AI Cleanup", "Clean transcripts with a local model", cleanupOn)
	mCleanup.Click(func() {
		if mCleanup.Checked() {
			mCleanup.Uncheck()
		} else {
			mCleanup.Check()
		}
		if cleanupCb != nil {
			cleanupCb(mCleanup.Checked())
		}
	})

	mHotkey = mSettings.AddSubMenuItemCheckbox("Global Hotkey", "Enable the push-to-talk hotkey", hotkeyOn)
	mHotkey.Click(func() {
		if mHotkey.Checked() {
			mHotkey.Uncheck()
		} else {
			mHotkey.Check()
		}
		if hotkeyCb != nil {
			hotkeyCb(mHotkey.Checked())
		}
	})

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit murmur")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()

	close(deviceReady)
}

// MarkMode checks the active mode entry and unchecks the rest.
func MarkMode(id string) {
	modeMu.Lock()
	defer modeMu.Unlock()
	for i, item := range modeMenu {
		if i >= len(modeItems) {
			break
		}
		if modeItems[i].ID == id {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
