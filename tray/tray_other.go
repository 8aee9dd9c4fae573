//go:build !darwin

package tray

func Init() <-chan struct{}                          { return make(chan struct{}) }
func RefreshDevices(names []string, selected string) {}
func MarkMode(string)                                {}
func updateRecordingIcon(bool)                       {}
func updateTooltip(string)                           {}
func refreshRecent([]string)                         {}
func disableDevices()                                {}
func enableDevices()                                 {}
