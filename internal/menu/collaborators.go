package menu

import (
	"github.com/muurk/pagerterm/internal/settings"
)

// SettingsStore is the persistence the engine edits through. The pointer
// returned by Settings must stay valid across Reset.
type SettingsStore interface {
	Settings() *settings.DeviceSettings
	Save() error
	Reset() *settings.DeviceSettings
}

// Renderer receives the current screen after every handled event.
type Renderer interface {
	Render(view ScreenView)
}

// ScanResult is one network found by a scan.
type ScanResult struct {
	SSID string
	RSSI int
}

// Scanner runs an asynchronous network scan. StartScan returns immediately;
// Results reports done=false until the scan has finished and may be called
// any number of times.
type Scanner interface {
	StartScan() error
	Results() (results []ScanResult, done bool)
}

// Tester checks that a server is reachable. StartTest must return at once;
// the outcome is handed back through Engine.TestDone.
type Tester interface {
	StartTest(server settings.ServerConfig)
}

// Connector starts a terminal session to a server.
type Connector interface {
	Connect(server settings.ServerConfig)
}

// Restarter restarts the device.
type Restarter interface {
	Restart()
}

// Feedback drives the haptic motor. The engine only calls it while haptic
// feedback is enabled in the settings.
type Feedback interface {
	Click()
	Tick()
	Bump()
	Double()
}

type nopFeedback struct{}

func (nopFeedback) Click()  {}
func (nopFeedback) Tick()   {}
func (nopFeedback) Bump()   {}
func (nopFeedback) Double() {}
