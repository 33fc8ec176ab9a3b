package menu

import (
	"fmt"

	"github.com/muurk/pagerterm/internal/settings"
)

// Screen is one node of the menu state machine.
type Screen int

const (
	Hidden Screen = iota
	Main
	Display
	WifiList
	WifiScan
	WifiAdd
	WifiEdit
	ServerLocal
	ServerRemote
	System
	About
)

var screenNames = [...]string{
	Hidden:       "hidden",
	Main:         "main",
	Display:      "display",
	WifiList:     "wifi-list",
	WifiScan:     "wifi-scan",
	WifiAdd:      "wifi-add",
	WifiEdit:     "wifi-edit",
	ServerLocal:  "server-local",
	ServerRemote: "server-remote",
	System:       "system",
	About:        "about",
}

func (s Screen) String() string {
	if s >= 0 && int(s) < len(screenNames) {
		return screenNames[s]
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// MaxScanResults caps how many scanned networks are listed.
const MaxScanResults = 20

// rowClass groups rows that share a transition.
type rowClass int

const (
	classAny rowClass = iota
	classBack
	classChild
	classToggle
	classAdjust
	classField
	classAction
	classScan
	classAdd
	classNetwork
	classResult
	classNone
)

// screenDef describes how a screen lists and classifies its rows.
type screenDef struct {
	title    func(e *Engine) string
	parent   Screen
	status   string
	rows     func(e *Engine) []Row
	info     func(e *Engine) []string
	classify func(e *Engine, row int) rowClass
}

var screens map[Screen]screenDef

// mainChildren maps Main rows to the screen they open.
var mainChildren = [...]Screen{1: Display, 2: WifiList, 3: ServerLocal, 4: ServerRemote, 5: System, 6: About}

func init() {
	screens = map[Screen]screenDef{
		Hidden: {
			title:    fixed(""),
			parent:   Hidden,
			rows:     func(*Engine) []Row { return nil },
			info:     noInfo,
			classify: func(*Engine, int) rowClass { return classNone },
		},
		Main: {
			title:    fixed("SETTINGS"),
			parent:   Hidden,
			status:   "Rotate to scroll, click to select",
			rows:     mainRows,
			info:     noInfo,
			classify: byRow(classBack, classChild, classChild, classChild, classChild, classChild, classChild),
		},
		Display: {
			title:    fixed("DISPLAY"),
			parent:   Main,
			status:   "Rotate to adjust, click Back to return",
			rows:     displayRows,
			info:     noInfo,
			classify: byRow(classBack, classAdjust, classAdjust),
		},
		WifiList: {
			title:    fixed("WIFI NETWORKS"),
			parent:   Main,
			status:   "Click to toggle, d to delete, e to edit",
			rows:     wifiListRows,
			info:     noInfo,
			classify: classifyWifiList,
		},
		WifiScan: {
			title:  scanTitle,
			parent: WifiList,
			status: "Select network to add",
			rows:   scanRows,
			info:   scanInfo,
			classify: func(_ *Engine, row int) rowClass {
				if row == 0 {
					return classBack
				}
				return classResult
			},
		},
		WifiAdd: {
			title:    fixed("ADD WIFI"),
			parent:   WifiList,
			rows:     func(*Engine) []Row { return nil },
			info:     noInfo,
			classify: func(*Engine, int) rowClass { return classNone },
		},
		WifiEdit: {
			title:    fixed("EDIT WIFI"),
			parent:   WifiList,
			rows:     func(*Engine) []Row { return nil },
			info:     noInfo,
			classify: func(*Engine, int) rowClass { return classNone },
		},
		ServerLocal: {
			title:    fixed("LOCAL SSH SERVER"),
			parent:   Main,
			status:   "Click to edit field",
			rows:     serverRows,
			info:     noInfo,
			classify: classifyServer,
		},
		ServerRemote: {
			title:    fixed("REMOTE SSH SERVER"),
			parent:   Main,
			status:   "Click to edit field",
			rows:     serverRows,
			info:     noInfo,
			classify: classifyServer,
		},
		System: {
			title:  fixed("SYSTEM SETTINGS"),
			parent: Main,
			status: "Rotate to adjust values, click to toggle",
			rows:   systemRows,
			info:   noInfo,
			classify: byRow(classBack, classToggle, classAdjust, classToggle, classAdjust,
				classToggle, classToggle, classAction, classAction),
		},
		About: {
			title:    fixed("ABOUT"),
			parent:   Main,
			rows:     func(*Engine) []Row { return []Row{{Label: "[< Back]"}} },
			info:     func(e *Engine) []string { return e.about },
			classify: byRow(classBack),
		},
	}
}

func fixed(title string) func(*Engine) string {
	return func(*Engine) string { return title }
}

func noInfo(*Engine) []string { return nil }

func byRow(classes ...rowClass) func(*Engine, int) rowClass {
	return func(_ *Engine, row int) rowClass {
		if row < 0 || row >= len(classes) {
			return classNone
		}
		return classes[row]
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

func percent(brightness uint8) string {
	return fmt.Sprintf("%d%%", int(brightness)*100/255)
}

func mainRows(e *Engine) []Row {
	s := e.settings()
	return []Row{
		{Label: "[X] Close Settings"},
		{Label: "Display Settings", Value: percent(s.Display.Brightness)},
		{Label: "WiFi Networks", Value: fmt.Sprintf("%d saved", len(s.WifiNetworks))},
		{Label: "Local Server (SSH)", Value: onOff(s.LocalServer.Enabled)},
		{Label: "Remote Server (SSH)", Value: onOff(s.RemoteServer.Enabled)},
		{Label: "System"},
		{Label: "About"},
	}
}

func displayRows(e *Engine) []Row {
	s := e.settings()
	return []Row{
		{Label: "[< Back]"},
		{Label: "Brightness", Value: percent(s.Display.Brightness)},
		{Label: "Theme", Value: s.CurrentPalette().Name},
	}
}

func wifiListRows(e *Engine) []Row {
	s := e.settings()
	rows := []Row{
		{Label: "[< Back]"},
		{Label: "[~] Scan for Networks"},
	}
	for _, n := range s.WifiNetworks {
		status := ""
		if !n.Enabled {
			status = "Disabled"
		}
		rows = append(rows, Row{Label: n.SSID, Value: status})
	}
	return append(rows, Row{Label: "[+] Add Network Manually"})
}

func classifyWifiList(e *Engine, row int) rowClass {
	n := len(e.settings().WifiNetworks)
	switch {
	case row == 0:
		return classBack
	case row == 1:
		return classScan
	case row >= 2 && row < n+2:
		return classNetwork
	case row == n+2:
		return classAdd
	default:
		return classNone
	}
}

func scanTitle(e *Engine) string {
	if e.scanning {
		return "SCANNING..."
	}
	return "SELECT NETWORK"
}

func scanRows(e *Engine) []Row {
	rows := []Row{{Label: "[< Back]"}}
	if e.scanning {
		return rows
	}
	for _, r := range e.results {
		rows = append(rows, Row{Label: r.SSID, Value: fmt.Sprintf("%ddBm", r.RSSI)})
	}
	return rows
}

func scanInfo(e *Engine) []string {
	switch {
	case e.scanning:
		return []string{"Scanning for networks..."}
	case len(e.results) == 0:
		return []string{"No networks found. Try again."}
	default:
		return nil
	}
}

// Server screen rows.
const (
	serverRowBack = iota
	serverRowEnabled
	serverRowHost
	serverRowPort
	serverRowUsername
	serverRowPassword
	serverRowSSL
	serverRowSpacer
	serverRowTest
	serverRowConnect
)

func serverRows(e *Engine) []Row {
	srv := e.server()
	return []Row{
		serverRowBack:     {Label: "[< Back]"},
		serverRowEnabled:  {Label: "Enabled", Value: yesNo(srv.Enabled)},
		serverRowHost:     {Label: "Host", Value: srv.Host},
		serverRowPort:     {Label: "Port", Value: fmt.Sprintf("%d", srv.Port)},
		serverRowUsername: {Label: "Username", Value: srv.Username},
		serverRowPassword: {Label: "Password", Value: "****"},
		serverRowSSL:      {Label: "SSL/TLS", Value: yesNo(srv.UseSSL)},
		serverRowSpacer:   {},
		serverRowTest:     {Label: "[Test Connection]"},
		serverRowConnect:  {Label: "[Connect Now]"},
	}
}

var classifyServer = byRow(classBack, classToggle, classField, classField, classField, classField,
	classToggle, classNone, classAction, classAction)

// System screen rows.
const (
	systemRowBack = iota
	systemRowSound
	systemRowVolume
	systemRowHaptic
	systemRowIntensity
	systemRowAutoConnect
	systemRowPreferRemote
	systemRowReset
	systemRowRestart
)

func systemRows(e *Engine) []Row {
	s := e.settings()
	return []Row{
		systemRowBack:         {Label: "[< Back]"},
		systemRowSound:        {Label: "Sound", Value: onOff(s.Sound.Enabled)},
		systemRowVolume:       {Label: "Volume", Value: fmt.Sprintf("%d%%", s.Sound.Volume)},
		systemRowHaptic:       {Label: "Haptic Feedback", Value: onOff(s.Haptic.Enabled)},
		systemRowIntensity:    {Label: "Haptic Intensity", Value: fmt.Sprintf("%d%%", s.Haptic.Intensity)},
		systemRowAutoConnect:  {Label: "Auto-connect WiFi", Value: onOff(s.WifiAutoConnect)},
		systemRowPreferRemote: {Label: "Prefer Remote Server", Value: onOff(s.PreferRemote)},
		systemRowReset:        {Label: "[Reset All Settings]"},
		systemRowRestart:      {Label: "[Restart Device]"},
	}
}

// server returns the record edited by the current server screen or capture.
func (e *Engine) server() *settings.ServerConfig {
	owner := e.screen
	if e.capture != nil {
		owner = e.capture.owner
	}
	if owner == ServerRemote {
		return &e.settings().RemoteServer
	}
	return &e.settings().LocalServer
}
