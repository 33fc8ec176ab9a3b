package menu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/settings"
)

// transition keys the table by screen, event kind and the class of the
// selected row. classAny matches any row without a more specific entry.
type transition struct {
	screen Screen
	kind   EventKind
	class  rowClass
}

type handler func(e *Engine, row int)

var transitions map[transition]handler

// listScreens are the screens navigated with a selection.
var listScreens = []Screen{Main, Display, WifiList, WifiScan, ServerLocal, ServerRemote, System, About}

func init() {
	transitions = map[transition]handler{
		{Main, EventSelect, classBack}:  (*Engine).hide,
		{Main, EventSelect, classChild}: (*Engine).openChild,

		{Display, EventMove, classAdjust}: (*Engine).adjustDisplay,

		{WifiList, EventSelect, classScan}:    (*Engine).startScan,
		{WifiList, EventSelect, classNetwork}: (*Engine).toggleNetwork,
		{WifiList, EventSelect, classAdd}:     (*Engine).beginWifiAdd,
		{WifiList, EventDelete, classNetwork}: (*Engine).deleteNetwork,
		{WifiList, EventEdit, classNetwork}:   (*Engine).beginWifiEdit,

		{WifiScan, EventSelect, classResult}: (*Engine).pickScanResult,

		{System, EventSelect, classToggle}: (*Engine).toggleSystem,
		{System, EventMove, classAdjust}:   (*Engine).adjustSystem,
		{System, EventSelect, classAction}: (*Engine).systemAction,
	}

	for _, s := range []Screen{ServerLocal, ServerRemote} {
		transitions[transition{s, EventSelect, classToggle}] = (*Engine).toggleServer
		transitions[transition{s, EventSelect, classField}] = (*Engine).beginServerEdit
		transitions[transition{s, EventSelect, classAction}] = (*Engine).serverAction
	}

	for _, s := range listScreens {
		transitions[transition{s, EventMove, classAny}] = (*Engine).move
		transitions[transition{s, EventCancel, classAny}] = (*Engine).goBack
		if s != Main {
			transitions[transition{s, EventSelect, classBack}] = (*Engine).goBack
		}
	}
}

// dispatch runs the handler for ev on the selected row. Events with no
// entry are ignored.
func (e *Engine) dispatch(ev Event) {
	row := e.selected
	class := screens[e.screen].classify(e, row)

	h, ok := transitions[transition{e.screen, ev.Kind, class}]
	if !ok {
		h, ok = transitions[transition{e.screen, ev.Kind, classAny}]
	}
	if !ok {
		return
	}

	if ev.Kind == EventMove {
		e.moveDelta = ev.Delta
	}
	h(e, row)
}

func (e *Engine) hide(int) {
	e.capture = nil
	e.open(Hidden)
}

func (e *Engine) goBack(int) {
	e.back()
}

func (e *Engine) move(int) {
	e.navigate(e.moveDelta)
}

func (e *Engine) openChild(row int) {
	e.open(mainChildren[row])
}

func direction(delta int) int {
	if delta < 0 {
		return -1
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Brightness and percentage adjustment steps and bounds.
const (
	brightnessStep = 25
	brightnessMin  = 10
	brightnessMax  = 255
	percentStep    = 10
)

func (e *Engine) adjustDisplay(row int) {
	s := e.settings()
	dir := direction(e.moveDelta)

	switch row {
	case 1:
		s.Display.Brightness = uint8(clamp(int(s.Display.Brightness)+dir*brightnessStep, brightnessMin, brightnessMax))
	case 2:
		next := (int(s.Display.Theme) + dir + int(settings.ThemeCount)) % int(settings.ThemeCount)
		s.Display.Theme = settings.Theme(next)
	}
	e.save()
}

func (e *Engine) startScan(int) {
	e.open(WifiScan)
	e.results = nil
	e.scanning = false

	if e.scanner == nil {
		e.status = "Scanning not available"
		return
	}
	if err := e.scanner.StartScan(); err != nil {
		logging.Warn("WiFi scan failed to start", zap.Error(err))
		e.status = "Scan failed"
		return
	}
	e.scanning = true
}

func (e *Engine) toggleNetwork(row int) {
	if err := e.settings().ToggleWifiNetwork(row - 2); err != nil {
		return
	}
	e.save()
}

func (e *Engine) deleteNetwork(row int) {
	s := e.settings()
	ssid := s.WifiNetworks[row-2].SSID
	if err := s.RemoveWifiNetwork(row - 2); err != nil {
		return
	}
	e.save()
	e.clampSelection()
	e.status = fmt.Sprintf("Deleted %s", ssid)
	logging.Info("WiFi network deleted", zap.Int("index", row-2))
}

func (e *Engine) beginWifiAdd(int) {
	e.open(WifiAdd)
	e.capture = newWifiAddCapture("")
}

func (e *Engine) pickScanResult(row int) {
	if row-1 >= len(e.results) {
		return
	}
	ssid := e.results[row-1].SSID
	e.open(WifiAdd)
	e.capture = newWifiAddCapture(ssid)
}

func (e *Engine) beginWifiEdit(row int) {
	index := row - 2
	ssid := e.settings().WifiNetworks[index].SSID
	e.open(WifiEdit)
	e.capture = newWifiEditCapture(index, ssid)
}

func (e *Engine) toggleServer(row int) {
	srv := e.server()
	switch row {
	case serverRowEnabled:
		srv.Enabled = !srv.Enabled
	case serverRowSSL:
		srv.UseSSL = !srv.UseSSL
	default:
		return
	}
	e.save()
}

func (e *Engine) beginServerEdit(row int) {
	e.capture = newServerCapture(e.screen, row, e.server())
	e.status = ""
}

func (e *Engine) serverAction(row int) {
	srv := *e.server()
	switch row {
	case serverRowTest:
		if e.tester == nil {
			e.status = "Test not available"
			return
		}
		if e.testing {
			return
		}
		e.testing = true
		e.testScreen = e.screen
		e.status = "Testing " + srv.Host + "..."
		e.tester.StartTest(srv)
	case serverRowConnect:
		e.hide(row)
		if e.connector != nil {
			e.connector.Connect(srv)
		}
	}
}

func (e *Engine) toggleSystem(row int) {
	s := e.settings()
	switch row {
	case systemRowSound:
		s.Sound.Enabled = !s.Sound.Enabled
	case systemRowHaptic:
		s.Haptic.Enabled = !s.Haptic.Enabled
	case systemRowAutoConnect:
		s.WifiAutoConnect = !s.WifiAutoConnect
	case systemRowPreferRemote:
		s.PreferRemote = !s.PreferRemote
	default:
		return
	}
	e.save()
}

func (e *Engine) adjustSystem(row int) {
	s := e.settings()
	step := direction(e.moveDelta) * percentStep

	switch row {
	case systemRowVolume:
		s.Sound.Volume = uint8(clamp(int(s.Sound.Volume)+step, 0, 100))
	case systemRowIntensity:
		s.Haptic.Intensity = uint8(clamp(int(s.Haptic.Intensity)+step, 0, 100))
	default:
		return
	}
	e.save()
}

func (e *Engine) systemAction(row int) {
	switch row {
	case systemRowReset:
		e.haptic(Feedback.Double)
		e.store.Reset()
		e.save()
		e.status = "Settings reset to defaults"
		logging.LogSettings("reset from menu")
	case systemRowRestart:
		e.haptic(Feedback.Double)
		if e.restarter == nil {
			e.status = "Restart not available"
			return
		}
		e.restarter.Restart()
	}
}
