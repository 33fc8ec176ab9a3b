package menu

import (
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/settings"
)

// Engine is the settings menu state machine. It owns the transient UI state
// (screen, selection, scroll, capture buffer) and edits the store's working
// copy in place, saving after every change.
//
// Engine is not safe for concurrent use. Events must be delivered one at a
// time from a single loop, which is also the loop that calls Poll.
type Engine struct {
	store     SettingsStore
	renderer  Renderer
	scanner   Scanner
	tester    Tester
	connector Connector
	restarter Restarter
	feedback  Feedback
	about     []string

	screen   Screen
	selected int
	scroll   int
	status   string

	// moveDelta is the direction of the move being dispatched.
	moveDelta int

	scanning bool
	results  []ScanResult

	// testing is set while a connection test started on testScreen runs.
	testing    bool
	testScreen Screen

	capture *capture
}

// Option configures an Engine.
type Option func(*Engine)

func WithRenderer(r Renderer) Option   { return func(e *Engine) { e.renderer = r } }
func WithScanner(s Scanner) Option     { return func(e *Engine) { e.scanner = s } }
func WithTester(t Tester) Option       { return func(e *Engine) { e.tester = t } }
func WithConnector(c Connector) Option { return func(e *Engine) { e.connector = c } }
func WithRestarter(r Restarter) Option { return func(e *Engine) { e.restarter = r } }
func WithFeedback(f Feedback) Option   { return func(e *Engine) { e.feedback = f } }

// WithAbout sets the text shown on the About screen.
func WithAbout(lines ...string) Option {
	return func(e *Engine) { e.about = lines }
}

// New creates a hidden engine editing store's settings.
func New(store SettingsStore, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		feedback: nopFeedback{},
		about:    []string{"Pager Terminal", "Handheld SSH terminal settings"},
		screen:   Hidden,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Screen returns the current screen.
func (e *Engine) Screen() Screen { return e.screen }

// Selected returns the selected row index.
func (e *Engine) Selected() int { return e.selected }

// Scroll returns the index of the first visible row.
func (e *Engine) Scroll() int { return e.scroll }

// Visible reports whether the menu is shown.
func (e *Engine) Visible() bool { return e.screen != Hidden }

// Capturing reports whether a text-capture sub-flow is active.
func (e *Engine) Capturing() bool { return e.capture != nil }

// ItemCount returns the number of selectable rows on the current screen.
func (e *Engine) ItemCount() int {
	return len(screens[e.screen].rows(e))
}

func (e *Engine) settings() *settings.DeviceSettings {
	return e.store.Settings()
}

// Show opens the main screen.
func (e *Engine) Show() {
	e.capture = nil
	e.open(Main)
	e.render()
}

// Hide closes the menu.
func (e *Engine) Hide() {
	e.capture = nil
	e.open(Hidden)
	e.render()
}

// HandleKey feeds a keyboard key.
func (e *Engine) HandleKey(key rune) {
	if ev, ok := KeyEvent(key, e.Capturing()); ok {
		e.Handle(ev)
	}
}

// HandleRotary feeds an encoder step: 0 is a press, otherwise a direction.
func (e *Engine) HandleRotary(direction int) {
	e.Handle(RotaryEvent(direction))
}

// Handle processes one event to completion and redraws. Events are ignored
// while the menu is hidden.
func (e *Engine) Handle(ev Event) {
	if e.screen == Hidden {
		return
	}

	switch ev.Kind {
	case EventSelect:
		e.haptic(Feedback.Click)
	case EventMove:
		e.haptic(Feedback.Tick)
	case EventCancel:
		if e.capture != nil {
			e.haptic(Feedback.Bump)
		} else {
			e.haptic(Feedback.Click)
		}
	}

	if e.capture != nil {
		e.handleCapture(ev)
	} else {
		e.dispatch(ev)
	}
	e.render()
}

// Poll checks an outstanding network scan and shows its results once it has
// finished. It reports whether the screen changed.
func (e *Engine) Poll() bool {
	if e.screen != WifiScan || !e.scanning || e.scanner == nil {
		return false
	}
	results, done := e.scanner.Results()
	if !done {
		return false
	}

	e.scanning = false
	if len(results) > MaxScanResults {
		results = results[:MaxScanResults]
	}
	e.results = append([]ScanResult(nil), results...)
	logging.Debug("WiFi scan complete", zap.Int("results", len(e.results)))
	e.clampSelection()
	e.render()
	return true
}

// TestDone reports the outcome of the test started through the Tester. The
// status is shown only while the server screen that started it is open.
func (e *Engine) TestDone(err error) {
	if !e.testing {
		return
	}
	e.testing = false
	if err != nil {
		logging.Warn("Server test failed", zap.Error(err))
	}
	if e.screen != e.testScreen {
		return
	}
	if err != nil {
		e.status = "Test failed: " + err.Error()
	} else {
		e.status = "Connection OK"
	}
	e.render()
}

// open enters a screen with the selection and scroll reset.
func (e *Engine) open(s Screen) {
	if s != e.screen {
		logging.LogMenuTransition(e.screen.String(), s.String())
	}
	e.screen = s
	e.selected = 0
	e.scroll = 0
	e.status = ""
}

func (e *Engine) back() {
	e.open(screens[e.screen].parent)
}

// navigate moves the selection with wraparound and keeps it inside the
// visible window.
func (e *Engine) navigate(delta int) {
	count := e.ItemCount()
	if count == 0 {
		return
	}
	e.selected = ((e.selected+delta)%count + count) % count
	e.followSelection()
}

func (e *Engine) followSelection() {
	if e.selected < e.scroll {
		e.scroll = e.selected
	} else if e.selected >= e.scroll+VisibleRows {
		e.scroll = e.selected - VisibleRows + 1
	}
}

// clampSelection keeps the selection valid after the item count changed.
func (e *Engine) clampSelection() {
	count := e.ItemCount()
	if e.selected >= count {
		e.selected = count - 1
	}
	if e.selected < 0 {
		e.selected = 0
	}
	if e.scroll > e.selected {
		e.scroll = e.selected
	}
	e.followSelection()
}

// save persists the working copy. A failed write is logged by the store and
// otherwise treated as success.
func (e *Engine) save() {
	if err := e.store.Save(); err != nil {
		logging.Warn("Settings save failed", zap.String("screen", e.screen.String()), zap.Error(err))
	}
}

func (e *Engine) haptic(fn func(Feedback)) {
	if e.settings().Haptic.Enabled {
		fn(e.feedback)
	}
}

func (e *Engine) render() {
	if e.renderer != nil {
		e.renderer.Render(e.View())
	}
}
