package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/device"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/menu"
	"github.com/muurk/pagerterm/internal/settings"
	"github.com/muurk/pagerterm/internal/sshclient"
	"github.com/muurk/pagerterm/internal/wifi"
)

// PollInterval is how often an outstanding network scan is checked.
const PollInterval = 250 * time.Millisecond

// Session is an open terminal connection: an SSH shell on a server record
// or a WebSocket gateway session.
type Session interface {
	URL() string
	Send(data []byte) error
	Receive() ([]byte, error)
	Close() error
}

// Messages
type pollMsg time.Time

type connectedMsg struct {
	session Session
	err     error
}

type outputMsg struct {
	session Session
	data    []byte
	err     error
}

type testDoneMsg struct {
	err error
}

// viewSink is the menu's render target. The last view is kept for View.
type viewSink struct {
	view    menu.ScreenView
	renders int
}

func (s *viewSink) Render(v menu.ScreenView) {
	s.view = v
	s.renders++
}

// pendingConnect records a Connect Now request until Update picks it up.
type pendingConnect struct {
	server *settings.ServerConfig
}

func (p *pendingConnect) Connect(srv settings.ServerConfig) { p.server = &srv }

func (p *pendingConnect) take() (settings.ServerConfig, bool) {
	if p.server == nil {
		return settings.ServerConfig{}, false
	}
	srv := *p.server
	p.server = nil
	return srv, true
}

// pendingTest records a Test Connection request until Update runs it.
type pendingTest struct {
	server *settings.ServerConfig
}

func (p *pendingTest) StartTest(srv settings.ServerConfig) { p.server = &srv }

func (p *pendingTest) take() (settings.ServerConfig, bool) {
	if p.server == nil {
		return settings.ServerConfig{}, false
	}
	srv := *p.server
	p.server = nil
	return srv, true
}

type restartFlag struct{ requested bool }

func (r *restartFlag) Restart() { r.requested = true }

// Options configures the application model.
type Options struct {
	// AutoConnect dials the preferred server on start, or the gateway
	// when no server is enabled.
	AutoConnect bool
	// Scanner overrides the WiFi scanner. Nil uses nmcli.
	Scanner menu.Scanner
}

// Result reports how the program ended.
type Result struct {
	// Restart is set when the user chose Restart from the System screen.
	Restart bool
}

// AppModel is the top-level model: a terminal panel with the settings menu
// shown over it on demand.
type AppModel struct {
	ctx    *device.Context
	engine *menu.Engine

	sink      *viewSink
	connector *pendingConnect
	tester    *pendingTest
	restart   *restartFlag

	session    Session
	connecting bool
	status     string
	scrollback *Scrollback
	rows       int

	autoConnect bool

	// UI state
	Width  int
	Height int

	// Help
	Help         help.Model
	MenuKeys     menuKeyMap
	CaptureKeys  captureKeyMap
	TerminalKeys terminalKeyMap
}

// NewAppModel creates the application model over a booted device context.
func NewAppModel(ctx *device.Context, opts Options) AppModel {
	sink := &viewSink{}
	connector := &pendingConnect{}
	tester := &pendingTest{}
	restart := &restartFlag{}

	var scanner menu.Scanner = opts.Scanner
	if scanner == nil {
		scanner = wifi.NewScanner()
	}

	engine := ctx.NewMenu(
		menu.WithRenderer(sink),
		menu.WithScanner(scanner),
		menu.WithTester(tester),
		menu.WithConnector(connector),
		menu.WithRestarter(restart),
	)

	term := ctx.Config().Terminal
	rows := int(term.Rows)
	if rows < 1 {
		rows = 1
	}
	keep := int(term.ScrollbackLines)
	if keep < rows {
		keep = rows
	}

	return AppModel{
		ctx:          ctx,
		engine:       engine,
		sink:         sink,
		connector:    connector,
		tester:       tester,
		restart:      restart,
		status:       "Not connected",
		scrollback:   NewScrollback(keep),
		rows:         rows,
		autoConnect:  opts.AutoConnect,
		Help:         help.New(),
		MenuKeys:     newMenuKeyMap(),
		CaptureKeys:  newCaptureKeyMap(),
		TerminalKeys: newTerminalKeyMap(),
	}
}

// Engine returns the settings menu driven by the model.
func (m AppModel) Engine() *menu.Engine { return m.engine }

// Restarting reports whether a restart was requested.
func (m AppModel) Restarting() bool { return m.restart.requested }

// Init starts scan polling and, when configured, the first connection.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{pollTick()}
	if m.autoConnect {
		if srv, ok := m.ctx.PreferredServer(); ok {
			cmds = append(cmds, m.connect(srv))
		} else {
			cmds = append(cmds, m.connectGateway())
		}
	}
	return tea.Batch(cmds...)
}

func pollTick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case pollMsg:
		m.engine.Poll()
		return m, pollTick()

	case testDoneMsg:
		m.engine.TestDone(msg.err)
		return m, nil

	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.status = "Connect failed: " + msg.err.Error()
			return m, nil
		}
		m.closeSession()
		m.session = msg.session
		m.scrollback.Reset()
		m.status = "Connected: " + msg.session.URL()
		return m, receive(msg.session)

	case outputMsg:
		if msg.session != m.session {
			return m, nil
		}
		if msg.err != nil {
			logging.Info("Terminal session ended", zap.String("url", msg.session.URL()), zap.Error(msg.err))
			m.closeSession()
			m.status = "Disconnected"
			return m, nil
		}
		m.scrollback.Write(msg.data)
		return m, receive(msg.session)

	case tea.KeyMsg:
		if m.engine.Visible() {
			return m.updateMenu(msg)
		}
		return m.updateTerminal(msg)
	}

	return m, nil
}

func (m AppModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.MenuKeys.Quit) {
		return m, tea.Quit
	}

	if m.engine.Capturing() {
		switch msg.Type {
		case tea.KeyEnter:
			m.engine.HandleKey('\r')
		case tea.KeyEsc:
			m.engine.HandleKey(27)
		case tea.KeyBackspace, tea.KeyDelete:
			m.engine.HandleKey('\b')
		case tea.KeySpace:
			m.engine.HandleKey(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.engine.HandleKey(r)
			}
		}
		return m.afterMenuEvent()
	}

	switch {
	case key.Matches(msg, m.MenuKeys.Up):
		m.engine.Handle(menu.Move(-1))
	case key.Matches(msg, m.MenuKeys.Down):
		m.engine.Handle(menu.Move(1))
	case key.Matches(msg, m.MenuKeys.Select):
		m.engine.Handle(menu.Select())
	case msg.Type == tea.KeyEsc:
		m.engine.Handle(menu.Cancel())
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		m.engine.HandleKey(msg.Runes[0])
	}
	return m.afterMenuEvent()
}

// afterMenuEvent carries out requests the menu made while handling a key.
func (m AppModel) afterMenuEvent() (tea.Model, tea.Cmd) {
	if m.restart.requested {
		logging.Info("Restart requested from menu")
		m.closeSession()
		return m, tea.Quit
	}
	if srv, ok := m.tester.take(); ok {
		return m, m.test(srv)
	}
	if srv, ok := m.connector.take(); ok {
		return m, m.connect(srv)
	}
	return m, nil
}

func (m AppModel) updateTerminal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.TerminalKeys.Quit):
		m.closeSession()
		return m, tea.Quit
	case key.Matches(msg, m.TerminalKeys.Settings):
		m.engine.Show()
		return m, nil
	case key.Matches(msg, m.TerminalKeys.Disconnect):
		if m.session != nil {
			m.closeSession()
			m.status = "Disconnected"
		}
		return m, nil
	case key.Matches(msg, m.TerminalKeys.Connect):
		srv, ok := m.ctx.PreferredServer()
		if !ok {
			m.status = "No server enabled"
			return m, nil
		}
		return m, m.connect(srv)
	case key.Matches(msg, m.TerminalKeys.Gateway):
		return m, m.connectGateway()
	}

	if m.session == nil {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	if data := keyBytes(msg); len(data) > 0 {
		if err := m.session.Send(data); err != nil {
			logging.Warn("Terminal send failed", zap.String("url", m.session.URL()), zap.Error(err))
		}
	}
	return m, nil
}

// connect opens an SSH shell on srv off the update loop.
func (m *AppModel) connect(srv settings.ServerConfig) tea.Cmd {
	client := m.ctx.SSH
	return m.dial(sshclient.Target(srv), func(ctx context.Context) (Session, error) {
		s, err := client.Dial(ctx, srv)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// connectGateway opens a session to the configured WebSocket gateway.
func (m *AppModel) connectGateway() tea.Cmd {
	client := m.ctx.Gateway
	return m.dial(client.URL(), func(ctx context.Context) (Session, error) {
		s, err := client.Dial(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func (m *AppModel) dial(target string, open func(context.Context) (Session, error)) tea.Cmd {
	if m.connecting {
		return nil
	}
	m.connecting = true
	m.status = "Connecting to " + target + "…"

	return func() tea.Msg {
		session, err := open(context.Background())
		return connectedMsg{session: session, err: err}
	}
}

// test checks srv off the update loop and reports back to the menu.
func (m *AppModel) test(srv settings.ServerConfig) tea.Cmd {
	client := m.ctx.SSH
	return func() tea.Msg {
		return testDoneMsg{err: client.Test(srv)}
	}
}

func receive(s Session) tea.Cmd {
	return func() tea.Msg {
		data, err := s.Receive()
		return outputMsg{session: s, data: data, err: err}
	}
}

func (m *AppModel) closeSession() {
	if m.session == nil {
		return
	}
	_ = m.session.Close()
	m.session = nil
}

// keyBytes encodes a key press as terminal input.
func keyBytes(msg tea.KeyMsg) []byte {
	var out []byte
	if msg.Alt {
		out = append(out, 0x1b)
	}

	switch msg.Type {
	case tea.KeyRunes:
		return append(out, string(msg.Runes)...)
	case tea.KeySpace:
		return append(out, ' ')
	case tea.KeyUp:
		return append(out, "\x1b[A"...)
	case tea.KeyDown:
		return append(out, "\x1b[B"...)
	case tea.KeyRight:
		return append(out, "\x1b[C"...)
	case tea.KeyLeft:
		return append(out, "\x1b[D"...)
	case tea.KeyHome:
		return append(out, "\x1b[H"...)
	case tea.KeyEnd:
		return append(out, "\x1b[F"...)
	case tea.KeyDelete:
		return append(out, "\x1b[3~"...)
	case tea.KeyPgUp:
		return append(out, "\x1b[5~"...)
	case tea.KeyPgDown:
		return append(out, "\x1b[6~"...)
	}

	// Control keys carry their control code as the key type.
	if msg.Type >= 0 && msg.Type <= 127 {
		return append(out, byte(msg.Type))
	}
	return nil
}

// View renders the menu when shown, otherwise the terminal panel.
func (m AppModel) View() string {
	st := NewStyles(m.ctx.Settings.Settings().CurrentPalette())
	width := PanelWidth(m.Width)

	if m.engine.Visible() {
		var helpView string
		if m.engine.Capturing() {
			helpView = m.Help.View(m.CaptureKeys)
		} else {
			helpView = m.Help.View(m.MenuKeys)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			RenderMenu(m.sink.view, st, width),
			helpView,
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTerminal(st),
		m.Help.View(m.TerminalKeys),
	)
}

func (m AppModel) renderTerminal(st Styles) string {
	width := int(m.ctx.Config().Terminal.Cols)
	if m.Width > 2 && m.Width-2 < width {
		width = m.Width - 2
	}
	if width < MinPanelWidth {
		width = MinPanelWidth
	}

	lines := []string{BuildHeader(st, width)}
	output := m.scrollback.Tail(m.rows)
	for i := 0; i < m.rows; i++ {
		var line string
		if i < len(output) {
			line = Truncate(output[i], width)
		}
		lines = append(lines, st.Row.Render(FormatRow(line, "", width)))
	}
	lines = append(lines, st.Status.Render(FormatRow(m.status, m.wifiLabel(), width)))

	return st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// wifiLabel names the network the device is configured to join.
func (m AppModel) wifiLabel() string {
	if ssid := m.ctx.Config().Wifi.SSID; ssid != "" {
		return "wifi " + ssid
	}
	return ""
}

// Run starts the program and blocks until the user quits.
func Run(ctx *device.Context, opts Options) (Result, error) {
	p := tea.NewProgram(NewAppModel(ctx, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("terminal UI failed: %w", err)
	}
	m, ok := final.(AppModel)
	if !ok {
		return Result{}, nil
	}
	return Result{Restart: m.Restarting()}, nil
}
