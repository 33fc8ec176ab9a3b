package menu

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/settings"
)

// captureTarget is the field a text capture writes on commit.
type captureTarget int

const (
	targetSSID captureTarget = iota
	targetWifiPassword
	targetEditPassword
	targetHost
	targetPort
	targetUsername
	targetServerPassword
)

// Capture buffer limits, one less than the record field so the stored
// string always fits with its terminator.
const (
	maxSSID           = settings.SSIDSize - 1
	maxWifiPassword   = settings.WifiPassSize - 1
	maxHost           = settings.HostSize - 1
	maxPort           = 5
	maxUsername       = settings.UsernameSize - 1
	maxServerPassword = settings.ServerPassSize - 1
)

// capture is an active text-capture sub-flow. Nothing reaches the settings
// until the final step is committed.
type capture struct {
	target captureTarget
	owner  Screen

	network int    // WifiEdit: index being edited
	ssid    string // WifiAdd: ssid from the first step

	buf      []rune
	max      int
	password bool

	title  string
	prompt string
}

func (c *capture) text() string { return string(c.buf) }

func newWifiAddCapture(ssid string) *capture {
	c := &capture{owner: WifiList, title: "ADD WIFI"}
	if ssid == "" {
		c.ssidStep()
	} else {
		c.ssid = ssid
		c.passwordStep()
	}
	return c
}

func (c *capture) ssidStep() {
	c.target = targetSSID
	c.buf = nil
	c.max = maxSSID
	c.password = false
	c.prompt = "Enter SSID:"
}

func (c *capture) passwordStep() {
	c.target = targetWifiPassword
	c.buf = nil
	c.max = maxWifiPassword
	c.password = true
	c.prompt = "Password for " + c.ssid + ":"
}

func newWifiEditCapture(index int, ssid string) *capture {
	return &capture{
		target:   targetEditPassword,
		owner:    WifiList,
		network:  index,
		ssid:     ssid,
		max:      maxWifiPassword,
		password: true,
		title:    "EDIT WIFI",
		prompt:   "New password for " + ssid + ":",
	}
}

// newServerCapture starts editing one field of srv, prefilled with its
// current value. Passwords start empty.
func newServerCapture(owner Screen, row int, srv *settings.ServerConfig) *capture {
	c := &capture{owner: owner, title: "EDIT " + screens[owner].title(nil)}
	switch row {
	case serverRowHost:
		c.target, c.max, c.prompt = targetHost, maxHost, "Host:"
		c.buf = []rune(srv.Host)
	case serverRowPort:
		c.target, c.max, c.prompt = targetPort, maxPort, "Port:"
		c.buf = []rune(strconv.Itoa(int(srv.Port)))
	case serverRowUsername:
		c.target, c.max, c.prompt = targetUsername, maxUsername, "Username:"
		c.buf = []rune(srv.Username)
	default:
		c.target, c.max, c.prompt = targetServerPassword, maxServerPassword, "Password:"
		c.password = true
	}
	if len(c.buf) > c.max {
		c.buf = c.buf[:c.max]
	}
	return c
}

func (e *Engine) handleCapture(ev Event) {
	c := e.capture
	switch ev.Kind {
	case EventChar:
		if len(c.buf) >= c.max {
			return
		}
		if c.target == targetPort && (ev.Char < '0' || ev.Char > '9') {
			return
		}
		c.buf = append(c.buf, ev.Char)
	case EventBackspace:
		if len(c.buf) > 0 {
			c.buf = c.buf[:len(c.buf)-1]
		}
	case EventCancel:
		logging.Debug("Text capture cancelled", zap.String("screen", e.screen.String()))
		e.endCapture("")
	case EventSelect:
		e.commitCapture()
	}
}

// endCapture leaves the sub-flow for its owner screen at row 0.
func (e *Engine) endCapture(status string) {
	owner := e.capture.owner
	e.capture = nil
	e.open(owner)
	e.status = status
}

func (e *Engine) commitCapture() {
	c := e.capture
	value := c.text()

	switch c.target {
	case targetSSID:
		if value == "" {
			e.endCapture("SSID cannot be empty")
			return
		}
		c.ssid = value
		c.passwordStep()
		return

	case targetWifiPassword:
		err := e.settings().AddWifiNetwork(c.ssid, value)
		if errors.Is(err, settings.ErrWifiListFull) {
			e.endCapture("WiFi list full (max 5)")
			return
		}
		e.save()
		logging.Info("WiFi network added", zap.String("ssid", c.ssid))
		e.endCapture("Added " + c.ssid)
		return

	case targetEditPassword:
		if err := e.settings().SetWifiPassword(c.network, value); err != nil {
			e.endCapture("")
			return
		}
		e.save()
		e.endCapture("Updated " + c.ssid)
		return

	case targetPort:
		port, err := strconv.ParseUint(value, 10, 16)
		if err != nil || port == 0 {
			e.endCapture("Invalid port, unchanged")
			return
		}
		e.server().Port = uint16(port)

	case targetHost:
		e.server().Host = value
	case targetUsername:
		e.server().Username = value
	case targetServerPassword:
		e.server().Password = value
	}

	e.save()
	e.endCapture("Saved")
}
