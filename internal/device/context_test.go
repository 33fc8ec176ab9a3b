package device

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gorilla/websocket"

	"github.com/muurk/pagerterm/internal/blobstore"
	"github.com/muurk/pagerterm/internal/document"
	"github.com/muurk/pagerterm/internal/menu"
	"github.com/muurk/pagerterm/internal/settings"
)

const mainDoc = `config:
  gateway:
    host: gw.lan
    port: 7681
    connectTimeoutMs: 2500
`

func newTestContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	docs := &document.FSSource{FS: fstest.MapFS{
		"config/pagerterm.yaml": &fstest.MapFile{Data: []byte(mainDoc)},
	}}
	return New(blobstore.NewMemoryStore(), blobstore.NewMemoryStore(), docs, opts...)
}

func TestNewBootsEverything(t *testing.T) {
	c := newTestContext(t)

	cfg := c.Config()
	if cfg.Gateway.Host != "gw.lan" || cfg.Gateway.Port != 7681 {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if c.Gateway.ConnectTimeout.Milliseconds() != 2500 {
		t.Errorf("ConnectTimeout = %v", c.Gateway.ConnectTimeout)
	}
	if got := c.Gateway.URL(); got != "ws://gw.lan:7681/ws" {
		t.Errorf("Gateway.URL() = %q", got)
	}
	if c.SSH == nil || c.SSH.Timeout.Milliseconds() != 2500 {
		t.Errorf("SSH client = %+v", c.SSH)
	}
	if c.Settings.LastRecovery() == nil {
		t.Error("empty blob store did not trigger a settings recovery")
	}
	if _, err := c.Blobs.Get(settings.Namespace, settings.Key); err != nil {
		t.Errorf("recovered settings not saved: %v", err)
	}
}

func TestWithSeed(t *testing.T) {
	seed := settings.Seed{LocalServer: settings.ServerConfig{Host: "10.1.1.1", Port: 22, Enabled: true}}
	c := newTestContext(t, WithSeed(seed))

	if got := c.Settings.Settings().LocalServer.Host; got != "10.1.1.1" {
		t.Errorf("LocalServer.Host = %q", got)
	}
}

func TestWithMainDocument(t *testing.T) {
	c := newTestContext(t, WithMainDocument("/config/missing.yaml"))
	if c.Config().Gateway.Host == "gw.lan" {
		t.Error("main document override ignored")
	}
	if len(c.Resolver.Diagnostics()) == 0 {
		t.Error("missing main document not reported")
	}
}

func TestNewMenuSharesSettings(t *testing.T) {
	c := newTestContext(t)
	e := c.NewMenu()
	e.Show()

	// Main -> System -> Sound toggle
	for i := 0; i < 5; i++ {
		e.Handle(menu.Move(1))
	}
	e.Handle(menu.Select())
	e.Handle(menu.Move(1))
	before := c.Settings.Settings().Sound.Enabled
	e.Handle(menu.Select())

	if c.Settings.Settings().Sound.Enabled == before {
		t.Error("menu edit not visible through the context's store")
	}
}

func TestPreferredServer(t *testing.T) {
	tests := []struct {
		name         string
		preferRemote bool
		local        bool
		remote       bool
		want         string
		ok           bool
	}{
		{"local by default", false, true, true, "local", true},
		{"remote preferred", true, true, true, "remote", true},
		{"remote preferred but disabled", true, true, false, "local", true},
		{"only remote", false, false, true, "remote", true},
		{"none", true, false, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			s := c.Settings.Settings()
			s.PreferRemote = tt.preferRemote
			s.LocalServer.Enabled = tt.local
			s.LocalServer.Host = "local"
			s.RemoteServer.Enabled = tt.remote
			s.RemoteServer.Host = "remote"

			srv, ok := c.PreferredServer()
			if ok != tt.ok || srv.Host != tt.want {
				t.Errorf("PreferredServer() = %q, %v; want %q, %v", srv.Host, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	root := t.TempDir()
	p := Paths{Root: filepath.Join(root, "data")}

	c, err := Open(p)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !c.Resolver.SaveWifi("home", "secret") {
		t.Fatal("SaveWifi() failed on a fresh context")
	}

	reopened, err := Open(p)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if got := reopened.Config().Wifi; got.SSID != "home" || got.Password != "secret" {
		t.Errorf("Wifi after reopen = %+v", got)
	}
	if reopened.Settings.LastRecovery() != nil {
		t.Errorf("settings not reloaded: %v", reopened.Settings.LastRecovery())
	}
}

func TestLoadProfileRetargetsGateway(t *testing.T) {
	upgrader := websocket.Upgrader{}
	paths := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer ts.Close()

	host, port, err := net.SplitHostPort(ts.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	profile := fmt.Sprintf("profile:\n  host: %s\n  port: %s\n  path: /term\n", host, port)

	docs := &document.FSSource{FS: fstest.MapFS{
		"config/pagerterm.yaml":    &fstest.MapFile{Data: []byte(mainDoc)},
		"config/profiles/lab.yaml": &fstest.MapFile{Data: []byte(profile)},
		"config/profiles/bad.yaml": &fstest.MapFile{Data: []byte("profile: [\n")},
	}}
	c := New(blobstore.NewMemoryStore(), blobstore.NewMemoryStore(), docs)

	if c.LoadProfile("bad") {
		t.Fatal("LoadProfile(bad) = true")
	}
	if got := c.Gateway.URL(); got != "ws://gw.lan:7681/ws" {
		t.Errorf("URL after failed profile = %q", got)
	}

	if !c.LoadProfile("lab") {
		t.Fatalf("LoadProfile(lab) = false: %v", c.Resolver.Diagnostics())
	}
	want := "ws://" + net.JoinHostPort(host, port) + "/term"
	if got := c.Gateway.URL(); got != want {
		t.Fatalf("URL after profile = %q, want %q", got, want)
	}
	if c.Gateway.ConnectTimeout.Milliseconds() != 2500 {
		t.Errorf("profile dropped the connect timeout: %v", c.Gateway.ConnectTimeout)
	}

	s, err := c.Gateway.Dial(t.Context())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	s.Close()
	if got := <-paths; got != "/term" {
		t.Errorf("dialed path = %q, want /term", got)
	}
}
