package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/muurk/pagerterm/internal/blobstore"
	"github.com/muurk/pagerterm/internal/device"
	"github.com/muurk/pagerterm/internal/document"
)

const mainDoc = `config:
  wifi:
    ssid: office
    password: hunter22
  gateway:
    host: gw.lan
    port: 7681
`

const labProfile = `profile:
  host: lab.example.com
  port: 443
  useSsl: true
`

func newShell(t *testing.T) (*Shell, *device.Context, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	docs := &document.FSSource{FS: fstest.MapFS{
		"config/pagerterm.yaml":     &fstest.MapFile{Data: []byte(mainDoc)},
		"config/profiles/lab.yaml":  &fstest.MapFile{Data: []byte(labProfile)},
		"config/profiles/home.yaml": &fstest.MapFile{Data: []byte("profile:\n  host: home.lan\n")},
	}}
	ctx := device.New(blobstore.NewMemoryStore(), blobstore.NewMemoryStore(), docs)

	var out bytes.Buffer
	return New(ctx, &out, WithPrompt("")), ctx, &out
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		notWant []string
	}{
		{
			name:    "config masks password",
			line:    "config",
			want:    []string{"WiFi SSID: office", "WiFi Pass: ****", "ws://gw.lan:7681"},
			notWant: []string{"hunter22"},
		},
		{
			name: "profiles sorted",
			line: "profiles",
			want: []string{"Available profiles:", "  - 'home'\n  - 'lab'"},
		},
		{
			name: "profile without name",
			line: "profile",
			want: []string{"Usage: `profile <name>`"},
		},
		{
			name: "unknown profile",
			line: "profile nowhere",
			want: []string{"Profile 'nowhere' not found"},
		},
		{
			name: "wifi without password",
			line: "wifi cafe",
			want: []string{"Usage: `wifi <ssid> <password>`"},
		},
		{
			name:    "settings masks passwords",
			line:    "settings",
			want:    []string{"=== Device Settings ===", "pagerterm-setup (enabled)", "Host: 192.168.8.141:22", "password ****"},
			notWant: []string{"changeme"},
		},
		{
			name: "help lists verbs",
			line: "help",
			want: []string{"config", "profiles", "profile <name>", "wifi <ssid> <password>", "reload", "settings", "reset"},
		},
		{
			name: "unknown verb",
			line: "reboot now",
			want: []string{"Unknown command 'reboot', try `help`"},
		},
		{
			name: "blank line",
			line: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _, out := newShell(t)
			if err := sh.Execute(tt.line); err != nil {
				t.Fatalf("Execute(%q) error = %v", tt.line, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(out.String(), bad) {
					t.Errorf("output contains %q:\n%s", bad, out.String())
				}
			}
		})
	}
}

func TestProfileLoad(t *testing.T) {
	sh, ctx, out := newShell(t)

	if err := sh.Execute("profile lab"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Gateway: wss://lab.example.com:443") {
		t.Errorf("output = %q", out.String())
	}
	if got := ctx.Resolver.LastProfile(); got != "lab" {
		t.Errorf("LastProfile() = %q, want lab", got)
	}

	out.Reset()
	if err := sh.Execute("profiles"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "'lab' (last used)") {
		t.Errorf("last profile not marked:\n%s", out.String())
	}
}

func TestWifiSavesToSecureStore(t *testing.T) {
	sh, ctx, out := newShell(t)

	if err := sh.Execute("wifi cafe guest pass 1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "WiFi 'cafe' saved") {
		t.Errorf("output = %q", out.String())
	}

	cfg := ctx.Reload()
	if cfg.Wifi.SSID != "cafe" || cfg.Wifi.Password != "guest pass 1" {
		t.Errorf("wifi after reload = %+v", cfg.Wifi)
	}
}

func TestReset(t *testing.T) {
	sh, ctx, out := newShell(t)
	ctx.Settings.Settings().Display.Brightness = 30
	ctx.Settings.Settings().WifiNetworks = nil

	if err := sh.Execute("reset"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Settings reset to factory defaults") {
		t.Errorf("output = %q", out.String())
	}

	s := ctx.Settings.Load()
	if s.Display.Brightness != 200 || len(s.WifiNetworks) != 1 {
		t.Errorf("reloaded settings = brightness %d, %d networks", s.Display.Brightness, len(s.WifiNetworks))
	}
}

func TestExit(t *testing.T) {
	sh, _, _ := newShell(t)
	for _, verb := range []string{"exit", "quit"} {
		if err := sh.Execute(verb); !errors.Is(err, ErrExit) {
			t.Errorf("Execute(%q) = %v, want ErrExit", verb, err)
		}
	}
}

func TestRunLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "lf", input: "reload\nsettings\n"},
		{name: "cr", input: "reload\rsettings\r"},
		{name: "crlf", input: "reload\r\nsettings\r\n"},
		{name: "no final newline", input: "reload\nsettings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			_, ctx, _ := newShell(t)

			var out bytes.Buffer
			sh := New(ctx, &out)
			if err := sh.Run(context.Background(), strings.NewReader(tt.input)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			text := out.String()
			if !strings.Contains(text, "Config reloaded") || !strings.Contains(text, "=== Device Settings ===") {
				t.Errorf("commands not run:\n%s", text)
			}
			// one prompt per command plus the one waiting at EOF
			if got := strings.Count(text, DefaultPrompt); got != 3 {
				t.Errorf("prompts = %d, want 3:\n%s", got, text)
			}
		})
	}
}

func TestRunStopsAtExit(t *testing.T) {
	sh, _, out := newShell(t)
	if err := sh.Run(context.Background(), strings.NewReader("exit\nsettings\n")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "Device Settings") {
		t.Error("command after exit was run")
	}
}

func TestRunCancelled(t *testing.T) {
	sh, _, _ := newShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sh.Run(ctx, strings.NewReader("settings\n")); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
