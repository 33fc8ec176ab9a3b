package shell

import (
	"fmt"
	"strings"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/settings"
	"github.com/muurk/pagerterm/internal/ui"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(s *Shell, args string) error
}

var commands []command

func init() {
	commands = []command{
		{"config", "config", "Show the resolved configuration", (*Shell).showConfig},
		{"profiles", "profiles", "List gateway profiles", (*Shell).listProfiles},
		{"profile", "profile <name>", "Apply a gateway profile", (*Shell).loadProfile},
		{"wifi", "wifi <ssid> <password>", "Save WiFi credentials to the secure store", (*Shell).saveWifi},
		{"reload", "reload", "Re-read the configuration documents", (*Shell).reload},
		{"settings", "settings", "Show the device settings", (*Shell).showSettings},
		{"reset", "reset", "Restore factory settings", (*Shell).reset},
		{"help", "help", "Show this list", (*Shell).help},
		{"exit", "exit", "Close the console", (*Shell).exit},
	}
}

func lookup(verb string) (command, bool) {
	if verb == "quit" {
		verb = "exit"
	}
	for _, c := range commands {
		if c.name == verb {
			return c, true
		}
	}
	return command{}, false
}

func (s *Shell) usage(verb string) {
	c, _ := lookup(verb)
	s.fail("Usage: %s", ui.Command.Sprint(c.usage))
}

func (s *Shell) showConfig(string) error {
	cfg := s.ctx.Config()
	fmt.Fprint(s.out, cfg.Summary())
	if last := s.ctx.Resolver.LastProfile(); last != "" {
		s.printf("Last profile: %s\n", ui.Highlight.Sprint(last))
	}
	s.printDiagnostics()
	return nil
}

func (s *Shell) printDiagnostics() {
	diags := s.ctx.Resolver.Diagnostics()
	if len(diags) == 0 {
		return
	}
	s.println()
	for _, d := range diags {
		s.warn("%s", d)
	}
}

func (s *Shell) listProfiles(string) error {
	names := s.ctx.Resolver.ListProfiles()
	if len(names) == 0 {
		s.println("No profiles found in", ui.Path.Sprint(config.DefaultProfilesDir))
		return nil
	}

	last := s.ctx.Resolver.LastProfile()
	s.println("Available profiles:")
	for _, name := range names {
		if name == last {
			s.printf("  - %s %s\n", ui.Highlight.Sprint(name), ui.Muted.Sprint("last used"))
		} else {
			s.printf("  - %s\n", ui.Highlight.Sprint(name))
		}
	}
	return nil
}

func (s *Shell) loadProfile(name string) error {
	if name == "" {
		s.usage("profile")
		return nil
	}

	before := len(s.ctx.Resolver.Diagnostics())
	if !s.ctx.LoadProfile(name) {
		s.fail("Profile %s not found", ui.Highlight.Sprint(name))
		if diags := s.ctx.Resolver.Diagnostics(); len(diags) > before {
			s.println("  ", ui.Muted.Sprint(diags[len(diags)-1]))
		}
		return nil
	}

	s.ok("Profile %s loaded, reconnect to apply", ui.Highlight.Sprint(name))
	s.printf("  Gateway: %s\n", s.ctx.Gateway.URL())
	return nil
}

func (s *Shell) saveWifi(args string) error {
	ssid, password, found := strings.Cut(args, " ")
	if ssid == "" || !found {
		s.usage("wifi")
		return nil
	}

	if !s.ctx.Resolver.SaveWifi(ssid, password) {
		s.fail("Failed to save WiFi credentials")
		return nil
	}
	s.ok("WiFi %s saved to secure store. Restart to apply.", ui.Highlight.Sprint(ssid))
	return nil
}

func (s *Shell) reload(string) error {
	s.ctx.Reload()
	s.ok("Config reloaded")
	s.printDiagnostics()
	return nil
}

func (s *Shell) showSettings(string) error {
	fmt.Fprint(s.out, formatSettings(s.ctx.Settings.Settings()))
	if err := s.ctx.Settings.LastRecovery(); err != nil {
		s.warn("Loaded factory settings: %v", err)
	}
	return nil
}

func (s *Shell) reset(string) error {
	s.ctx.Settings.Reset()
	if err := s.ctx.Settings.Save(); err != nil {
		s.fail("Settings reset but not saved: %v", err)
		return nil
	}
	s.ok("Settings reset to factory defaults")
	return nil
}

func (s *Shell) help(string) error {
	s.println("Commands:")
	for _, c := range commands {
		s.printf("  %-24s %s\n", c.usage, c.help)
	}
	return nil
}

func (s *Shell) exit(string) error {
	return ErrExit
}

// formatSettings describes the device settings with passwords masked.
func formatSettings(ds *settings.DeviceSettings) string {
	var b strings.Builder

	b.WriteString("=== Device Settings ===\n")
	b.WriteString(fmt.Sprintf("Display: brightness %d, theme %s\n", ds.Display.Brightness, ds.Display.Theme))
	b.WriteString(fmt.Sprintf("WiFi auto-connect: %s\n", onOff(ds.WifiAutoConnect)))
	if len(ds.WifiNetworks) == 0 {
		b.WriteString("WiFi networks: none\n")
	} else {
		b.WriteString("WiFi networks:\n")
		for i, n := range ds.WifiNetworks {
			state := "enabled"
			if !n.Enabled {
				state = "disabled"
			}
			b.WriteString(fmt.Sprintf("  %d. %s (%s)\n", i+1, n.SSID, state))
		}
	}
	b.WriteString("\n")
	writeServer(&b, "Local server", ds.LocalServer)
	writeServer(&b, "Remote server", ds.RemoteServer)
	b.WriteString(fmt.Sprintf("Prefer remote: %s\n", onOff(ds.PreferRemote)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Sound: %s, volume %d%%\n", onOff(ds.Sound.Enabled), ds.Sound.Volume))
	b.WriteString(fmt.Sprintf("Haptic: %s, intensity %d%%\n", onOff(ds.Haptic.Enabled), ds.Haptic.Intensity))

	return b.String()
}

func writeServer(b *strings.Builder, label string, srv settings.ServerConfig) {
	pass := "(empty)"
	if srv.Password != "" {
		pass = "****"
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", label, onOff(srv.Enabled)))
	b.WriteString(fmt.Sprintf("  Host: %s:%d\n", srv.Host, srv.Port))
	b.WriteString(fmt.Sprintf("  User: %s, password %s\n", srv.Username, pass))
	b.WriteString(fmt.Sprintf("  SSL: %s\n", onOff(srv.UseSSL)))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
