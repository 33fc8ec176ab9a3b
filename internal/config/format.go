package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// GatewayURL returns the WebSocket URL of the configured gateway.
func (c Config) GatewayURL() string {
	scheme := "ws"
	if c.Gateway.UseSSL {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, c.Gateway.Host, c.Gateway.Port, c.Gateway.Path)
}

// Summary returns a multi-line description of the configuration suitable
// for a console. The WiFi password is masked.
func (c Config) Summary() string {
	var b strings.Builder

	pass := "(empty)"
	if c.Wifi.Password != "" {
		pass = "****"
	}

	b.WriteString("=== Current Configuration ===\n")
	b.WriteString(fmt.Sprintf("WiFi SSID: %s\n", c.Wifi.SSID))
	b.WriteString(fmt.Sprintf("WiFi Pass: %s\n", pass))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Gateway: %s\n", c.GatewayURL()))
	if c.Gateway.SNI != "" {
		b.WriteString(fmt.Sprintf("  SNI: %s\n", c.Gateway.SNI))
	}
	b.WriteString(fmt.Sprintf("  Connect timeout: %dms\n", c.Gateway.ConnectTimeoutMs))
	b.WriteString(fmt.Sprintf("  Reconnect delay: %d-%dms\n", c.Gateway.ReconnectDelayMs, c.Gateway.MaxReconnectDelayMs))
	b.WriteString(fmt.Sprintf("  Ping interval: %dms\n", c.Gateway.PingIntervalMs))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Terminal: %dx%d\n", c.Terminal.Cols, c.Terminal.Rows))
	b.WriteString(fmt.Sprintf("  Font: %s @ %d\n", c.Terminal.FontName, c.Terminal.FontSize))
	b.WriteString(fmt.Sprintf("  Scrollback: %d lines\n", c.Terminal.ScrollbackLines))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Haptics: %s (keypress=%dms, bell=%dms)\n",
		onOff(c.Haptics.Enabled), c.Haptics.KeypressMs, c.Haptics.BellMs))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Theme: %s\n", c.Theme.Name))
	b.WriteString(fmt.Sprintf("  Cursor: %s, blink=%s\n", c.Theme.Cursor.Style, yesNo(c.Theme.Cursor.Blink)))
	b.WriteString(fmt.Sprintf("Keymap: %s (%d keys, %d modifiers)\n",
		c.Keymap.Name, len(c.Keymap.Keys), len(c.Keymap.Modifiers)))

	return b.String()
}

// MarshalMasked renders the configuration as YAML with the WiFi password
// replaced by a mask.
func (c Config) MarshalMasked() ([]byte, error) {
	out := c.clone()
	if out.Wifi.Password != "" {
		out.Wifi.Password = "****"
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
