package config

const (
	// DefaultMainPath is where the main configuration document lives.
	DefaultMainPath = "/config/pagerterm.yaml"
	// DefaultProfilesDir holds gateway profile documents, one per profile.
	DefaultProfilesDir = "/config/profiles"
	// DocumentExt is the extension of every configuration document.
	DocumentExt = ".yaml"
)

// Defaults returns the compiled-in configuration. Every field has a value
// here; documents and the secure store only ever overwrite.
func Defaults() Config {
	return Config{
		// WiFi is empty until set through a document or the secure store
		Wifi: WifiConfig{},
		Gateway: GatewayConfig{
			Host:                "192.168.1.100",
			Port:                7681,
			Path:                "/ws",
			UseSSL:              false,
			SNI:                 "",
			ConnectTimeoutMs:    4000,
			ReconnectDelayMs:    800,
			MaxReconnectDelayMs: 5000,
			PingIntervalMs:      15000,
		},
		Terminal: TerminalConfig{
			Cols:            80,
			Rows:            18,
			ScrollbackLines: 0,
			FontName:        "mono",
			FontSize:        14,
		},
		Input: InputConfig{
			Keyboard: KeyboardConfig{
				KeymapFile: "/config/keymaps/us_qwerty.yaml",
				DebounceMs: 15,
			},
			Encoder: EncoderConfig{
				PressSendsEnter:     true,
				RotateScrollEnabled: false,
				RotateStepLines:     1,
			},
		},
		Haptics: HapticsConfig{
			Enabled:    true,
			KeypressMs: 8,
			BellMs:     40,
		},
		UI: UIConfig{
			StatusBarEnabled: true,
			ThemeFile:        "/config/themes/nasa_minimal.yaml",
		},
		Logging: LoggingConfig{
			SerialBaud:     115200,
			DebugWebSocket: false,
			DebugKeyboard:  false,
		},
		Theme: ThemeConfig{
			Name: "nasa_minimal",
			Colors: ThemeColors{
				Bg:       RGB{0, 0, 0},
				Fg:       RGB{230, 230, 230},
				Muted:    RGB{140, 140, 140},
				OK:       RGB{80, 220, 160},
				Warn:     RGB{240, 200, 80},
				Err:      RGB{255, 90, 90},
				StatusBg: RGB{20, 20, 20},
				StatusFg: RGB{220, 220, 220},
			},
			Cursor: CursorConfig{
				Style: "block",
				Blink: true,
			},
			SelectionInvert: true,
			StatusBar: StatusBarConfig{
				HeightPx:      18,
				Icons:         true,
				ShowWifi:      true,
				ShowWebSocket: true,
				ShowModifiers: true,
			},
		},
		Keymap: KeymapConfig{
			Name: "builtin",
		},
	}
}
