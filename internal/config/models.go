package config

// Config is the fully resolved device configuration. It is built once at
// boot by Resolver.Resolve and only rebuilt by an explicit reload.
type Config struct {
	Wifi     WifiConfig     `yaml:"wifi"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Terminal TerminalConfig `yaml:"terminal"`
	Input    InputConfig    `yaml:"input"`
	Haptics  HapticsConfig  `yaml:"haptics"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
	Theme    ThemeConfig    `yaml:"theme"`
	Keymap   KeymapConfig   `yaml:"keymap"`
}

// WifiConfig holds the boot-time WiFi credentials.
type WifiConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// GatewayConfig describes the terminal gateway endpoint and its timing.
type GatewayConfig struct {
	Host                string `yaml:"host"`
	Port                uint16 `yaml:"port"`
	Path                string `yaml:"path"`
	UseSSL              bool   `yaml:"useSsl"`
	SNI                 string `yaml:"sni"` // optional TLS server name
	ConnectTimeoutMs    uint32 `yaml:"connectTimeoutMs"`
	ReconnectDelayMs    uint32 `yaml:"reconnectDelayMs"`
	MaxReconnectDelayMs uint32 `yaml:"maxReconnectDelayMs"`
	PingIntervalMs      uint32 `yaml:"pingIntervalMs"`
}

type TerminalConfig struct {
	Cols            uint16 `yaml:"cols"`
	Rows            uint16 `yaml:"rows"`
	ScrollbackLines uint16 `yaml:"scrollbackLines"`
	FontName        string `yaml:"fontName"`
	FontSize        uint8  `yaml:"fontSize"`
}

type InputConfig struct {
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Encoder  EncoderConfig  `yaml:"encoder"`
}

type KeyboardConfig struct {
	KeymapFile string `yaml:"keymapFile"`
	DebounceMs uint8  `yaml:"debounceMs"`
}

type EncoderConfig struct {
	PressSendsEnter     bool  `yaml:"pressSendsEnter"`
	RotateScrollEnabled bool  `yaml:"rotateScrollEnabled"`
	RotateStepLines     uint8 `yaml:"rotateStepLines"`
}

type HapticsConfig struct {
	Enabled    bool  `yaml:"enabled"`
	KeypressMs uint8 `yaml:"keypressMs"`
	BellMs     uint8 `yaml:"bellMs"`
}

type UIConfig struct {
	StatusBarEnabled bool   `yaml:"statusBarEnabled"`
	ThemeFile        string `yaml:"themeFile"`
}

type LoggingConfig struct {
	SerialBaud     uint32 `yaml:"serialBaud"`
	DebugWebSocket bool   `yaml:"debugWebSocket"`
	DebugKeyboard  bool   `yaml:"debugKeyboard"`
}

// RGB is one colour as red, green, blue components.
type RGB [3]uint8

// ThemeColors are the eight named colours of a terminal theme.
type ThemeColors struct {
	Bg       RGB `yaml:"bg,flow"`
	Fg       RGB `yaml:"fg,flow"`
	Muted    RGB `yaml:"muted,flow"`
	OK       RGB `yaml:"ok,flow"`
	Warn     RGB `yaml:"warn,flow"`
	Err      RGB `yaml:"err,flow"`
	StatusBg RGB `yaml:"statusBg,flow"`
	StatusFg RGB `yaml:"statusFg,flow"`
}

type CursorConfig struct {
	Style string `yaml:"style"` // block, underline, bar
	Blink bool   `yaml:"blink"`
}

type StatusBarConfig struct {
	HeightPx      uint8 `yaml:"heightPx"`
	Icons         bool  `yaml:"icons"`
	ShowWifi      bool  `yaml:"showWifi"`
	ShowWebSocket bool  `yaml:"showWebSocket"`
	ShowModifiers bool  `yaml:"showModifiers"`
}

type ThemeConfig struct {
	Name            string          `yaml:"name"`
	Colors          ThemeColors     `yaml:"colors"`
	Cursor          CursorConfig    `yaml:"cursor"`
	SelectionInvert bool            `yaml:"selectionInvert"`
	StatusBar       StatusBarConfig `yaml:"statusBar"`
}

// NoCode marks a key that emits its normal/shift text rather than a control code.
const NoCode = -1

// KeyMapping maps one physical key to its output.
type KeyMapping struct {
	ID     string `yaml:"id"`               // key identifier, e.g. "A", "COMMA"
	Normal string `yaml:"normal,omitempty"` // unshifted output
	Shift  string `yaml:"shift,omitempty"`  // shifted output
	Code   int    `yaml:"code"`             // control code, or NoCode
}

// HasCode reports whether the key emits a control code.
func (k KeyMapping) HasCode() bool {
	return k.Code != NoCode
}

// ModifierMode is how a modifier key latches.
type ModifierMode string

const (
	ModifierOneShot ModifierMode = "oneshot"
	ModifierSticky  ModifierMode = "sticky"
)

// ModifierDef declares one modifier key.
type ModifierDef struct {
	ID   string       `yaml:"id"`
	Mode ModifierMode `yaml:"mode"`
}

type KeymapConfig struct {
	Name      string        `yaml:"name"`
	Keys      []KeyMapping  `yaml:"keys"`
	Modifiers []ModifierDef `yaml:"modifiers"`
}

// clone returns a copy that shares no slices with c.
func (c Config) clone() Config {
	out := c
	out.Keymap.Keys = append([]KeyMapping(nil), c.Keymap.Keys...)
	out.Keymap.Modifiers = append([]ModifierDef(nil), c.Keymap.Modifiers...)
	return out
}
