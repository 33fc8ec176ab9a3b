package settings

import (
	"errors"
	"fmt"
)

// Limits of the persisted record. String limits are the fixed field sizes;
// one byte of each is reserved for the terminating NUL.
const (
	MaxWifiNetworks = 5
	SSIDSize        = 32
	WifiPassSize    = 64
	HostSize        = 64
	PathSize        = 32
	UsernameSize    = 32
	ServerPassSize  = 32
)

// ErrWifiListFull is returned when adding a network to a full list.
var ErrWifiListFull = fmt.Errorf("wifi network list is full (max %d)", MaxWifiNetworks)

// ErrNoSuchNetwork is returned for an out-of-range network index.
var ErrNoSuchNetwork = errors.New("no such wifi network")

// Theme selects one of the built-in display palettes.
type Theme uint8

const (
	ThemeGreen Theme = iota
	ThemeAmber
	ThemeHighContrast
	ThemeLight
	ThemeCyan
	ThemeCount
)

// Valid reports whether t names a palette.
func (t Theme) Valid() bool {
	return t < ThemeCount
}

// String returns the palette name.
func (t Theme) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Theme(%d)", uint8(t))
	}
	return Palettes[t].Name
}

type DisplaySettings struct {
	Brightness uint8
	Theme      Theme
}

// WifiNetwork is one saved network. Networks are tried in list order.
type WifiNetwork struct {
	SSID     string
	Password string
	Enabled  bool
}

// ServerConfig is one terminal server endpoint.
type ServerConfig struct {
	Host     string
	Port     uint16
	Path     string
	Username string
	Password string
	UseSSL   bool
	Enabled  bool
}

type SoundSettings struct {
	Enabled bool
	Volume  uint8 // 0-100
}

type HapticSettings struct {
	Enabled   bool
	Intensity uint8 // 0-100
}

// DeviceSettings is the mutable, persisted device state.
type DeviceSettings struct {
	Version uint8
	Display DisplaySettings

	WifiNetworks    []WifiNetwork
	WifiAutoConnect bool

	LocalServer  ServerConfig
	RemoteServer ServerConfig
	PreferRemote bool

	Sound  SoundSettings
	Haptic HapticSettings

	// Checksum is the value stamped by the last Encode.
	Checksum uint32
}

// Clone returns a deep copy of s.
func (s *DeviceSettings) Clone() *DeviceSettings {
	out := *s
	out.WifiNetworks = append([]WifiNetwork(nil), s.WifiNetworks...)
	return &out
}

// AddWifiNetwork appends an enabled network at the end of the list.
func (s *DeviceSettings) AddWifiNetwork(ssid, password string) error {
	if len(s.WifiNetworks) >= MaxWifiNetworks {
		return ErrWifiListFull
	}
	s.WifiNetworks = append(s.WifiNetworks, WifiNetwork{
		SSID:     truncate(ssid, SSIDSize),
		Password: truncate(password, WifiPassSize),
		Enabled:  true,
	})
	return nil
}

// RemoveWifiNetwork deletes the network at index i. Later networks move down
// one slot.
func (s *DeviceSettings) RemoveWifiNetwork(i int) error {
	if i < 0 || i >= len(s.WifiNetworks) {
		return fmt.Errorf("%w: index %d", ErrNoSuchNetwork, i)
	}
	s.WifiNetworks = append(s.WifiNetworks[:i], s.WifiNetworks[i+1:]...)
	return nil
}

// ToggleWifiNetwork flips the enabled flag of network i.
func (s *DeviceSettings) ToggleWifiNetwork(i int) error {
	if i < 0 || i >= len(s.WifiNetworks) {
		return fmt.Errorf("%w: index %d", ErrNoSuchNetwork, i)
	}
	s.WifiNetworks[i].Enabled = !s.WifiNetworks[i].Enabled
	return nil
}

// SetWifiPassword replaces the password of network i.
func (s *DeviceSettings) SetWifiPassword(i int, password string) error {
	if i < 0 || i >= len(s.WifiNetworks) {
		return fmt.Errorf("%w: index %d", ErrNoSuchNetwork, i)
	}
	s.WifiNetworks[i].Password = truncate(password, WifiPassSize)
	return nil
}

// truncate cuts v so it fits a NUL-terminated field of the given size.
func truncate(v string, size int) string {
	if len(v) > size-1 {
		return v[:size-1]
	}
	return v
}
