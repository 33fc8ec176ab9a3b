package settings

// Seed is the deployment-specific data written by a factory reset.
type Seed struct {
	WifiNetworks []WifiNetwork
	LocalServer  ServerConfig
	RemoteServer ServerConfig
}

// DefaultSeed is used when a Store is created without WithSeed.
var DefaultSeed = Seed{
	WifiNetworks: []WifiNetwork{
		{SSID: "pagerterm-setup", Password: "changeme", Enabled: true},
	},
	// LAN SSH server
	LocalServer: ServerConfig{
		Host:     "192.168.8.141",
		Port:     22,
		Username: "pager",
		Password: "pager",
		Enabled:  true,
	},
	// Tailscale SSH server
	RemoteServer: ServerConfig{
		Host:     "100.107.239.11",
		Port:     22,
		Username: "pager",
		Password: "pager",
		Enabled:  true,
	},
}

// Factory returns fresh factory defaults with the given seed applied.
func Factory(seed Seed) *DeviceSettings {
	s := &DeviceSettings{
		Version: CurrentVersion,
		Display: DisplaySettings{
			Brightness: 200,
			Theme:      ThemeGreen,
		},
		WifiAutoConnect: true,
		LocalServer:     seed.LocalServer,
		RemoteServer:    seed.RemoteServer,
		PreferRemote:    false,
		Sound: SoundSettings{
			Enabled: true,
			Volume:  50,
		},
		Haptic: HapticSettings{
			Enabled:   true,
			Intensity: 80,
		},
	}
	for _, n := range seed.WifiNetworks {
		if err := s.AddWifiNetwork(n.SSID, n.Password); err != nil {
			break
		}
		s.WifiNetworks[len(s.WifiNetworks)-1].Enabled = n.Enabled
	}
	// stamps the checksum
	Encode(s)
	return s
}
