package settings

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/pagerterm/internal/logging"
)

func sampleSettings() *DeviceSettings {
	s := Factory(DefaultSeed)
	s.Display.Brightness = 135
	s.Display.Theme = ThemeCyan
	_ = s.AddWifiNetwork("Net1", "pw1")
	_ = s.AddWifiNetwork("Net2", "pw2")
	s.WifiNetworks[1].Enabled = false
	s.RemoteServer.Path = "/ssh"
	s.RemoteServer.UseSSL = true
	s.PreferRemote = true
	s.Sound.Volume = 70
	s.Haptic.Enabled = false
	return s
}

func TestRecordSize(t *testing.T) {
	if RecordSize != 828 {
		t.Errorf("RecordSize = %d, want 828", RecordSize)
	}
	if got := len(Encode(Factory(DefaultSeed))); got != RecordSize {
		t.Errorf("len(Encode()) = %d, want %d", got, RecordSize)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleSettings()
	record := Encode(want)

	got, err := Decode(record)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode(Encode(x)) = %+v\nwant %+v", got, want)
	}
	if again := Encode(got); !bytes.Equal(again, record) {
		t.Error("re-encoding a decoded record is not byte-equal")
	}
}

func TestChecksumKnownValue(t *testing.T) {
	record := make([]byte, RecordSize)
	record[0] = 1 // weight 1
	record[9] = 2 // weight 10
	if got, want := Checksum(record), uint32(21)^0xDEADBEEF; got != want {
		t.Errorf("Checksum() = %#x, want %#x", got, want)
	}
}

func TestStampVerify(t *testing.T) {
	record := Encode(sampleSettings())
	if !Verify(record) {
		t.Fatal("Verify() = false for a freshly encoded record")
	}

	record[len(record)-1] ^= 0xFF
	if Verify(record) {
		t.Error("Verify() = true after corrupting the checksum field")
	}
	Stamp(record)
	if !Verify(record) {
		t.Error("Verify() = false after re-stamping")
	}
}

func TestEverySingleByteFlipIsDetected(t *testing.T) {
	base := Encode(sampleSettings())

	for i := 0; i < checksumOffset; i++ {
		for _, mask := range []byte{0x01, 0x80, 0xFF} {
			record := append([]byte(nil), base...)
			record[i] ^= mask

			if Verify(record) {
				t.Fatalf("flip %#02x at byte %d not detected", mask, i)
			}

			_, err := Decode(record)
			want := ErrChecksumMismatch
			if i == 0 {
				want = ErrVersionMismatch
			}
			if !errors.Is(err, want) {
				t.Fatalf("Decode() with byte %d flipped: error = %v, want %v", i, err, want)
			}
		}
	}
}

func TestDecodeGateOrder(t *testing.T) {
	valid := Encode(sampleSettings())

	stale := append([]byte(nil), valid...)
	stale[0] = CurrentVersion - 1
	Stamp(stale)

	staleAndCorrupt := append([]byte(nil), stale...)
	staleAndCorrupt[100] ^= 0x55

	tests := []struct {
		name   string
		record []byte
		want   error
	}{
		{"empty", nil, ErrSizeMismatch},
		{"one byte short", valid[:RecordSize-1], ErrSizeMismatch},
		{"one byte long", append(append([]byte(nil), valid...), 0), ErrSizeMismatch},
		{"previous version with good checksum", stale, ErrVersionMismatch},
		{"version checked before checksum", staleAndCorrupt, ErrVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.record)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeTruncatesLongStrings(t *testing.T) {
	s := Factory(Seed{})
	s.LocalServer.Host = strings.Repeat("h", 100)
	s.WifiNetworks = []WifiNetwork{{SSID: strings.Repeat("s", 40), Password: "p", Enabled: true}}

	got, err := Decode(Encode(s))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.LocalServer.Host) != HostSize-1 {
		t.Errorf("host length = %d, want %d", len(got.LocalServer.Host), HostSize-1)
	}
	if len(got.WifiNetworks[0].SSID) != SSIDSize-1 {
		t.Errorf("ssid length = %d, want %d", len(got.WifiNetworks[0].SSID), SSIDSize-1)
	}
}

func TestDecodeClampsOutOfRangeValues(t *testing.T) {
	record := Encode(Factory(DefaultSeed))
	// theme, then network count
	record[2] = 9
	record[3+MaxWifiNetworks*networkSize] = 200
	Stamp(record)

	core, logs := observer.New(zap.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(nil)

	got, err := Decode(record)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Display.Theme != ThemeGreen {
		t.Errorf("Theme = %v, want %v", got.Display.Theme, ThemeGreen)
	}
	if len(got.WifiNetworks) != MaxWifiNetworks {
		t.Errorf("networks = %d, want %d", len(got.WifiNetworks), MaxWifiNetworks)
	}

	repairs := logs.FilterMessage("Settings event").All()
	if len(repairs) != 2 {
		t.Fatalf("logged %d repairs, want 2", len(repairs))
	}
	theme := repairs[0].ContextMap()
	if theme["event"] != "theme out of range, using default" || theme["stored"] != uint8(9) {
		t.Errorf("theme repair fields = %v", theme)
	}
	count := repairs[1].ContextMap()
	if count["stored"] != int64(200) {
		t.Errorf("count repair fields = %v", count)
	}

	// a record written by Encode decodes without repairs
	logs.TakeAll()
	if _, err := Decode(Encode(Factory(DefaultSeed))); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("Settings event").Len(); n != 0 {
		t.Errorf("clean record logged %d repairs", n)
	}
}

func TestWifiListOperations(t *testing.T) {
	s := Factory(Seed{})
	for _, ssid := range []string{"a", "b", "c", "d", "e"} {
		if err := s.AddWifiNetwork(ssid, ssid+"pw"); err != nil {
			t.Fatalf("AddWifiNetwork(%s) error = %v", ssid, err)
		}
	}
	if err := s.AddWifiNetwork("f", ""); !errors.Is(err, ErrWifiListFull) {
		t.Errorf("AddWifiNetwork on full list error = %v, want ErrWifiListFull", err)
	}

	if err := s.ToggleWifiNetwork(2); err != nil || s.WifiNetworks[2].Enabled {
		t.Errorf("ToggleWifiNetwork(2) err=%v enabled=%v", err, s.WifiNetworks[2].Enabled)
	}

	if err := s.RemoveWifiNetwork(1); err != nil {
		t.Fatalf("RemoveWifiNetwork(1) error = %v", err)
	}
	want := []WifiNetwork{
		{SSID: "a", Password: "apw", Enabled: true},
		{SSID: "c", Password: "cpw", Enabled: false},
		{SSID: "d", Password: "dpw", Enabled: true},
		{SSID: "e", Password: "epw", Enabled: true},
	}
	if !reflect.DeepEqual(s.WifiNetworks, want) {
		t.Errorf("after remove = %+v, want %+v", s.WifiNetworks, want)
	}

	if err := s.SetWifiPassword(0, "new"); err != nil || s.WifiNetworks[0].Password != "new" {
		t.Errorf("SetWifiPassword err=%v networks=%+v", err, s.WifiNetworks)
	}

	for _, i := range []int{-1, 4} {
		if err := s.RemoveWifiNetwork(i); !errors.Is(err, ErrNoSuchNetwork) {
			t.Errorf("RemoveWifiNetwork(%d) error = %v, want ErrNoSuchNetwork", i, err)
		}
	}
}

func TestCurrentPaletteFallsBack(t *testing.T) {
	s := Factory(Seed{})
	s.Display.Theme = ThemeAmber
	if got := s.CurrentPalette().Name; got != "Amber Retro" {
		t.Errorf("CurrentPalette() = %s, want Amber Retro", got)
	}

	s.Display.Theme = Theme(42)
	if got := s.CurrentPalette().Name; got != "Green Terminal" {
		t.Errorf("CurrentPalette() = %s, want Green Terminal", got)
	}
	if s.Display.Theme != ThemeGreen {
		t.Errorf("out of range theme not repaired: %v", s.Display.Theme)
	}

	if got := Hex(Palettes[ThemeAmber].Foreground); got != "#ffbf00" {
		t.Errorf("Hex() = %s, want #ffbf00", got)
	}
}
