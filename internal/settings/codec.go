package settings

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
)

// CurrentVersion is the schema version of the record layout below. Bump it
// whenever the layout changes so stale records are discarded.
const CurrentVersion uint8 = 12

// Record layout, little endian with no padding:
//
//	version, brightness, theme                      3 x u8
//	5 x network {ssid[32] password[64] enabled}     485
//	network count, autoconnect                      2 x u8
//	local, remote server {host[64] port:u16
//	    path[32] username[32] password[32]
//	    useSSL enabled}                             2 x 164
//	preferRemote, sound, volume, haptic, intensity  5 x u8
//	reserved                                        1
//	checksum                                        u32
const (
	networkSize    = SSIDSize + WifiPassSize + 1
	serverSize     = HostSize + 2 + PathSize + UsernameSize + ServerPassSize + 2
	checksumOffset = 3 + MaxWifiNetworks*networkSize + 2 + 2*serverSize + 5 + 1

	// RecordSize is the exact length of an encoded record.
	RecordSize = checksumOffset + 4
)

const checksumSeed uint32 = 0xDEADBEEF

// Validation gate failures, checked in this order by Decode.
var (
	ErrSizeMismatch     = errors.New("settings record size mismatch")
	ErrVersionMismatch  = errors.New("settings record version mismatch")
	ErrChecksumMismatch = errors.New("settings record checksum mismatch")
)

// Checksum returns the weighted sum of every byte before the checksum field,
// each multiplied by its 1-based position, XORed with 0xDEADBEEF.
func Checksum(record []byte) uint32 {
	n := len(record)
	if n > checksumOffset {
		n = checksumOffset
	}
	var sum uint32
	for i := 0; i < n; i++ {
		sum += uint32(record[i]) * uint32(i+1)
	}
	return sum ^ checksumSeed
}

// Stamp writes the checksum of record into its checksum field.
func Stamp(record []byte) {
	binary.LittleEndian.PutUint32(record[checksumOffset:], Checksum(record))
}

// Verify reports whether the stored checksum matches the contents.
func Verify(record []byte) bool {
	if len(record) != RecordSize {
		return false
	}
	return binary.LittleEndian.Uint32(record[checksumOffset:]) == Checksum(record)
}

// Encode serialises s into a stamped record. Strings longer than their field
// are truncated and networks past MaxWifiNetworks are dropped. The stamped
// checksum is stored back into s.
func Encode(s *DeviceSettings) []byte {
	w := &recordWriter{buf: make([]byte, RecordSize)}

	w.u8(s.Version)
	w.u8(s.Display.Brightness)
	w.u8(uint8(s.Display.Theme))

	count := len(s.WifiNetworks)
	if count > MaxWifiNetworks {
		count = MaxWifiNetworks
	}
	for i := 0; i < MaxWifiNetworks; i++ {
		var n WifiNetwork
		if i < count {
			n = s.WifiNetworks[i]
		}
		w.str(n.SSID, SSIDSize)
		w.str(n.Password, WifiPassSize)
		w.boolean(n.Enabled)
	}
	w.u8(uint8(count))
	w.boolean(s.WifiAutoConnect)

	w.server(s.LocalServer)
	w.server(s.RemoteServer)
	w.boolean(s.PreferRemote)

	w.boolean(s.Sound.Enabled)
	w.u8(s.Sound.Volume)
	w.boolean(s.Haptic.Enabled)
	w.u8(s.Haptic.Intensity)
	w.u8(0) // reserved

	Stamp(w.buf)
	s.Checksum = binary.LittleEndian.Uint32(w.buf[checksumOffset:])
	return w.buf
}

// Decode validates and deserialises a record. The gate runs size, then
// version, then checksum, returning the matching sentinel error on the first
// failure.
func Decode(record []byte) (*DeviceSettings, error) {
	if len(record) != RecordSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(record), RecordSize)
	}
	if record[0] != CurrentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, record[0], CurrentVersion)
	}
	stored := binary.LittleEndian.Uint32(record[checksumOffset:])
	if calc := Checksum(record); calc != stored {
		return nil, fmt.Errorf("%w: stored %#08x, calculated %#08x", ErrChecksumMismatch, stored, calc)
	}

	r := &recordReader{buf: record}
	s := &DeviceSettings{}

	s.Version = r.u8()
	s.Display.Brightness = r.u8()
	s.Display.Theme = Theme(r.u8())
	if !s.Display.Theme.Valid() {
		logging.LogSettings("theme out of range, using default",
			zap.Uint8("stored", uint8(s.Display.Theme)),
			zap.Stringer("theme", ThemeGreen),
		)
		s.Display.Theme = ThemeGreen
	}

	networks := make([]WifiNetwork, MaxWifiNetworks)
	for i := range networks {
		networks[i].SSID = r.str(SSIDSize)
		networks[i].Password = r.str(WifiPassSize)
		networks[i].Enabled = r.boolean()
	}
	count := int(r.u8())
	if count > MaxWifiNetworks {
		logging.LogSettings("network count out of range, clamped",
			zap.Int("stored", count),
			zap.Int("max", MaxWifiNetworks),
		)
		count = MaxWifiNetworks
	}
	for _, n := range networks[:count] {
		s.WifiNetworks = append(s.WifiNetworks, n)
	}
	s.WifiAutoConnect = r.boolean()

	s.LocalServer = r.server()
	s.RemoteServer = r.server()
	s.PreferRemote = r.boolean()

	s.Sound.Enabled = r.boolean()
	s.Sound.Volume = r.u8()
	s.Haptic.Enabled = r.boolean()
	s.Haptic.Intensity = r.u8()
	r.u8() // reserved

	s.Checksum = stored
	return s, nil
}

type recordWriter struct {
	buf []byte
	off int
}

func (w *recordWriter) u8(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *recordWriter) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *recordWriter) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

// str writes v NUL padded into a field of size bytes, keeping the last byte
// as a terminator.
func (w *recordWriter) str(v string, size int) {
	copy(w.buf[w.off:w.off+size-1], truncate(v, size))
	w.off += size
}

func (w *recordWriter) server(s ServerConfig) {
	w.str(s.Host, HostSize)
	w.u16(s.Port)
	w.str(s.Path, PathSize)
	w.str(s.Username, UsernameSize)
	w.str(s.Password, ServerPassSize)
	w.boolean(s.UseSSL)
	w.boolean(s.Enabled)
}

type recordReader struct {
	buf []byte
	off int
}

func (r *recordReader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *recordReader) boolean() bool {
	return r.u8() != 0
}

func (r *recordReader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

// str reads a NUL-terminated string from a field of size bytes.
func (r *recordReader) str(size int) string {
	field := r.buf[r.off : r.off+size]
	r.off += size
	for i, b := range field {
		if b == 0 {
			return string(field[:i])
		}
	}
	return string(field[:size-1])
}

func (r *recordReader) server() ServerConfig {
	return ServerConfig{
		Host:     r.str(HostSize),
		Port:     r.u16(),
		Path:     r.str(PathSize),
		Username: r.str(UsernameSize),
		Password: r.str(ServerPassSize),
		UseSSL:   r.boolean(),
		Enabled:  r.boolean(),
	}
}
