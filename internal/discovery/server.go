package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/muurk/pagerterm/internal/settings"
)

// Server is an SSH server found on the local network.
type Server struct {
	// Instance is the advertised service name (e.g., "build-box")
	Instance string

	// Hostname is the mDNS hostname (e.g., "build-box.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when the server has none
	IP string

	// Port is the SSH port (typically 22)
	Port int

	// Metadata contains the TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.Address())
}

// Address returns host:port for dialing.
func (s *Server) Address() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// Apply copies the address of s into srv and enables it. Credentials are
// left alone.
func (s *Server) Apply(srv *settings.ServerConfig) {
	srv.Host = s.IP
	srv.Port = uint16(s.Port)
	if path := s.GetMetadata("path"); path != "" {
		srv.Path = path
	}
	srv.Enabled = true
}
