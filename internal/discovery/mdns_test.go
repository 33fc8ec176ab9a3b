package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name: "IPv4 server",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "build-box"},
				HostName:      "build-box.local.",
				Port:          22,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.8.141")},
			},
			wantInstance: "build-box",
			wantIP:       "192.168.8.141",
			wantPort:     22,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "nas"},
				HostName:      "nas.local",
				Port:          2222,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantInstance: "nas",
			wantIP:       "10.0.0.5",
			wantPort:     2222,
		},
		{
			name: "no port defaults to 22",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "pi"},
				HostName:      "pi.local",
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantInstance: "pi",
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
		},
		{
			name: "instance from hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "pager-gw.local.",
				Port:     22,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.9")},
			},
			wantInstance: "pager-gw",
			wantIP:       "192.168.1.9",
			wantPort:     22,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local",
				Port:          22,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     22,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				HostName:      "dual.local",
				Port:          22,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantInstance: "dual",
			wantIP:       "192.168.1.50",
			wantPort:     22,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				Port:     22,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "ghost.local",
				Port:     22,
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if srv != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", srv)
				}
				return
			}
			if srv == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}
			if srv.Instance != tt.wantInstance {
				t.Errorf("Instance = %v, want %v", srv.Instance, tt.wantInstance)
			}
			if srv.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", srv.IP, tt.wantIP)
			}
			if srv.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", srv.Port, tt.wantPort)
			}
			if time.Since(srv.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", srv.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntryMetadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "gw.local",
		Port:     7681,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"path=/ws", "flag", "version=1.0"},
	}

	srv := parseServiceEntry(entry)
	if srv == nil {
		t.Fatal("parseServiceEntry() = nil, want server")
	}

	want := map[string]string{
		"path":    "/ws",
		"flag":    "",
		"version": "1.0",
	}
	if len(srv.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(srv.Metadata), len(want))
	}
	for key, value := range want {
		if got := srv.GetMetadata(key); got != value {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, value)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.Service != ServiceSSH {
		t.Errorf("Service = %q, want %q", scanner.Service, ServiceSSH)
	}
}
