package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
)

const (
	// ServiceSSH is the mDNS service type advertised by SSH servers
	ServiceSSH = "_ssh._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 22
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration

	// Service is the service type browsed for
	Service string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Service: ServiceSSH,
	}
}

// Scan browses until the timeout and returns the servers found, sorted by
// instance name. A server announced more than once is listed once.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		servers = make(map[string]*Server)
	)
	err := s.browse(ctx, func(srv *Server) bool {
		mu.Lock()
		defer mu.Unlock()
		servers[srv.Instance] = srv
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	list := make([]*Server, 0, len(servers))
	for _, srv := range servers {
		list = append(list, srv)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Instance < list[j].Instance })
	logging.Debug("mDNS scan complete", zap.String("service", s.Service), zap.Int("servers", len(list)))
	return list, nil
}

// Find waits for the server with the given instance name.
func (s *Scanner) Find(ctx context.Context, instance string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Server, 1)
	err := s.browse(ctx, func(srv *Server) bool {
		if !strings.EqualFold(srv.Instance, instance) {
			return true
		}
		select {
		case found <- srv:
		default:
		}
		cancel()
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case srv := <-found:
		return srv, nil
	default:
		return nil, fmt.Errorf("server %q not found within %s", instance, s.Timeout)
	}
}

// browse feeds parsed entries to fn until ctx is done or fn returns false.
// It returns after the entry consumer has drained.
func (s *Scanner) browse(ctx context.Context, fn func(*Server) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		keep := true
		for entry := range entries {
			if !keep {
				continue
			}
			if srv := parseServiceEntry(entry); srv != nil {
				keep = fn(srv)
			}
		}
	}()

	if err := resolver.Browse(ctx, s.Service, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil if the entry has no hostname or address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry.HostName == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(strings.TrimSuffix(entry.HostName, "."), ".local")
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Server{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
