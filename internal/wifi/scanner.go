package wifi

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/menu"
)

// DefaultScanTimeout bounds one scan.
const DefaultScanTimeout = 15 * time.Second

// Runner runs an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s not available: %w", name, err)
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Scanner lists nearby networks through NetworkManager. StartScan returns
// at once; the scan runs in the background and Results reports it once it
// has finished.
type Scanner struct {
	run     Runner
	timeout time.Duration

	mu      sync.Mutex
	running bool
	done    bool
	results []menu.ScanResult
	err     error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(s *Scanner) { s.run = r }
}

// WithTimeout sets the scan timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// NewScanner creates a Scanner that shells out to nmcli.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{run: execRunner, timeout: DefaultScanTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartScan begins a scan unless one is already running.
func (s *Scanner) StartScan() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	s.done = false
	s.results = nil
	s.err = nil

	go s.scan()
	return nil
}

func (s *Scanner) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.run(ctx, "nmcli", "-t", "-f", "SSID,SIGNAL", "device", "wifi", "list", "--rescan", "yes")
	var results []menu.ScanResult
	if err != nil {
		logging.Warn("WiFi scan failed", zap.Error(err))
	} else {
		results = parseNetworks(out)
		logging.Debug("WiFi scan finished", zap.Int("networks", len(results)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.done = true
	s.results = results
	s.err = err
}

// Results returns the networks found, strongest first, once the scan has
// finished. A failed scan finishes with no results.
func (s *Scanner) Results() ([]menu.ScanResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return nil, false
	}
	return append([]menu.ScanResult(nil), s.results...), true
}

// Err returns the error of the last finished scan.
func (s *Scanner) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// parseNetworks reads nmcli terse output ("SSID:SIGNAL" per line, with ':'
// inside values escaped as "\:"). Hidden networks are skipped and each SSID
// is listed once with its strongest signal.
func parseNetworks(out []byte) []menu.ScanResult {
	best := make(map[string]int)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := splitTerse(sc.Text())
		if len(fields) != 2 || fields[0] == "" {
			continue
		}
		signal, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		rssi := signalToRSSI(signal)
		if prev, ok := best[fields[0]]; !ok || rssi > prev {
			best[fields[0]] = rssi
		}
	}

	results := make([]menu.ScanResult, 0, len(best))
	for ssid, rssi := range best {
		results = append(results, menu.ScanResult{SSID: ssid, RSSI: rssi})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].RSSI != results[j].RSSI {
			return results[i].RSSI > results[j].RSSI
		}
		return results[i].SSID < results[j].SSID
	})
	return results
}

func splitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case line[i] == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	return append(fields, cur.String())
}

// signalToRSSI converts NetworkManager's 0..100 quality to dBm.
func signalToRSSI(signal int) int {
	if signal < 0 {
		signal = 0
	}
	if signal > 100 {
		signal = 100
	}
	return signal/2 - 100
}
