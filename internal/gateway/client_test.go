package gateway

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/pagerterm/internal/config"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{"plain", Client{Host: "192.168.8.141", Port: 7681}, "ws://192.168.8.141:7681/"},
		{"ssl with path", Client{Host: "gw.example.org", Port: 443, Path: "/ws", UseSSL: true}, "wss://gw.example.org:443/ws"},
		{"path without slash", Client{Host: "h", Port: 80, Path: "term"}, "ws://h:80/term"},
		{"ipv6", Client{Host: "fe80::1", Port: 7681}, "ws://[fe80::1]:7681/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(config.Defaults().Gateway)
	if c.ConnectTimeout <= 0 {
		t.Errorf("ConnectTimeout = %v", c.ConnectTimeout)
	}

	gw := config.GatewayConfig{Host: "lab.example.com", Port: 443, Path: "/term", UseSSL: true, SNI: "term.example.com"}
	if got := NewClient(gw).URL(); got != "wss://lab.example.com:443/term" {
		t.Errorf("URL() = %q", got)
	}
	if got := NewClient(gw).SNI; got != "term.example.com" {
		t.Errorf("SNI = %q", got)
	}

	zero := NewClient(config.GatewayConfig{})
	if zero.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", zero.ConnectTimeout, DefaultConnectTimeout)
	}
}

func TestBackoff(t *testing.T) {
	c := &Client{ReconnectDelay: time.Second, MaxReconnectDelay: 5 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.attempt), func(t *testing.T) {
			if got := c.Backoff(tt.attempt); got != tt.want {
				t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}

	if got := (&Client{}).Backoff(3); got != 0 {
		t.Errorf("Backoff without delay = %v, want 0", got)
	}
}

// echoServer upgrades every request and echoes binary messages. The
// returned client points at it.
func echoServer(t *testing.T) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(kind, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	return clientFor(t, ts.Listener.Addr().String(), "/ws")
}

func clientFor(t *testing.T, addr, path string) *Client {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := strconv.Atoi(port)
	return &Client{Host: host, Port: uint16(p), Path: path, ConnectTimeout: 2 * time.Second}
}

func TestDialFailures(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no websocket here", http.StatusNotFound)
	}))
	defer plain.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedAddr := closed.Listener.Addr().String()
	closed.Close()

	tests := []struct {
		name   string
		client *Client
	}{
		{"no host", &Client{Port: 7681, ConnectTimeout: time.Second}},
		{"no port", &Client{Host: "127.0.0.1", ConnectTimeout: time.Second}},
		{"not a websocket", clientFor(t, plain.Listener.Addr().String(), "")},
		{"refused", clientFor(t, closedAddr, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.client.Dial(t.Context())
			if err == nil {
				s.Close()
				t.Error("Dial() error = nil, want error")
			}
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	c := echoServer(t)
	c.PingInterval = 10 * time.Millisecond

	s, err := c.Dial(t.Context())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer s.Close()

	if s.URL() != c.URL() {
		t.Errorf("URL() = %q, want %q", s.URL(), c.URL())
	}
	if err := s.Send([]byte("ls\r")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got, err := s.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if string(got) != "ls\r" {
		t.Errorf("Receive() = %q, want %q", got, "ls\r")
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
