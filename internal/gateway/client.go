package gateway

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/logging"
)

const (
	// Time allowed to write a control message to the peer
	writeWait = 5 * time.Second

	// DefaultConnectTimeout is used when the configuration carries none
	DefaultConnectTimeout = 10 * time.Second
)

// Client dials the terminal gateway over WebSocket.
type Client struct {
	// Host, Port, Path and UseSSL locate the gateway endpoint
	Host   string
	Port   uint16
	Path   string
	UseSSL bool

	// ConnectTimeout bounds the TCP connect plus WebSocket handshake
	ConnectTimeout time.Duration

	// ReconnectDelay is the first delay of the reconnect backoff
	ReconnectDelay time.Duration

	// MaxReconnectDelay caps the backoff
	MaxReconnectDelay time.Duration

	// PingInterval is how often an open session pings the gateway
	PingInterval time.Duration

	// SNI overrides the TLS server name for wss connections
	SNI string
}

// NewClient creates a client for the gateway section of the resolved
// configuration.
func NewClient(cfg config.GatewayConfig) *Client {
	c := &Client{
		Host:              cfg.Host,
		Port:              cfg.Port,
		Path:              cfg.Path,
		UseSSL:            cfg.UseSSL,
		ConnectTimeout:    time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond,
		ReconnectDelay:    time.Duration(cfg.ReconnectDelayMs) * time.Millisecond,
		MaxReconnectDelay: time.Duration(cfg.MaxReconnectDelayMs) * time.Millisecond,
		PingInterval:      time.Duration(cfg.PingIntervalMs) * time.Millisecond,
		SNI:               cfg.SNI,
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	return c
}

// URL returns the WebSocket URL of the gateway endpoint.
func (c *Client) URL() string {
	scheme := "ws"
	if c.UseSSL {
		scheme = "wss"
	}
	path := c.Path
	if path == "" {
		path = "/"
	} else if path[0] != '/' {
		path = "/" + path
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
		Path:   path,
	}
	return u.String()
}

func (c *Client) dialer() *websocket.Dialer {
	d := &websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: c.ConnectTimeout,
		NetDialContext:   (&net.Dialer{Timeout: c.ConnectTimeout}).DialContext,
	}
	if c.SNI != "" {
		d.TLSClientConfig = &tls.Config{ServerName: c.SNI}
	}
	return d
}

// Dial opens a session to the gateway.
func (c *Client) Dial(ctx context.Context) (*Session, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("gateway has no host")
	}
	if c.Port == 0 {
		return nil, fmt.Errorf("gateway %s has no port", c.Host)
	}

	target := c.URL()
	ctx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
	defer cancel()

	logging.Debug("Dialing gateway", zap.String("url", target))
	conn, resp, err := c.dialer().DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake with %s failed: %s", target, resp.Status)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	logging.Info("Gateway connected", zap.String("url", target))
	return newSession(conn, target, c.PingInterval), nil
}

// Backoff returns the delay before reconnect attempt n (starting at 0). The
// delay doubles each attempt and is capped at MaxReconnectDelay.
func (c *Client) Backoff(attempt int) time.Duration {
	d := c.ReconnectDelay
	if d <= 0 {
		return 0
	}
	for i := 0; i < attempt; i++ {
		d *= 2
		if c.MaxReconnectDelay > 0 && d >= c.MaxReconnectDelay {
			return c.MaxReconnectDelay
		}
	}
	if c.MaxReconnectDelay > 0 && d > c.MaxReconnectDelay {
		return c.MaxReconnectDelay
	}
	return d
}
