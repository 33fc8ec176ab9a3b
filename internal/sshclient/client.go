package sshclient

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/settings"
)

const (
	// DefaultTimeout is used when the configuration carries no connect timeout
	DefaultTimeout = 10 * time.Second

	// DefaultTerm is the TERM requested for the remote PTY
	DefaultTerm = "xterm"
)

// Client connects to SSH servers.
type Client struct {
	// Timeout bounds the TCP connect plus SSH handshake and authentication
	Timeout time.Duration

	// Term, Cols and Rows describe the PTY requested by Dial
	Term string
	Cols int
	Rows int
}

// NewClient creates a client using the connect timeout and terminal size of
// the resolved configuration.
func NewClient(cfg config.Config) *Client {
	c := &Client{
		Timeout: time.Duration(cfg.Gateway.ConnectTimeoutMs) * time.Millisecond,
		Term:    DefaultTerm,
		Cols:    int(cfg.Terminal.Cols),
		Rows:    int(cfg.Terminal.Rows),
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Address returns the host:port of a server record.
func Address(srv settings.ServerConfig) string {
	return net.JoinHostPort(srv.Host, strconv.Itoa(int(srv.Port)))
}

// Target describes a server record as ssh://user@host:port.
func Target(srv settings.ServerConfig) string {
	return "ssh://" + srv.Username + "@" + Address(srv)
}

func (c *Client) clientConfig(srv settings.ServerConfig) *ssh.ClientConfig {
	answer := func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = srv.Password
		}
		return answers, nil
	}

	return &ssh.ClientConfig{
		User: srv.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(srv.Password),
			ssh.KeyboardInteractive(answer),
		},
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			logging.Info("SSH host key",
				zap.String("host", hostname),
				zap.String("type", key.Type()),
				zap.String("fingerprint", ssh.FingerprintSHA256(key)),
			)
			return nil
		},
		Timeout: c.Timeout,
	}
}

// connect dials srv and completes the handshake and authentication.
func (c *Client) connect(ctx context.Context, srv settings.ServerConfig) (*ssh.Client, error) {
	switch {
	case srv.Host == "":
		return nil, fmt.Errorf("server has no host")
	case srv.Port == 0:
		return nil, fmt.Errorf("server %s has no port", srv.Host)
	case srv.Username == "":
		return nil, fmt.Errorf("server %s has no username", srv.Host)
	}

	addr := Address(srv)
	logging.Debug("Dialing SSH server", zap.String("addr", addr), zap.String("user", srv.Username))

	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	// the handshake has no timeout of its own
	_ = conn.SetDeadline(time.Now().Add(c.Timeout))
	sc, chans, reqs, err := ssh.NewClientConn(conn, addr, c.clientConfig(srv))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SSH handshake with %s failed: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(sc, chans, reqs), nil
}

// Test connects to srv, authenticates and disconnects.
func (c *Client) Test(srv settings.ServerConfig) error {
	client, err := c.connect(context.Background(), srv)
	if err != nil {
		logging.Warn("SSH test failed", zap.String("host", srv.Host), zap.Error(err))
		return err
	}
	logging.Info("SSH test passed", zap.String("target", Target(srv)))
	return client.Close()
}

// Dial opens an interactive shell on srv.
func (c *Client) Dial(ctx context.Context, srv settings.ServerConfig) (*Session, error) {
	client, err := c.connect(ctx, srv)
	if err != nil {
		return nil, err
	}

	s, err := newSession(client, Target(srv), c.Term, c.Cols, c.Rows)
	if err != nil {
		client.Close()
		return nil, err
	}
	logging.Info("SSH session started", zap.String("target", s.URL()))
	return s, nil
}
