package sshclient

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/settings"
)

const (
	testUser     = "pager"
	testPassword = "s3cret"
	greeting     = "welcome to the lab\r\n"
)

// sshServer runs an SSH server on loopback that accepts testUser with
// testPassword. Shells greet and then echo their input.
func sshServer(t *testing.T) settings.ServerConfig {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == testUser && string(pass) == testPassword {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, cfg)
		}
	}()

	return serverFor(t, ln.Addr().String(), testUser, testPassword)
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig) {
	defer conn.Close()
	sc, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	defer sc.Close()
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			nc.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range requests {
				switch req.Type {
				case "pty-req":
					req.Reply(true, nil)
				case "shell":
					req.Reply(true, nil)
					go func() {
						defer ch.Close()
						io.WriteString(ch, greeting)
						io.Copy(ch, ch)
					}()
				default:
					req.Reply(false, nil)
				}
			}
		}()
	}
}

func serverFor(t *testing.T, addr, user, password string) settings.ServerConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := strconv.Atoi(port)
	return settings.ServerConfig{Host: host, Port: uint16(p), Username: user, Password: password, Enabled: true}
}

// bannerOnly accepts connections, sends an SSH banner and hangs up.
func bannerOnly(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			io.WriteString(conn, "SSH-2.0-OpenSSH_9.6\r\n")
			conn.Close()
		}
	}()
	return ln.Addr().String()
}

func newTestClient() *Client {
	return &Client{Timeout: 2 * time.Second, Term: DefaultTerm, Cols: 53, Rows: 18}
}

func TestNewClient(t *testing.T) {
	cfg := config.Defaults()
	cfg.Gateway.ConnectTimeoutMs = 2500
	cfg.Terminal.Cols = 53
	cfg.Terminal.Rows = 18

	c := NewClient(cfg)
	if c.Timeout != 2500*time.Millisecond || c.Cols != 53 || c.Rows != 18 || c.Term != DefaultTerm {
		t.Errorf("NewClient() = %+v", c)
	}

	cfg.Gateway.ConnectTimeoutMs = 0
	if got := NewClient(cfg).Timeout; got != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name string
		srv  settings.ServerConfig
		want string
	}{
		{"seed", settings.ServerConfig{Host: "192.168.8.141", Port: 22, Username: "pager"}, "ssh://pager@192.168.8.141:22"},
		{"ipv6", settings.ServerConfig{Host: "fe80::1", Port: 2222, Username: "root"}, "ssh://root@[fe80::1]:2222"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Target(tt.srv); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTest(t *testing.T) {
	srv := sshServer(t)
	if err := newTestClient().Test(srv); err != nil {
		t.Fatalf("Test() error = %v", err)
	}
}

func TestTestFailures(t *testing.T) {
	good := sshServer(t)

	wrongPassword := good
	wrongPassword.Password = "guess"

	wrongUser := good
	wrongUser.Username = "root"

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	closedAddr := closed.Addr().String()
	closed.Close()

	tests := []struct {
		name string
		srv  settings.ServerConfig
		want string
	}{
		{"no host", settings.ServerConfig{Port: 22, Username: "pager"}, "no host"},
		{"no port", settings.ServerConfig{Host: "127.0.0.1", Username: "pager"}, "no port"},
		{"no username", settings.ServerConfig{Host: "127.0.0.1", Port: 22}, "no username"},
		{"wrong password", wrongPassword, "handshake"},
		{"wrong user", wrongUser, "handshake"},
		{"banner then hang up", serverFor(t, bannerOnly(t), "pager", "x"), "handshake"},
		{"refused", serverFor(t, closedAddr, "pager", "x"), "failed to connect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestClient().Test(tt.srv)
			if err == nil {
				t.Fatal("Test() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Test() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

// readUntil collects session output until it contains want.
func readUntil(t *testing.T, s *Session, want string) string {
	t.Helper()
	done := make(chan string, 1)
	go func() {
		var got strings.Builder
		for !strings.Contains(got.String(), want) {
			data, err := s.Receive()
			if err != nil {
				break
			}
			got.Write(data)
		}
		done <- got.String()
	}()

	select {
	case got := <-done:
		if !strings.Contains(got, want) {
			t.Fatalf("output = %q, want it to contain %q", got, want)
		}
		return got
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
		return ""
	}
}

func TestDialShell(t *testing.T) {
	srv := sshServer(t)

	s, err := newTestClient().Dial(t.Context(), srv)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer s.Close()

	if s.URL() != Target(srv) {
		t.Errorf("URL() = %q, want %q", s.URL(), Target(srv))
	}

	readUntil(t, s, greeting)
	if err := s.Send([]byte("uptime\r")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	readUntil(t, s, "uptime\r")

	s.Close()
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestDialRejectsBadCredentials(t *testing.T) {
	srv := sshServer(t)
	srv.Password = "nope"

	if s, err := newTestClient().Dial(t.Context(), srv); err == nil {
		s.Close()
		t.Fatal("Dial() error = nil, want error")
	}
}
