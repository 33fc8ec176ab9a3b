package sshclient

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/muurk/pagerterm/internal/logging"
)

const readChunk = 4096

// Session is an interactive shell on an SSH server.
type Session struct {
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	stdout  io.Reader
	target  string

	buf  []byte
	once sync.Once
}

func newSession(client *ssh.Client, target, term string, cols, rows int) (*Session, error) {
	sess, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session on %s: %w", target, err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}

	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := sess.RequestPty(term, rows, cols, modes); err != nil {
		sess.Close()
		return nil, fmt.Errorf("PTY request on %s failed: %w", target, err)
	}
	if err := sess.Shell(); err != nil {
		sess.Close()
		return nil, fmt.Errorf("failed to start shell on %s: %w", target, err)
	}

	return &Session{
		client:  client,
		session: sess,
		stdin:   stdin,
		stdout:  stdout,
		target:  target,
		buf:     make([]byte, readChunk),
	}, nil
}

// URL returns the ssh:// address the session is connected to.
func (s *Session) URL() string { return s.target }

// Send writes terminal input to the remote shell.
func (s *Session) Send(data []byte) error {
	_, err := s.stdin.Write(data)
	return err
}

// Receive blocks for the next chunk of shell output. It returns io.EOF once
// the shell exits.
func (s *Session) Receive() ([]byte, error) {
	for {
		n, err := s.stdout.Read(s.buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, s.buf[:n])
			logging.LogRawBytes("SSH output", data)
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Close ends the shell and the connection.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		_ = s.session.Close()
		err = s.client.Close()
		logging.Debug("SSH session closed", zap.String("target", s.target))
	})
	return err
}
