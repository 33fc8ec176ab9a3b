package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/logging"
)

// Session is an open gateway connection. Terminal bytes travel as binary
// messages in both directions.
type Session struct {
	conn *websocket.Conn
	url  string

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

func newSession(conn *websocket.Conn, url string, pingInterval time.Duration) *Session {
	s := &Session{conn: conn, url: url, done: make(chan struct{})}
	if pingInterval > 0 {
		go s.pingLoop(pingInterval)
	}
	return s
}

// URL returns the address the session is connected to.
func (s *Session) URL() string { return s.url }

// Send writes terminal input to the gateway.
func (s *Session) Send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Receive blocks for the next message from the gateway.
func (s *Session) Receive() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	logging.LogRawBytes("Gateway message", data)
	return data, nil
}

func (s *Session) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				logging.Debug("Gateway ping failed", zap.String("url", s.url), zap.Error(err))
				return
			}
		}
	}
}

// Close sends a normal close frame and closes the connection.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		s.writeMu.Unlock()
		err = s.conn.Close()
		logging.Debug("Gateway session closed", zap.String("url", s.url))
	})
	return err
}
