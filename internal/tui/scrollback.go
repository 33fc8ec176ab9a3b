package tui

import "strings"

// Scrollback keeps the most recent lines of terminal output.
type Scrollback struct {
	lines   []string
	partial string
	max     int
}

// NewScrollback keeps at most max complete lines.
func NewScrollback(max int) *Scrollback {
	if max < 1 {
		max = 1
	}
	return &Scrollback{max: max}
}

// Write appends gateway output. Carriage returns are dropped and an
// unterminated final line is held until its newline arrives.
func (s *Scrollback) Write(data []byte) {
	text := s.partial + strings.ReplaceAll(string(data), "\r", "")
	parts := strings.Split(text, "\n")
	s.partial = parts[len(parts)-1]

	s.lines = append(s.lines, parts[:len(parts)-1]...)
	if over := len(s.lines) - s.max; over > 0 {
		s.lines = append([]string(nil), s.lines[over:]...)
	}
}

// Tail returns the last n lines, including a pending partial line.
func (s *Scrollback) Tail(n int) []string {
	all := s.lines
	if s.partial != "" {
		all = append(append([]string(nil), s.lines...), s.partial)
	}
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Reset clears the buffer.
func (s *Scrollback) Reset() {
	s.lines = nil
	s.partial = ""
}
