package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/device"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/ui"
)

// ErrExit is returned by Execute when the user ends the session.
var ErrExit = errors.New("shell: exit")

// DefaultPrompt is printed before each command line.
const DefaultPrompt = "pagerterm> "

// Shell runs text commands against a device context. It is the runtime
// configuration console, reachable over a serial port or stdin.
type Shell struct {
	ctx    *device.Context
	out    io.Writer
	prompt string
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt replaces the command prompt. An empty prompt disables it.
func WithPrompt(p string) Option {
	return func(s *Shell) { s.prompt = p }
}

// New creates a shell writing its output to out.
func New(ctx *device.Context, out io.Writer, opts ...Option) *Shell {
	s := &Shell{ctx: ctx, out: out, prompt: DefaultPrompt}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs one command line. Unknown verbs and bad arguments are
// reported on the output; the only error returned is ErrExit.
func (s *Shell) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	verb, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	cmd, ok := lookup(verb)
	if !ok {
		s.fail("Unknown command %s, try %s", ui.Highlight.Sprint(verb), ui.Command.Sprint("help"))
		return nil
	}

	logging.Debug("Shell command", zap.String("verb", verb))
	return cmd.run(s, args)
}

// Run reads command lines from in until EOF, exit or ctx is done. Lines may
// end in CR, LF or CRLF, since serial terminals send a bare CR on Enter.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.println(ui.Info.Sprint("Pager terminal console. Type ") + ui.Command.Sprint("help") + ui.Info.Sprint(" for commands."))

	scanner := bufio.NewScanner(in)
	scanner.Split(scanCommandLines)

	prompt := true
	afterCR := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prompt && s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			return nil
		}

		token := scanner.Text()
		// the LF of a CRLF pair
		if token == "\n" && afterCR {
			afterCR = false
			prompt = false
			continue
		}
		afterCR = strings.HasSuffix(token, "\r")
		prompt = true

		if err := s.Execute(strings.TrimRight(token, "\r\n")); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
}

// scanCommandLines is a bufio.SplitFunc returning each line with its CR or
// LF terminator, so a line is handled as soon as either arrives.
func scanCommandLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (s *Shell) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) ok(format string, a ...interface{}) {
	s.println(ui.Success.Sprint(ui.SuccessMarker), fmt.Sprintf(format, a...))
}

func (s *Shell) fail(format string, a ...interface{}) {
	s.println(ui.Error.Sprint(ui.FailureMarker), fmt.Sprintf(format, a...))
}

func (s *Shell) warn(format string, a ...interface{}) {
	s.println(ui.Warning.Sprint(ui.WarningMarker), fmt.Sprintf(format, a...))
}
