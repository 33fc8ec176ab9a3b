package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text. Without colour it falls
// back to plain decorations so the meaning survives a serial console.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Semantic formatters for shell and CLI output.
var (
	// Command formats verbs and commands the user can type.
	Command = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats document paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats success markers and messages.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error markers and messages.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warnings and diagnostics.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats user values such as SSIDs and profile names.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted formats secondary text.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)
