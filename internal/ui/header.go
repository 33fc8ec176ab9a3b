package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value in a header or result box.
type Field struct {
	Key   string
	Value string
}

// Header is a command banner with title, command and parameters.
type Header struct {
	Title   string  // e.g., "DEVICE CONFIGURATION"
	Command string  // e.g., "pagerterm config show"
	Params  []Field // shown in order
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header sized to the terminal
func NewHeader(title, command string, params ...Field) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) > 0 {
		dividerWidth := width - 6 // border and padding
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", dividerWidth))

		var paramLines []string
		for _, p := range h.Params {
			paramLines = append(paramLines,
				HeaderParamKeyStyle.Render(p.Key+":")+" "+HeaderParamValueStyle.Render(p.Value))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, divider, strings.Join(paramLines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
