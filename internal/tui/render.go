package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pagerterm/internal/menu"
)

// RenderMenu draws a menu screen inside a panel width cells wide.
func RenderMenu(v menu.ScreenView, st Styles, width int) string {
	if v.Capture != nil {
		return RenderCapture(v, st, width)
	}

	lines := []string{st.Title.Render(FormatRow(v.Title, "", width))}
	for _, row := range v.Rows {
		text := FormatRow(row.Label, row.Value, width)
		if row.Selected {
			lines = append(lines, st.Selected.Render(text))
		} else {
			lines = append(lines, st.Row.Render(text))
		}
	}
	if v.Total > len(v.Rows) {
		lines = append(lines, st.Subtle.Render(scrollHint(v, width)))
	}
	for _, info := range v.Info {
		lines = append(lines, st.Info.Render(Truncate(info, width)))
	}
	if v.Status != "" {
		lines = append(lines, st.Status.Render(FormatRow(v.Status, "", width)))
	}

	return st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// scrollHint marks rows hidden above or below the visible window.
func scrollHint(v menu.ScreenView, width int) string {
	var up, down string
	if v.Offset > 0 {
		up = "▲ more"
	}
	if v.Offset+len(v.Rows) < v.Total {
		down = "▼ more"
	}
	return FormatRow(up, down, width)
}

// RenderCapture draws a text-capture prompt.
func RenderCapture(v menu.ScreenView, st Styles, width int) string {
	c := v.Capture
	field := Truncate(c.Text, width-5) + "_"

	lines := []string{
		st.Title.Render(FormatRow(c.Title, "", width)),
		"",
		st.Prompt.Render(Truncate(c.Prompt, width)),
		st.Field.Width(width - 2).Render(field),
		st.Subtle.Render(wrap(c.Help, width)),
	}
	if v.Status != "" {
		lines = append(lines, st.Status.Render(FormatRow(v.Status, "", width)))
	}
	return st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// wrap breaks text on spaces so no line exceeds width cells.
func wrap(text string, width int) string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case lipgloss.Width(line)+1+lipgloss.Width(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
