package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/muurk/pagerterm/internal/settings"
	"github.com/muurk/pagerterm/internal/version"
)

// Application branding
const (
	AppName = "PAGERTERM"
)

// Layout limits
const (
	// MinPanelWidth is the narrowest panel the menu is laid out for.
	MinPanelWidth = 32
	// MaxPanelWidth keeps the menu at device proportions on wide terminals.
	MaxPanelWidth = 60
	// Ellipsis marks truncated text.
	Ellipsis = "…"
)

// Styles is the set of lipgloss styles derived from one display theme.
type Styles struct {
	Palette settings.Palette

	Title    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Value    lipgloss.Style
	Info     lipgloss.Style
	Status   lipgloss.Style
	Prompt   lipgloss.Style
	Field    lipgloss.Style
	Subtle   lipgloss.Style
	Panel    lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles builds styles from a theme palette.
func NewStyles(p settings.Palette) Styles {
	bg := lipgloss.Color(settings.Hex(p.Background))
	fg := lipgloss.Color(settings.Hex(p.Foreground))
	accent := lipgloss.Color(settings.Hex(p.Accent))
	bar := lipgloss.Color(settings.Hex(p.StatusBar))

	return Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(bar),
		Row: lipgloss.NewStyle().
			Foreground(fg).
			Background(bg),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(bg).
			Background(fg),
		Value: lipgloss.NewStyle().
			Foreground(accent),
		Info: lipgloss.NewStyle().
			Foreground(accent).
			Italic(true),
		Status: lipgloss.NewStyle().
			Foreground(fg).
			Background(bar),
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Field: lipgloss.NewStyle().
			Foreground(fg).
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Subtle: lipgloss.NewStyle().
			Foreground(accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(bg),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")),
	}
}

// PanelWidth returns the inner panel width for a terminal width, clamped to
// the menu's layout limits.
func PanelWidth(terminalWidth int) int {
	w := terminalWidth - 2 // border
	if w > MaxPanelWidth {
		w = MaxPanelWidth
	}
	if w < MinPanelWidth {
		w = MinPanelWidth
	}
	return w
}

// Truncate shortens s to fit width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// FormatRow lays out a label on the left and a value on the right inside
// width cells. The label is truncated first so the value stays readable.
func FormatRow(label, value string, width int) string {
	if value == "" {
		return runewidth.FillRight(Truncate(label, width), width)
	}

	value = Truncate(value, width/2)
	room := width - runewidth.StringWidth(value) - 1
	label = Truncate(label, room)
	gap := width - runewidth.StringWidth(label) - runewidth.StringWidth(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

// BuildHeader renders the application name and version bar.
func BuildHeader(st Styles, width int) string {
	text := FormatRow(AppName, "v"+version.Version, width)
	return st.Title.Render(text)
}
