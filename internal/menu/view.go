package menu

import (
	"fmt"
	"strings"
)

// VisibleRows is the height of the scrolling window.
const VisibleRows = 5

// Row is one menu line.
type Row struct {
	Label    string
	Value    string
	Selected bool
}

// CaptureView describes an active text-capture prompt.
type CaptureView struct {
	Title    string
	Prompt   string
	Text     string // masked when Password is set
	Help     string
	Password bool
}

// ScreenView is everything a render sink needs to draw the current screen.
type ScreenView struct {
	Screen Screen
	Title  string

	// Rows holds only the visible window, starting at item Offset.
	Rows   []Row
	Offset int
	Total  int

	// Info lines are shown below the rows and cannot be selected.
	Info []string

	Status  string
	Capture *CaptureView
}

// View returns the current screen description.
func (e *Engine) View() ScreenView {
	if e.capture != nil {
		return e.captureView()
	}

	def := screens[e.screen]
	all := def.rows(e)

	v := ScreenView{
		Screen: e.screen,
		Title:  def.title(e),
		Offset: e.scroll,
		Total:  len(all),
		Info:   def.info(e),
		Status: def.status,
	}
	if e.status != "" {
		v.Status = e.status
	}
	if v.Total > VisibleRows {
		v.Title = fmt.Sprintf("%s [%d/%d]", v.Title, e.selected+1, v.Total)
	}

	end := e.scroll + VisibleRows
	if end > len(all) {
		end = len(all)
	}
	for i := e.scroll; i < end; i++ {
		row := all[i]
		row.Selected = i == e.selected
		v.Rows = append(v.Rows, row)
	}
	return v
}

func (e *Engine) captureView() ScreenView {
	c := e.capture
	text := c.text()
	if c.password {
		text = strings.Repeat("*", len(text))
	}
	status := e.status
	if status == "" && c.password {
		status = "Password hidden for security"
	}
	return ScreenView{
		Screen: e.screen,
		Title:  c.title,
		Status: status,
		Capture: &CaptureView{
			Title:    c.title,
			Prompt:   c.prompt,
			Text:     text,
			Help:     "Type on keyboard, ENTER to save, ESC to cancel",
			Password: c.password,
		},
	}
}
