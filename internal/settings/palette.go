package settings

import "fmt"

// Palette is the colour set of a built-in display theme, as 0xRRGGBB values.
type Palette struct {
	Name       string
	Background uint32
	Foreground uint32
	Accent     uint32
	StatusBar  uint32
}

// Palettes is indexed by Theme.
var Palettes = [ThemeCount]Palette{
	ThemeGreen:        {Name: "Green Terminal", Background: 0x000000, Foreground: 0x00FF00, Accent: 0x00AA00, StatusBar: 0x222222},
	ThemeAmber:        {Name: "Amber Retro", Background: 0x000000, Foreground: 0xFFBF00, Accent: 0xCC9900, StatusBar: 0x1A1A00},
	ThemeHighContrast: {Name: "High Contrast", Background: 0x000000, Foreground: 0xFFFFFF, Accent: 0xAAAAAA, StatusBar: 0x333333},
	ThemeLight:        {Name: "Light Mode", Background: 0xFFFFFF, Foreground: 0x000000, Accent: 0x666666, StatusBar: 0xEEEEEE},
	ThemeCyan:         {Name: "Cyan Terminal", Background: 0x000000, Foreground: 0x00FFFF, Accent: 0x00AAAA, StatusBar: 0x002222},
}

// CurrentPalette returns the palette for the display theme, falling back to
// the first palette when the stored theme is out of range.
func (s *DeviceSettings) CurrentPalette() Palette {
	if !s.Display.Theme.Valid() {
		s.Display.Theme = ThemeGreen
	}
	return Palettes[s.Display.Theme]
}

// Hex formats a palette colour as #rrggbb.
func Hex(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xFFFFFF)
}
