package surface

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/grid/core"
)

// Theme holds the styles the surface paints with.
type Theme struct {
	Header      tcell.Style
	HeaderGroup tcell.Style
	Body        tcell.Style
	GroupRow    tcell.Style

	// Active marks header cells inside the selection.
	Active tcell.Style

	// Focus is blended into the background of focused rows.
	Focus core.Color
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Header:      tcell.StyleDefault.Bold(true).Underline(true),
		HeaderGroup: tcell.StyleDefault.Bold(true),
		Body:        tcell.StyleDefault,
		GroupRow:    tcell.StyleDefault.Italic(true),
		Active:      tcell.StyleDefault.Bold(true).Reverse(true),
		Focus:       core.Color{R: 0x26, G: 0x4f, B: 0x78},
	}
}

// tcellColor converts a grid color.
func tcellColor(c core.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellStyle applies the color and background entries of a cell style on
// top of base. Focused cells get the focus color blended into their
// background, or reverse video when they have none.
func (t Theme) cellStyle(base tcell.Style, style core.Style, focused bool) tcell.Style {
	if v, ok := style.Get("color"); ok {
		if c, err := core.ParseColor(v); err == nil {
			base = base.Foreground(tcellColor(c))
		}
	}

	bg := core.ColorDefault
	if v, ok := style.Get("background"); ok {
		if c, err := core.ParseColor(v); err == nil {
			bg = c
		}
	}

	if focused {
		if bg.IsDefault() {
			return base.Reverse(true)
		}
		bg = bg.Blend(t.Focus, 0.5)
	}
	if !bg.IsDefault() {
		base = base.Background(tcellColor(bg))
	}
	return base
}
