package surface

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// truncate cuts s to at most width terminal columns without splitting a
// grapheme cluster. Truncated text ends in an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	limit := width - 1
	used := 0
	end := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > limit {
			break
		}
		used += w
		end += len(cluster)
	}
	return s[:end] + "…"
}

// drawText paints s from x within [x, maxX) and returns the column after
// the last painted cluster. Cells left of clipX are skipped.
func drawText(screen tcell.Screen, x, y, clipX, maxX int, s string, style tcell.Style) int {
	state := -1
	rest := s
	for len(rest) > 0 && x < maxX {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		if x >= clipX {
			runes := []rune(cluster)
			screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
	}
	return x
}

// fill paints blanks over [x, maxX) on line y.
func fill(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		if x >= 0 {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
