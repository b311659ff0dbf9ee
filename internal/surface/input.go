package surface

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/grid/body"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/events"
	"github.com/dshills/gridstorm/internal/grid/grouping"
	"github.com/dshills/gridstorm/internal/grid/header"
)

// HandleEvent applies one terminal event. It returns true when the user
// asked to quit.
func (s *Surface) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		s.Layout()
		s.screen.Sync()
	case *tcell.EventInterrupt:
		// posted by Refresh after a reload; column groups may have changed
		s.Layout()
	case *tcell.EventKey:
		return s.handleKey(ctx, e)
	case *tcell.EventMouse:
		s.handleMouse(ctx, e)
	}
	return false
}

func (s *Surface) handleKey(ctx context.Context, e *tcell.EventKey) bool {
	extend := e.Modifiers()&tcell.ModShift != 0
	page := max(1, len(s.frame.Body.Rows)-1)

	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		s.moveCursor(-1, 0, extend)
	case tcell.KeyDown:
		s.moveCursor(1, 0, extend)
	case tcell.KeyLeft:
		s.moveCursor(0, -1, extend)
	case tcell.KeyRight:
		s.moveCursor(0, 1, extend)
	case tcell.KeyPgUp:
		s.moveCursor(-page, 0, extend)
	case tcell.KeyPgDn:
		s.moveCursor(page, 0, extend)
	case tcell.KeyEnter:
		s.toggleGroup(s.cursor.row)
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q':
			return true
		case '+':
			s.resizeColumn(ctx, s.cursor.col, 1)
		case '-':
			s.resizeColumn(ctx, s.cursor.col, -1)
		case ']':
			s.resizeGroup(ctx, s.cursor.col, 1)
		case '[':
			s.resizeGroup(ctx, s.cursor.col, -1)
		case '>':
			s.grid.ScrollCols(1)
		case '<':
			s.grid.ScrollCols(-1)
		}
	}
	return false
}

// moveCursor moves the active cell, extending the selection from the
// anchor when extend is set.
func (s *Surface) moveCursor(dRow, dCol int, extend bool) {
	rows, cols := s.grid.RowCount(), len(s.grid.Columns())
	if rows == 0 || cols == 0 {
		return
	}
	s.cursor.row = clamp(s.cursor.row+dRow, 0, rows-1)
	s.cursor.col = clamp(s.cursor.col+dCol, 0, cols-1)
	if !extend {
		s.anchor = s.cursor
	}
	s.selectRange()
	s.grid.Reveal(s.cursor.row, s.cursor.col)
}

func (s *Surface) selectRange() {
	s.grid.Select(core.SelectionRange{
		Y:  s.anchor.row,
		Y1: s.cursor.row,
		X:  s.anchor.col,
		X1: s.cursor.col,
	}.Normalize())
}

func (s *Surface) toggleGroup(rowIndex int) {
	row, ok := s.grid.Row(rowIndex)
	if !ok || !grouping.IsGroupingRow(row) {
		return
	}
	s.grid.ToggleGroup(grouping.NewHeaderModel(rowIndex, row).Path)
	s.cursor.row = min(s.cursor.row, max(0, s.grid.RowCount()-1))
	s.anchor = s.cursor
	s.selectRange()
}

func (s *Surface) resizeColumn(ctx context.Context, col int, delta float64) {
	s.grid.Header().Resize(ctx, col, s.grid.ColumnSize(col)+delta)
}

// resizeGroup grows or shrinks every visible column of the grouped header
// containing col by delta.
func (s *Surface) resizeGroup(ctx context.Context, col int, delta float64) {
	for _, g := range s.frame.Header.Groups {
		if col < g.StartIndex || col > g.EndIndex {
			continue
		}
		width := float64(g.EndIndex - g.StartIndex + 1)
		if err := s.grid.Header().ResizeGroup(ctx, delta*width, g.StartIndex, g.EndIndex); err != nil {
			s.log.WithError(err).Debug("group resize failed")
		}
		return
	}
}

func (s *Surface) handleMouse(ctx context.Context, e *tcell.EventMouse) {
	x, y := e.Position()
	buttons := e.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		s.grid.ScrollRows(-1)
	case buttons&tcell.WheelDown != 0:
		s.grid.ScrollRows(1)
	case buttons&tcell.Button1 != 0:
		if s.pressed {
			return
		}
		s.pressed = true
		s.press(ctx, x, y, pointer(e, s.frame.ColOffset, s.frame.RowOffset))
	case buttons == tcell.ButtonNone:
		s.pressed = false
		s.release(ctx, x)
	}
}

func pointer(e *tcell.EventMouse, colOffset, rowOffset float64) events.PointerEvent {
	x, y := e.Position()
	return events.PointerEvent{
		X:      float64(x) + colOffset,
		Y:      float64(y) + rowOffset,
		Button: 1,
		Shift:  e.Modifiers()&tcell.ModShift != 0,
		Ctrl:   e.Modifiers()&tcell.ModCtrl != 0,
	}
}

func (s *Surface) press(ctx context.Context, x, y int, ptr events.PointerEvent) {
	pos := float64(x) + s.frame.ColOffset

	switch {
	case s.top > 1 && y == 0:
		g, ok := s.frame.Header.GroupAt(pos)
		if ok && s.atEdge(pos, g.Start+g.Size) {
			s.drag = &resizeDrag{startX: x, group: true, start: g.StartIndex, end: g.EndIndex}
		}

	case y == s.top-1:
		c, ok := s.frame.Header.CellAt(pos)
		if !ok {
			return
		}
		if c.CanResize && s.atEdge(pos, c.Item.End()) {
			s.drag = &resizeDrag{col: c.Item.ItemIndex, width: c.Item.Size, startX: x}
			return
		}
		s.headerClick(ctx, c, ptr)

	case y >= s.top:
		s.bodyPress(ctx, x, y, ptr)
	}
}

// atEdge reports whether pos is on the last column before end.
func (s *Surface) atEdge(pos, end float64) bool {
	return pos >= end-1 && pos < end
}

func (s *Surface) headerClick(ctx context.Context, c header.Cell, ptr events.PointerEvent) {
	hdr := s.grid.Header()
	now := s.now()
	if s.lastClick.col == c.Item.ItemIndex && !s.lastClick.at.IsZero() && now.Sub(s.lastClick.at) <= DoubleClickInterval {
		hdr.DblClick(ctx, c, ptr)
		s.lastClick = click{}
		return
	}
	hdr.Click(ctx, c, ptr)
	s.lastClick = click{col: c.Item.ItemIndex, at: now}
}

func (s *Surface) bodyPress(ctx context.Context, x, y int, ptr events.PointerEvent) {
	line := float64(y-s.top) + s.frame.RowOffset
	pos := float64(x) + s.frame.ColOffset

	for _, row := range s.frame.Body.Rows {
		if line < row.Start || line >= row.Start+row.Size {
			continue
		}
		if row.Kind == body.RowGroup {
			s.cursor = cellPos{row: row.Index, col: s.cursor.col}
			s.toggleGroup(row.Index)
			return
		}
		for _, c := range row.Cells {
			if pos < c.Column.Start || pos >= c.Column.End() {
				continue
			}
			s.cursor = cellPos{row: row.Index, col: c.Column.ItemIndex}
			if !ptr.Shift {
				s.anchor = s.cursor
			}
			s.selectRange()
			if c.Content.Draggable {
				if err := s.grid.Body().DragStart(ctx, c, ptr); err != nil {
					s.log.WithError(err).Debug("drag start rejected")
				}
			}
			return
		}
	}
}

func (s *Surface) release(ctx context.Context, x int) {
	d := s.drag
	s.drag = nil
	if d == nil {
		return
	}
	changed := float64(x - d.startX)
	if changed == 0 {
		return
	}
	if d.group {
		if err := s.grid.Header().ResizeGroup(ctx, changed, d.start, d.end); err != nil {
			s.log.WithError(err).Debug("group resize failed")
		}
		return
	}
	s.grid.Header().Resize(ctx, d.col, d.width+changed)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
