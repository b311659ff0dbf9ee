// Package surface paints grid frames on a terminal and turns terminal
// input into grid gestures.
//
// One terminal column is one size unit of the column axis and one line is
// one unit of the row axis. Grouped column headers, when configured, take
// the first line and the header row the next; the body fills the rest.
package surface

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/body"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/logging"
)

// DoubleClickInterval is the longest gap between two clicks on the same
// header that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// Surface draws one grid on a tcell screen.
type Surface struct {
	screen tcell.Screen
	grid   *grid.Grid
	theme  Theme
	log    *logging.Logger
	now    func() time.Time

	// last painted frame and the line the body starts at
	frame grid.Frame
	top   int

	cursor cellPos
	anchor cellPos

	pressed   bool
	lastClick click
	drag      *resizeDrag
}

type cellPos struct {
	row, col int
}

type click struct {
	col int
	at  time.Time
}

// resizeDrag tracks a header border being dragged. group is set when the
// border belongs to a grouped header spanning start..end.
type resizeDrag struct {
	col    int
	width  float64
	startX int

	group      bool
	start, end int
}

// Option configures a Surface.
type Option func(*Surface)

// WithTheme sets the paint theme.
func WithTheme(t Theme) Option {
	return func(s *Surface) {
		s.theme = t
	}
}

// WithLogger sets the surface logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Surface) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a surface for g on an initialised screen.
func New(screen tcell.Screen, g *grid.Grid, opts ...Option) *Surface {
	s := &Surface{
		screen: screen,
		grid:   g,
		theme:  DefaultTheme(),
		log:    logging.Null(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("surface")
	return s
}

// Layout sizes the grid viewport to the screen.
func (s *Surface) Layout() {
	w, h := s.screen.Size()
	s.top = 1
	if s.grid.HasColumnGroups() {
		s.top = 2
	}
	s.grid.Resize(float64(w), float64(max(0, h-s.top)))
}

// Frame returns the last painted frame.
func (s *Surface) Frame() grid.Frame {
	return s.frame
}

// Refresh asks a running surface to redraw.
func (s *Surface) Refresh() {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
}

// Run draws and handles events until the user quits or ctx is done.
func (s *Surface) Run(ctx context.Context) error {
	s.Layout()
	s.Draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.HandleEvent(ctx, ev) {
			return nil
		}
		s.Draw()
	}
}

// Draw renders the grid and paints the frame.
func (s *Surface) Draw() {
	s.frame = s.grid.Render()
	s.screen.Clear()

	w, _ := s.screen.Size()
	if s.top > 1 {
		s.paintGroups(w)
	}
	s.paintHeader(w)
	s.paintBody(w)
	s.screen.Show()
}

func (s *Surface) paintGroups(w int) {
	for _, g := range s.frame.Header.Groups {
		x := int(g.Start - s.frame.ColOffset)
		end := min(w, x+int(g.Size))
		fill(s.screen, x, 0, end, s.theme.HeaderGroup)
		drawText(s.screen, x, 0, 0, end, truncate(g.Name, end-x-1), s.theme.HeaderGroup)
	}
}

func (s *Surface) paintHeader(w int) {
	y := s.top - 1
	for _, c := range s.frame.Header.Cells {
		x := int(c.Item.Start - s.frame.ColOffset)
		end := min(w, x+int(c.Item.Size))
		style := s.theme.Header
		if c.Active {
			style = s.theme.Active
		}
		fill(s.screen, x, y, end, style)
		drawText(s.screen, x, y, 0, end, truncate(c.Title(), end-x-1), style)
	}
}

func (s *Surface) paintBody(w int) {
	_, h := s.screen.Size()
	for _, row := range s.frame.Body.Rows {
		y := s.top + int(row.Start-s.frame.RowOffset)
		if y < s.top || y >= h {
			continue
		}
		focused := core.HasClass(row.Class, core.FocusedRowClass)

		if row.Kind == body.RowGroup {
			g := row.Header.Group
			style := s.theme.GroupRow
			if focused {
				style = style.Reverse(true)
			}
			fill(s.screen, 0, y, w, style)
			x := g.Depth * 2
			drawText(s.screen, x, y, 0, w, truncate(row.Header.Display(), w-x), style)
			continue
		}

		for _, c := range row.Cells {
			x := int(c.Column.Start - s.frame.ColOffset)
			end := min(w, x+int(c.Column.Size))
			style := s.theme.cellStyle(s.theme.Body, c.Props.Style, focused)
			fill(s.screen, x, y, end, style)

			tx := x + indent(c.Props.Style)
			drawText(s.screen, tx, y, 0, end, truncate(c.Content.Display(), end-tx-1), style)
		}
	}
}

// indent converts the grouping padding of a cell into terminal columns,
// one per grouping level.
func indent(style core.Style) int {
	if style.PaddingLeft == "" {
		return 0
	}
	px, err := core.ParsePx(style.PaddingLeft)
	if err != nil {
		return 0
	}
	return int(px) / core.PaddingDepth
}
