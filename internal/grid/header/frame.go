package header

import (
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/grouping"
)

// Cell is the header of one visible column.
type Cell struct {
	Item core.Item

	// Column is nil when the visible index has no column definition.
	Column *core.Column

	// Range is the active selection, nil when nothing is selected.
	Range *core.SelectionRange

	// Active is set when the column lies inside Range.
	Active bool

	CanResize bool
	CanFilter bool
}

// Title returns the caption of the header cell.
func (c Cell) Title() string {
	if c.Column == nil {
		return ""
	}
	if c.Column.Name != "" {
		return c.Column.Name
	}
	return c.Column.Prop
}

// Frame is the output of one header render pass.
type Frame struct {
	// Class of the cell row container.
	Class string

	Cells []Cell

	// VisibleProps maps the prop of every visible column to its absolute
	// index.
	VisibleProps map[string]int

	// Groups are the grouped column headers with a visible member.
	Groups []grouping.Span

	// GroupClass is the class of the group row container, empty when
	// there are no groups.
	GroupClass string
}

// Empty reports whether the frame has no header cells.
func (f Frame) Empty() bool {
	return len(f.Cells) == 0
}

// CellAt returns the header cell covering the horizontal position x.
func (f Frame) CellAt(x float64) (Cell, bool) {
	for _, c := range f.Cells {
		if x >= c.Item.Start && x < c.Item.End() {
			return c, true
		}
	}
	return Cell{}, false
}

// GroupAt returns the group span covering the horizontal position x.
func (f Frame) GroupAt(x float64) (grouping.Span, bool) {
	for _, g := range f.Groups {
		if x >= g.Start && x < g.Start+g.Size {
			return g, true
		}
	}
	return grouping.Span{}, false
}
