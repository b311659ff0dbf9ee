package core

import (
	"fmt"
	"strconv"
)

// Grid constants shared by the renderers.
const (
	// PaddingDepth is the left padding, in pixels, added per grouping level
	// to the first column of a data row.
	PaddingDepth = 10

	// FocusedRowClass is appended to the class of rows inside the selection.
	FocusedRowClass = "focused-row"

	// DataColAttr and DataRowAttr tag a cell with its absolute indexes.
	DataColAttr = "data-rgCol"
	DataRowAttr = "data-rgRow"

	// HeaderRowClass and HeaderActualRowClass mark the header cell row.
	HeaderRowClass       = "header-rgRow"
	HeaderActualRowClass = "actual-rgRow"

	// GroupRowClass marks the container of grouped column headers.
	GroupRowClass = "group-row"
)

// Item is one visible row or column of a viewport window.
// ItemIndex is the absolute index into the backing dataset, not the
// position inside the window.
type Item struct {
	ItemIndex int
	Start     float64
	Size      float64
}

// End returns the pixel offset just past the item.
func (i Item) End() float64 {
	return i.Start + i.Size
}

// Row is an opaque dataset record keyed by column prop.
type Row map[string]any

// Get returns the value stored under prop.
func (r Row) Get(prop string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[prop]
	return v, ok
}

// String returns the value under prop formatted as text.
// Missing props and nil values yield an empty string.
func (r Row) String(prop string) string {
	v, ok := r.Get(prop)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// CellRenderer produces fully custom content for a cell.
type CellRenderer interface {
	RenderCell(model CellModel) (string, error)
}

// CellRendererFunc adapts a function to CellRenderer.
type CellRendererFunc func(model CellModel) (string, error)

// RenderCell implements CellRenderer.
func (f CellRendererFunc) RenderCell(model CellModel) (string, error) {
	return f(model)
}

// CellPropertiesFunc returns per-cell property overrides for a model.
type CellPropertiesFunc func(model CellModel) Props

// Column describes one dataset column.
type Column struct {
	// Prop is the row key the cell value is read from.
	Prop string

	// Name is the header caption.
	Name string

	// Size is the preferred width in pixels. Zero means the dimension
	// store default.
	Size float64

	// ReadOnly disables editing and dragging for the column's cells.
	ReadOnly bool

	// ColumnType is an optional type name used by custom renderers.
	ColumnType string

	// CellTemplate, when set, renders every cell of the column.
	CellTemplate CellRenderer

	// CellProperties, when set, layers overrides on the default props.
	CellProperties CellPropertiesFunc
}

// CellModel is the resolved data of one cell.
// Column is nil when the column index could not be resolved.
type CellModel struct {
	Column   *Column
	Row      Row
	Prop     string
	Value    any
	RowIndex int
	ColIndex int
}

// Text returns the model value formatted as text.
func (m CellModel) Text() string {
	return FormatValue(m.Value)
}

// SelectionRange is the inclusive rectangle of the active selection.
type SelectionRange struct {
	Y  int
	Y1 int
	X  int
	X1 int
}

// Normalize returns the range with Y <= Y1 and X <= X1.
func (r SelectionRange) Normalize() SelectionRange {
	if r.Y > r.Y1 {
		r.Y, r.Y1 = r.Y1, r.Y
	}
	if r.X > r.X1 {
		r.X, r.X1 = r.X1, r.X
	}
	return r
}

// ContainsRow reports whether row lies within [Y, Y1].
func (r SelectionRange) ContainsRow(row int) bool {
	return row >= r.Y && row <= r.Y1
}

// ContainsColumn reports whether col lies within [X, X1].
func (r SelectionRange) ContainsColumn(col int) bool {
	return col >= r.X && col <= r.X1
}

// Contains reports whether the cell at (row, col) is selected.
func (r SelectionRange) Contains(row, col int) bool {
	return r.ContainsRow(row) && r.ContainsColumn(col)
}

// GroupingState is the grouping configuration of the data store.
type GroupingState struct {
	// Depth is the deepest expanded nesting level.
	Depth int

	// Groups holds the props that act as grouping columns.
	Groups map[string]bool
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
