package body

import (
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/grouping"
)

// ContentKind tags the variant held by a Content.
type ContentKind uint8

const (
	// ContentDefault is a cell rendered from its data model.
	ContentDefault ContentKind = iota
	// ContentCustom is a cell rendered by its column template.
	ContentCustom
	// ContentGroupHeader is a full-width group header row.
	ContentGroupHeader
)

// String returns the kind name.
func (k ContentKind) String() string {
	switch k {
	case ContentDefault:
		return "default"
	case ContentCustom:
		return "custom"
	case ContentGroupHeader:
		return "group"
	default:
		return "unknown"
	}
}

// Content is the resolved content of a cell or group row. Which fields
// are meaningful depends on Kind:
//
//	ContentCustom       Text
//	ContentDefault      Model, Draggable
//	ContentGroupHeader  Group
type Content struct {
	Kind      ContentKind
	Text      string
	Model     core.CellModel
	Draggable bool
	Group     grouping.HeaderModel
}

// Custom returns custom content.
func Custom(text string) Content {
	return Content{Kind: ContentCustom, Text: text}
}

// Default returns model-rendered content.
func Default(model core.CellModel, draggable bool) Content {
	return Content{Kind: ContentDefault, Model: model, Draggable: draggable}
}

// GroupHeader returns group header content.
func GroupHeader(model grouping.HeaderModel) Content {
	return Content{Kind: ContentGroupHeader, Group: model}
}

// Display returns the text a surface shows for the content.
func (c Content) Display() string {
	switch c.Kind {
	case ContentCustom:
		return c.Text
	case ContentDefault:
		return c.Model.Text()
	case ContentGroupHeader:
		return c.Group.Label()
	}
	return ""
}

// Cell is one rendered cell of a data row.
type Cell struct {
	Column  core.Item
	Props   core.Props
	Content Content
}

// RowKind distinguishes data rows from group header rows.
type RowKind uint8

const (
	// RowData is a row of cells.
	RowData RowKind = iota
	// RowGroup is a full-width group header without cells.
	RowGroup
)

// Row is one rendered row container.
type Row struct {
	Index int
	Start float64
	Size  float64
	Class string
	Kind  RowKind

	// Cells is empty for group rows.
	Cells []Cell

	// Header is set for group rows.
	Header Content
}

// Frame is the output of one render pass.
type Frame struct {
	Rows []Row

	// Diagnostics lists the recoverable failures of the pass.
	Diagnostics []error
}

// Empty reports whether the frame has no rows.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0
}

// RowIndexes returns the absolute index of every rendered row in order.
func (f Frame) RowIndexes() []int {
	out := make([]int, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Index
	}
	return out
}
