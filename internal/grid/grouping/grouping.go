// Package grouping detects grouping rows and grouping columns, builds the
// synthetic group header rows the data store serves, and lays out grouped
// column headers.
package grouping

import (
	"github.com/dshills/gridstorm/internal/grid/core"
)

// Row keys carried by synthetic group header rows.
const (
	MarkerKey   = "__rgGroupRow"
	ValueKey    = "__rgGroupValue"
	DepthKey    = "__rgGroupDepth"
	ExpandedKey = "__rgGroupExpanded"
	ChildrenKey = "__rgGroupChildren"
	PathKey     = "__rgGroupPath"
)

// IsGroupingRow reports whether row is a synthetic group header.
func IsGroupingRow(row core.Row) bool {
	v, ok := row.Get(MarkerKey)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IsGroupColumn reports whether the column at colIndex groups rows. An
// index without a column, or a prop missing from groups, is simply not a
// group column.
func IsGroupColumn(columns []*core.Column, colIndex int, groups map[string]bool) bool {
	if colIndex < 0 || colIndex >= len(columns) || columns[colIndex] == nil {
		return false
	}
	return groups[columns[colIndex].Prop]
}

// HasGroupColumn reports whether any visible column is a group column.
// The answer holds for a whole frame, so renderers compute it once before
// iterating rows.
func HasGroupColumn(columns []*core.Column, visible []core.Item, groups map[string]bool) bool {
	if len(groups) == 0 {
		return false
	}
	for _, c := range visible {
		if IsGroupColumn(columns, c.ItemIndex, groups) {
			return true
		}
	}
	return false
}

// HeaderModel describes a group header row.
type HeaderModel struct {
	RowIndex int
	Value    string
	Path     string
	Depth    int
	Expanded bool
	Children int
	// Indent is the left padding in pixels for the header's depth.
	Indent float64
}

// NewHeaderModel reads the group attributes of a group header row.
func NewHeaderModel(rowIndex int, row core.Row) HeaderModel {
	m := HeaderModel{
		RowIndex: rowIndex,
		Value:    row.String(ValueKey),
		Path:     row.String(PathKey),
		Depth:    intValue(row, DepthKey),
		Children: intValue(row, ChildrenKey),
	}
	if v, ok := row.Get(ExpandedKey); ok {
		m.Expanded, _ = v.(bool)
	}
	m.Indent = float64(m.Depth * core.PaddingDepth)
	return m
}

// Label returns the display text of the header: an expand marker, the
// group value and the number of rows it holds.
func (m HeaderModel) Label() string {
	marker := "▸"
	if m.Expanded {
		marker = "▾"
	}
	return marker + " " + m.Value + " (" + core.FormatValue(m.Children) + ")"
}

// NewGroupRow creates a synthetic group header row.
func NewGroupRow(value string, path string, depth int, expanded bool, children int) core.Row {
	return core.Row{
		MarkerKey:   true,
		ValueKey:    value,
		PathKey:     path,
		DepthKey:    depth,
		ExpandedKey: expanded,
		ChildrenKey: children,
	}
}

func intValue(row core.Row, key string) int {
	v, ok := row.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
