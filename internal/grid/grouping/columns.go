package grouping

import (
	"sort"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
)

// ColumnGroup is a header spanning several member columns.
type ColumnGroup struct {
	Name     string
	Children []string
}

// Span is the laid out header of a column group. StartIndex and EndIndex
// are the absolute indexes of the first and last member, which may lie
// outside the visible window.
type Span struct {
	Name       string
	StartIndex int
	EndIndex   int
	Start      float64
	Size       float64
}

// Spans lays out the column groups that have at least one visible
// member. visibleProps maps the prop of every visible column to its
// absolute index. Positions are derived from the first visible member and
// the sizes of dims.
func Spans(groups []ColumnGroup, columns []*core.Column, visible []core.Item, visibleProps map[string]int, dims store.DimensionReader) []Span {
	if len(groups) == 0 || len(visibleProps) == 0 {
		return nil
	}

	indexOf := make(map[string]int, len(columns))
	for i, c := range columns {
		if c != nil {
			indexOf[c.Prop] = i
		}
	}
	items := make(map[int]core.Item, len(visible))
	for _, it := range visible {
		items[it.ItemIndex] = it
	}

	var spans []Span
	for _, g := range groups {
		var idx []int
		for _, prop := range g.Children {
			if i, ok := indexOf[prop]; ok {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			continue
		}
		sort.Ints(idx)

		firstVisible := -1
		for _, prop := range g.Children {
			i, ok := visibleProps[prop]
			if !ok {
				continue
			}
			if _, rendered := items[i]; rendered && (firstVisible < 0 || i < firstVisible) {
				firstVisible = i
			}
		}
		if firstVisible < 0 {
			continue
		}

		span := Span{Name: g.Name, StartIndex: idx[0], EndIndex: idx[len(idx)-1]}
		span.Start = items[firstVisible].Start
		for i := span.StartIndex; i < firstVisible; i++ {
			span.Start -= sizeOf(i, items, dims)
		}
		for i := span.StartIndex; i <= span.EndIndex; i++ {
			span.Size += sizeOf(i, items, dims)
		}
		spans = append(spans, span)
	}
	return spans
}

func sizeOf(index int, items map[int]core.Item, dims store.DimensionReader) float64 {
	if it, ok := items[index]; ok {
		return it.Size
	}
	if dims == nil {
		return 0
	}
	return dims.Size(index)
}
