// Package store defines the read-only capabilities a render pass consumes
// and provides in-memory implementations of them.
//
// Renderers only see the reader interfaces. The concrete stores are owned
// by the grid shell, which is the single writer: it scrolls the viewports,
// moves the selection and applies resize events between frames.
package store

import (
	"sync"

	"github.com/dshills/gridstorm/internal/grid/core"
)

// ViewportReader returns the visible items of one axis, in ascending
// start order.
type ViewportReader interface {
	Items() []core.Item
}

// SelectionReader returns the active selection range, if any.
type SelectionReader interface {
	Range() (core.SelectionRange, bool)
}

// RowReader gives access to dataset rows by absolute index and to the
// grouping state of the data source.
type RowReader interface {
	Row(index int) (core.Row, bool)
	Len() int
	GroupingDepth() int
	Groups() map[string]bool
}

// ColumnReader returns the configured columns.
type ColumnReader interface {
	Columns() []*core.Column
}

// DimensionReader returns the size of an item by absolute index.
type DimensionReader interface {
	Size(index int) float64
}

// PositionReader also answers the start position of an item: the summed
// sizes of every item before it.
type PositionReader interface {
	DimensionReader
	Offset(index int) float64
}

// Viewport is a settable ViewportReader.
type Viewport struct {
	mu    sync.RWMutex
	items []core.Item
}

// NewViewport creates a viewport holding items.
func NewViewport(items ...core.Item) *Viewport {
	v := &Viewport{}
	v.SetItems(items)
	return v
}

// Items returns a copy of the visible items.
func (v *Viewport) Items() []core.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]core.Item, len(v.items))
	copy(out, v.items)
	return out
}

// SetItems replaces the visible items.
func (v *Viewport) SetItems(items []core.Item) {
	cp := make([]core.Item, len(items))
	copy(cp, items)
	v.mu.Lock()
	v.items = cp
	v.mu.Unlock()
}

// Selection is a settable SelectionReader holding at most one range.
type Selection struct {
	mu     sync.RWMutex
	rng    core.SelectionRange
	active bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Range returns the active range.
func (s *Selection) Range() (core.SelectionRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rng, s.active
}

// Set activates a range. The range is normalized so that Y <= Y1 and X <= X1.
func (s *Selection) Set(r core.SelectionRange) {
	s.mu.Lock()
	s.rng = r.Normalize()
	s.active = true
	s.mu.Unlock()
}

// Clear removes the active range.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.rng = core.SelectionRange{}
	s.active = false
	s.mu.Unlock()
}

// ColumnSource is a ColumnReader over a fixed column list.
type ColumnSource struct {
	mu      sync.RWMutex
	columns []*core.Column
}

// NewColumnSource creates a column source.
func NewColumnSource(columns ...*core.Column) *ColumnSource {
	return &ColumnSource{columns: columns}
}

// Columns returns the configured columns.
func (c *ColumnSource) Columns() []*core.Column {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.columns
}

// SetColumns replaces the column list.
func (c *ColumnSource) SetColumns(columns []*core.Column) {
	c.mu.Lock()
	c.columns = columns
	c.mu.Unlock()
}

// IndexOf returns the index of the column with prop, or -1.
func (c *ColumnSource) IndexOf(prop string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, col := range c.columns {
		if col != nil && col.Prop == prop {
			return i
		}
	}
	return -1
}
