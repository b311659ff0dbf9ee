// Package grid assembles the stores, viewport axes and renderers of one
// grid instance.
//
// A Grid owns the writable stores and hands read-only views of them to
// the body and header renderers. Header resize events travel through the
// event bus back into the column dimension store, so renderers never
// write to what they read.
package grid

import (
	"context"
	"sync"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid/body"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/events"
	"github.com/dshills/gridstorm/internal/grid/grouping"
	"github.com/dshills/gridstorm/internal/grid/header"
	"github.com/dshills/gridstorm/internal/grid/store"
	"github.com/dshills/gridstorm/internal/grid/viewport"
	"github.com/dshills/gridstorm/internal/logging"
)

// Frame is one rendered screen of the grid.
type Frame struct {
	Header header.Frame
	Body   body.Frame

	// RowOffset and ColOffset are the scroll positions the absolute item
	// starts of the frame are relative to.
	RowOffset float64
	ColOffset float64
}

// Grid is one grid instance.
type Grid struct {
	mu sync.Mutex

	cfg       *config.Config
	data      []core.Row
	collapsed map[string]bool

	// userSizes are column widths set through resize events. They
	// survive a reconfigure that keeps the column props.
	userSizes map[int]float64

	rows    *store.RowSource
	cols    *store.ColumnSource
	rowDims *store.Dimensions
	colDims *store.Dimensions
	rowAxis *viewport.Axis
	colAxis *viewport.Axis
	sel     *store.Selection

	body   *body.Renderer
	header *header.Renderer

	bus *events.Bus
	sub events.Subscription
	log *logging.Logger
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger sets the grid logger.
func WithLogger(log *logging.Logger) Option {
	return func(g *Grid) {
		if log != nil {
			g.log = log
		}
	}
}

// WithBus sets the event bus the renderers emit to.
func WithBus(bus *events.Bus) Option {
	return func(g *Grid) {
		if bus != nil {
			g.bus = bus
		}
	}
}

// New creates a grid over data with the given columns.
func New(cfg *config.Config, data []core.Row, columns []*core.Column, opts ...Option) (*Grid, error) {
	g := &Grid{
		cfg:       cfg,
		data:      data,
		collapsed: make(map[string]bool),
		userSizes: make(map[int]float64),
		rows:      store.NewRowSource(nil),
		cols:      store.NewColumnSource(columns...),
		sel:       store.NewSelection(),
		log:       logging.Null(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus == nil {
		g.bus = events.NewBus()
	}
	for _, p := range cfg.Grid.Collapsed {
		g.collapsed[p] = true
	}

	sub, err := g.bus.SubscribeFunc(events.TopicHeaderResize, g.onHeaderResize)
	if err != nil {
		return nil, err
	}
	g.sub = sub

	g.configure(cfg, columns)
	return g, nil
}

// configure rebuilds the dimensions, axes and renderers. The caller
// holds g.mu or owns g exclusively.
func (g *Grid) configure(cfg *config.Config, columns []*core.Column) {
	g.cfg = cfg
	if !sameProps(g.cols.Columns(), columns) {
		g.userSizes = make(map[int]float64)
	}
	g.cols.SetColumns(columns)
	g.regroup()

	g.rowDims = store.NewDimensions(cfg.Grid.RowSize)
	g.colDims = store.NewDimensions(cfg.Grid.DefaultColumnSize)
	sizes := make(map[int]float64)
	for i, c := range columns {
		if c != nil && c.Size > 0 {
			sizes[i] = c.Size
		}
	}
	g.colDims.ApplySizes(sizes)
	g.colDims.ApplySizes(g.userSizes)

	var width, height float64
	if g.colAxis != nil {
		width, height = g.colAxis.Extent(), g.rowAxis.Extent()
	}
	g.rowAxis = viewport.New(g.rowDims, g.rows.Len(), height)
	g.colAxis = viewport.New(g.colDims, len(columns), width)

	g.body = body.New(body.Deps{
		Rows:        g.rows,
		Columns:     g.cols,
		RowViewport: g.rowAxis,
		ColViewport: g.colAxis,
		Selection:   g.sel,
	}, body.Options{
		ReadOnly: cfg.Grid.ReadOnly,
		CanDrag:  cfg.Grid.CanDrag,
		RowClass: cfg.Grid.RowClass,
	}, g.log, g.bus)

	g.header = header.New(header.Deps{
		Columns:     g.cols,
		ColViewport: g.colAxis,
		Dimensions:  g.colDims,
		Selection:   g.sel,
	}, header.Options{
		CanResize:    cfg.Grid.CanResize,
		CanFilter:    cfg.Grid.ColumnFilter,
		ColumnGroups: cfg.Groups(),
	}, g.log, g.bus)
}

// regroup rebuilds the displayed rows from the data and grouping state.
func (g *Grid) regroup() {
	rows, depth := grouping.Build(g.data, g.cfg.Grid.GroupBy, func(path string) bool {
		return !g.collapsed[path]
	})
	g.rows.SetRows(rows)
	g.rows.SetGrouping(core.GroupingState{Depth: depth, Groups: g.cfg.GroupProps()})
	if g.rowAxis != nil {
		g.rowAxis.SetCount(len(rows))
	}
}

// onHeaderResize applies resize events to the column dimension store.
// Resize events must not be emitted while g.mu is held.
func (g *Grid) onHeaderResize(_ context.Context, event any) error {
	ev, ok := event.(events.Event[events.HeaderResize])
	if !ok {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colDims.ApplySizes(ev.Payload.Sizes)
	for idx := range ev.Payload.Sizes {
		g.userSizes[idx] = g.colDims.Size(idx)
	}
	g.log.WithField("sizes", ev.Payload.Sizes).Debug("columns resized")
	return nil
}

// Reconfigure swaps the configuration and columns, keeping the data,
// scroll extent and selection. Interactive column widths are kept when
// the new columns have the same props in the same order.
func (g *Grid) Reconfigure(cfg *config.Config, columns []*core.Column) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.collapsed = make(map[string]bool)
	for _, p := range cfg.Grid.Collapsed {
		g.collapsed[p] = true
	}
	g.configure(cfg, columns)
}

// SetData replaces the dataset.
func (g *Grid) SetData(data []core.Row) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data = data
	g.regroup()
}

// Resize sets the frame size.
func (g *Grid) Resize(width, height float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colAxis.Resize(width)
	g.rowAxis.Resize(height)
}

// ScrollToRow scrolls so index is the first visible row.
func (g *Grid) ScrollToRow(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rowAxis.ScrollTo(g.rowDims.Offset(index))
}

// ScrollRows moves the row window by delta rows.
func (g *Grid) ScrollRows(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rowAxis.ScrollItems(delta)
}

// ScrollLeft sets the horizontal scroll offset.
func (g *Grid) ScrollLeft(offset float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colAxis.ScrollTo(offset)
}

// ScrollCols moves the column window by delta columns.
func (g *Grid) ScrollCols(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colAxis.ScrollItems(delta)
}

// Reveal scrolls so the cell at row, col is visible.
func (g *Grid) Reveal(row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rowAxis.ScrollToReveal(row)
	g.colAxis.ScrollToReveal(col)
}

// Select sets the selection range.
func (g *Grid) Select(r core.SelectionRange) {
	g.sel.Set(r)
}

// ClearSelection removes the selection.
func (g *Grid) ClearSelection() {
	g.sel.Clear()
}

// Selection returns the active selection.
func (g *Grid) Selection() (core.SelectionRange, bool) {
	return g.sel.Range()
}

// ToggleGroup collapses an expanded group path or expands a collapsed
// one.
func (g *Grid) ToggleGroup(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.collapsed[path] {
		delete(g.collapsed, path)
	} else {
		g.collapsed[path] = true
	}
	g.regroup()
}

// Render renders the header and body of the current viewport.
func (g *Grid) Render() Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Frame{
		Header:    g.header.Render(),
		Body:      g.body.Render(),
		RowOffset: g.rowAxis.Offset(),
		ColOffset: g.colAxis.Offset(),
	}
}

// RowCount returns the number of displayed rows, group headers included.
func (g *Grid) RowCount() int {
	return g.rows.Len()
}

// Row returns the displayed row at index.
func (g *Grid) Row(index int) (core.Row, bool) {
	return g.rows.Row(index)
}

// Columns returns the configured columns.
func (g *Grid) Columns() []*core.Column {
	return g.cols.Columns()
}

// ColumnSize returns the current size of a column.
func (g *Grid) ColumnSize(index int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colDims.Size(index)
}

// HasColumnGroups reports whether grouped column headers are configured.
func (g *Grid) HasColumnGroups() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cfg.ColumnGroups) > 0
}

// Header returns the header renderer.
func (g *Grid) Header() *header.Renderer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.header
}

// Body returns the body renderer.
func (g *Grid) Body() *body.Renderer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.body
}

// Bus returns the event bus.
func (g *Grid) Bus() *events.Bus {
	return g.bus
}

// Close detaches the grid from its bus.
func (g *Grid) Close() error {
	return g.bus.Unsubscribe(g.sub)
}

func sameProps(a, b []*core.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if (a[i] == nil) != (b[i] == nil) {
			return false
		}
		if a[i] != nil && a[i].Prop != b[i].Prop {
			return false
		}
	}
	return true
}
