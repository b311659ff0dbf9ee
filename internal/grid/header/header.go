// Package header renders the header row of the visible columns and turns
// header gestures into resize and click events.
//
// Besides the cells, a render pass produces the prop to column index map
// of the visible window. Grouped column headers and group resizing work
// from that map, so both only ever see rendered columns.
package header

import (
	"context"
	"errors"
	"math"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/events"
	"github.com/dshills/gridstorm/internal/grid/grouping"
	"github.com/dshills/gridstorm/internal/grid/store"
	"github.com/dshills/gridstorm/internal/logging"
)

// ErrInvalidSpan is returned by ResizeGroup when end precedes start.
var ErrInvalidSpan = errors.New("invalid column span")

// Deps are the read-only stores the header consumes.
type Deps struct {
	Columns     store.ColumnReader
	ColViewport store.ViewportReader
	// Dimensions sizes off-screen group members. Optional.
	Dimensions store.DimensionReader
	// Selection is optional.
	Selection store.SelectionReader
}

// Options configures the header renderer.
type Options struct {
	CanResize    bool
	CanFilter    bool
	ColumnGroups []grouping.ColumnGroup
}

// Renderer builds header frames.
type Renderer struct {
	deps    Deps
	opts    Options
	log     *logging.Logger
	emitter events.Emitter
}

// New creates a header renderer.
func New(deps Deps, opts Options, log *logging.Logger, emitter events.Emitter) *Renderer {
	if log == nil {
		log = logging.Null()
	}
	if emitter == nil {
		emitter = events.Discard
	}
	return &Renderer{
		deps:    deps,
		opts:    opts,
		log:     log.WithComponent("header"),
		emitter: emitter,
	}
}

// Render builds the header frame for the visible columns.
func (r *Renderer) Render() Frame {
	frame := Frame{
		Class:        core.JoinClass(core.HeaderRowClass, core.HeaderActualRowClass),
		VisibleProps: make(map[string]int),
	}
	if r.deps.ColViewport == nil {
		return frame
	}
	items := r.deps.ColViewport.Items()
	if len(items) == 0 {
		return frame
	}

	var columns []*core.Column
	if r.deps.Columns != nil {
		columns = r.deps.Columns.Columns()
	}

	var rng *core.SelectionRange
	if r.deps.Selection != nil {
		if sel, ok := r.deps.Selection.Range(); ok {
			rng = &sel
		}
	}

	frame.Cells = make([]Cell, 0, len(items))
	for _, it := range items {
		cell := Cell{
			Item:      it,
			Range:     rng,
			Active:    rng != nil && rng.ContainsColumn(it.ItemIndex),
			CanResize: r.opts.CanResize,
			CanFilter: r.opts.CanFilter,
		}
		if it.ItemIndex >= 0 && it.ItemIndex < len(columns) {
			cell.Column = columns[it.ItemIndex]
		}
		if cell.Column != nil {
			frame.VisibleProps[cell.Column.Prop] = it.ItemIndex
		} else {
			r.log.WithField("col", it.ItemIndex).Debug("header without column")
		}
		frame.Cells = append(frame.Cells, cell)
	}

	frame.Groups = grouping.Spans(r.opts.ColumnGroups, columns, items, frame.VisibleProps, r.deps.Dimensions)
	if len(frame.Groups) > 0 {
		frame.GroupClass = core.GroupRowClass
	}
	return frame
}

// Resize reports a new width for a single column. Negative or undefined
// widths are reported as 0.
func (r *Renderer) Resize(ctx context.Context, colIndex int, width float64) {
	if width < 0 || math.IsNaN(width) {
		width = 0
	}
	r.emitResize(ctx, map[int]float64{colIndex: width})
}

// ResizeGroup spreads changedX evenly over the columns start..end of a
// grouped header and reports the new sizes in a single event. Only
// columns of the visible window are resized; off-screen members keep
// their size. Nothing is emitted when no member is visible.
func (r *Renderer) ResizeGroup(ctx context.Context, changedX float64, start, end int) error {
	sizes, err := GroupSizes(r.visibleItems(), changedX, start, end)
	if err != nil {
		return err
	}
	if len(sizes) == 0 {
		r.log.WithFields(map[string]any{"start": start, "end": end}).Debug("group resize without visible members")
		return nil
	}
	r.emitResize(ctx, sizes)
	return nil
}

// GroupSizes computes the sizes a group resize produces for the visible
// items. The per column delta is changedX divided by the span width.
func GroupSizes(visible []core.Item, changedX float64, start, end int) (map[int]float64, error) {
	if end < start {
		return nil, ErrInvalidSpan
	}
	byIndex := make(map[int]core.Item, len(visible))
	for _, it := range visible {
		byIndex[it.ItemIndex] = it
	}

	change := changedX / float64(end-start+1)
	sizes := make(map[int]float64)
	for i := start; i <= end; i++ {
		if it, ok := byIndex[i]; ok {
			sizes[i] = it.Size + change
		}
	}
	return sizes, nil
}

// Click passes a header click through.
func (r *Renderer) Click(ctx context.Context, cell Cell, pointer events.PointerEvent) {
	r.emitClick(ctx, events.TopicHeaderClick, cell, pointer)
}

// DblClick passes a header double click through.
func (r *Renderer) DblClick(ctx context.Context, cell Cell, pointer events.PointerEvent) {
	r.emitClick(ctx, events.TopicHeaderDblClick, cell, pointer)
}

func (r *Renderer) visibleItems() []core.Item {
	if r.deps.ColViewport == nil {
		return nil
	}
	return r.deps.ColViewport.Items()
}

func (r *Renderer) emitResize(ctx context.Context, sizes map[int]float64) {
	ev := events.NewEvent(events.TopicHeaderResize, events.HeaderResize{Sizes: sizes}, "header")
	if err := r.emitter.Emit(ctx, ev); err != nil {
		r.log.WithError(err).Debug("header resize handler failed")
	}
}

func (r *Renderer) emitClick(ctx context.Context, topic events.Topic, cell Cell, pointer events.PointerEvent) {
	payload := events.HeaderClick{Pointer: pointer, ColIndex: cell.Item.ItemIndex}
	if cell.Column != nil {
		payload.Prop = cell.Column.Prop
		payload.Name = cell.Column.Name
	}
	if err := r.emitter.Emit(ctx, events.NewEvent(topic, payload, "header")); err != nil {
		r.log.WithError(err).Debug("header click handler failed")
	}
}
