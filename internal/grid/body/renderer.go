// Package body renders the visible rows of the grid into a frame of cell
// models.
//
// A render pass walks the visible rows, then the visible columns of each
// row, in ascending order; that order is also the order of the frame.
// Group header rows short-circuit to a single full-width element when a
// grouping column is visible. Every pass is a pure function of the stores
// it reads.
package body

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/events"
	"github.com/dshills/gridstorm/internal/grid/grouping"
	"github.com/dshills/gridstorm/internal/grid/store"
	"github.com/dshills/gridstorm/internal/logging"
)

// PanicError carries a panic recovered from a column hook.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("cell hook panicked: %v", e.Value)
}

// ErrNotDraggable is returned when a drag starts on a cell that does not
// allow it.
var ErrNotDraggable = errors.New("cell is not draggable")

// Deps are the read-only stores a renderer consumes.
type Deps struct {
	Rows        store.RowReader
	Columns     store.ColumnReader
	RowViewport store.ViewportReader
	ColViewport store.ViewportReader
	// Selection is optional.
	Selection store.SelectionReader
}

// Options configures the body renderer.
type Options struct {
	// ReadOnly disables dragging for all cells.
	ReadOnly bool
	// CanDrag enables drag start on default cells.
	CanDrag bool
	// RowClass names the row prop holding a per-row class.
	RowClass string
}

// Renderer builds body frames.
type Renderer struct {
	deps    Deps
	opts    Options
	columns *column.Service
	log     *logging.Logger
	emitter events.Emitter
}

// New creates a body renderer. A nil logger discards diagnostics and a
// nil emitter drops events.
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
		columns: column.NewService(deps.Rows, deps.Columns),
		log:     log.WithComponent("body"),
		emitter: emitter,
	}
}

// ColumnService returns the service the renderer resolves cells with.
func (r *Renderer) ColumnService() *column.Service {
	return r.columns
}

// Render builds the frame for the current viewport. It returns an empty
// frame when no columns are configured or either window is empty.
func (r *Renderer) Render() Frame {
	var frame Frame

	cols := r.columns.Columns()
	if len(cols) == 0 || r.deps.Rows == nil || r.deps.RowViewport == nil || r.deps.ColViewport == nil {
		return frame
	}
	rowItems := r.deps.RowViewport.Items()
	colItems := r.deps.ColViewport.Items()
	if len(rowItems) == 0 || len(colItems) == 0 {
		return frame
	}

	sel, hasRange := r.selection()
	depth := r.deps.Rows.GroupingDepth()
	hasGrouping := grouping.HasGroupColumn(cols, colItems, r.deps.Rows.Groups())

	var diags core.ErrorList
	frame.Rows = make([]Row, 0, len(rowItems))
	for _, rowItem := range rowItems {
		dataRow, _ := r.deps.Rows.Row(rowItem.ItemIndex)
		groupRow := grouping.IsGroupingRow(dataRow)

		if hasGrouping && groupRow {
			frame.Rows = append(frame.Rows, Row{
				Index:  rowItem.ItemIndex,
				Start:  rowItem.Start,
				Size:   rowItem.Size,
				Kind:   RowGroup,
				Header: GroupHeader(grouping.NewHeaderModel(rowItem.ItemIndex, dataRow)),
			})
			continue
		}

		class := ""
		if r.opts.RowClass != "" {
			class = r.columns.RowClass(rowItem.ItemIndex, r.opts.RowClass)
		}
		if hasRange && sel.ContainsRow(rowItem.ItemIndex) {
			class = core.JoinClass(class, core.FocusedRowClass)
		}

		draggable := r.opts.CanDrag && !r.opts.ReadOnly && !groupRow
		cells := make([]Cell, 0, len(colItems))
		for _, colItem := range colItems {
			cell, err := r.cell(rowItem, colItem, draggable, depth)
			if err != nil {
				diags.Add(err)
				r.log.WithError(err).WithFields(map[string]any{
					"row": rowItem.ItemIndex,
					"col": colItem.ItemIndex,
				}).Warn("investigate column problem")
			}
			if cell != nil {
				cells = append(cells, *cell)
			}
		}

		frame.Rows = append(frame.Rows, Row{
			Index: rowItem.ItemIndex,
			Start: rowItem.Start,
			Size:  rowItem.Size,
			Class: class,
			Kind:  RowData,
			Cells: cells,
		})
	}

	frame.Diagnostics = diags.Errors()
	return frame
}

func (r *Renderer) selection() (core.SelectionRange, bool) {
	if r.deps.Selection == nil {
		return core.SelectionRange{}, false
	}
	return r.deps.Selection.Range()
}

// DefaultProps returns the positional props of a cell before overrides.
// The first column is indented by depth grouping levels.
func DefaultProps(row, col core.Item, depth int) core.Props {
	props := core.Props{
		DataCol: col.ItemIndex,
		DataRow: row.ItemIndex,
		Style: core.Style{
			Width:     core.Px(col.Size),
			Transform: core.TranslateX(col.Start),
		},
	}
	if depth > 0 && col.ItemIndex == 0 {
		props.Style.PaddingLeft = core.Px(float64(depth * core.PaddingDepth))
	}
	return props
}

// cell resolves one cell. A nil cell with an error means the cell is
// skipped; a cell with an error is rendered but reported. A panic in a
// column hook skips the cell and is reported as a CellError.
func (r *Renderer) cell(row, col core.Item, draggable bool, depth int) (cell *Cell, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			cell = nil
			err = &core.CellError{Row: row.ItemIndex, Col: col.ItemIndex, Err: &PanicError{Value: rec, Stack: debug.Stack()}}
		}
	}()

	model := r.columns.RowDataModel(row.ItemIndex, col.ItemIndex)
	props := r.columns.MergeProperties(row.ItemIndex, col.ItemIndex, DefaultProps(row, col, depth))

	content, err := r.decide(row, col, model, draggable)
	if content == nil {
		return nil, err
	}
	return &Cell{Column: col, Props: props, Content: *content}, err
}

// decide picks the content variant of a data cell: the column template
// when one exists, otherwise the default model content. A model without
// a column yields no content.
func (r *Renderer) decide(row, col core.Item, model core.CellModel, draggable bool) (*Content, error) {
	text, custom, err := r.columns.CustomRenderer(row.ItemIndex, col.ItemIndex, model)
	if custom {
		c := Custom(text)
		if err != nil {
			err = &core.CellError{Row: row.ItemIndex, Col: col.ItemIndex, Err: err}
		}
		return &c, err
	}
	if model.Column == nil {
		return nil, &core.CellError{Row: row.ItemIndex, Col: col.ItemIndex, Err: core.ErrColumnNotFound}
	}
	c := Default(model, draggable && !model.Column.ReadOnly)
	return &c, nil
}

// DragStart hands a drag gesture on cell to the event emitter.
func (r *Renderer) DragStart(ctx context.Context, cell Cell, pointer events.PointerEvent) error {
	if cell.Content.Kind != ContentDefault || !cell.Content.Draggable {
		return ErrNotDraggable
	}
	ev := events.NewEvent(events.TopicCellDragStart, events.DragStartCell{
		Pointer:  pointer,
		RowIndex: cell.Props.DataRow,
		ColIndex: cell.Props.DataCol,
	}, "body")
	if err := r.emitter.Emit(ctx, ev); err != nil {
		r.log.WithError(err).Debug("drag start handler failed")
	}
	return nil
}

// CellAt returns the cell of frame at absolute row and column indexes.
func (f Frame) CellAt(rowIndex, colIndex int) (Cell, bool) {
	for _, row := range f.Rows {
		if row.Index != rowIndex {
			continue
		}
		for _, c := range row.Cells {
			if c.Column.ItemIndex == colIndex {
				return c, true
			}
		}
		return Cell{}, false
	}
	return Cell{}, false
}
