// Package column resolves per-cell data, properties and custom content
// for the renderers.
package column

import (
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
)

// Service reads cell data through the row and column stores it was
// attached to. The store references are set once at construction.
type Service struct {
	rows store.RowReader
	cols store.ColumnReader
}

// NewService creates a column service over the given stores.
func NewService(rows store.RowReader, cols store.ColumnReader) *Service {
	return &Service{rows: rows, cols: cols}
}

// Columns returns the configured columns.
func (s *Service) Columns() []*core.Column {
	if s.cols == nil {
		return nil
	}
	return s.cols.Columns()
}

// Column returns the column at colIndex.
func (s *Service) Column(colIndex int) (*core.Column, bool) {
	cols := s.Columns()
	if colIndex < 0 || colIndex >= len(cols) || cols[colIndex] == nil {
		return nil, false
	}
	return cols[colIndex], true
}

// Row returns the dataset row at rowIndex.
func (s *Service) Row(rowIndex int) (core.Row, bool) {
	if s.rows == nil {
		return nil, false
	}
	return s.rows.Row(rowIndex)
}

// RowDataModel resolves the column at colIndex and reads the cell value
// from the row at rowIndex. An unknown column yields a model with a nil
// Column; callers must treat that as a data integrity failure.
func (s *Service) RowDataModel(rowIndex, colIndex int) core.CellModel {
	model := core.CellModel{RowIndex: rowIndex, ColIndex: colIndex}
	row, _ := s.Row(rowIndex)
	model.Row = row

	col, ok := s.Column(colIndex)
	if !ok {
		return model
	}
	model.Column = col
	model.Prop = col.Prop
	model.Value, _ = row.Get(col.Prop)
	return model
}

// MergeProperties layers the column's per-cell overrides on top of base.
// Without a CellProperties hook base is returned unchanged.
func (s *Service) MergeProperties(rowIndex, colIndex int, base core.Props) core.Props {
	col, ok := s.Column(colIndex)
	if !ok || col.CellProperties == nil {
		return base
	}
	override := col.CellProperties(s.RowDataModel(rowIndex, colIndex))
	return Merge(base, override)
}

// CustomRenderer returns the custom content of a cell. ok is false when
// the column declares no template and the default renderer applies. A
// template error still selects the custom path, with empty content.
func (s *Service) CustomRenderer(rowIndex, colIndex int, model core.CellModel) (content string, ok bool, err error) {
	col, found := s.Column(colIndex)
	if !found || col.CellTemplate == nil {
		return "", false, nil
	}
	content, err = col.CellTemplate.RenderCell(model)
	if err != nil {
		return "", true, core.NewComponentError("column", "custom render "+col.Prop, err)
	}
	return content, true, nil
}

// RowClass returns the class stored on the row under classProp. A missing
// row or prop yields an empty string.
func (s *Service) RowClass(rowIndex int, classProp string) string {
	if classProp == "" {
		return ""
	}
	row, ok := s.Row(rowIndex)
	if !ok {
		return ""
	}
	return row.String(classProp)
}
