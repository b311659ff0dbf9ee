package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dshills/gridstorm/internal/grid/core"
)

// RowSource is an in-memory RowReader.
type RowSource struct {
	mu     sync.RWMutex
	rows   []core.Row
	depth  int
	groups map[string]bool
}

// NewRowSource creates a row source over rows.
func NewRowSource(rows []core.Row) *RowSource {
	return &RowSource{rows: rows, groups: map[string]bool{}}
}

// Row returns the row at index.
func (s *RowSource) Row(index int) (core.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.rows) {
		return nil, false
	}
	return s.rows[index], true
}

// Len returns the number of rows.
func (s *RowSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// GroupingDepth returns the deepest expanded grouping level.
func (s *RowSource) GroupingDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.depth
}

// Groups returns a copy of the grouping props.
func (s *RowSource) Groups() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.groups))
	for k, v := range s.groups {
		out[k] = v
	}
	return out
}

// Grouping returns the grouping state.
func (s *RowSource) Grouping() core.GroupingState {
	return core.GroupingState{Depth: s.GroupingDepth(), Groups: s.Groups()}
}

// SetRows replaces the rows.
func (s *RowSource) SetRows(rows []core.Row) {
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
}

// SetGrouping replaces the grouping state.
func (s *RowSource) SetGrouping(state core.GroupingState) {
	groups := make(map[string]bool, len(state.Groups))
	for k, v := range state.Groups {
		groups[k] = v
	}
	s.mu.Lock()
	s.depth = state.Depth
	s.groups = groups
	s.mu.Unlock()
}

// LoadRowsJSON parses a JSON array of objects into rows. Nested objects
// are flattened with dot separated props ("address.city"). Numbers become
// float64, booleans bool, null nil and arrays their raw JSON text.
func LoadRowsJSON(data []byte) ([]core.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("rows: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("rows: expected a JSON array, got %s", root.Type)
	}

	var rows []core.Row
	var err error
	idx := 0
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("rows: element %d is not an object", idx)
			return false
		}
		idx++
		row := core.Row{}
		flatten(row, "", value)
		rows = append(rows, row)
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func flatten(row core.Row, prefix string, obj gjson.Result) {
	obj.ForEach(func(key, value gjson.Result) bool {
		prop := key.String()
		if prefix != "" {
			prop = prefix + "." + prop
		}
		if value.IsObject() {
			flatten(row, prop, value)
			return true
		}
		row[prop] = jsonValue(value)
		return true
	})
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False, gjson.True:
		return v.Bool()
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return strings.TrimSpace(v.Raw)
	}
}

// LookupJSON reads prop from a raw JSON record using a gjson path. Dots in
// prop address nested objects.
func LookupJSON(record []byte, prop string) (any, bool) {
	res := gjson.GetBytes(record, prop)
	if !res.Exists() {
		return nil, false
	}
	return jsonValue(res), true
}
