package app

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/sjson"

	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/body"
)

// WriteTable prints a frame as a text table: one column per visible
// column and one line per rendered row. Group rows print their label in
// the first column.
func WriteTable(w io.Writer, f grid.Frame) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	header := make([]string, len(f.Header.Cells))
	slot := make(map[int]int, len(f.Header.Cells))
	for i, c := range f.Header.Cells {
		header[i] = c.Title()
		slot[c.Item.ItemIndex] = i
	}
	table.SetHeader(header)

	for _, row := range f.Body.Rows {
		line := make([]string, len(header))
		if row.Kind == body.RowGroup {
			if len(line) > 0 {
				line[0] = row.Header.Display()
			}
			table.Append(line)
			continue
		}
		for _, c := range row.Cells {
			if i, ok := slot[c.Column.ItemIndex]; ok {
				line[i] = c.Content.Display()
			}
		}
		table.Append(line)
	}
	table.Render()
}

// FrameJSON encodes a frame as JSON with the header cells, column
// groups, body rows and diagnostics.
func FrameJSON(f grid.Frame) ([]byte, error) {
	out := []byte(`{}`)
	set := func(path string, v any) error {
		var err error
		out, err = sjson.SetBytes(out, path, v)
		return err
	}

	if err := set("header.class", f.Header.Class); err != nil {
		return nil, err
	}
	if f.Header.GroupClass != "" {
		if err := set("header.groupClass", f.Header.GroupClass); err != nil {
			return nil, err
		}
	}
	if err := set("header.cells", []any{}); err != nil {
		return nil, err
	}
	for i, c := range f.Header.Cells {
		p := fmt.Sprintf("header.cells.%d.", i)
		if err := setAll(set, p, map[string]any{
			"index":  c.Item.ItemIndex,
			"start":  c.Item.Start,
			"size":   c.Item.Size,
			"title":  c.Title(),
			"active": c.Active,
		}); err != nil {
			return nil, err
		}
	}
	for i, g := range f.Header.Groups {
		p := fmt.Sprintf("header.groups.%d.", i)
		if err := setAll(set, p, map[string]any{
			"name":  g.Name,
			"first": g.StartIndex,
			"last":  g.EndIndex,
			"start": g.Start,
			"size":  g.Size,
		}); err != nil {
			return nil, err
		}
	}

	if err := set("rows", []any{}); err != nil {
		return nil, err
	}
	for i, row := range f.Body.Rows {
		p := fmt.Sprintf("rows.%d.", i)
		if err := setAll(set, p, map[string]any{
			"index": row.Index,
			"start": row.Start,
			"size":  row.Size,
		}); err != nil {
			return nil, err
		}
		if row.Kind == body.RowGroup {
			if err := setAll(set, p, map[string]any{
				"group": row.Header.Display(),
				"path":  row.Header.Group.Path,
			}); err != nil {
				return nil, err
			}
			continue
		}
		if row.Class != "" {
			if err := set(p+"class", row.Class); err != nil {
				return nil, err
			}
		}
		for j, c := range row.Cells {
			cp := fmt.Sprintf("%scells.%d.", p, j)
			if err := setAll(set, cp, map[string]any{
				"col":   c.Column.ItemIndex,
				"kind":  c.Content.Kind.String(),
				"text":  c.Content.Display(),
				"attrs": c.Props.AttrMap(),
			}); err != nil {
				return nil, err
			}
		}
	}

	for i, d := range f.Body.Diagnostics {
		if err := set(fmt.Sprintf("diagnostics.%d", i), d.Error()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setAll(set func(string, any) error, prefix string, values map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if err := set(prefix+k, values[k]); err != nil {
			return err
		}
	}
	return nil
}
