package config

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/grouping"
)

// TemplateHost resolves the script functions columns refer to.
type TemplateHost interface {
	Has(name string) bool
	Template(name string) core.CellRenderer
	Properties(name string) core.CellPropertiesFunc
}

// BuildColumns turns the column declarations into grid columns. host may
// be nil when no column names a script function.
func (c *Config) BuildColumns(host TemplateHost) ([]*core.Column, error) {
	cols := make([]*core.Column, 0, len(c.Columns))
	for _, cc := range c.Columns {
		col := &core.Column{
			Prop:       cc.Prop,
			Name:       cc.Name,
			Size:       cc.Size,
			ReadOnly:   cc.ReadOnly,
			ColumnType: cc.Type,
		}
		if col.Size == 0 {
			col.Size = c.Grid.DefaultColumnSize
		}

		if cc.Template != "" {
			if host == nil || !host.Has(cc.Template) {
				return nil, fmt.Errorf("column %s: %w %q", cc.Prop, ErrUnknownTemplate, cc.Template)
			}
			col.CellTemplate = host.Template(cc.Template)
		}

		var hook core.CellPropertiesFunc
		if cc.Properties != "" {
			if host == nil || !host.Has(cc.Properties) {
				return nil, fmt.Errorf("column %s: %w %q", cc.Prop, ErrUnknownTemplate, cc.Properties)
			}
			hook = host.Properties(cc.Properties)
		}
		col.CellProperties = withClass(hook, cc.Class)

		cols = append(cols, col)
	}
	return cols, nil
}

// withClass adds class to the overrides of hook.
func withClass(hook core.CellPropertiesFunc, class string) core.CellPropertiesFunc {
	switch {
	case class == "":
		return hook
	case hook == nil:
		return func(core.CellModel) core.Props {
			return core.Props{Class: class}
		}
	}
	return func(m core.CellModel) core.Props {
		return column.Merge(core.Props{Class: class}, hook(m))
	}
}

// Groups returns the declared column groups.
func (c *Config) Groups() []grouping.ColumnGroup {
	if len(c.ColumnGroups) == 0 {
		return nil
	}
	out := make([]grouping.ColumnGroup, len(c.ColumnGroups))
	for i, g := range c.ColumnGroups {
		out[i] = grouping.ColumnGroup{Name: g.Name, Children: append([]string(nil), g.Children...)}
	}
	return out
}

// GroupProps returns the grouping props as the set the renderers expect.
func (c *Config) GroupProps() map[string]bool {
	if len(c.Grid.GroupBy) == 0 {
		return nil
	}
	out := make(map[string]bool, len(c.Grid.GroupBy))
	for _, p := range c.Grid.GroupBy {
		out[p] = true
	}
	return out
}
