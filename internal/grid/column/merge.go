package column

import "github.com/dshills/gridstorm/internal/grid/core"

// Merge combines default cell props with overrides. Each key has a fixed
// precedence:
//
//	DataCol, DataRow     always base
//	Class                base classes, then override classes
//	Style.Transform      override when set, else base
//	Style.Width          override when set, else base
//	Style.PaddingLeft    override when set, else base
//	Style.Extra          base entries, then override entries; an override
//	                     replaces a base entry of the same key in place
//	Attrs                union; override wins per key
func Merge(base, override core.Props) core.Props {
	out := core.Props{
		DataCol: base.DataCol,
		DataRow: base.DataRow,
		Class:   core.JoinClass(base.Class, override.Class),
	}

	out.Style = mergeStyle(base.Style, override.Style)

	if len(base.Attrs) > 0 || len(override.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(base.Attrs)+len(override.Attrs))
		for k, v := range base.Attrs {
			out.Attrs[k] = v
		}
		for k, v := range override.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

func mergeStyle(base, override core.Style) core.Style {
	out := core.Style{
		Transform:   pick(override.Transform, base.Transform),
		Width:       pick(override.Width, base.Width),
		PaddingLeft: pick(override.PaddingLeft, base.PaddingLeft),
	}
	if len(base.Extra) > 0 {
		out.Extra = make([]core.StyleEntry, len(base.Extra))
		copy(out.Extra, base.Extra)
	}
	for _, e := range override.Extra {
		out = out.Set(e.Key, e.Value)
	}
	return out
}

func pick(override, base string) string {
	if override != "" {
		return override
	}
	return base
}
