package grouping

import (
	"github.com/dshills/gridstorm/internal/grid/core"
)

// PathSeparator joins group values into a group path.
const PathSeparator = "/"

// Build groups rows by props, in order, and returns the flattened rows
// with a header row before every group. Groups appear in order of first
// occurrence. expanded decides whether a group path shows its members;
// nil expands everything. depth is the grouping depth the data store
// reports: the number of props when at least one group exists.
func Build(rows []core.Row, props []string, expanded func(path string) bool) (out []core.Row, depth int) {
	if len(props) == 0 {
		return rows, 0
	}
	if expanded == nil {
		expanded = func(string) bool { return true }
	}
	out = make([]core.Row, 0, len(rows))
	out = build(out, rows, props, 0, "", expanded)
	if len(out) > 0 {
		depth = len(props)
	}
	return out, depth
}

func build(out, rows []core.Row, props []string, level int, parent string, expanded func(string) bool) []core.Row {
	if level == len(props) {
		return append(out, rows...)
	}

	prop := props[level]
	var keys []string
	members := make(map[string][]core.Row)
	for _, r := range rows {
		key := r.String(prop)
		if _, seen := members[key]; !seen {
			keys = append(keys, key)
		}
		members[key] = append(members[key], r)
	}

	for _, key := range keys {
		path := key
		if parent != "" {
			path = parent + PathSeparator + key
		}
		open := expanded(path)
		out = append(out, NewGroupRow(key, path, level, open, len(members[key])))
		if open {
			out = build(out, members[key], props, level+1, path, expanded)
		}
	}
	return out
}
