package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/grid/core"
)

// toLua converts a cell value or row into a Lua value. Unknown types are
// passed as their text form.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case core.Row:
		return mapToTable(L, val)
	case map[string]any:
		return mapToTable(L, val)
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LString(core.FormatValue(val))
	}
}

func mapToTable(L *lua.LState, m map[string]any) *lua.LTable {
	t := L.CreateTable(0, len(m))
	// sorted so table iteration order is stable between calls
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.RawSetString(k, toLua(L, m[k]))
	}
	return t
}

// toGo converts a Lua value into a Go value. Tables become maps, or
// slices when their keys are the sequence 1..n.
func toGo(lv lua.LValue) any {
	return toGoVisited(lv, make(map[*lua.LTable]bool))
}

func toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGoVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[keyString(k)] = toGoVisited(v, visited)
	})
	return m
}

func keyString(k lua.LValue) string {
	switch kv := k.(type) {
	case lua.LString:
		return string(kv)
	case lua.LNumber:
		return fmt.Sprint(float64(kv))
	default:
		return k.String()
	}
}

// resultText converts a template result into cell text.
func resultText(lv lua.LValue) (string, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber, lua.LBool:
		return core.FormatValue(toGo(v)), nil
	default:
		return "", fmt.Errorf("template returned %s, want string", lv.Type())
	}
}

// propsFromTable reads the override props a property function returns:
//
//	{ class = "a b", style = { color = "red" }, attrs = { title = "x" } }
func propsFromTable(t *lua.LTable) core.Props {
	var props core.Props
	if class, ok := t.RawGetString("class").(lua.LString); ok {
		props.Class = string(class)
	}
	if style, ok := t.RawGetString("style").(*lua.LTable); ok {
		for _, kv := range sortedStrings(style) {
			props.Style = props.Style.Set(kv[0], kv[1])
		}
	}
	if attrs, ok := t.RawGetString("attrs").(*lua.LTable); ok {
		props.Attrs = make(map[string]string)
		for _, kv := range sortedStrings(attrs) {
			props.Attrs[kv[0]] = kv[1]
		}
	}
	return props
}

// sortedStrings returns the string-keyed entries of t in key order with
// their values as text.
func sortedStrings(t *lua.LTable) [][2]string {
	var out [][2]string
	t.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		out = append(out, [2]string{string(ks), core.FormatValue(toGo(v))})
	})
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
