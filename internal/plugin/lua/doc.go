// Package lua hosts Lua scripts that render and style grid cells.
//
// A Host owns one sandboxed gopher-lua state. Scripts are loaded once and
// their global functions are then bound to columns:
//
//	host := lua.NewHost(lua.WithLogger(log))
//	defer host.Close()
//
//	if err := host.LoadFile("render.lua"); err != nil {
//	    return err
//	}
//	col.CellTemplate = host.Template("upper")
//
// # Calling convention
//
// Template and property functions are called as
//
//	fn(value, prop, rowIndex, colIndex, row, columnType)
//
// where row is a table of the row record and columnType is the column's
// configured type, empty when unset. A template returns the cell
// text; nil renders an empty cell. A property function returns a table
// with optional class, style and attrs fields.
//
// # Sandbox
//
// Only the base, string, table and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, require only resolves the
// opened libraries, and print writes to the host logger. Every call runs
// under the host timeout.
//
// gopher-lua states are not goroutine-safe; the host serialises calls.
package lua
