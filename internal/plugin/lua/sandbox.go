package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/logging"
)

// removedGlobals load code from outside the host.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "module"}

// requirable are the modules require resolves, all opened at startup.
var requirable = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// openSafeLibraries opens the libraries scripts may use. io, os, debug
// and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes the loaders and replaces require and print.
func installSandbox(L *lua.LState, log *logging.Logger) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !requirable[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		log.Debug("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// globalNames returns the names of all global functions.
func globalNames(L *lua.LState) map[string]bool {
	names := make(map[string]bool)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && v.Type() == lua.LTFunction {
			names[string(ks)] = true
		}
	})
	return names
}
