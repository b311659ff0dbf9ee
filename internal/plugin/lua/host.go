package lua

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/logging"
)

// DefaultTimeout bounds a single script load or call.
const DefaultTimeout = 250 * time.Millisecond

// Host runs cell scripts in a sandboxed Lua state.
type Host struct {
	mu sync.Mutex

	L       *lua.LState
	timeout time.Duration
	log     *logging.Logger

	builtins map[string]bool
	scripts  []string
	closed   bool
}

// Option configures a Host.
type Option func(*Host)

// WithTimeout sets the execution timeout of every load and call.
// Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithLogger sets the logger script output and failures are written to.
func WithLogger(log *logging.Logger) Option {
	return func(h *Host) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHost creates a host with an empty sandboxed state.
func NewHost(opts ...Option) *Host {
	h := &Host{
		timeout: DefaultTimeout,
		log:     logging.Null(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("lua")

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	installSandbox(h.L, h.log)
	h.builtins = globalNames(h.L)
	return h
}

// LoadString runs a chunk of Lua code. name identifies the chunk in
// errors and in Scripts.
func (h *Host) LoadString(name, code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if err := h.exec(func() error { return h.L.DoString(code) }); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	h.scripts = append(h.scripts, name)
	h.log.WithField("script", name).Debug("script loaded")
	return nil
}

// LoadFile runs a Lua file.
func (h *Host) LoadFile(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if err := h.exec(func() error { return h.L.DoFile(path) }); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	h.scripts = append(h.scripts, path)
	h.log.WithField("script", path).Info("script loaded")
	return nil
}

// Scripts returns the names of the loaded scripts in load order.
func (h *Host) Scripts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.scripts...)
}

// Has reports whether name is a global Lua function.
func (h *Host) Has(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	return h.L.GetGlobal(name).Type() == lua.LTFunction
}

// Functions returns the sorted names of the global functions defined by
// loaded scripts.
func (h *Host) Functions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	var out []string
	for name := range globalNames(h.L) {
		if !h.builtins[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Template binds the global function fn as a cell renderer.
func (h *Host) Template(fn string) core.CellRenderer {
	return core.CellRendererFunc(func(model core.CellModel) (string, error) {
		lv, err := h.call(fn, model)
		if err != nil {
			return "", err
		}
		return resultText(lv)
	})
}

// Properties binds the global function fn as a cell property hook.
// Failures are logged and yield no overrides.
func (h *Host) Properties(fn string) core.CellPropertiesFunc {
	return func(model core.CellModel) core.Props {
		lv, err := h.call(fn, model)
		if err != nil {
			h.log.WithError(err).WithFields(map[string]any{
				"fn":  fn,
				"row": model.RowIndex,
				"col": model.ColIndex,
			}).Warn("cell properties failed")
			return core.Props{}
		}
		t, ok := lv.(*lua.LTable)
		if !ok {
			return core.Props{}
		}
		return propsFromTable(t)
	}
}

// Close releases the Lua state. Later calls return ErrHostClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}

// call invokes fn(value, prop, rowIndex, colIndex, row, columnType) and returns its
// first result.
func (h *Host) call(fn string, model core.CellModel) (lua.LValue, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return lua.LNil, ErrHostClosed
	}
	f := h.L.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%q: %w", fn, ErrNotFunction)
	}

	args := []lua.LValue{
		toLua(h.L, model.Value),
		lua.LString(model.Prop),
		lua.LNumber(model.RowIndex),
		lua.LNumber(model.ColIndex),
		toLua(h.L, model.Row),
		lua.LString(columnType(model)),
	}

	result := lua.LValue(lua.LNil)
	err := h.exec(func() error {
		if err := h.L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		result = h.L.Get(-1)
		h.L.Pop(1)
		return nil
	})
	if err != nil {
		return lua.LNil, fmt.Errorf("call %s: %w", fn, err)
	}
	return result, nil
}

// exec runs fn under the host timeout and recovers panics from the
// interpreter. The caller holds h.mu.
func (h *Host) exec(fn func() error) (err error) {
	if h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer func() {
			h.L.RemoveContext()
			if ctx.Err() != nil && err != nil {
				err = fmt.Errorf("%w after %s", ErrTimeout, h.timeout)
			}
		}()
	}

	top := h.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil {
			h.L.SetTop(top)
		}
	}()
	return fn()
}

func columnType(model core.CellModel) string {
	if model.Column == nil {
		return ""
	}
	return model.Column.ColumnType
}
