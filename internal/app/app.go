package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
	"github.com/dshills/gridstorm/internal/logging"
	"github.com/dshills/gridstorm/internal/plugin/lua"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses defaults.
	ConfigPath string

	// DataPath is a JSON array of row objects.
	DataPath string

	// LogLevel and LogFormat override the configured logging when set.
	LogLevel  string
	LogFormat string

	// LogOutput receives log output. Defaults to os.Stderr.
	LogOutput io.Writer

	// Lookup reads environment overrides. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Application is one configured grid with its plugin host.
type Application struct {
	mu sync.Mutex

	opts Options
	cfg  *config.Config
	log  *logging.Logger
	host *lua.Host
	grid *grid.Grid

	closed bool
}

// New loads the configuration, plugins and data and builds the grid.
func New(opts Options) (*Application, error) {
	if opts.DataPath == "" {
		return nil, ErrNoData
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	a := &Application{opts: opts}
	if err := a.bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// bootstrap initializes the components in dependency order.
func (a *Application) bootstrap() error {
	cfg, err := a.loadConfig(a.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	a.cfg = cfg
	a.log = logging.New(a.logConfig(cfg))

	host, columns, err := a.plugins(cfg)
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	a.host = host

	raw, err := os.ReadFile(a.opts.DataPath)
	if err != nil {
		host.Close()
		return &InitError{Component: "data", Err: err}
	}
	rows, err := store.LoadRowsJSON(raw)
	if err != nil {
		host.Close()
		return &InitError{Component: "data", Err: fmt.Errorf("%s: %w", a.opts.DataPath, err)}
	}

	g, err := grid.New(cfg, rows, columns, grid.WithLogger(a.log))
	if err != nil {
		host.Close()
		return &InitError{Component: "grid", Err: err}
	}
	a.grid = g

	a.log.WithFields(map[string]any{
		"config":  cfg.Path(),
		"rows":    len(rows),
		"columns": len(columns),
		"scripts": len(host.Scripts()),
	}).Info("grid ready")
	return nil
}

// loadConfig reads, overrides and validates the configuration.
func (a *Application) loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(a.opts.Lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *Application) logConfig(cfg *config.Config) logging.Config {
	lc := cfg.Logging()
	if a.opts.LogLevel != "" {
		lc.Level = a.opts.LogLevel
	}
	if a.opts.LogFormat != "" {
		lc.Format = a.opts.LogFormat
	}
	lc.Output = a.opts.LogOutput
	return lc
}

// plugins starts a Lua host with the configured scripts and binds the
// columns to it.
func (a *Application) plugins(cfg *config.Config) (*lua.Host, []*core.Column, error) {
	opts := []lua.Option{lua.WithLogger(a.log)}
	if cfg.Plugins.TimeoutMS > 0 {
		opts = append(opts, lua.WithTimeout(time.Duration(cfg.Plugins.TimeoutMS)*time.Millisecond))
	}
	host := lua.NewHost(opts...)

	for _, path := range cfg.ScriptPaths() {
		if err := host.LoadFile(path); err != nil {
			host.Close()
			return nil, nil, err
		}
	}
	columns, err := cfg.BuildColumns(host)
	if err != nil {
		host.Close()
		return nil, nil, err
	}
	return host, columns, nil
}

// Reload applies a new configuration. The previous plugin host is kept
// when the new one fails to start.
func (a *Application) Reload(cfg *config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrShutdown
	}

	if err := cfg.ApplyEnv(a.opts.Lookup); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	host, columns, err := a.plugins(cfg)
	if err != nil {
		return err
	}

	a.grid.Reconfigure(cfg, columns)
	old := a.host
	a.host = host
	a.cfg = cfg
	old.Close()

	a.log.WithField("columns", len(columns)).Info("configuration reloaded")
	return nil
}

// Watch reloads the configuration whenever its file changes and calls
// onReload after each successful reload.
func (a *Application) Watch(onReload func()) (*config.Watcher, error) {
	if a.opts.ConfigPath == "" {
		return nil, fmt.Errorf("watch: no configuration file")
	}
	return config.NewWatcher(a.opts.ConfigPath, func(cfg *config.Config) {
		if err := a.Reload(cfg); err != nil {
			a.log.WithError(err).Warn("config reload rejected")
			return
		}
		if onReload != nil {
			onReload()
		}
	}, config.WithWatcherLogger(a.log))
}

// Grid returns the grid.
func (a *Application) Grid() *grid.Grid {
	return a.grid
}

// Config returns the active configuration.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.log
}

// Shutdown releases the grid and plugin host. It is safe to call more
// than once.
func (a *Application) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if err := a.grid.Close(); err != nil {
		a.log.WithError(err).Debug("grid close")
	}
	a.host.Close()
}
