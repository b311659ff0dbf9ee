package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/logging"
)

// EnvPrefix prefixes the environment variables ApplyEnv reads.
const EnvPrefix = "GRIDSTORM_"

// Config is the complete grid configuration.
type Config struct {
	Grid         GridConfig          `toml:"grid"`
	Log          LogConfig           `toml:"log"`
	Columns      []ColumnConfig      `toml:"columns"`
	ColumnGroups []ColumnGroupConfig `toml:"column_groups"`
	Plugins      PluginConfig        `toml:"plugins"`

	// path is the file the config was loaded from.
	path string
}

// GridConfig holds the rendering options.
type GridConfig struct {
	ReadOnly     bool   `toml:"readonly"`
	CanDrag      bool   `toml:"can_drag"`
	CanResize    bool   `toml:"can_resize"`
	ColumnFilter bool   `toml:"column_filter"`
	RowClass     string `toml:"row_class"`

	// RowSize and DefaultColumnSize are in surface units.
	RowSize           float64 `toml:"row_size"`
	DefaultColumnSize float64 `toml:"default_column_size"`

	// GroupBy lists the grouping props, outermost first.
	GroupBy []string `toml:"group_by"`
	// Collapsed lists group paths shown without their members.
	Collapsed []string `toml:"collapsed"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ColumnConfig declares one column.
type ColumnConfig struct {
	Prop     string  `toml:"prop"`
	Name     string  `toml:"name"`
	Size     float64 `toml:"size"`
	ReadOnly bool    `toml:"readonly"`
	Type     string  `toml:"type"`

	// Template and Properties name Lua functions.
	Template   string `toml:"template"`
	Properties string `toml:"properties"`

	// Class is added to every cell of the column.
	Class string `toml:"class"`
}

// ColumnGroupConfig declares a header spanning several columns.
type ColumnGroupConfig struct {
	Name     string   `toml:"name"`
	Children []string `toml:"children"`
}

// PluginConfig lists the Lua scripts to load.
type PluginConfig struct {
	Scripts []string `toml:"scripts"`
	// TimeoutMS bounds every script call. Zero keeps the host default.
	TimeoutMS int `toml:"timeout_ms"`
}

// Default returns the configuration used for missing keys.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			CanDrag:           true,
			CanResize:         true,
			RowSize:           1,
			DefaultColumnSize: 12,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Parse parses TOML data on top of Default.
func Parse(data []byte) (*Config, error) {
	return parse("<input>", data)
}

func parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, parseError(source, err)
	}
	return cfg, nil
}

func parseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	var strictErr *toml.StrictMissingError
	switch {
	case errors.As(err, &decErr):
		pe.Line, pe.Column = decErr.Position()
	case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
		pe.Line, pe.Column = strictErr.Errors[0].Position()
		pe.Message = "unknown key " + strings.Join(strictErr.Errors[0].Key(), ".")
	}
	return pe
}

// Path returns the file the config was loaded from, empty when parsed
// from memory.
func (c *Config) Path() string {
	return c.path
}

// ScriptPaths returns the plugin scripts resolved against the directory
// of the config file.
func (c *Config) ScriptPaths() []string {
	out := make([]string, len(c.Plugins.Scripts))
	for i, s := range c.Plugins.Scripts {
		if c.path != "" && !filepath.IsAbs(s) {
			s = filepath.Join(filepath.Dir(c.path), s)
		}
		out[i] = s
	}
	return out
}

// Expanded reports whether a group path shows its members.
func (c *Config) Expanded(path string) bool {
	for _, p := range c.Grid.Collapsed {
		if p == path {
			return false
		}
	}
	return true
}

// Validate checks the configuration. All failures are reported together.
// Grouping props that match no column are tolerated; they simply never
// act as group columns.
func (c *Config) Validate() error {
	var errs core.ErrorList

	if c.Grid.RowSize <= 0 {
		errs.Add(&ValidationError{Path: "grid.row_size", Message: "must be positive", Value: c.Grid.RowSize, Code: ErrCodeOutOfRange})
	}
	if c.Grid.DefaultColumnSize <= 0 {
		errs.Add(&ValidationError{Path: "grid.default_column_size", Message: "must be positive", Value: c.Grid.DefaultColumnSize, Code: ErrCodeOutOfRange})
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs.Add(&ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level, Code: ErrCodeInvalidEnum})
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs.Add(&ValidationError{Path: "log.format", Message: "must be text or json", Value: c.Log.Format, Code: ErrCodeInvalidEnum})
	}
	if c.Plugins.TimeoutMS < 0 {
		errs.Add(&ValidationError{Path: "plugins.timeout_ms", Message: "must not be negative", Value: c.Plugins.TimeoutMS, Code: ErrCodeOutOfRange})
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		path := "columns[" + strconv.Itoa(i) + "]"
		switch {
		case col.Prop == "":
			errs.Add(&ValidationError{Path: path + ".prop", Message: "is required", Value: col.Prop, Code: ErrCodeRequiredMissing})
		case seen[col.Prop]:
			errs.Add(&ValidationError{Path: path + ".prop", Message: "is not unique", Value: col.Prop, Code: ErrCodeDuplicate})
		}
		seen[col.Prop] = true
		if col.Size < 0 {
			errs.Add(&ValidationError{Path: path + ".size", Message: "must not be negative", Value: col.Size, Code: ErrCodeOutOfRange})
		}
	}

	for i, g := range c.ColumnGroups {
		if g.Name == "" {
			errs.Add(&ValidationError{Path: "column_groups[" + strconv.Itoa(i) + "].name", Message: "is required", Value: g.Name, Code: ErrCodeRequiredMissing})
		}
	}

	return errs.AsError()
}

// ApplyEnv overrides settings from GRIDSTORM_ environment variables:
// LOG_LEVEL, LOG_FORMAT and READONLY. lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvPrefix + "READONLY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREADONLY: %w", EnvPrefix, err)
		}
		c.Grid.ReadOnly = b
	}
	return nil
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
