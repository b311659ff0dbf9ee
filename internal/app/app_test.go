package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/gridstorm/internal/config"
)

const testConfig = `
[grid]
default_column_size = 8

[[columns]]
prop = "name"
name = "Name"
size = 10
template = "upper"

[[columns]]
prop = "team"

[plugins]
scripts = ["render.lua"]
`

const testScript = `
function upper(value, prop, row, col, data)
  return string.upper(value)
end
`

const testRows = `[
  {"name": "ada", "team": "dev"},
  {"name": "bob", "team": "ops"},
  {"name": "cy", "team": "dev"}
]`

type env map[string]string

func (e env) lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestApp(t *testing.T, cfg string, e env) (*Application, *bytes.Buffer) {
	t.Helper()
	dir := writeFiles(t, map[string]string{
		"grid.toml":  cfg,
		"render.lua": testScript,
		"rows.json":  testRows,
	})
	var logs bytes.Buffer
	a, err := New(Options{
		ConfigPath: filepath.Join(dir, "grid.toml"),
		DataPath:   filepath.Join(dir, "rows.json"),
		LogOutput:  &logs,
		Lookup:     e.lookup,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(a.Shutdown)
	a.Grid().Resize(40, 10)
	return a, &logs
}

func TestNewRendersFrame(t *testing.T) {
	a, logs := newTestApp(t, testConfig, nil)

	if !strings.Contains(logs.String(), "grid ready") {
		t.Errorf("startup not logged: %q", logs.String())
	}

	raw, err := FrameJSON(a.Grid().Render())
	if err != nil {
		t.Fatalf("FrameJSON() error = %v", err)
	}
	doc := gjson.ParseBytes(raw)
	checks := map[string]string{
		"header.cells.#":       "2",
		"header.cells.0.title": "Name",
		"header.cells.1.title": "team",
		"header.cells.1.start": "10",
		"rows.#":               "3",
		"rows.0.cells.0.text":  "ADA",
		"rows.0.cells.0.kind":  "custom",
		"rows.0.cells.1.text":  "dev",
		"rows.0.cells.1.kind":  "default",
		"rows.2.cells.0.text":  "CY",
	}
	for path, want := range checks {
		if got := doc.Get(path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if got := doc.Get(`rows.1.cells.0.attrs.data-rgRow`).String(); got != "1" {
		t.Errorf("data-rgRow attr = %q", got)
	}
	if doc.Get("header.groupClass").Exists() {
		t.Error("groupClass exported without column groups")
	}
}

func TestFrameJSONGroupClass(t *testing.T) {
	cfg := testConfig + `
[[column_groups]]
name = "Who"
children = ["name", "team"]
`
	a, _ := newTestApp(t, cfg, nil)

	raw, err := FrameJSON(a.Grid().Render())
	if err != nil {
		t.Fatalf("FrameJSON() error = %v", err)
	}
	if got := gjson.GetBytes(raw, "header.groupClass").String(); got != "group-row" {
		t.Errorf("header.groupClass = %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	cfg := testConfig + "\n"
	cfg = strings.Replace(cfg, "default_column_size = 8", "default_column_size = 8\ngroup_by = [\"team\"]", 1)
	a, _ := newTestApp(t, cfg, nil)

	var out bytes.Buffer
	WriteTable(&out, a.Grid().Render())
	text := out.String()
	for _, want := range []string{"Name", "team", "▾ dev (2)", "ADA", "CY", "▾ ops (1)", "BOB"} {
		if !strings.Contains(text, want) {
			t.Errorf("table missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "▾ dev (2)") > strings.Index(text, "ADA") {
		t.Errorf("group label should precede its rows:\n%s", text)
	}
}

func TestEnvOverride(t *testing.T) {
	a, _ := newTestApp(t, testConfig, env{"GRIDSTORM_READONLY": "true"})

	if !a.Config().Grid.ReadOnly {
		t.Fatal("GRIDSTORM_READONLY not applied")
	}
	f := a.Grid().Render()
	for _, row := range f.Body.Rows {
		for _, c := range row.Cells {
			if c.Content.Draggable {
				t.Errorf("cell %d/%d draggable in readonly grid", row.Index, c.Column.ItemIndex)
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoData) {
		t.Errorf("New() without data error = %v, want ErrNoData", err)
	}

	tests := []struct {
		name      string
		files     map[string]string
		component string
	}{
		{
			name:      "invalid config",
			files:     map[string]string{"grid.toml": "[grid]\nrow_size = -1\n", "rows.json": testRows},
			component: "config",
		},
		{
			name:      "missing script",
			files:     map[string]string{"grid.toml": testConfig, "rows.json": testRows},
			component: "plugins",
		},
		{
			name:      "bad rows",
			files:     map[string]string{"grid.toml": testConfig, "render.lua": testScript, "rows.json": `{"name": "ada"}`},
			component: "data",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			_, err := New(Options{
				ConfigPath: filepath.Join(dir, "grid.toml"),
				DataPath:   filepath.Join(dir, "rows.json"),
				LogOutput:  &bytes.Buffer{},
				Lookup:     env(nil).lookup,
			})
			var ie *InitError
			if !errors.As(err, &ie) {
				t.Fatalf("error = %v, want *InitError", err)
			}
			if ie.Component != tt.component {
				t.Errorf("component = %q, want %q", ie.Component, tt.component)
			}
		})
	}
}

func TestReload(t *testing.T) {
	a, _ := newTestApp(t, testConfig, nil)

	next, err := config.Parse([]byte(`
[[columns]]
prop = "team"
size = 6
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Reload(next); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	cols := a.Grid().Columns()
	if len(cols) != 1 || cols[0].Prop != "team" {
		t.Errorf("columns after reload = %+v", cols)
	}
	if got := a.Grid().ColumnSize(0); got != 6 {
		t.Errorf("ColumnSize(0) = %v, want 6", got)
	}

	bad := config.Default()
	bad.Grid.RowSize = 0
	if err := a.Reload(bad); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("Reload(invalid) error = %v", err)
	}
	if cols := a.Grid().Columns(); len(cols) != 1 {
		t.Errorf("invalid reload changed columns: %+v", cols)
	}

	a.Shutdown()
	a.Shutdown()
	if err := a.Reload(next); !errors.Is(err, ErrShutdown) {
		t.Errorf("Reload() after shutdown error = %v", err)
	}
}
