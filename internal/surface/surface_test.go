package surface

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid"
	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/events"
)

type fixture struct {
	screen tcell.SimulationScreen
	grid   *grid.Grid
	surf   *Surface
	events []any
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(30, 6)

	f := &fixture{screen: screen}
	bus := events.NewBus()
	if _, err := bus.SubscribeFunc("grid.**", func(_ context.Context, ev any) error {
		f.events = append(f.events, ev)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	data := []core.Row{
		{"name": "ada", "team": "dev"},
		{"name": "bob", "team": "ops"},
		{"name": "cy", "team": "dev"},
	}
	cols := []*core.Column{{Prop: "name", Name: "Name", Size: 10}, {Prop: "team", Size: 12}}
	g, err := grid.New(cfg, data, cols, grid.WithBus(bus))
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	t.Cleanup(func() { g.Close() })

	f.grid = g
	f.surf = New(screen, g)
	f.surf.Layout()
	f.surf.Draw()
	return f
}

func (f *fixture) line(y int) string {
	w, _ := f.screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, width := f.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if width == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func (f *fixture) style(x, y int) tcell.Style {
	_, _, style, _ := f.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return style
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) {
	f.surf.HandleEvent(context.Background(), tcell.NewEventKey(k, r, mod))
	f.surf.Draw()
}

func (f *fixture) mouse(x, y int, btn tcell.ButtonMask) {
	f.surf.HandleEvent(context.Background(), tcell.NewEventMouse(x, y, btn, tcell.ModNone))
	f.surf.Draw()
}

func reversed(s tcell.Style) bool {
	_, _, attrs := s.Decompose()
	return attrs&tcell.AttrReverse != 0
}

func TestDraw(t *testing.T) {
	f := newFixture(t, config.Default())

	if got := f.line(0); !strings.HasPrefix(got, "Name") || !strings.Contains(got, "team") {
		t.Errorf("header line = %q", got)
	}
	want := []string{"ada", "bob", "cy"}
	for i, w := range want {
		if got := f.line(i + 1); !strings.HasPrefix(got, w) {
			t.Errorf("line %d = %q, want prefix %q", i+1, got, w)
		}
	}
	if got := f.line(1); !strings.Contains(got, "dev") {
		t.Errorf("team cell missing: %q", got)
	}
}

func TestDrawGroups(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.GroupBy = []string{"team"}
	cfg.ColumnGroups = []config.ColumnGroupConfig{{Name: "Person", Children: []string{"name", "team"}}}
	f := newFixture(t, cfg)

	if got := f.line(0); !strings.HasPrefix(got, "Person") {
		t.Errorf("group line = %q", got)
	}
	if got := f.line(1); !strings.HasPrefix(got, "Name") {
		t.Errorf("header line = %q", got)
	}
	if got := f.line(2); got != "▾ dev (2)" {
		t.Errorf("group row = %q", got)
	}
	if got := f.line(3); !strings.HasPrefix(got, " ada") {
		t.Errorf("grouped data row should be indented: %q", got)
	}

	f.mouse(3, 2, tcell.Button1)
	f.mouse(3, 2, tcell.ButtonNone)
	if got := f.line(2); got != "▸ dev (2)" {
		t.Errorf("collapsed group row = %q", got)
	}
	if got := f.line(3); got != "▾ ops (1)" {
		t.Errorf("row after collapsed group = %q", got)
	}
}

func TestKeyboardSelection(t *testing.T) {
	f := newFixture(t, config.Default())

	f.key(tcell.KeyDown, 0, tcell.ModNone)
	sel, ok := f.grid.Selection()
	if !ok || sel != (core.SelectionRange{Y: 1, Y1: 1}) {
		t.Errorf("selection = %+v, %v", sel, ok)
	}
	if !reversed(f.style(0, 2)) || reversed(f.style(0, 1)) {
		t.Error("focused row not painted reversed")
	}

	f.key(tcell.KeyDown, 0, tcell.ModShift)
	f.key(tcell.KeyRight, 0, tcell.ModShift)
	sel, _ = f.grid.Selection()
	if sel != (core.SelectionRange{Y: 1, Y1: 2, X: 0, X1: 1}) {
		t.Errorf("extended selection = %+v", sel)
	}
	if !reversed(f.style(12, 0)) {
		t.Error("active header cell not highlighted")
	}
}

func TestKeyboardResize(t *testing.T) {
	cfg := config.Default()
	cfg.ColumnGroups = []config.ColumnGroupConfig{{Name: "All", Children: []string{"name", "team"}}}
	f := newFixture(t, cfg)

	f.key(tcell.KeyRune, '+', tcell.ModNone)
	if got := f.grid.ColumnSize(0); got != 11 {
		t.Errorf("ColumnSize(0) after + = %v", got)
	}
	f.key(tcell.KeyRune, '-', tcell.ModNone)
	f.key(tcell.KeyRune, '-', tcell.ModNone)
	if got := f.grid.ColumnSize(0); got != 9 {
		t.Errorf("ColumnSize(0) after - - = %v", got)
	}

	f.key(tcell.KeyRune, ']', tcell.ModNone)
	if f.grid.ColumnSize(0) != 10 || f.grid.ColumnSize(1) != 13 {
		t.Errorf("sizes after group grow = %v, %v", f.grid.ColumnSize(0), f.grid.ColumnSize(1))
	}
}

func TestKeyboardScrollColumns(t *testing.T) {
	f := newFixture(t, config.Default())
	f.grid.Header().Resize(context.Background(), 0, 25)
	f.surf.Draw()

	f.key(tcell.KeyRune, '>', tcell.ModNone)
	if got := f.surf.Frame().ColOffset; got != 7 {
		t.Errorf("ColOffset after > = %v, want 7", got)
	}
	if got := f.line(0); strings.Index(got, "team") != 18 || strings.Contains(got, "Name") {
		t.Errorf("header after scroll = %q", got)
	}
	f.key(tcell.KeyRune, '<', tcell.ModNone)
	if got := f.surf.Frame().ColOffset; got != 0 {
		t.Errorf("ColOffset after < = %v, want 0", got)
	}
}

func TestHeaderClicks(t *testing.T) {
	f := newFixture(t, config.Default())
	now := time.Unix(1000, 0)
	f.surf.now = func() time.Time { return now }

	f.mouse(2, 0, tcell.Button1)
	f.mouse(2, 0, tcell.ButtonNone)
	now = now.Add(100 * time.Millisecond)
	f.mouse(2, 0, tcell.Button1)
	f.mouse(2, 0, tcell.ButtonNone)

	var topics []events.Topic
	for _, e := range f.events {
		if ev, ok := e.(events.Event[events.HeaderClick]); ok {
			topics = append(topics, ev.Type)
			if ev.Payload.Prop != "name" {
				t.Errorf("click prop = %q", ev.Payload.Prop)
			}
		}
	}
	want := []events.Topic{events.TopicHeaderClick, events.TopicHeaderDblClick}
	if len(topics) != 2 || topics[0] != want[0] || topics[1] != want[1] {
		t.Errorf("topics = %v, want %v", topics, want)
	}
}

func TestHeaderDragResize(t *testing.T) {
	f := newFixture(t, config.Default())

	f.mouse(9, 0, tcell.Button1)
	f.mouse(12, 0, tcell.Button1)
	f.mouse(14, 0, tcell.ButtonNone)

	if got := f.grid.ColumnSize(0); got != 15 {
		t.Errorf("ColumnSize(0) = %v, want 15", got)
	}
	if got := f.line(0); !strings.HasPrefix(got, "Name") || strings.Index(got, "team") != 15 {
		t.Errorf("header after resize = %q", got)
	}
}

func TestBodyPressStartsDrag(t *testing.T) {
	f := newFixture(t, config.Default())

	f.mouse(12, 2, tcell.Button1)
	f.mouse(12, 2, tcell.ButtonNone)

	sel, _ := f.grid.Selection()
	if sel != (core.SelectionRange{Y: 1, Y1: 1, X: 1, X1: 1}) {
		t.Errorf("selection = %+v", sel)
	}
	var drags []events.DragStartCell
	for _, e := range f.events {
		if ev, ok := e.(events.Event[events.DragStartCell]); ok {
			drags = append(drags, ev.Payload)
		}
	}
	if len(drags) != 1 || drags[0].RowIndex != 1 || drags[0].ColIndex != 1 {
		t.Errorf("drags = %+v", drags)
	}
}

func TestReadOnlyBodyPressDoesNotDrag(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.ReadOnly = true
	f := newFixture(t, cfg)

	f.mouse(1, 1, tcell.Button1)
	for _, e := range f.events {
		if _, ok := e.(events.Event[events.DragStartCell]); ok {
			t.Error("readonly grid emitted a drag")
		}
	}
}

func TestRunQuits(t *testing.T) {
	f := newFixture(t, config.Default())

	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	done := make(chan error, 1)
	go func() { done <- f.surf.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not quit")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 5, "hello"},
		{"hello world", 5, "hell…"},
		{"日本語", 4, "日…"},
		{"cafés", 4, "caf…"},
		{"café", 4, "café"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCellStyle(t *testing.T) {
	theme := DefaultTheme()
	style := core.Style{}.Set("color", "red").Set("background", "#000000")

	fg, bg, _ := theme.cellStyle(tcell.StyleDefault, style, false).Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("colors = %v, %v", fg, bg)
	}

	_, focusedBg, _ := theme.cellStyle(tcell.StyleDefault, style, true).Decompose()
	if focusedBg == bg {
		t.Error("focus color not blended into background")
	}
	if !reversed(theme.cellStyle(tcell.StyleDefault, core.Style{}, true)) {
		t.Error("focused cell without background should be reversed")
	}
}
