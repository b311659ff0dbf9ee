package grouping

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
)

func TestIsGroupingRow(t *testing.T) {
	tests := []struct {
		name string
		row  core.Row
		want bool
	}{
		{"group row", NewGroupRow("a", "a", 0, true, 2), true},
		{"plain row", core.Row{"name": "x"}, false},
		{"marker false", core.Row{MarkerKey: false}, false},
		{"marker not bool", core.Row{MarkerKey: "yes"}, false},
		{"nil row", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGroupingRow(tt.row); got != tt.want {
				t.Errorf("IsGroupingRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsGroupColumn(t *testing.T) {
	cols := []*core.Column{{Prop: "team"}, {Prop: "name"}, nil}
	groups := map[string]bool{"team": true, "ghost": true}

	tests := []struct {
		idx  int
		want bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{3, false},
		{-1, false},
	}
	for _, tt := range tests {
		if got := IsGroupColumn(cols, tt.idx, groups); got != tt.want {
			t.Errorf("IsGroupColumn(%d) = %v, want %v", tt.idx, got, tt.want)
		}
	}
}

func TestHasGroupColumn(t *testing.T) {
	cols := []*core.Column{{Prop: "team"}, {Prop: "name"}, {Prop: "age"}}
	groups := map[string]bool{"team": true}

	if !HasGroupColumn(cols, []core.Item{{ItemIndex: 1}, {ItemIndex: 0}}, groups) {
		t.Error("expected group column among visible columns")
	}
	if HasGroupColumn(cols, []core.Item{{ItemIndex: 1}, {ItemIndex: 2}}, groups) {
		t.Error("team column is not visible")
	}
	if HasGroupColumn(cols, []core.Item{{ItemIndex: 0}}, nil) {
		t.Error("no groups configured")
	}
	if HasGroupColumn(cols, []core.Item{{ItemIndex: 9}}, map[string]bool{"missing": true}) {
		t.Error("malformed grouping should be tolerated as false")
	}
}

func TestHeaderModel(t *testing.T) {
	row := NewGroupRow("Red", "Blue/Red", 1, false, 3)
	m := NewHeaderModel(7, row)

	want := HeaderModel{
		RowIndex: 7,
		Value:    "Red",
		Path:     "Blue/Red",
		Depth:    1,
		Expanded: false,
		Children: 3,
		Indent:   core.PaddingDepth,
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("HeaderModel mismatch (-want +got):\n%s", diff)
	}
	if got := m.Label(); got != "▸ Red (3)" {
		t.Errorf("Label() = %q", got)
	}

	m.Expanded = true
	if got := m.Label(); got != "▾ Red (3)" {
		t.Errorf("expanded Label() = %q", got)
	}

	// Depth decoded from JSON numbers
	if got := NewHeaderModel(0, core.Row{MarkerKey: true, DepthKey: 2.0}).Depth; got != 2 {
		t.Errorf("float depth = %d", got)
	}
}

func TestBuild(t *testing.T) {
	rows := []core.Row{
		{"team": "A", "lead": "x", "name": "1"},
		{"team": "B", "lead": "y", "name": "2"},
		{"team": "A", "lead": "y", "name": "3"},
		{"team": "A", "lead": "x", "name": "4"},
	}

	out, depth := Build(rows, []string{"team", "lead"}, func(path string) bool {
		return path != "A/y"
	})
	if depth != 2 {
		t.Errorf("depth = %d, want 2", depth)
	}

	var got []string
	for _, r := range out {
		if IsGroupingRow(r) {
			m := NewHeaderModel(0, r)
			got = append(got, "group:"+m.Path)
			continue
		}
		got = append(got, "row:"+r.String("name"))
	}
	want := []string{
		"group:A", "group:A/x", "row:1", "row:4", "group:A/y",
		"group:B", "group:B/y", "row:2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build order mismatch (-want +got):\n%s", diff)
	}

	if n := NewHeaderModel(0, out[0]).Children; n != 3 {
		t.Errorf("group A children = %d, want 3", n)
	}
	if NewHeaderModel(0, out[4]).Expanded {
		t.Error("A/y should be collapsed")
	}
}

func TestBuildWithoutProps(t *testing.T) {
	rows := []core.Row{{"a": 1}}
	out, depth := Build(rows, nil, nil)
	if depth != 0 || len(out) != 1 {
		t.Errorf("Build(no props) = %v, %d", out, depth)
	}

	out, depth = Build(nil, []string{"a"}, nil)
	if depth != 0 || len(out) != 0 {
		t.Errorf("Build(no rows) = %v, %d", out, depth)
	}
}

func TestSpans(t *testing.T) {
	cols := []*core.Column{
		{Prop: "id"}, {Prop: "first"}, {Prop: "last"}, {Prop: "email"}, {Prop: "phone"},
	}
	groups := []ColumnGroup{
		{Name: "Name", Children: []string{"first", "last"}},
		{Name: "Contact", Children: []string{"email", "phone"}},
		{Name: "Ghost", Children: []string{"nope"}},
	}
	dims := store.NewDimensions(10)
	dims.ApplySizes(map[int]float64{1: 20})

	visible := []core.Item{
		{ItemIndex: 2, Start: 30, Size: 10},
		{ItemIndex: 3, Start: 40, Size: 10},
	}
	visibleProps := map[string]int{"last": 2, "email": 3}

	got := Spans(groups, cols, visible, visibleProps, dims)
	want := []Span{
		{Name: "Name", StartIndex: 1, EndIndex: 2, Start: 10, Size: 30},
		{Name: "Contact", StartIndex: 3, EndIndex: 4, Start: 40, Size: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spans mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansSkipsInvisibleGroups(t *testing.T) {
	cols := []*core.Column{{Prop: "a"}, {Prop: "b"}, {Prop: "c"}}
	groups := []ColumnGroup{{Name: "AB", Children: []string{"a", "b"}}}
	visible := []core.Item{{ItemIndex: 2, Start: 20, Size: 10}}

	if got := Spans(groups, cols, visible, map[string]int{"c": 2}, nil); len(got) != 0 {
		t.Errorf("expected no spans, got %+v", got)
	}
	if got := Spans(nil, cols, visible, map[string]int{"c": 2}, nil); got != nil {
		t.Errorf("expected nil spans, got %+v", got)
	}
}
