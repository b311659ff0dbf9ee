package viewport

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
)

func TestItemsFromTop(t *testing.T) {
	a := New(store.NewDimensions(10), 100, 35)

	want := []core.Item{
		{ItemIndex: 0, Start: 0, Size: 10},
		{ItemIndex: 1, Start: 10, Size: 10},
		{ItemIndex: 2, Start: 20, Size: 10},
		{ItemIndex: 3, Start: 30, Size: 10},
	}
	if diff := cmp.Diff(want, a.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestItemsAfterScrollWithCustomSizes(t *testing.T) {
	dims := store.NewDimensions(10)
	dims.ApplySizes(map[int]float64{2: 30})
	a := New(dims, 10, 25)

	a.ScrollTo(25)
	want := []core.Item{
		{ItemIndex: 2, Start: 20, Size: 30},
	}
	if diff := cmp.Diff(want, a.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}

	a.ScrollTo(30)
	want = []core.Item{
		{ItemIndex: 2, Start: 20, Size: 30},
		{ItemIndex: 3, Start: 50, Size: 10},
	}
	if diff := cmp.Diff(want, a.Items()); diff != "" {
		t.Errorf("Items() after second scroll mismatch (-want +got):\n%s", diff)
	}
}

func TestItemsOrderedAndContiguous(t *testing.T) {
	dims := store.NewDimensions(7)
	dims.ApplySizes(map[int]float64{3: 20, 9: 2})
	a := New(dims, 50, 60)
	a.ScrollTo(13)

	items := a.Items()
	if len(items) == 0 {
		t.Fatal("expected visible items")
	}
	for i := 1; i < len(items); i++ {
		if items[i].Start != items[i-1].End() {
			t.Errorf("item %d not contiguous: %+v after %+v", i, items[i], items[i-1])
		}
		if items[i].ItemIndex != items[i-1].ItemIndex+1 {
			t.Errorf("item %d out of order", i)
		}
	}
	if items[0].Start > a.Offset() || items[0].End() <= a.Offset() {
		t.Errorf("first item %+v does not cover offset %v", items[0], a.Offset())
	}
}

func TestScrollClamping(t *testing.T) {
	a := New(store.NewDimensions(10), 5, 20)

	a.ScrollTo(1000)
	if got := a.Offset(); got != 30 {
		t.Errorf("Offset() = %v, want 30", got)
	}
	a.ScrollBy(-100)
	if got := a.Offset(); got != 0 {
		t.Errorf("Offset() = %v, want 0", got)
	}

	small := New(store.NewDimensions(10), 1, 50)
	small.ScrollTo(5)
	if got := small.Offset(); got != 0 {
		t.Errorf("content smaller than extent: Offset() = %v", got)
	}
}

func TestScrollItems(t *testing.T) {
	dims := store.NewDimensions(10)
	dims.ApplySizes(map[int]float64{0: 5})
	a := New(dims, 20, 30)

	a.ScrollItems(2)
	if got := a.Items()[0].ItemIndex; got != 2 {
		t.Errorf("first item = %d, want 2", got)
	}
	if got := a.Offset(); got != 15 {
		t.Errorf("Offset() = %v, want 15", got)
	}
	a.ScrollItems(-1)
	if got := a.Offset(); got != 5 {
		t.Errorf("Offset() = %v, want 5", got)
	}
	a.ScrollItems(-10)
	if got := a.Offset(); got != 0 {
		t.Errorf("Offset() = %v, want 0", got)
	}
}

func TestEmptyAxis(t *testing.T) {
	if items := New(store.NewDimensions(10), 0, 100).Items(); len(items) != 0 {
		t.Errorf("zero count should yield no items, got %v", items)
	}
	if items := New(store.NewDimensions(10), 10, 0).Items(); len(items) != 0 {
		t.Errorf("zero extent should yield no items, got %v", items)
	}
}

func TestResizeAndSetCount(t *testing.T) {
	a := New(store.NewDimensions(10), 10, 30)
	a.ScrollTo(70)

	a.SetCount(5)
	if got := a.Offset(); got != 20 {
		t.Errorf("Offset() after SetCount = %v, want 20", got)
	}
	a.Resize(50)
	if got := a.Offset(); got != 0 {
		t.Errorf("Offset() after Resize = %v, want 0", got)
	}
	if a.Count() != 5 || a.Extent() != 50 {
		t.Errorf("Count/Extent = %d/%v", a.Count(), a.Extent())
	}
}

func TestItemAt(t *testing.T) {
	a := New(store.NewDimensions(10), 10, 30)
	a.ScrollTo(15)

	it, ok := a.ItemAt(0)
	if !ok || it.ItemIndex != 1 {
		t.Errorf("ItemAt(0) = %+v, %v", it, ok)
	}
	it, ok = a.ItemAt(6)
	if !ok || it.ItemIndex != 2 {
		t.Errorf("ItemAt(6) = %+v, %v", it, ok)
	}
	if _, ok := a.ItemAt(500); ok {
		t.Error("ItemAt beyond window should fail")
	}
}

func TestScrollToReveal(t *testing.T) {
	a := New(store.NewDimensions(10), 100, 50)
	a.SetMargins(1, 1)

	if a.ScrollToReveal(2) {
		t.Error("visible item should not scroll")
	}
	if !a.ScrollToReveal(10) {
		t.Fatal("expected scroll")
	}
	if got := a.Offset(); got != 70 {
		t.Errorf("Offset() = %v, want 70", got)
	}
	if !a.ScrollToReveal(5) {
		t.Fatal("expected scroll back")
	}
	if got := a.Offset(); got != 40 {
		t.Errorf("Offset() = %v, want 40", got)
	}
	if a.ScrollToReveal(-1) || a.ScrollToReveal(100) {
		t.Error("out of range index should not scroll")
	}
}

// countingDims records how many positions the axis asks for.
type countingDims struct {
	*store.Dimensions
	calls int
}

func (d *countingDims) Size(index int) float64 {
	d.calls++
	return d.Dimensions.Size(index)
}

func (d *countingDims) Offset(index int) float64 {
	d.calls++
	return d.Dimensions.Offset(index)
}

func TestLargeAxisWorkIsBoundedByWindow(t *testing.T) {
	const count = 5_000_000
	inner := store.NewDimensions(1)
	inner.ApplySizes(map[int]float64{10: 5, 4_999_001: 3})
	dims := &countingDims{Dimensions: inner}
	a := New(dims, count, 40)

	a.ScrollTo(4_999_000)
	dims.calls = 0
	items := a.Items()

	if len(items) == 0 || items[0].ItemIndex != 4_998_996 {
		t.Fatalf("first item = %+v", items[:min(1, len(items))])
	}
	if items[0].Start != 4_999_000 {
		t.Errorf("first start = %v", items[0].Start)
	}
	if dims.calls > 200 {
		t.Errorf("Items() made %d position lookups, want a number independent of the item count", dims.calls)
	}

	dims.calls = 0
	a.ScrollItems(10)
	a.ScrollToReveal(count - 1)
	if dims.calls > 500 {
		t.Errorf("scrolling made %d position lookups", dims.calls)
	}
	last := a.Items()
	if got := last[len(last)-1].ItemIndex; got != count-1 {
		t.Errorf("last visible after reveal = %d, want %d", got, count-1)
	}
}
