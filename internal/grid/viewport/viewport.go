// Package viewport computes the visible window of one grid axis.
//
// An Axis combines a dimension store, an item count, a scroll offset and
// a frame extent (all in pixels) into the ordered list of visible items
// that the renderers consume. It implements store.ViewportReader.
package viewport

import (
	"sort"
	"sync"

	"github.com/dshills/gridstorm/internal/grid/core"
	"github.com/dshills/gridstorm/internal/grid/store"
)

// Axis is the visible window over one dimension (rows or columns).
type Axis struct {
	mu sync.RWMutex

	dims  store.PositionReader
	count int

	// Scroll position and frame size in pixels
	offset float64
	extent float64

	// Items kept between the edge and a revealed item
	marginBefore int
	marginAfter  int
}

// New creates an axis over count items of dims, extent pixels wide.
// A negative extent is clamped to zero.
func New(dims store.PositionReader, count int, extent float64) *Axis {
	if extent < 0 {
		extent = 0
	}
	if count < 0 {
		count = 0
	}
	return &Axis{
		dims:   dims,
		count:  count,
		extent: extent,
	}
}

// Offset returns the scroll offset.
func (a *Axis) Offset() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.offset
}

// Extent returns the frame size.
func (a *Axis) Extent() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extent
}

// Count returns the number of items on the axis.
func (a *Axis) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

// SetCount updates the number of items and re-clamps the offset.
func (a *Axis) SetCount(count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if count < 0 {
		count = 0
	}
	a.count = count
	a.offset = a.clamp(a.offset)
}

// Resize updates the frame size and re-clamps the offset.
func (a *Axis) Resize(extent float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if extent < 0 {
		extent = 0
	}
	a.extent = extent
	a.offset = a.clamp(a.offset)
}

// SetMargins sets how many items ScrollToReveal keeps before and after
// the revealed item.
func (a *Axis) SetMargins(before, after int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.marginBefore = max(0, before)
	a.marginAfter = max(0, after)
}

func (a *Axis) contentSize() float64 {
	return a.dims.Offset(a.count)
}

// clamp limits an offset to [0, content-extent].
func (a *Axis) clamp(offset float64) float64 {
	maxOffset := a.contentSize() - a.extent
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ScrollTo sets the scroll offset, clamped to the content.
func (a *Axis) ScrollTo(offset float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offset = a.clamp(offset)
}

// ScrollBy moves the scroll offset by delta pixels.
func (a *Axis) ScrollBy(delta float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offset = a.clamp(a.offset + delta)
}

// ScrollItems moves the window by delta whole items, aligning the first
// visible item to its start.
func (a *Axis) ScrollItems(delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	first, _ := a.firstVisible()
	target := first + delta
	if target >= a.count {
		target = a.count - 1
	}
	if target < 0 {
		a.offset = 0
		return
	}
	a.offset = a.clamp(a.dims.Offset(target))
}

// firstVisible returns the first item intersecting the window and its
// start: the first item whose end lies past the offset.
func (a *Axis) firstVisible() (int, float64) {
	i := sort.Search(a.count, func(i int) bool {
		return a.dims.Offset(i+1) > a.offset
	})
	return i, a.dims.Offset(i)
}

// Items returns the visible items in ascending start order. Starts are
// absolute content positions.
func (a *Axis) Items() []core.Item {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.extent <= 0 || a.count == 0 {
		return nil
	}

	i, start := a.firstVisible()
	end := a.offset + a.extent
	var items []core.Item
	for ; i < a.count && start < end; i++ {
		size := a.dims.Size(i)
		items = append(items, core.Item{ItemIndex: i, Start: start, Size: size})
		start += size
	}
	return items
}

// ItemAt returns the item covering the frame position pos (relative to
// the window), if any.
func (a *Axis) ItemAt(pos float64) (core.Item, bool) {
	target := a.Offset() + pos
	for _, it := range a.Items() {
		if target >= it.Start && target < it.End() {
			return it, true
		}
	}
	return core.Item{}, false
}

// ScrollToReveal scrolls minimally so index is fully visible, keeping the
// configured margins. Returns true if the offset changed.
func (a *Axis) ScrollToReveal(index int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= a.count {
		return false
	}

	start := a.dims.Offset(index)
	end := start + a.dims.Size(index)

	before := start
	for i := index - 1; i >= 0 && i >= index-a.marginBefore; i-- {
		before -= a.dims.Size(i)
	}
	after := end
	for i := index + 1; i < a.count && i <= index+a.marginAfter; i++ {
		after += a.dims.Size(i)
	}

	target := a.offset
	switch {
	case before < a.offset:
		target = before
	case after > a.offset+a.extent:
		target = after - a.extent
	}
	target = a.clamp(target)
	if target == a.offset {
		return false
	}
	a.offset = target
	return true
}
