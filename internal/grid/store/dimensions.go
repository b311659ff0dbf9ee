package store

import (
	"sort"
	"sync"
)

// MinSize is the smallest size ApplySizes stores.
const MinSize = 1

// Dimensions stores per-item sizes of one axis with a default for items
// that were never sized. It is the writer side of header resize events.
//
// Offsets are computed from a sorted index of the sized items with the
// cumulative difference to the default size, so positions cost
// O(log sized) regardless of the item count.
type Dimensions struct {
	mu          sync.RWMutex
	defaultSize float64
	sizes       map[int]float64

	// sorted holds the sized indexes ascending; delta[k] is the sum of
	// size-defaultSize over sorted[:k].
	sorted []int
	delta  []float64
}

// NewDimensions creates a dimension store with a default item size.
func NewDimensions(defaultSize float64) *Dimensions {
	if defaultSize <= 0 {
		defaultSize = 1
	}
	return &Dimensions{
		defaultSize: defaultSize,
		sizes:       make(map[int]float64),
		delta:       []float64{0},
	}
}

// Size returns the size of the item at index.
func (d *Dimensions) Size(index int) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if s, ok := d.sizes[index]; ok {
		return s
	}
	return d.defaultSize
}

// ApplySizes stores every size of the map in one step. Sizes below the
// minimum are clamped.
func (d *Dimensions) ApplySizes(sizes map[int]float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for idx, s := range sizes {
		if s < MinSize {
			s = MinSize
		}
		d.sizes[idx] = s
	}
	d.reindex()
}

func (d *Dimensions) reindex() {
	d.sorted = d.sorted[:0]
	for idx := range d.sizes {
		d.sorted = append(d.sorted, idx)
	}
	sort.Ints(d.sorted)
	d.delta = append(d.delta[:0], 0)
	for _, idx := range d.sorted {
		d.delta = append(d.delta, d.delta[len(d.delta)-1]+d.sizes[idx]-d.defaultSize)
	}
}

// Offset returns the start position of index, summing the sizes of all
// preceding items.
func (d *Dimensions) Offset(index int) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	k := sort.SearchInts(d.sorted, index)
	return float64(index)*d.defaultSize + d.delta[k]
}
