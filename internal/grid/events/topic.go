// Package events carries grid interactions from the renderers to the
// stores that own grid state.
//
// Renderers never mutate state; they publish typed events on an Emitter
// and the owning shell applies them. Topics are hierarchical
// ("grid.header.resize") and subscriptions may use wildcards:
//
//	bus := events.NewBus()
//	bus.SubscribeFunc("grid.header.*", func(ctx context.Context, ev any) error {
//	    ...
//	})
package events

import "strings"

// Topic is a hierarchical event type using dot notation.
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// Grid event topics.
const (
	// TopicCellDragStart is published when a draggable cell starts a drag.
	TopicCellDragStart Topic = "grid.cell.dragstart"

	// TopicHeaderResize is published with one or more column sizes.
	TopicHeaderResize Topic = "grid.header.resize"

	// TopicHeaderClick is published when a header cell is clicked.
	TopicHeaderClick Topic = "grid.header.click"

	// TopicHeaderDblClick is published when a header cell is double clicked.
	TopicHeaderDblClick Topic = "grid.header.dblclick"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsPattern reports whether the topic contains wildcards.
func (t Topic) IsPattern() bool {
	for _, s := range t.Segments() {
		if s == WildcardSingle || s == WildcardMulti {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	if pattern == t {
		return true
	}
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		p := pattern[0]
		if p == WildcardMulti {
			rest := pattern[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if p != WildcardSingle && p != segs[0] {
			return false
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}
