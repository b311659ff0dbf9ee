package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a typed grid event. Events are immutable once created.
type Event[T any] struct {
	// Type is the hierarchical event type.
	Type Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// TopicProvider is implemented by events that know their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// PointerEvent is the pointer state of a gesture, in grid pixels.
type PointerEvent struct {
	X, Y   float64
	Button int
	Shift  bool
	Ctrl   bool
}

// DragStartCell is the payload of TopicCellDragStart.
type DragStartCell struct {
	Pointer  PointerEvent
	RowIndex int
	ColIndex int
}

// HeaderResize is the payload of TopicHeaderResize. Sizes maps absolute
// column indexes to their new width. A group resize carries every
// affected column in one event so the store can apply them atomically.
type HeaderResize struct {
	Sizes map[int]float64
}

// HeaderClick is the payload of TopicHeaderClick and TopicHeaderDblClick.
type HeaderClick struct {
	Pointer  PointerEvent
	ColIndex int
	Prop     string
	Name     string
}
