package events

import "errors"

// Event errors.
var (
	// ErrEmptyTopic is returned when subscribing with an empty pattern.
	ErrEmptyTopic = errors.New("empty topic")

	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNoTopic is returned when emitting a value that carries no topic.
	ErrNoTopic = errors.New("event has no topic")
)
