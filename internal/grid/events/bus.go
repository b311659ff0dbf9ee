package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
)

// Emitter publishes events. Emission is fire-and-forget from the
// renderer's point of view; the returned error is for diagnostics only.
type Emitter interface {
	Emit(ctx context.Context, event any) error
}

// Handler processes an event. The event is type-erased; handlers should
// type-assert to the Event[T] they expect.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, recovered any, stack []byte)

// Subscription identifies a registered handler.
type Subscription struct {
	id      uint64
	pattern Topic
}

// Pattern returns the subscribed topic pattern.
func (s Subscription) Pattern() Topic {
	return s.pattern
}

// Stats reports bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	HandlerPanics uint64
}

// HandlerError wraps a failure of one handler.
type HandlerError struct {
	Topic     Topic
	Recovered any
	Err       error
}

func (e *HandlerError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("handler for %s panicked: %v", e.Topic, e.Recovered)
	}
	return fmt.Sprintf("handler for %s: %v", e.Topic, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

type subscriber struct {
	id       uint64
	pattern  Topic
	priority int
	handler  Handler
}

// Bus delivers events synchronously to matching subscribers in priority
// order, recovering handler panics. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64

	panicHandler PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the function called when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// NewBus creates a new synchronous bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for a topic pattern. Lower priority values
// run first; equal priorities run in subscription order.
func (b *Bus) Subscribe(pattern Topic, priority int, handler Handler) (Subscription, error) {
	if pattern == "" {
		return Subscription{}, ErrEmptyTopic
	}
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscriber{id: b.nextID, pattern: pattern, priority: priority, handler: handler}
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		return b.subs[i].priority < b.subs[j].priority
	})
	return Subscription{id: sub.id, pattern: pattern}, nil
}

// SubscribeFunc registers a function handler with default priority.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error) {
	return b.Subscribe(pattern, 0, fn)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Emit delivers event to every matching subscriber. The event must
// implement TopicProvider. All handlers run even if some fail; their
// failures are joined into the returned error.
func (b *Bus) Emit(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNoTopic, event)
	}
	t := tp.EventTopic()
	b.published.Add(1)

	b.mu.RLock()
	matched := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	var failures []error
	for _, s := range matched {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		if err := b.deliver(ctx, t, s.handler, event); err != nil {
			failures = append(failures, err)
		}
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	default:
		return fmt.Errorf("%d handlers failed: first: %w", len(failures), failures[0])
	}
}

func (b *Bus) deliver(ctx context.Context, t Topic, h Handler, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			stack := debug.Stack()
			if b.panicHandler != nil {
				func() {
					defer func() { _ = recover() }()
					b.panicHandler(event, r, stack)
				}()
			}
			err = &HandlerError{Topic: t, Recovered: r}
		}
	}()

	b.delivered.Add(1)
	if herr := h.Handle(ctx, event); herr != nil {
		b.errors.Add(1)
		return &HandlerError{Topic: t, Err: herr}
	}
	return nil
}

// Stats returns the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerErrors: b.errors.Load(),
		HandlerPanics: b.panics.Load(),
	}
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, any) error { return nil }

// Recorder is an Emitter that keeps every event, for tests and tooling.
type Recorder struct {
	mu     sync.Mutex
	events []any
}

// Emit records the event.
func (r *Recorder) Emit(_ context.Context, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
