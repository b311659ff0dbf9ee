package events

import (
	"context"
	"errors"
	"testing"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent(TopicHeaderResize, HeaderResize{Sizes: map[int]float64{1: 40}}, "header")

	if ev.EventTopic() != TopicHeaderResize {
		t.Errorf("topic = %q", ev.EventTopic())
	}
	if ev.Metadata.ID == "" {
		t.Error("expected generated ID")
	}
	if ev.Metadata.Source != "header" {
		t.Errorf("source = %q", ev.Metadata.Source)
	}
	other := NewEvent(TopicHeaderResize, HeaderResize{}, "header")
	if other.Metadata.ID == ev.Metadata.ID {
		t.Error("event IDs should be unique")
	}
}

func TestBusDelivery(t *testing.T) {
	bus := NewBus()
	var got []string

	_, _ = bus.Subscribe("grid.header.*", 10, HandlerFunc(func(ctx context.Context, ev any) error {
		got = append(got, "wildcard")
		return nil
	}))
	_, _ = bus.Subscribe(TopicHeaderResize, 0, HandlerFunc(func(ctx context.Context, ev any) error {
		e, ok := ev.(Event[HeaderResize])
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		if e.Payload.Sizes[2] != 50 {
			t.Errorf("size = %v", e.Payload.Sizes[2])
		}
		got = append(got, "exact")
		return nil
	}))
	_, _ = bus.SubscribeFunc(TopicCellDragStart, func(ctx context.Context, ev any) error {
		got = append(got, "drag")
		return nil
	})

	err := bus.Emit(context.Background(), NewEvent(TopicHeaderResize, HeaderResize{Sizes: map[int]float64{2: 50}}, "test"))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if len(got) != 2 || got[0] != "exact" || got[1] != "wildcard" {
		t.Errorf("delivery order = %v, want [exact wildcard]", got)
	}
	stats := bus.Stats()
	if stats.Published != 1 || stats.Delivered != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestBusHandlerErrorsDoNotStopDelivery(t *testing.T) {
	var panicked any
	bus := NewBus(WithPanicHandler(func(ev any, r any, stack []byte) {
		panicked = r
	}))
	boom := errors.New("boom")
	calls := 0

	_, _ = bus.SubscribeFunc(TopicHeaderClick, func(ctx context.Context, ev any) error {
		calls++
		return boom
	})
	_, _ = bus.SubscribeFunc(TopicHeaderClick, func(ctx context.Context, ev any) error {
		calls++
		panic("bad handler")
	})
	_, _ = bus.SubscribeFunc(TopicHeaderClick, func(ctx context.Context, ev any) error {
		calls++
		return nil
	})

	err := bus.Emit(context.Background(), NewEvent(TopicHeaderClick, HeaderClick{ColIndex: 1}, "test"))
	if err == nil {
		t.Fatal("expected joined handler error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected error to wrap boom, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if panicked != "bad handler" {
		t.Errorf("panic handler got %v", panicked)
	}
	stats := bus.Stats()
	if stats.HandlerErrors != 1 || stats.HandlerPanics != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub, err := bus.SubscribeFunc(TopicHeaderDblClick, func(ctx context.Context, ev any) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if sub.Pattern() != TopicHeaderDblClick {
		t.Errorf("pattern = %q", sub.Pattern())
	}

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	_ = bus.Emit(context.Background(), NewEvent(TopicHeaderDblClick, HeaderClick{}, "test"))
	if calls != 0 {
		t.Errorf("unsubscribed handler called %d times", calls)
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() = %v", err)
	}
}

func TestBusSubscribeValidation(t *testing.T) {
	bus := NewBus()
	if _, err := bus.Subscribe("", 0, HandlerFunc(nil)); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if _, err := bus.Subscribe(TopicHeaderClick, 0, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := bus.Emit(context.Background(), "plain"); !errors.Is(err, ErrNoTopic) {
		t.Errorf("emit without topic error = %v", err)
	}
}

func TestBusCancelledContext(t *testing.T) {
	bus := NewBus()
	calls := 0
	_, _ = bus.SubscribeFunc(TopicHeaderClick, func(ctx context.Context, ev any) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.Emit(ctx, NewEvent(TopicHeaderClick, HeaderClick{}, "test"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Emit() error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("handler ran on cancelled context")
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	_ = rec.Emit(context.Background(), NewEvent(TopicHeaderClick, HeaderClick{ColIndex: 3}, "test"))

	evs := rec.Events()
	if len(evs) != 1 {
		t.Fatalf("recorded %d events", len(evs))
	}
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("Reset() should clear events")
	}
	if err := Discard.Emit(context.Background(), nil); err != nil {
		t.Errorf("Discard.Emit() = %v", err)
	}
}
