package event

import (
	"testing"

	"github.com/google/uuid"
)

func TestBus_PublishToSubscribersOfKind(t *testing.T) {
	bus := NewBus()
	var changed, selected int
	bus.Subscribe(KindHealthBookChanged, func(Event) { changed++ })
	bus.Subscribe(KindPersonSelected, func(Event) { selected++ })

	bus.Publish(New(KindHealthBookChanged, nil))
	bus.Publish(New(KindHealthBookChanged, nil))

	if changed != 2 {
		t.Errorf("expected 2 changed events, got %d", changed)
	}
	if selected != 0 {
		t.Errorf("expected 0 selected events, got %d", selected)
	}
}

func TestBus_OrderAndPayload(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(KindPersonSelected, func(ev Event) { order = append(order, "first:"+ev.Payload.(string)) })
	bus.Subscribe(KindPersonSelected, func(ev Event) { order = append(order, "second:"+ev.Payload.(string)) })

	bus.Publish(New(KindPersonSelected, "alice"))

	if len(order) != 2 || order[0] != "first:alice" || order[1] != "second:alice" {
		t.Errorf("unexpected delivery order: %v", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(KindSaveFailed, func(Event) { calls++ })
	bus.Publish(New(KindSaveFailed, nil))
	unsubscribe()
	bus.Publish(New(KindSaveFailed, nil))

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestBus_HandlerMayPublish(t *testing.T) {
	bus := NewBus()
	got := false
	bus.Subscribe(KindHealthBookChanged, func(Event) { bus.Publish(New(KindSaveFailed, nil)) })
	bus.Subscribe(KindSaveFailed, func(Event) { got = true })

	bus.Publish(New(KindHealthBookChanged, nil))
	if !got {
		t.Error("nested publish was not delivered")
	}
}

func TestNew_StampsEvent(t *testing.T) {
	ev := New(KindPersonSelected, 42)
	if ev.ID == uuid.Nil {
		t.Error("expected a non-nil event id")
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
	if ev.Payload.(int) != 42 {
		t.Errorf("payload = %v", ev.Payload)
	}
}
