// Package event is a small synchronous publish/subscribe bus. Subscribers
// register per kind and are called in subscription order on the publishing
// goroutine.
package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names a category of event.
type Kind string

const (
	// KindHealthBookChanged carries a *healthbook.HealthBook snapshot.
	KindHealthBookChanged Kind = "healthbook.changed"
	// KindPersonSelected carries the record.Person to show.
	KindPersonSelected Kind = "person.selected"
	// KindSaveFailed carries the error returned by storage.
	KindSaveFailed Kind = "storage.save_failed"
)

type Event struct {
	ID        uuid.UUID
	Kind      Kind
	Timestamp time.Time
	Payload   interface{}
}

// New stamps a fresh event.
func New(kind Kind, payload interface{}) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

type Handler func(Event)

// Publisher is what producers depend on.
type Publisher interface {
	Publish(ev Event)
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Kind][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscription)}
}

// Subscribe registers h for events of the given kind. The returned function
// removes the subscription.
func (b *Bus) Subscribe(kind Kind, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler subscribed to ev.Kind. Handlers run outside the
// lock so they may publish or subscribe themselves.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Kind]))
	for _, s := range b.subs[ev.Kind] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
