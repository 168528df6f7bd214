package events

import (
	"sync"

	"telegram-miniapp-gate/internal/domain/model"
)

// Bus fans countryBlockChanged events out to same-process subscribers.
// Handlers run on the publisher's goroutine; keep them short.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(model.CountryBlockEvent)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(model.CountryBlockEvent))}
}

// Subscribe registers a handler and returns its unsubscribe func.
// Unsubscribing on teardown is mandatory to avoid leaking handlers
// across reloads.
func (b *Bus) Subscribe(fn func(model.CountryBlockEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus) Publish(ev model.CountryBlockEvent) {
	b.mu.Lock()
	handlers := make([]func(model.CountryBlockEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
