package events

import (
	"context"
	"sync"
)

// EventHandler consumes one published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans domain events out to in-process subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type memoryDispatcher struct {
	mu   sync.RWMutex
	subs map[EventType][]EventHandler
}

// NewInMemoryDispatcher builds a synchronous dispatcher. Handlers run on the
// publisher's goroutine, so escalation writes observe their own side channels
// (feed publication) before the operation returns.
func NewInMemoryDispatcher() Dispatcher {
	return &memoryDispatcher{subs: make(map[EventType][]EventHandler)}
}

// Publish invokes every handler registered for the event type. Handler
// errors are swallowed: a broken subscriber must not fail the mutation that
// produced the event.
func (d *memoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, len(d.subs[event.Type]))
	copy(handlers, d.subs[event.Type])
	d.mu.RUnlock()

	for _, handle := range handlers {
		_ = handle(ctx, event)
	}
	return nil
}

func (d *memoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.subs[eventType] = append(d.subs[eventType], handler)
	d.mu.Unlock()
}
