package memory

import (
	"context"
	"sync"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// Bus is a synchronous in-process input bus.
// Publish runs handlers on the caller's goroutine in subscription order.
type Bus struct {
	mu       sync.Mutex
	seq      uint64
	handlers map[domain.EventName][]*subscription
}

type subscription struct {
	bus       *Bus
	name      domain.EventName
	id        uint64
	h         ports.Handler
	cancelled bool
}

var _ ports.InputBus = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[domain.EventName][]*subscription)}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name domain.EventName, h ports.Handler) ports.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub := &subscription{bus: b, name: name, id: b.seq, h: h}
	b.handlers[name] = append(b.handlers[name], sub)
	return sub
}

// Publish delivers ev to the handlers subscribed when the call starts.
// A handler cancelled by an earlier handler in the same delivery is skipped.
// It returns how many handlers ran.
func (b *Bus) Publish(ctx context.Context, ev domain.InputEvent) int {
	b.mu.Lock()
	subs := append([]*subscription(nil), b.handlers[ev.Name]...)
	b.mu.Unlock()

	n := 0
	for _, sub := range subs {
		if sub.isCancelled() {
			continue
		}
		sub.h(ctx, ev)
		n++
	}
	return n
}

// Count returns the number of live subscriptions for name.
func (b *Bus) Count(name domain.EventName) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

// Total returns the number of live subscriptions across all events.
func (b *Bus) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, subs := range b.handlers {
		n += len(subs)
	}
	return n
}

func (s *subscription) isCancelled() bool {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return s.cancelled
}

// Cancel removes the handler from the bus.
func (s *subscription) Cancel() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	subs := b.handlers[s.name]
	for i, other := range subs {
		if other.id == s.id {
			b.handlers[s.name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[s.name]) == 0 {
		delete(b.handlers, s.name)
	}
}
