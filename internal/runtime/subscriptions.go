package runtime

import (
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// SubscriptionSet groups bus subscriptions so they can be cancelled together.
// The zero value is an empty set ready to use.
type SubscriptionSet struct {
	subs []ports.Subscription
}

// Add tracks sub in the set. Nil subscriptions are ignored.
func (s *SubscriptionSet) Add(sub ports.Subscription) {
	if sub == nil {
		return
	}
	s.subs = append(s.subs, sub)
}

// Subscribe registers h on bus and tracks the resulting subscription.
func (s *SubscriptionSet) Subscribe(bus ports.InputBus, name domain.EventName, h ports.Handler) {
	s.Add(bus.Subscribe(name, h))
}

// Len returns the number of live subscriptions.
func (s *SubscriptionSet) Len() int {
	return len(s.subs)
}

// Close cancels every subscription, newest first, and empties the set.
// Closing an empty set is a no-op.
func (s *SubscriptionSet) Close() {
	for i := len(s.subs) - 1; i >= 0; i-- {
		s.subs[i].Cancel()
	}
	s.subs = nil
}
