package ports

import (
	"context"
	"time"

	"github.com/aretw0/raybrush/pkg/domain"
)

// Handler receives one input event.
type Handler func(ctx context.Context, ev domain.InputEvent)

// Subscription is a cancellation token for a registered handler.
type Subscription interface {
	// Cancel unregisters the handler. Cancelling twice is a no-op.
	Cancel()
}

// InputBus delivers logical input events to subscribers.
type InputBus interface {
	Subscribe(name domain.EventName, h Handler) Subscription
}

// Timer is a pending fire-once callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the timer was still pending.
	Stop() bool
}

// Scheduler runs fire-once callbacks after a delay.
// Callbacks run on the goroutine that drives the scheduler, never concurrently with input handlers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func(ctx context.Context)) Timer
}
