package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// raceWindow is how long an input error waits for a pending interrupt.
// Ctrl+C in a terminal closes stdin slightly before the signal arrives.
const raceWindow = 100 * time.Millisecond

// interrupts cancels a live loop on SIGINT or SIGTERM.
type interrupts struct {
	ctx  context.Context
	stop context.CancelFunc
}

// watchInterrupts derives a context from parent that is also cancelled by
// an interrupt. Call release to stop listening.
func watchInterrupts(parent context.Context) *interrupts {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &interrupts{ctx: ctx, stop: stop}
}

func (i *interrupts) release() { i.stop() }

// settle waits up to window for an interrupt and reports whether the loop
// should stop rather than treat the input error as real.
func (i *interrupts) settle(window time.Duration) bool {
	if i.ctx.Err() != nil {
		return true
	}
	t := time.NewTimer(window)
	defer t.Stop()
	select {
	case <-i.ctx.Done():
		return true
	case <-t.C:
		return false
	}
}
