// Package clock provides a scheduler driven by explicit time advances.
//
// Replays, tests and the live frame loop all advance the clock themselves, so
// timer callbacks run on the same goroutine as input handlers.
package clock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/raybrush/pkg/ports"
)

// Manual is a scheduler whose time only moves when Advance is called.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*timer
}

type timer struct {
	m   *Manual
	due time.Time
	seq uint64
	fn  func(ctx context.Context)
}

var _ ports.Scheduler = (*Manual)(nil)

// NewManual creates a scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the scheduler time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules fn to run once d has elapsed.
// A non-positive d fires on the next Advance, even Advance(ctx, 0).
func (m *Manual) AfterFunc(d time.Duration, fn func(ctx context.Context)) ports.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &timer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves time forward by d and fires every timer that became due, in
// due order with ties broken by scheduling order. Timers scheduled by a
// callback fire in the same call if they fall due within the window.
// It returns how many callbacks ran.
func (m *Manual) Advance(ctx context.Context, d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.fn(ctx)
		fired++
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return fired
}

// nextDue pops the earliest timer due at or before target and moves the clock to it.
func (m *Manual) nextDue(target time.Time) *timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		a, b := m.timers[i], m.timers[j]
		if !a.due.Equal(b.due) {
			return a.due.Before(b.due)
		}
		return a.seq < b.seq
	})
	t := m.timers[0]
	if t.due.After(target) {
		return nil
	}
	m.timers = m.timers[1:]
	if t.due.After(m.now) {
		m.now = t.due
	}
	return t
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *timer) Stop() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.timers {
		if p == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}
