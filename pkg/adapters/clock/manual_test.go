package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	ctx := context.Background()
	m := NewManual(time.Unix(0, 0))

	var got []string
	m.AfterFunc(300*time.Millisecond, func(context.Context) { got = append(got, "c") })
	m.AfterFunc(100*time.Millisecond, func(context.Context) { got = append(got, "a") })
	m.AfterFunc(100*time.Millisecond, func(context.Context) { got = append(got, "b") })

	assert.Equal(t, 0, m.Advance(ctx, 50*time.Millisecond))
	assert.Equal(t, 2, m.Advance(ctx, 100*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	m.Advance(ctx, time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, time.Unix(0, 0).Add(1150*time.Millisecond), m.Now())
}

func TestManual_Stop(t *testing.T) {
	ctx := context.Background()
	m := NewManual(time.Unix(0, 0))

	fired := false
	tm := m.AfterFunc(time.Second, func(context.Context) { fired = true })
	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop reports nothing pending")

	m.Advance(ctx, 2*time.Second)
	assert.False(t, fired)
}

func TestManual_ChainedTimersWithinWindow(t *testing.T) {
	ctx := context.Background()
	m := NewManual(time.Unix(0, 0))

	var at []time.Time
	m.AfterFunc(100*time.Millisecond, func(context.Context) {
		at = append(at, m.Now())
		m.AfterFunc(100*time.Millisecond, func(context.Context) {
			at = append(at, m.Now())
		})
	})

	assert.Equal(t, 2, m.Advance(ctx, time.Second))
	assert.Equal(t, []time.Time{
		time.Unix(0, 0).Add(100 * time.Millisecond),
		time.Unix(0, 0).Add(200 * time.Millisecond),
	}, at)
}

func TestManual_ZeroDelayFiresOnNextAdvance(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	m.AfterFunc(0, func(context.Context) { fired = true })
	assert.False(t, fired)
	m.Advance(context.Background(), 0)
	assert.True(t, fired)
}
