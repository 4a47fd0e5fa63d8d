package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterrupts_FollowParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	in := watchInterrupts(parent)
	defer in.release()

	assert.NoError(t, in.ctx.Err())
	cancel()
	assert.True(t, in.settle(time.Hour), "a cancelled parent settles immediately")
}

func TestInterrupts_SettleTimesOut(t *testing.T) {
	in := watchInterrupts(context.Background())
	defer in.release()

	start := time.Now()
	assert.False(t, in.settle(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	in.release()
	assert.ErrorIs(t, in.ctx.Err(), context.Canceled)
}
