package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

func TestBus_PublishInOrder(t *testing.T) {
	bus := memory.NewBus()
	var got []int
	bus.Subscribe(domain.EventTick, func(context.Context, domain.InputEvent) { got = append(got, 1) })
	bus.Subscribe(domain.EventTick, func(context.Context, domain.InputEvent) { got = append(got, 2) })
	bus.Subscribe(domain.EventTriggerDown, func(context.Context, domain.InputEvent) { got = append(got, 99) })

	n := bus.Publish(context.Background(), domain.InputEvent{Name: domain.EventTick})
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, got)
}

func TestBus_CancelDuringDelivery(t *testing.T) {
	bus := memory.NewBus()
	var second ports.Subscription
	calls := 0
	bus.Subscribe(domain.EventReturnPressed, func(context.Context, domain.InputEvent) {
		calls++
		second.Cancel()
	})
	second = bus.Subscribe(domain.EventReturnPressed, func(context.Context, domain.InputEvent) {
		calls++
	})

	bus.Publish(context.Background(), domain.InputEvent{Name: domain.EventReturnPressed})
	assert.Equal(t, 1, calls, "handler cancelled mid-delivery must not run")
	assert.Equal(t, 1, bus.Count(domain.EventReturnPressed))

	second.Cancel()
	assert.Equal(t, 1, bus.Total(), "double cancel is a no-op")
}
