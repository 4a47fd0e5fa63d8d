package raybrush_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush"
	"github.com/aretw0/raybrush/pkg/adapters/clock"
	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
)

func newHost() (raybrush.Resources, raybrush.Host, *memory.Bus, *memory.Trail) {
	bus := memory.NewBus()
	trail := memory.NewTrail("trail")
	res := raybrush.Resources{
		Beam:      memory.NewBeam("beam"),
		Trail:     trail,
		Raycaster: memory.NewScene([]memory.Surface{memory.NewPlane(r3.Vec{}, r3.Vec{Y: 1})}),
	}
	host := raybrush.Host{
		Tool:      memory.NewTool(domain.Pose{Position: r3.Vec{Y: 2}, Forward: r3.Vec{Y: -1}}),
		Bus:       bus,
		Scheduler: clock.NewManual(time.Unix(0, 0)),
		Camera:    memory.NewCamera(),
		Owners:    memory.NewOwnership(),
	}
	return res, host, bus, trail
}

func TestNew_MissingResource(t *testing.T) {
	_, host, _, _ := newHost()
	_, err := raybrush.New(raybrush.Resources{}, host)
	assert.ErrorIs(t, err, domain.ErrMissingResource)
}

func TestEngine_HooksAndIDs(t *testing.T) {
	res, host, _, _ := newHost()
	var started []string
	eng, err := raybrush.New(res, host,
		raybrush.WithName("test"),
		raybrush.WithIDGenerator(func() string { return "grab-1" }),
		raybrush.WithLifecycleHooks(domain.LifecycleHooks{
			OnGrabStart: func(_ context.Context, e *domain.GrabEvent) { started = append(started, e.GrabID) },
		}),
		raybrush.WithLifecycleHooks(domain.LifecycleHooks{
			OnGrabStart: func(_ context.Context, e *domain.GrabEvent) { started = append(started, "second") },
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.GrabStart(ctx, domain.Agent{ID: "alice", Device: domain.DeviceVR}))
	assert.Equal(t, []string{"grab-1", "second"}, started)
	assert.Equal(t, "grab-1", eng.Snapshot().GrabID)
	assert.Equal(t, domain.DefaultTuning(), eng.Tuning())
	require.NoError(t, eng.Close(ctx))
}

func Example() {
	res, host, bus, trail := newHost()
	ctx := context.Background()

	eng, err := raybrush.New(res, host)
	if err != nil {
		panic(err)
	}
	defer eng.Close(ctx)

	agent := domain.Agent{ID: "alice", Device: domain.DeviceVR}
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventGrabStart, Agent: &agent})
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventTriggerDown})
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventTick})
	fmt.Printf("first stroke point buried at y=%.3f\n", trail.Position().Y)

	bus.Publish(ctx, domain.InputEvent{Name: domain.EventTick})
	fmt.Printf("continuation raised to y=%.3f\n", trail.Position().Y)

	// Output:
	// first stroke point buried at y=-0.020
	// continuation raised to y=0.005
}
