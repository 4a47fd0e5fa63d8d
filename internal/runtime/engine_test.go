package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/internal/runtime"
	"github.com/aretw0/raybrush/pkg/adapters/clock"
	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
)

var (
	vrAgent      = domain.Agent{ID: "alice", Device: domain.DeviceVR}
	mobileAgent  = domain.Agent{ID: "bob", Device: domain.DeviceMobile}
	desktopAgent = domain.Agent{ID: "carol", Device: domain.DeviceDesktop}
)

type fixture struct {
	ctx    context.Context
	bus    *memory.Bus
	clock  *clock.Manual
	scene  *memory.Scene
	trail  *memory.Trail
	beam   *memory.Beam
	camera *memory.Camera
	tool   *memory.Tool
	owners *memory.Ownership
	engine *runtime.Engine

	placements []domain.PlacementEvent
	phases     []domain.CameraEvent
	grabErrors []domain.GrabEvent
	grabEnds   int
	resolveErr int
}

func newFixture(t *testing.T, opts ...runtime.EngineOption) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		bus:    memory.NewBus(),
		clock:  clock.NewManual(time.Unix(0, 0)),
		scene:  memory.NewScene([]memory.Surface{memory.NewPlane(r3.Vec{}, r3.Vec{Y: 1})}),
		trail:  memory.NewTrail("trail"),
		beam:   memory.NewBeam("beam"),
		camera: memory.NewCamera(),
		tool:   memory.NewTool(domain.Pose{Position: r3.Vec{Y: 1}, Forward: r3.Vec{Y: -1}}),
		owners: memory.NewOwnership(),
	}
	hooks := domain.LifecycleHooks{
		OnPlacement: func(_ context.Context, e *domain.PlacementEvent) {
			f.placements = append(f.placements, *e)
		},
		OnCameraPhase: func(_ context.Context, e *domain.CameraEvent) {
			f.phases = append(f.phases, *e)
		},
		OnGrabError: func(_ context.Context, e *domain.GrabEvent) {
			f.grabErrors = append(f.grabErrors, *e)
		},
		OnGrabEnd: func(context.Context, *domain.GrabEvent) {
			f.grabEnds++
		},
		OnResolveError: func(context.Context, *domain.ResolveEvent) {
			f.resolveErr++
		},
	}
	opts = append([]runtime.EngineOption{
		runtime.WithLifecycleHooks(hooks),
		runtime.WithClock(f.clock.Now),
	}, opts...)

	engine, err := runtime.NewEngine(
		runtime.Resources{Beam: f.beam, Trail: f.trail, Raycaster: f.scene},
		runtime.Host{Tool: f.tool, Bus: f.bus, Scheduler: f.clock, Camera: f.camera, Owners: f.owners},
		opts...,
	)
	require.NoError(t, err)
	f.engine = engine
	return f
}

func (f *fixture) publish(name domain.EventName) {
	f.bus.Publish(f.ctx, domain.InputEvent{Name: name})
}

func (f *fixture) grab(agent domain.Agent) {
	f.bus.Publish(f.ctx, domain.InputEvent{Name: domain.EventGrabStart, Agent: &agent})
}

func (f *fixture) pointer(name domain.EventName, q domain.RayQuery) {
	f.bus.Publish(f.ctx, domain.InputEvent{Name: name, Ray: &q})
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(f.ctx, d)
}

func (f *fixture) lastPlacement(t *testing.T) domain.Placement {
	t.Helper()
	require.NotEmpty(t, f.placements)
	return f.placements[len(f.placements)-1].Placement
}

func (f *fixture) owner(t *testing.T, id domain.EntityID) domain.OwnerID {
	t.Helper()
	o, err := f.owners.Owner(f.ctx, id)
	require.NoError(t, err)
	return o
}

func TestNewEngine_MissingResources(t *testing.T) {
	_, err := runtime.NewEngine(
		runtime.Resources{Trail: memory.NewTrail("trail")},
		runtime.Host{Bus: memory.NewBus()},
	)
	require.ErrorIs(t, err, domain.ErrMissingResource)
	assert.Contains(t, err.Error(), "beam")
	assert.Contains(t, err.Error(), "raycaster")
	assert.NotContains(t, err.Error(), "trail")
}

func TestNewEngine_InvalidTuning(t *testing.T) {
	tuning := domain.DefaultTuning()
	tuning.FarDistance = 0

	_, err := runtime.NewEngine(
		runtime.Resources{Beam: memory.NewBeam("b"), Trail: memory.NewTrail("t"), Raycaster: memory.NewScene(nil)},
		runtime.Host{
			Tool:      memory.NewTool(domain.Pose{}),
			Bus:       memory.NewBus(),
			Scheduler: clock.NewManual(time.Unix(0, 0)),
			Camera:    memory.NewCamera(),
			Owners:    memory.NewOwnership(),
		},
		runtime.WithTuning(tuning),
	)
	assert.ErrorContains(t, err, "far distance")
}

func TestEngine_UnsupportedDevice(t *testing.T) {
	f := newFixture(t)

	err := f.engine.GrabStart(f.ctx, desktopAgent)
	require.ErrorIs(t, err, domain.ErrUnsupportedDevice)

	assert.Equal(t, 2, f.bus.Total(), "only the grab lifecycle listeners remain")
	assert.False(t, f.engine.Snapshot().Grabbed)
	assert.Equal(t, domain.DefaultOwner, f.owner(t, "trail"))
	require.Len(t, f.grabErrors, 1)
	assert.ErrorIs(t, f.grabErrors[0].Err, domain.ErrUnsupportedDevice)
}

func TestEngine_TrackedStroke(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)

	snap := f.engine.Snapshot()
	require.True(t, snap.Grabbed)
	assert.Equal(t, domain.ModalityTracked, snap.Modality)
	assert.Equal(t, 4, snap.GrabSubscriptions)
	assert.Equal(t, domain.OwnerID("alice"), f.owner(t, "trail"))
	assert.Equal(t, domain.OwnerID("alice"), f.owner(t, "beam"))
	assert.True(t, f.beam.Visible())

	// Aiming without the trigger only moves the beam.
	f.publish(domain.EventTick)
	assert.Empty(t, f.placements)
	tr, updates := f.beam.Transform()
	assert.Equal(t, 1, updates)
	assertVec(t, r3.Vec{Y: 0.5}, tr.Position)
	assert.InDelta(t, 1, tr.Length, 1e-9)

	f.publish(domain.EventTriggerDown)
	assert.Empty(t, f.placements, "trigger down does not place by itself")

	f.publish(domain.EventTick)
	assert.Equal(t, domain.PlacementBury, f.lastPlacement(t).Kind)
	assertVec(t, r3.Vec{Y: -0.02}, f.lastPlacement(t).Position)

	f.tool.SetPose(domain.Pose{Position: r3.Vec{X: 1, Y: 1}, Forward: r3.Vec{Y: -1}})
	f.publish(domain.EventTick)
	assert.Equal(t, domain.PlacementRaise, f.lastPlacement(t).Kind)
	assertVec(t, r3.Vec{X: 1, Y: 0.005}, f.lastPlacement(t).Position)
	assertVec(t, r3.Vec{X: 1, Y: 0.005}, f.trail.Position())

	// Aim at the sky: the trail parks under the last hit and the beam reaches the far point.
	f.tool.SetPose(domain.Pose{Position: r3.Vec{X: 1, Y: 1}, Forward: r3.Vec{Y: 1}})
	f.publish(domain.EventTick)
	assertVec(t, r3.Vec{X: 1, Y: -0.02}, f.lastPlacement(t).Position)
	tr, _ = f.beam.Transform()
	assert.InDelta(t, 100, tr.Length, 1e-9)

	count := len(f.placements)
	f.publish(domain.EventTick)
	assert.Len(t, f.placements, count, "parked trail is not moved again")

	f.publish(domain.EventTriggerUp)
	assert.False(t, f.engine.Snapshot().Draw.Drawing)
	assertVec(t, r3.Vec{X: 1, Y: -0.02}, f.lastPlacement(t).Position)
}

func TestEngine_GrabEnd(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)
	f.publish(domain.EventTriggerDown)
	f.publish(domain.EventTick)

	f.publish(domain.EventGrabEnd)

	last := f.placements[len(f.placements)-1]
	assert.Equal(t, domain.EventGrabEnd, last.Cause)
	assert.Equal(t, domain.PlacementBury, last.Placement.Kind)
	assert.False(t, f.beam.Visible())
	assert.Equal(t, 2, f.bus.Total())
	assert.Equal(t, domain.DefaultOwner, f.owner(t, "trail"))
	assert.Equal(t, domain.DefaultOwner, f.owner(t, "beam"))
	assert.Equal(t, 1, f.grabEnds)

	snap := f.engine.Snapshot()
	assert.False(t, snap.Grabbed)
	assert.False(t, snap.Draw.Drawing)

	// Input after release goes nowhere.
	count := len(f.placements)
	f.publish(domain.EventTick)
	assert.Len(t, f.placements, count)

	assert.ErrorIs(t, f.engine.GrabEnd(f.ctx), domain.ErrNotGrabbed)
}

func TestEngine_RegrabReleasesPrevious(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)
	f.grab(mobileAgent)

	assert.Equal(t, 1, f.grabEnds)
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.ModalityPointer, snap.Modality)
	assert.Equal(t, 3, snap.GrabSubscriptions)
	assert.Equal(t, 0, f.bus.Count(domain.EventTick), "tracked listeners are gone")
	assert.Equal(t, domain.OwnerID("bob"), f.owner(t, "trail"))
}

func TestEngine_ResolverUnavailableIsMiss(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)
	f.publish(domain.EventTriggerDown)
	f.publish(domain.EventTick)
	f.publish(domain.EventTick)

	f.scene.SetUnavailable(errors.New("physics offline"))
	f.publish(domain.EventTick)

	assert.Equal(t, 1, f.resolveErr)
	assert.Equal(t, domain.PlacementBury, f.lastPlacement(t).Kind)
	assert.True(t, f.engine.Snapshot().Draw.Restart)

	f.scene.SetUnavailable(nil)
	f.publish(domain.EventTick)
	assert.Equal(t, domain.PlacementBury, f.lastPlacement(t).Kind, "recovery re-anchors with a bury")
}

func TestEngine_Erase(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)

	f.publish(domain.EventSecondaryDown)
	assert.False(t, f.trail.Emitting())
	assert.True(t, f.engine.Snapshot().EmissionStopped)

	f.advance(199 * time.Millisecond)
	assert.False(t, f.trail.Emitting())

	f.advance(time.Millisecond)
	assert.True(t, f.trail.Emitting())
	stops, plays := f.trail.Counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, plays)
}

func TestEngine_EraseRestartsDelay(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)

	f.publish(domain.EventSecondaryDown)
	f.advance(150 * time.Millisecond)
	f.publish(domain.EventSecondaryDown)
	f.advance(150 * time.Millisecond)
	assert.False(t, f.trail.Emitting())

	f.advance(50 * time.Millisecond)
	assert.True(t, f.trail.Emitting())
	_, plays := f.trail.Counts()
	assert.Equal(t, 1, plays)
}

func TestEngine_StaleEraseTimer(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)
	f.publish(domain.EventSecondaryDown)
	f.publish(domain.EventGrabEnd)

	f.advance(time.Second)
	_, plays := f.trail.Counts()
	assert.Equal(t, 0, plays, "erase timer of an ended grab must not fire")

	f.grab(mobileAgent)
	assert.True(t, f.trail.Emitting(), "next grab resumes emission")
	assert.False(t, f.engine.Snapshot().EmissionStopped)
}

func TestEngine_EraseWithoutGrab(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.engine.Erase(f.ctx), domain.ErrNotGrabbed)
}

func TestEngine_PointerFocusedStroke(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	assert.False(t, f.beam.Visible())

	// Focused input is not live before aiming.
	f.pointer(domain.EventFocusedStarted, down())
	assert.Empty(t, f.placements)

	f.publish(domain.EventAimPressed)
	assert.Equal(t, domain.PhaseToFirstPerson, f.engine.Snapshot().Phase)
	require.Len(t, f.camera.Moves(), 1)
	assert.True(t, f.camera.Moves()[0].FirstPerson)
	assert.Equal(t, 500*time.Millisecond, f.camera.Moves()[0].Spec.Duration)

	f.pointer(domain.EventFocusedStarted, down())
	assert.Empty(t, f.placements, "still transitioning")

	f.advance(500 * time.Millisecond)
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseFirstPersonFocused, snap.Phase)
	assert.Equal(t, 4, snap.FocusedSubscriptions)

	f.pointer(domain.EventFocusedStarted, down())
	assert.Equal(t, domain.PlacementBury, f.lastPlacement(t).Kind)
	f.pointer(domain.EventFocusedMoved, domain.NewRayQuery(r3.Vec{X: 2, Y: 1}, r3.Vec{Y: -1}))
	assert.Equal(t, domain.PlacementRaise, f.lastPlacement(t).Kind)
	assertVec(t, r3.Vec{X: 2, Y: 0.005}, f.lastPlacement(t).Position)

	// Returning mid-stroke lands the trail before the camera moves back.
	f.publish(domain.EventReturnPressed)
	snap = f.engine.Snapshot()
	assert.False(t, snap.Draw.Drawing)
	assert.Equal(t, 0, snap.FocusedSubscriptions)
	assert.Equal(t, domain.PhaseToThirdPerson, snap.Phase)
	assertVec(t, r3.Vec{X: 2, Y: -0.02}, f.lastPlacement(t).Position)
	require.Len(t, f.camera.Moves(), 2)
	assert.False(t, f.camera.Moves()[1].FirstPerson)

	f.advance(500 * time.Millisecond)
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)

	f.publish(domain.EventAimPressed)
	assert.Equal(t, domain.PhaseToFirstPerson, f.engine.Snapshot().Phase, "aim is re-armed")
}

func TestEngine_AimIgnoredWhileTransitioning(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)
	f.publish(domain.EventAimPressed)
	assert.Len(t, f.camera.Moves(), 1)
}

func TestEngine_ForcedExitFromFocus(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)
	f.advance(500 * time.Millisecond)

	f.publish(domain.EventFocusedForcedExit)
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseToThirdPerson, snap.Phase)
	assert.Equal(t, 0, snap.FocusedSubscriptions)

	f.advance(500 * time.Millisecond)
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)
}

func TestEngine_ForcedExitDuringTransition(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)
	f.advance(200 * time.Millisecond)

	f.publish(domain.EventFocusedForcedExit)
	assert.Equal(t, domain.PhaseToThirdPerson, f.engine.Snapshot().Phase)

	// The cancelled enter timer would have fired here.
	f.advance(300 * time.Millisecond)
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseToThirdPerson, snap.Phase)
	assert.Equal(t, 0, snap.FocusedSubscriptions)

	f.advance(200 * time.Millisecond)
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)

	f.publish(domain.EventAimPressed)
	assert.Equal(t, domain.PhaseToFirstPerson, f.engine.Snapshot().Phase)
}

func TestEngine_ForcedExitInThirdPersonIsNoop(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventFocusedForcedExit)
	assert.Empty(t, f.camera.Moves())
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)
}

func TestEngine_GrabEndMidTransition(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)

	f.publish(domain.EventGrabEnd)
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)
	require.Len(t, f.camera.Moves(), 2)
	assert.False(t, f.camera.Moves()[1].FirstPerson)

	phases := len(f.phases)
	f.advance(time.Second)
	assert.Len(t, f.phases, phases, "stale camera timer must not change phase")
	assert.Equal(t, 0, f.engine.Snapshot().FocusedSubscriptions)
	assert.Equal(t, 2, f.bus.Total())
}

func TestEngine_GrabEndWhileFocused(t *testing.T) {
	f := newFixture(t)
	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)
	f.advance(500 * time.Millisecond)
	f.pointer(domain.EventFocusedStarted, down())
	count := len(f.placements)

	f.publish(domain.EventGrabEnd)
	assert.Len(t, f.placements, count+1, "grab end lands the stroke exactly once")
	assert.Equal(t, 2, f.bus.Total())
	assert.Equal(t, domain.PhaseThirdPerson, f.engine.Snapshot().Phase)
}

func TestEngine_CustomTuning(t *testing.T) {
	tuning := domain.DefaultTuning()
	tuning.Offsets = domain.Offsets{BuryDepth: 0.1, RaiseHeight: 0.05}
	tuning.Transition.Duration = 0
	f := newFixture(t, runtime.WithTuning(tuning))

	f.grab(mobileAgent)
	f.publish(domain.EventAimPressed)
	f.advance(0)
	assert.Equal(t, domain.PhaseFirstPersonFocused, f.engine.Snapshot().Phase)

	f.pointer(domain.EventFocusedStarted, down())
	assertVec(t, r3.Vec{Y: -0.1}, f.lastPlacement(t).Position)
}

func TestEngine_Close(t *testing.T) {
	f := newFixture(t)
	f.grab(vrAgent)
	require.NoError(t, f.engine.Close(f.ctx))
	assert.Equal(t, 0, f.bus.Total())
	assert.Equal(t, 1, f.grabEnds)
}
