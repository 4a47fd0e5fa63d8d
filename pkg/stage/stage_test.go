package stage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/stage"
)

var vr = &domain.Agent{ID: "alice", Device: domain.DeviceVR}

func newStage(t *testing.T, opts ...stage.Option) *stage.Stage {
	t.Helper()
	s, err := stage.New(scene.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newStage(t)
	assert.Equal(t, "studio", s.ID())
	assert.Equal(t, domain.EntityID("studio/trail"), s.Trail().EntityID())
	assert.Equal(t, domain.EntityID("studio/beam"), s.Beam().EntityID())
	assert.Zero(t, s.Elapsed())
}

func TestNew_InvalidScene(t *testing.T) {
	_, err := stage.New(&scene.Document{Name: "empty"})
	assert.ErrorIs(t, err, stage.ErrInvalidScene)
	assert.ErrorContains(t, err, "no surfaces")
}

func TestDispatch_TrackedStroke(t *testing.T) {
	s := newStage(t, stage.WithID("s1"), stage.WithIDGenerator(func() string { return "g1" }))
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventGrabStart, Agent: vr}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTriggerDown}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTick, Repeat: 2, Every: 16 * time.Millisecond}))

	// Default tool hits the floor three meters ahead.
	pos := s.Trail().Position()
	assert.InDelta(t, domain.DefaultRaiseHeight, pos.Y, 1e-9)
	assert.InDelta(t, -3.0, pos.Z, 1e-9)
	assert.Equal(t, 32*time.Millisecond, s.Elapsed())

	sum := s.Journal().Summary()
	assert.Equal(t, 1, sum.Grabs)
	assert.Equal(t, 1, sum.Buries)
	assert.Equal(t, 2, sum.Raises)
	assert.Equal(t, 3, s.Journal().Events()[domain.EventTick])

	st, err := s.Inspect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", st.Controller.GrabID)
	assert.True(t, st.Beam.Visible)
	assert.Equal(t, 3, st.Beam.Updates)
	assert.Equal(t, "alice", st.Owners["s1/trail"])
	assert.Equal(t, "alice", st.Owners["s1/beam"])
}

func TestDispatch_PoseMovesTool(t *testing.T) {
	s := newStage(t)
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventGrabStart, Agent: vr}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTriggerDown}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTick}))

	up := &scene.Pose{Position: scene.Vec{0, 1.5, 0}, Forward: scene.Vec{0, 1, 0}}
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTick, Pose: up}))

	// The miss parks the trail under the last floor hit.
	pos := s.Trail().Position()
	assert.InDelta(t, -domain.DefaultBuryDepth, pos.Y, 1e-9)
	assert.True(t, s.Engine().Snapshot().Draw.Restart)
}

func TestDispatch_InvalidStep(t *testing.T) {
	s := newStage(t)
	err := s.Dispatch(context.Background(), script.Step{Event: "jump"})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
}

func TestDispatch_EraseTimer(t *testing.T) {
	s := newStage(t)
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventGrabStart, Agent: vr}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventSecondaryDown}))
	assert.False(t, s.Trail().Emitting())

	require.NoError(t, s.Dispatch(ctx, script.Step{Wait: domain.DefaultEraseDelay}))
	assert.True(t, s.Trail().Emitting())
	assert.Equal(t, 1, s.Journal().Summary().Erases)
}

func TestRun_PointerScript(t *testing.T) {
	s := newStage(t)
	ctx := context.Background()
	ray := &script.Ray{Origin: scene.Vec{0, 1, 0}, Direction: scene.Vec{0, -1, 0}}

	sc := &script.Script{
		Name:  "pointer",
		Agent: &domain.Agent{ID: "bob", Device: domain.DeviceMobile},
		Steps: []script.Step{
			{Event: domain.EventGrabStart},
			{Event: domain.EventAimPressed},
			{Wait: domain.DefaultCameraTransition},
			{Event: domain.EventFocusedStarted, Ray: ray},
			{Event: domain.EventFocusedMoved, Ray: ray},
			{Event: domain.EventFocusedEnded},
			{Event: domain.EventReturnPressed},
			{Wait: domain.DefaultCameraTransition},
		},
	}
	require.NoError(t, sc.Validate())
	require.NoError(t, s.Run(ctx, sc))

	snap := s.Engine().Snapshot()
	assert.Equal(t, domain.PhaseThirdPerson, snap.Phase)
	assert.Equal(t, 0, snap.FocusedSubscriptions)

	moves := s.Camera().Moves()
	require.Len(t, moves, 2)
	assert.True(t, moves[0].FirstPerson)
	assert.False(t, moves[1].FirstPerson)

	sum := s.Journal().Summary()
	assert.Equal(t, 4, sum.Phases)
	assert.Equal(t, 1, sum.Raises)
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	s := newStage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, &script.Script{Steps: []script.Step{{Event: domain.EventTick}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTicks_Limits(t *testing.T) {
	s := newStage(t)
	ctx := context.Background()

	require.NoError(t, stage.CheckTicks(stage.MaxTicks))
	assert.ErrorIs(t, s.Ticks(ctx, time.Second, stage.MaxTicks+1), stage.ErrTooManyTicks)
	assert.ErrorContains(t, s.Ticks(ctx, time.Second, -1), "negative")
	assert.Zero(t, s.Elapsed())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Ticks(cancelled, time.Second, 100), context.Canceled)
	assert.Zero(t, s.Elapsed())

	require.NoError(t, s.Ticks(ctx, 100*time.Millisecond, 4))
	assert.Equal(t, 100*time.Millisecond, s.Elapsed())
	assert.Equal(t, 4, s.Journal().Events()[domain.EventTick])
}

func TestJournal_KeepsRecentPlacements(t *testing.T) {
	s := newStage(t)
	ctx := context.Background()
	n := memory.DefaultHistory + 10

	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventGrabStart, Agent: vr}))
	require.NoError(t, s.Dispatch(ctx, script.Step{Event: domain.EventTriggerDown}))
	require.NoError(t, s.Ticks(ctx, time.Duration(n)*time.Millisecond, n))

	sum := s.Journal().Summary()
	assert.Equal(t, 1, sum.Buries)
	assert.Equal(t, n-1, sum.Raises)
	assert.Equal(t, n, s.Journal().Events()[domain.EventTick])

	recent := s.Journal().RecentPlacements()
	require.Len(t, recent, memory.DefaultHistory)
	assert.Equal(t, domain.PlacementRaise, recent[len(recent)-1].Placement.Kind)
}

func TestSharedOwnership(t *testing.T) {
	owners := memory.NewOwnership()
	a := newStage(t, stage.WithID("a"), stage.WithOwnership(owners))
	b := newStage(t, stage.WithID("b"), stage.WithOwnership(owners))
	ctx := context.Background()

	require.NoError(t, a.Dispatch(ctx, script.Step{Event: domain.EventGrabStart, Agent: vr}))

	owner, err := owners.Owner(ctx, "a/trail")
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerID("alice"), owner)

	owner, err = owners.Owner(ctx, "b/trail")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOwner, owner)

	require.NoError(t, b.Close(ctx))
	require.NoError(t, a.Close(ctx))
	owner, err = owners.Owner(ctx, "a/trail")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOwner, owner)
}
