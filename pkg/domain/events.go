package domain

import (
	"context"
	"time"
)

// LifecycleEvent is the category of a lifecycle notification.
type LifecycleEvent string

const (
	LifecycleGrabStart    LifecycleEvent = "grab_start"
	LifecycleGrabEnd      LifecycleEvent = "grab_end"
	LifecycleGrabError    LifecycleEvent = "grab_error"
	LifecyclePlacement    LifecycleEvent = "placement"
	LifecycleResolveError LifecycleEvent = "resolve_error"
	LifecycleCameraPhase  LifecycleEvent = "camera_phase"
	LifecycleErase        LifecycleEvent = "erase"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      LifecycleEvent `json:"type"`
	GrabID    string         `json:"grab_id,omitempty"`
}

// GrabEvent reports a grab starting, ending or failing.
type GrabEvent struct {
	EventBase
	Agent    Agent         `json:"agent"`
	Modality InputModality `json:"modality,omitempty"`
	Err      error         `json:"-"`
}

// PlacementEvent reports a trail placement and what caused it.
type PlacementEvent struct {
	EventBase
	Placement Placement `json:"placement"`
	Cause     EventName `json:"cause"`
}

// ResolveEvent reports a raycast that could not be resolved.
type ResolveEvent struct {
	EventBase
	Query RayQuery `json:"query"`
	Err   error    `json:"-"`
}

// CameraEvent reports a camera sequencer phase change.
type CameraEvent struct {
	EventBase
	From CameraPhase `json:"from"`
	To   CameraPhase `json:"to"`
}

// EraseEvent reports an erase. Resumed is false when emission stops and true when it restarts.
type EraseEvent struct {
	EventBase
	Resumed bool `json:"resumed"`
}

// LifecycleHooks defines callbacks for controller observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnGrabStart    func(context.Context, *GrabEvent)
	OnGrabEnd      func(context.Context, *GrabEvent)
	OnGrabError    func(context.Context, *GrabEvent)
	OnPlacement    func(context.Context, *PlacementEvent)
	OnResolveError func(context.Context, *ResolveEvent)
	OnCameraPhase  func(context.Context, *CameraEvent)
	OnErase        func(context.Context, *EraseEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGrabStart:    chain(h.OnGrabStart, other.OnGrabStart),
		OnGrabEnd:      chain(h.OnGrabEnd, other.OnGrabEnd),
		OnGrabError:    chain(h.OnGrabError, other.OnGrabError),
		OnPlacement:    chain(h.OnPlacement, other.OnPlacement),
		OnResolveError: chain(h.OnResolveError, other.OnResolveError),
		OnCameraPhase:  chain(h.OnCameraPhase, other.OnCameraPhase),
		OnErase:        chain(h.OnErase, other.OnErase),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
