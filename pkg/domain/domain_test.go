package domain

import (
	"context"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func closeTo(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestNewBeamTransform(t *testing.T) {
	q := NewRayQuery(Vec(0, 1, 0), Vec(0, 0, 2))
	beam := NewBeamTransform(q, Vec(0, 1, 4))

	if !closeTo(beam.Position, Vec(0, 1, 2)) {
		t.Errorf("Position = %v, want midpoint (0,1,2)", beam.Position)
	}
	if !closeTo(beam.Forward, Vec(0, 0, 1)) {
		t.Errorf("Forward = %v, want normalized (0,0,1)", beam.Forward)
	}
	if math.Abs(beam.Length-4) > 1e-9 {
		t.Errorf("Length = %v, want 4", beam.Length)
	}
}

func TestNewRayQuery_ZeroDirection(t *testing.T) {
	q := NewRayQuery(Vec(1, 2, 3), r3.Vec{})
	if q.Direction != (r3.Vec{}) {
		t.Errorf("zero direction should stay zero, got %v", q.Direction)
	}
}

func TestModalityFor(t *testing.T) {
	tests := []struct {
		device DeviceClass
		want   InputModality
		ok     bool
	}{
		{DeviceVR, ModalityTracked, true},
		{DeviceMobile, ModalityPointer, true},
		{DeviceDesktop, ModalityNone, false},
		{"", ModalityNone, false},
		{"console", ModalityNone, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.device), func(t *testing.T) {
			got, ok := ModalityFor(tt.device)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ModalityFor(%q) = (%q, %v), want (%q, %v)", tt.device, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero bury", func(tu *Tuning) { tu.Offsets.BuryDepth = 0 }},
		{"negative raise", func(tu *Tuning) { tu.Offsets.RaiseHeight = -0.1 }},
		{"zero far", func(tu *Tuning) { tu.FarDistance = 0 }},
		{"negative transition", func(tu *Tuning) { tu.Transition.Duration = -time.Second }},
		{"unknown easing", func(tu *Tuning) { tu.Transition.Easing = "bounce" }},
		{"negative erase delay", func(tu *Tuning) { tu.EraseDelay = -time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := DefaultTuning()
			tt.mutate(&tu)
			if err := tu.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLifecycleHooksMerge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnErase: func(ctx context.Context, e *EraseEvent) { calls = append(calls, "a") },
	}
	b := LifecycleHooks{
		OnErase:   func(ctx context.Context, e *EraseEvent) { calls = append(calls, "b") },
		OnGrabEnd: func(ctx context.Context, e *GrabEvent) { calls = append(calls, "end") },
	}

	merged := a.Merge(b)
	merged.OnErase(context.Background(), &EraseEvent{})
	merged.OnGrabEnd(context.Background(), &GrabEvent{})

	if merged.OnPlacement != nil {
		t.Error("merging two nil callbacks should stay nil")
	}
	want := []string{"a", "b", "end"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestEventNameIsKnown(t *testing.T) {
	if !EventFocusedForcedExit.IsKnown() {
		t.Error("forced exit should be known")
	}
	if EventName("jump").IsKnown() {
		t.Error("jump should not be known")
	}
}
