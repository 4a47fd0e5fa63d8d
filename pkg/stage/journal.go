package stage

import (
	"context"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
)

// Journal counts what the engine did on a stage. Counts are running totals
// and only the most recent placements are kept.
type Journal struct {
	summary    Summary
	events     map[domain.EventName]int
	placements *memory.History[domain.PlacementEvent]
}

func newJournal(history int) *Journal {
	return &Journal{
		events:     make(map[domain.EventName]int),
		placements: memory.NewHistory[domain.PlacementEvent](history),
	}
}

// Hooks feeds every lifecycle event into the journal.
func (j *Journal) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGrabStart: func(_ context.Context, _ *domain.GrabEvent) {
			j.summary.Grabs++
		},
		OnGrabError: func(_ context.Context, _ *domain.GrabEvent) {
			j.summary.GrabErrors++
		},
		OnPlacement: func(_ context.Context, e *domain.PlacementEvent) {
			switch e.Placement.Kind {
			case domain.PlacementBury:
				j.summary.Buries++
			case domain.PlacementRaise:
				j.summary.Raises++
			}
			j.placements.Add(*e)
		},
		OnCameraPhase: func(_ context.Context, _ *domain.CameraEvent) {
			j.summary.Phases++
		},
		OnErase: func(_ context.Context, e *domain.EraseEvent) {
			if !e.Resumed {
				j.summary.Erases++
			}
		},
		OnResolveError: func(_ context.Context, _ *domain.ResolveEvent) {
			j.summary.Misses++
		},
	}
}

func (j *Journal) countEvent(name domain.EventName) {
	j.events[name]++
	j.summary.Events++
}

// Events returns how many times each input event was published.
func (j *Journal) Events() map[domain.EventName]int {
	out := make(map[domain.EventName]int, len(j.events))
	for k, v := range j.events {
		out[k] = v
	}
	return out
}

// RecentPlacements returns the latest placements, oldest first.
func (j *Journal) RecentPlacements() []domain.PlacementEvent {
	return j.placements.Items()
}

// Summary is the aggregate view used by reports.
type Summary struct {
	Events     int `json:"events"`
	Grabs      int `json:"grabs"`
	GrabErrors int `json:"grab_errors"`
	Buries     int `json:"buries"`
	Raises     int `json:"raises"`
	Phases     int `json:"phases"`
	Erases     int `json:"erases"`
	Misses     int `json:"resolve_errors"`
}

// Summary returns the running totals.
func (j *Journal) Summary() Summary {
	return j.summary
}
