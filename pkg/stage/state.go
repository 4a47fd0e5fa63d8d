package stage

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/domain"
)

// State is a serializable view of a stage.
type State struct {
	ID         string            `json:"id"`
	Scene      string            `json:"scene"`
	Elapsed    time.Duration     `json:"elapsed"`
	Controller domain.Snapshot   `json:"controller"`
	Trail      TrailState        `json:"trail"`
	Beam       BeamState         `json:"beam"`
	Camera     CameraState       `json:"camera"`
	Owners     map[string]string `json:"owners"`
	Summary    Summary           `json:"summary"`
	Tool       domain.Pose       `json:"tool"`
	Tuning     domain.Tuning     `json:"tuning"`
}

// TrailState describes the trail effect.
type TrailState struct {
	Position r3.Vec `json:"position"`
	Emitting bool   `json:"emitting"`
	Points   int    `json:"points"`
}

// BeamState describes the beam.
type BeamState struct {
	Visible   bool                 `json:"visible"`
	Transform domain.BeamTransform `json:"transform"`
	Updates   int                  `json:"updates"`
}

// CameraState describes the camera.
type CameraState struct {
	FirstPerson bool `json:"first_person"`
	Moves       int  `json:"moves"`
}

// Inspect collects the stage state. Owners are read from the registry,
// which may be remote.
func (s *Stage) Inspect(ctx context.Context) (State, error) {
	tr, updates := s.beam.Transform()
	moves := s.camera.Moves()
	st := State{
		ID:         s.id,
		Scene:      s.doc.Name,
		Elapsed:    s.Elapsed(),
		Controller: s.engine.Snapshot(),
		Trail: TrailState{
			Position: s.trail.Position(),
			Emitting: s.trail.Emitting(),
			Points:   s.trail.Points(),
		},
		Beam:    BeamState{Visible: s.beam.Visible(), Transform: tr, Updates: updates},
		Camera:  CameraState{Moves: s.camera.MoveCount()},
		Owners:  make(map[string]string, 2),
		Summary: s.journal.Summary(),
		Tool:    s.tool.Pose(),
		Tuning:  s.engine.Tuning(),
	}
	if len(moves) > 0 {
		st.Camera.FirstPerson = moves[len(moves)-1].FirstPerson
	}
	for _, id := range []domain.EntityID{s.trail.EntityID(), s.beam.EntityID()} {
		owner, err := s.owners.Owner(ctx, id)
		if err != nil {
			return st, fmt.Errorf("failed to read owner of %s: %w", id, err)
		}
		st.Owners[string(id)] = string(owner)
	}
	return st, nil
}
