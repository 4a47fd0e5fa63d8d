package runtime

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/domain"
)

// DrawStateMachine decides where the trail anchor goes for each raycast outcome.
//
// While drawing, hits raise the anchor above the surface. A miss parks the
// anchor under the last known surface and flags a restart; the first hit after
// a restart (or after drawing starts) is buried at the new point instead of
// raised, so the trail does not streak across the gap.
type DrawStateMachine struct {
	state   domain.DrawState
	offsets domain.Offsets
	far     float64
}

// NewDrawStateMachine creates a machine in the initial state.
func NewDrawStateMachine(offsets domain.Offsets, farDistance float64) *DrawStateMachine {
	return &DrawStateMachine{offsets: offsets, far: farDistance}
}

// State returns a copy of the current state.
func (m *DrawStateMachine) State() domain.DrawState {
	return m.state
}

// Reset returns the machine to the initial state.
func (m *DrawStateMachine) Reset() {
	m.state = domain.DrawState{}
}

// StartDrawing begins a stroke. The next hit is treated as a restart.
func (m *DrawStateMachine) StartDrawing() {
	m.state.Drawing = true
	m.state.Restart = true
}

// StopDrawing ends the stroke and returns the bury placement at the last hit.
// It is idempotent: calling it while not drawing buries at the same point again.
func (m *DrawStateMachine) StopDrawing() domain.Placement {
	m.state.Drawing = false
	return m.bury(m.state.LastHit, m.state.LastNormal)
}

// Advance feeds one outcome for query q and returns what to do with the trail.
func (m *DrawStateMachine) Advance(q domain.RayQuery, out domain.Outcome) domain.Step {
	far := q.At(m.far)
	step := domain.Step{Far: far, Endpoint: far}

	if !out.Hit {
		if m.state.Drawing && !m.state.Restart {
			p := m.bury(m.state.LastHit, m.state.LastNormal)
			step.Placement = &p
			m.state.Restart = true
		}
		return step
	}

	step.Endpoint = out.Point
	if m.state.Drawing {
		var p domain.Placement
		if m.state.Restart {
			p = m.bury(out.Point, out.Normal)
			m.state.Restart = false
		} else {
			p = m.raise(out.Point, out.Normal)
		}
		step.Placement = &p
	}
	m.state.LastHit = out.Point
	m.state.LastNormal = out.Normal
	return step
}

func (m *DrawStateMachine) bury(p, n r3.Vec) domain.Placement {
	return domain.Placement{
		Kind:     domain.PlacementBury,
		Position: r3.Sub(p, r3.Scale(m.offsets.BuryDepth, n)),
	}
}

func (m *DrawStateMachine) raise(p, n r3.Vec) domain.Placement {
	return domain.Placement{
		Kind:     domain.PlacementRaise,
		Position: r3.Add(p, r3.Scale(m.offsets.RaiseHeight, n)),
	}
}
