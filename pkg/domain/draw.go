package domain

import "gonum.org/v1/gonum/spatial/r3"

// DrawState is the complete drawing state of one grab.
// The zero value is the initial state: not drawing, last hit at the world origin.
type DrawState struct {
	Drawing    bool   `json:"drawing"`
	Restart    bool   `json:"restart"`
	LastHit    r3.Vec `json:"last_hit"`
	LastNormal r3.Vec `json:"last_normal"`
}

// PlacementKind tells how the trail anchor is offset from the surface.
type PlacementKind string

const (
	// PlacementBury parks the anchor just under the surface.
	PlacementBury PlacementKind = "bury"
	// PlacementRaise lifts the anchor just above the surface.
	PlacementRaise PlacementKind = "raise"
)

// Placement is a command to move the trail effect.
type Placement struct {
	Kind     PlacementKind `json:"kind"`
	Position r3.Vec        `json:"position"`
}

// Step is the result of advancing the draw state machine by one raycast outcome.
type Step struct {
	// Placement is nil when the trail must not move this tick.
	Placement *Placement `json:"placement,omitempty"`

	// Far is origin + direction*FarDistance, reported hit or miss.
	Far r3.Vec `json:"far"`

	// Endpoint is the hit point on a hit and Far on a miss.
	// The tracked-controller beam is stretched from the ray origin to it.
	Endpoint r3.Vec `json:"endpoint"`
}

// BeamTransform positions the visual beam between the ray origin and its endpoint.
type BeamTransform struct {
	Position r3.Vec  `json:"position"`
	Forward  r3.Vec  `json:"forward"`
	Length   float64 `json:"length"`
}

// NewBeamTransform computes the beam spanning from the query origin to endpoint.
func NewBeamTransform(q RayQuery, endpoint r3.Vec) BeamTransform {
	return BeamTransform{
		Position: Lerp(q.Origin, endpoint, 0.5),
		Forward:  q.Direction,
		Length:   Distance(q.Origin, endpoint),
	}
}
