package domain

import "gonum.org/v1/gonum/spatial/r3"

// RayQuery is a ray cast from the held tool into the scene.
type RayQuery struct {
	Origin    r3.Vec `json:"origin"`
	Direction r3.Vec `json:"direction"`
}

// NewRayQuery creates a query with a normalized direction.
// A zero direction stays zero; raycasters report a miss for it.
func NewRayQuery(origin, direction r3.Vec) RayQuery {
	if r3.Norm2(direction) > 0 {
		direction = r3.Unit(direction)
	}
	return RayQuery{Origin: origin, Direction: direction}
}

// At returns the point at distance t along the ray.
func (q RayQuery) At(t float64) r3.Vec {
	return r3.Add(q.Origin, r3.Scale(t, q.Direction))
}

// Pose is the position and facing of an entity in world space.
type Pose struct {
	Position r3.Vec `json:"position"`
	Forward  r3.Vec `json:"forward"`
}

// Ray returns the query cast forward from the pose.
func (p Pose) Ray() RayQuery {
	return NewRayQuery(p.Position, p.Forward)
}
