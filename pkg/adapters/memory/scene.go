package memory

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

const epsilon = 1e-9

// Surface is a piece of scene geometry a ray can hit.
type Surface interface {
	// Intersect returns the ray distance and geometric normal of the hit.
	Intersect(origin, dir r3.Vec) (t float64, normal r3.Vec, ok bool)
}

// Plane is an infinite plane through Point.
type Plane struct {
	Point  r3.Vec
	Normal r3.Vec
}

// NewPlane creates a plane with a normalized normal.
func NewPlane(point, normal r3.Vec) Plane {
	return Plane{Point: point, Normal: r3.Unit(normal)}
}

// Intersect tests the ray against the plane.
func (p Plane) Intersect(origin, dir r3.Vec) (float64, r3.Vec, bool) {
	denom := r3.Dot(dir, p.Normal)
	if math.Abs(denom) < epsilon {
		return 0, r3.Vec{}, false
	}
	t := r3.Dot(r3.Sub(p.Point, origin), p.Normal) / denom
	if t < epsilon {
		return 0, r3.Vec{}, false
	}
	return t, p.Normal, true
}

// Quad is the parallelogram Origin + s*U + t*V for s, t in [0, 1].
type Quad struct {
	Origin r3.Vec
	U, V   r3.Vec
}

// Intersect tests the ray against the quad.
func (q Quad) Intersect(origin, dir r3.Vec) (float64, r3.Vec, bool) {
	n := r3.Cross(q.U, q.V)
	if r3.Norm2(n) < epsilon {
		return 0, r3.Vec{}, false
	}
	n = r3.Unit(n)
	t, _, ok := Plane{Point: q.Origin, Normal: n}.Intersect(origin, dir)
	if !ok {
		return 0, r3.Vec{}, false
	}
	// Solve for the planar coordinates of the hit along U and V.
	rel := r3.Sub(r3.Add(origin, r3.Scale(t, dir)), q.Origin)
	w := r3.Scale(1/r3.Dot(r3.Cross(q.U, q.V), n), n)
	s := r3.Dot(w, r3.Cross(rel, q.V))
	u := r3.Dot(w, r3.Cross(q.U, rel))
	if s < 0 || s > 1 || u < 0 || u > 1 {
		return 0, r3.Vec{}, false
	}
	return t, n, true
}

// Triangle wraps r3.Triangle with ray intersection.
type Triangle struct {
	r3.Triangle
}

// NewTriangle creates a triangle from three vertices, wound counter-clockwise
// when seen from the side its normal faces.
func NewTriangle(a, b, c r3.Vec) Triangle {
	return Triangle{Triangle: r3.Triangle{a, b, c}}
}

// Intersect implements Möller–Trumbore. Both faces are hit.
func (tri Triangle) Intersect(origin, dir r3.Vec) (float64, r3.Vec, bool) {
	edge1 := r3.Sub(tri.Triangle[1], tri.Triangle[0])
	edge2 := r3.Sub(tri.Triangle[2], tri.Triangle[0])
	h := r3.Cross(dir, edge2)
	det := r3.Dot(edge1, h)
	if det > -epsilon && det < epsilon {
		return 0, r3.Vec{}, false
	}
	inv := 1 / det
	s := r3.Sub(origin, tri.Triangle[0])
	u := inv * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, r3.Vec{}, false
	}
	q := r3.Cross(s, edge1)
	v := inv * r3.Dot(dir, q)
	if v < 0 || u+v > 1 {
		return 0, r3.Vec{}, false
	}
	t := inv * r3.Dot(edge2, q)
	if t < epsilon {
		return 0, r3.Vec{}, false
	}
	return t, r3.Unit(r3.Cross(edge1, edge2)), true
}

// Scene is an in-memory raycaster over a fixed set of surfaces.
// Hits report the nearest surface with its normal turned to face the ray.
// Safe for concurrent use.
type Scene struct {
	mu          sync.RWMutex
	surfaces    []Surface
	maxDistance float64
	down        error
}

var _ ports.Raycaster = (*Scene)(nil)

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithMaxDistance ignores hits farther than d. Zero means unlimited.
func WithMaxDistance(d float64) SceneOption {
	return func(s *Scene) {
		s.maxDistance = d
	}
}

// NewScene creates a scene from surfaces.
func NewScene(surfaces []Surface, opts ...SceneOption) *Scene {
	s := &Scene{surfaces: append([]Surface(nil), surfaces...)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a surface.
func (s *Scene) Add(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaces = append(s.surfaces, surface)
}

// Len returns the number of surfaces.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.surfaces)
}

// SetUnavailable makes every cast fail with err until it is called with nil.
func (s *Scene) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = err
}

// Cast returns the nearest hit along the ray, or a miss.
func (s *Scene) Cast(origin, direction r3.Vec) (domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down != nil {
		return domain.Miss, s.down
	}
	if r3.Norm2(direction) < epsilon {
		return domain.Miss, nil
	}
	dir := r3.Unit(direction)

	best := math.Inf(1)
	var normal r3.Vec
	for _, surf := range s.surfaces {
		t, n, ok := surf.Intersect(origin, dir)
		if !ok || t >= best {
			continue
		}
		if s.maxDistance > 0 && t > s.maxDistance {
			continue
		}
		best, normal = t, n
	}
	if math.IsInf(best, 1) {
		return domain.Miss, nil
	}
	if r3.Dot(normal, dir) > 0 {
		normal = r3.Scale(-1, normal)
	}
	return domain.HitAt(r3.Add(origin, r3.Scale(best, dir)), normal), nil
}
