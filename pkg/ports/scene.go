package ports

import (
	"context"

	"github.com/aretw0/raybrush/pkg/domain"
	"gonum.org/v1/gonum/spatial/r3"
)

// Raycaster is the host's raycast primitive.
type Raycaster interface {
	// Cast returns the nearest surface hit along the ray, or domain.Miss.
	// An error means the raycaster could not answer this time.
	Cast(origin, direction r3.Vec) (domain.Outcome, error)
}

// Entity is a scene object that can be owned by an agent.
type Entity interface {
	EntityID() domain.EntityID
}

// TrailEffect is the visual emitter that paints the trail.
// Stop and Play are fire-and-forget; observers see them eventually.
type TrailEffect interface {
	Entity
	SetPosition(p r3.Vec)
	Stop()
	Play()
}

// Beam is the visual ray shown for tracked controllers.
type Beam interface {
	Entity
	SetTransform(t domain.BeamTransform)
	SetVisible(visible bool)
}

// PoseSource reports the current pose of the held tool.
type PoseSource interface {
	Pose() domain.Pose
}

// CameraController switches the local camera mode of the grabbing agent.
type CameraController interface {
	SetFirstPerson(ctx context.Context, spec domain.TransitionSpec)
	SetThirdPerson(ctx context.Context, spec domain.TransitionSpec)
}
