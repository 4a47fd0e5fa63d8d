package runtime

import (
	"fmt"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// HitResolver turns ray queries into outcomes using the host raycaster.
type HitResolver struct {
	raycaster ports.Raycaster
}

// NewHitResolver creates a resolver backed by rc.
func NewHitResolver(rc ports.Raycaster) *HitResolver {
	return &HitResolver{raycaster: rc}
}

// Resolve casts q into the scene.
// Any failure is wrapped in domain.ErrResolverUnavailable and comes back with a Miss.
func (r *HitResolver) Resolve(q domain.RayQuery) (domain.Outcome, error) {
	if r == nil || r.raycaster == nil {
		return domain.Miss, domain.ErrResolverUnavailable
	}
	out, err := r.raycaster.Cast(q.Origin, q.Direction)
	if err != nil {
		return domain.Miss, fmt.Errorf("%w: %w", domain.ErrResolverUnavailable, err)
	}
	if !out.Hit {
		return domain.Miss, nil
	}
	return out, nil
}
