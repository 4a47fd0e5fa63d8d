package ports

import (
	"context"

	"github.com/aretw0/raybrush/pkg/domain"
)

// OwnershipRegistry records which owner controls each entity.
type OwnershipRegistry interface {
	// Assign transfers ownership of entity to owner.
	Assign(ctx context.Context, entity domain.EntityID, owner domain.OwnerID) error

	// Owner returns the current owner. Unassigned entities belong to domain.DefaultOwner.
	Owner(ctx context.Context, entity domain.EntityID) (domain.OwnerID, error)
}
