package memory

import (
	"context"
	"sync"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// Ownership implements ports.OwnershipRegistry in memory.
// Safe for concurrent use.
type Ownership struct {
	mu     sync.RWMutex
	owners map[domain.EntityID]domain.OwnerID
}

var _ ports.OwnershipRegistry = (*Ownership)(nil)

// NewOwnership creates an empty registry.
func NewOwnership() *Ownership {
	return &Ownership{owners: make(map[domain.EntityID]domain.OwnerID)}
}

// Assign records owner for entity. Assigning the default owner forgets the entity.
func (o *Ownership) Assign(_ context.Context, entity domain.EntityID, owner domain.OwnerID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if owner == domain.DefaultOwner || owner == "" {
		delete(o.owners, entity)
		return nil
	}
	o.owners[entity] = owner
	return nil
}

// Owner returns the owner of entity, or the default owner.
func (o *Ownership) Owner(_ context.Context, entity domain.EntityID) (domain.OwnerID, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if owner, ok := o.owners[entity]; ok {
		return owner, nil
	}
	return domain.DefaultOwner, nil
}
