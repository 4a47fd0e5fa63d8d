package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// RunOwnershipRegistryContract runs a suite of tests to verify that an OwnershipRegistry
// implementation adheres to the defined interface contract.
func RunOwnershipRegistryContract(t *testing.T, reg OwnershipRegistry) {
	ctx := context.Background()
	entity := domain.EntityID("contract-trail-" + time.Now().Format("20060102150405.000000"))

	t.Run("Unassigned Is Default", func(t *testing.T) {
		owner, err := reg.Owner(ctx, entity+"-fresh")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultOwner, owner)
	})

	t.Run("Assign and Read", func(t *testing.T) {
		require.NoError(t, reg.Assign(ctx, entity, "player-1"))

		owner, err := reg.Owner(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, domain.OwnerID("player-1"), owner)
	})

	t.Run("Reassign", func(t *testing.T) {
		require.NoError(t, reg.Assign(ctx, entity, "player-2"))
		require.NoError(t, reg.Assign(ctx, entity, domain.DefaultOwner))

		owner, err := reg.Owner(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultOwner, owner)
	})
}

// RunRaycasterContract verifies a Raycaster against a scene that contains the
// horizontal plane y=0 facing up and nothing above y=1.
func RunRaycasterContract(t *testing.T, rc Raycaster) {
	t.Run("Hit Below", func(t *testing.T) {
		out, err := rc.Cast(r3.Vec{Y: 1}, r3.Vec{Y: -1})
		require.NoError(t, err)
		require.True(t, out.Hit, "ray pointing down at the floor should hit")
		assert.InDelta(t, 0, out.Point.Y, 1e-9)
		assert.InDelta(t, 1, out.Normal.Y, 1e-9)
	})

	t.Run("Miss Above", func(t *testing.T) {
		out, err := rc.Cast(r3.Vec{Y: 1}, r3.Vec{Y: 1})
		require.NoError(t, err)
		assert.False(t, out.Hit)
	})
}
