package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/raybrush/pkg/adapters/redis"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestOwnership_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunOwnershipRegistryContract(t, redis.NewFromClient(client))
}

func TestOwnership_KeysAndList(t *testing.T) {
	mr, client := setup(t)
	reg := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, reg.Assign(ctx, "s1/trail", "alice"))
	require.NoError(t, reg.Assign(ctx, "s1/beam", "alice"))
	assert.True(t, mr.Exists("test:owner:s1/trail"))

	owners, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.EntityID]domain.OwnerID{
		"s1/trail": "alice",
		"s1/beam":  "alice",
	}, owners)

	require.NoError(t, reg.Assign(ctx, "s1/beam", domain.DefaultOwner))
	assert.False(t, mr.Exists("test:owner:s1/beam"))
	owners, err = reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestOwnership_TTL(t *testing.T) {
	mr, client := setup(t)
	reg := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, reg.Assign(ctx, "trail", "alice"))
	mr.FastForward(2 * time.Second)

	owner, err := reg.Owner(ctx, "trail")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOwner, owner, "expired assignment falls back to default")
}

func TestOwnership_Unreachable(t *testing.T) {
	mr, client := setup(t)
	reg := redis.NewFromClient(client)
	mr.Close()

	err := reg.Assign(context.Background(), "trail", "alice")
	assert.ErrorContains(t, err, "failed to assign owner")
}

func TestLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "stage-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:stage-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:stage-1"))
}

func TestLocker_Contention(t *testing.T) {
	_, client := setup(t)
	a := redis.NewLocker(client, "test:")
	b := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := a.Lock(ctx, "stage-1", 5*time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = b.Lock(short, "stage-1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	unlock2, err := b.Lock(ctx, "stage-1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "stage-1", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	unlock2, err := locker.Lock(ctx, "stage-1", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock(ctx), "releasing an expired lock is harmless")
	assert.True(t, mr.Exists("test:lock:stage-1"), "new holder keeps the lock")
	require.NoError(t, unlock2(ctx))
}
