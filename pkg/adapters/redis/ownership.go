package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// Ownership implements ports.OwnershipRegistry on Redis so every raybrush
// process sharing the instance sees who holds each trail and beam.
//
// Each assignment is a plain key plus a member of an index ZSET scored by
// expiry, which List prunes lazily.
type Ownership struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.OwnershipRegistry = (*Ownership)(nil)

type Option func(*Ownership)

// WithTTL expires assignments that are not refreshed, returning the entity
// to the default owner if its holder disappears.
func WithTTL(ttl time.Duration) Option {
	return func(o *Ownership) {
		o.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *Ownership) {
		o.prefix = prefix
	}
}

// New connects to Redis and returns the registry.
func New(address, password string, db int, opts ...Option) *Ownership {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a registry from an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Ownership {
	o := &Ownership{
		client: client,
		prefix: "raybrush:",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Ownership) key(entity domain.EntityID) string {
	return o.prefix + "owner:" + string(entity)
}

func (o *Ownership) indexKey() string {
	return o.prefix + "owners"
}

// Assign records owner for entity. The default owner is stored as absence.
func (o *Ownership) Assign(ctx context.Context, entity domain.EntityID, owner domain.OwnerID) error {
	pipe := o.client.TxPipeline()
	if owner == domain.DefaultOwner || owner == "" {
		pipe.Del(ctx, o.key(entity))
		pipe.ZRem(ctx, o.indexKey(), string(entity))
	} else {
		pipe.Set(ctx, o.key(entity), string(owner), o.ttl)
		score := float64(time.Now().Add(o.ttl).Unix())
		if o.ttl == 0 {
			score = 4102444800 // 2100-01-01
		}
		pipe.ZAdd(ctx, o.indexKey(), backend.Z{Score: score, Member: string(entity)})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to assign owner in redis: %w", err)
	}
	return nil
}

// Owner returns the owner of entity, or the default owner.
func (o *Ownership) Owner(ctx context.Context, entity domain.EntityID) (domain.OwnerID, error) {
	val, err := o.client.Get(ctx, o.key(entity)).Result()
	if errors.Is(err, backend.Nil) {
		return domain.DefaultOwner, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read owner from redis: %w", err)
	}
	return domain.OwnerID(val), nil
}

// List returns every entity currently held by a non-default owner.
func (o *Ownership) List(ctx context.Context) (map[domain.EntityID]domain.OwnerID, error) {
	now := float64(time.Now().Unix())
	if err := o.client.ZRemRangeByScore(ctx, o.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired owners: %w", err)
	}

	entities, err := o.client.ZRange(ctx, o.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	out := make(map[domain.EntityID]domain.OwnerID, len(entities))
	if len(entities) == 0 {
		return out, nil
	}

	keys := make([]string, len(entities))
	for i, e := range entities {
		keys[i] = o.key(domain.EntityID(e))
	}
	vals, err := o.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read owners: %w", err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[domain.EntityID(entities[i])] = domain.OwnerID(s)
		}
	}
	return out, nil
}

// Ping checks the connection.
func (o *Ownership) Ping(ctx context.Context) error {
	return o.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (o *Ownership) Close() error {
	return o.client.Close()
}

// Client exposes the underlying client so a Locker can share it.
func (o *Ownership) Client() backend.UniversalClient {
	return o.client
}
