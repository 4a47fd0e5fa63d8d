package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/stage"
)

// ErrStageExists is returned when creating a stage under a taken ID.
var ErrStageExists = errors.New("stage already exists")

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns a set of stages and serializes access to each.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu     sync.Mutex
	locks  map[string]*lockEntry
	stages map[string]*stage.Stage

	locker    ports.DistributedLocker
	lockTTL   time.Duration
	stageOpts []stage.Option
	onCount   func(int)
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStageOptions applies opts to every stage the manager creates,
// before the options passed to Create.
func WithStageOptions(opts ...stage.Option) Option {
	return func(m *Manager) {
		m.stageOpts = append(m.stageOpts, opts...)
	}
}

// WithCountObserver is called with the number of stages after every create and delete.
func WithCountObserver(fn func(int)) Option {
	return func(m *Manager) {
		m.onCount = fn
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:   make(map[string]*lockEntry),
		stages:  make(map[string]*stage.Stage),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) lookup(id string) (*stage.Stage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stages[id]
	return s, ok
}

// Create builds a stage for doc. An empty id gets a random one.
func (m *Manager) Create(ctx context.Context, id string, doc *scene.Document, opts ...stage.Option) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, ok := m.lookup(id); ok {
			return fmt.Errorf("%w: %s", ErrStageExists, id)
		}
		all := append(slices.Clone(m.stageOpts), stage.WithID(id), stage.WithLogger(m.logger))
		s, err := stage.New(doc, append(all, opts...)...)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.stages[id] = s
		n := len(m.stages)
		m.mu.Unlock()
		m.observe(n)
		m.logger.InfoContext(ctx, "stage created", "stage", id, "scene", s.Scene().Name)
		return nil
	})
	return id, err
}

// WithStage runs fn holding the lock of stage id.
func (m *Manager) WithStage(ctx context.Context, id string, fn func(context.Context, *stage.Stage) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		s, ok := m.lookup(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrStageNotFound, id)
		}
		return fn(ctx, s)
	})
}

// Inspect returns the state of stage id.
func (m *Manager) Inspect(ctx context.Context, id string) (stage.State, error) {
	var st stage.State
	err := m.WithStage(ctx, id, func(ctx context.Context, s *stage.Stage) error {
		var err error
		st, err = s.Inspect(ctx)
		return err
	})
	return st, err
}

// Delete closes stage id and forgets it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithStage(ctx, id, func(ctx context.Context, s *stage.Stage) error {
		m.mu.Lock()
		delete(m.stages, id)
		n := len(m.stages)
		m.mu.Unlock()
		m.observe(n)
		m.logger.InfoContext(ctx, "stage deleted", "stage", id)
		return s.Close(ctx)
	})
}

func (m *Manager) observe(n int) {
	if m.onCount != nil {
		m.onCount(n)
	}
}

// List returns the stage IDs in sorted order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.stages))
	for id := range m.stages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close deletes every stage.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	for _, id := range m.List() {
		if err := m.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrStageNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithLock executes a function while holding the lock for id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"stage", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
