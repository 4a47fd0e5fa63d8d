package raybrush

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/internal/runtime"
	"github.com/aretw0/raybrush/pkg/domain"
)

// Resources are the scene entities the engine drives. All three are required.
type Resources = runtime.Resources

// Host bundles the services the embedding application provides. All are required.
type Host = runtime.Host

// Engine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTuning overrides the default offsets, far distance and timings.
func WithTuning(t domain.Tuning) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithTuning(t))
	}
}

// WithClock sets the time source used to stamp lifecycle events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClock(now))
	}
}

// WithIDGenerator sets how grab IDs are minted. Defaults to random UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithIDGenerator(fn))
	}
}

// WithName labels the engine; the name is attached to every log line.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New validates resources and host services and subscribes to grab events.
// A missing dependency fails with domain.ErrMissingResource.
func New(res Resources, host Host, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so we never hand nil to the runtime.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("stage", eng.Name)
	}

	runtimeOpts := append([]runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}, eng.runtimeOpts...)

	rt, err := runtime.NewEngine(res, host, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// GrabStart hands the tool to agent, releasing any current holder first.
func (e *Engine) GrabStart(ctx context.Context, agent domain.Agent) error {
	return e.runtime.GrabStart(ctx, agent)
}

// GrabEnd releases the tool. It fails with domain.ErrNotGrabbed when idle.
func (e *Engine) GrabEnd(ctx context.Context) error {
	return e.runtime.GrabEnd(ctx)
}

// Erase clears the trail: emission stops now and resumes after the erase delay.
func (e *Engine) Erase(ctx context.Context) error {
	return e.runtime.Erase(ctx)
}

// Snapshot returns the controller state.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.runtime.Snapshot()
}

// Tuning returns the effective tuning.
func (e *Engine) Tuning() domain.Tuning {
	return e.runtime.Tuning()
}

// Close releases any grab and detaches from the bus.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
