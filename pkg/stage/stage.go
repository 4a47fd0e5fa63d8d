// Package stage is a simulated host for the brush: a scene raycaster, an
// in-memory bus, a manual clock and recording effects wired to one engine.
//
// A Stage is not safe for concurrent use. Hosts that share stages between
// goroutines serialize access through session.Manager.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/raybrush"
	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/adapters/clock"
	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/script"
)

// MaxTicks bounds how many ticks a single Ticks call publishes.
const MaxTicks = 10_000

var (
	// ErrInvalidScene is returned by New when the scene document cannot be built.
	ErrInvalidScene = errors.New("invalid scene")
	// ErrTooManyTicks is returned by Ticks above MaxTicks.
	ErrTooManyTicks = errors.New("too many ticks")
)

// Stage bundles one scene with the engine drawing in it.
type Stage struct {
	id      string
	doc     *scene.Document
	started time.Time

	scene  *memory.Scene
	bus    *memory.Bus
	clock  *clock.Manual
	trail  *memory.Trail
	beam   *memory.Beam
	camera *memory.Camera
	tool   *memory.Tool
	owners ports.OwnershipRegistry
	engine *raybrush.Engine

	journal *Journal
	logger  *slog.Logger
}

type config struct {
	id     string
	start  time.Time
	tuning *domain.Tuning
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	owners ports.OwnershipRegistry
	newID  func() string
}

// Option configures a Stage.
type Option func(*config)

// WithID names the stage. Entity IDs are namespaced by it. Defaults to the scene name.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithStart sets the clock origin. Defaults to the Unix epoch so replays are reproducible.
func WithStart(t time.Time) Option {
	return func(c *config) { c.start = t }
}

// WithTuning overrides the engine tuning.
func WithTuning(t domain.Tuning) Option {
	return func(c *config) { c.tuning = &t }
}

// WithHooks adds lifecycle hooks. Repeated calls merge.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *config) { c.hooks = c.hooks.Merge(h) }
}

// WithLogger sets the logger for the stage and its engine.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithOwnership shares an ownership registry, such as Redis, between stages.
func WithOwnership(r ports.OwnershipRegistry) Option {
	return func(c *config) { c.owners = r }
}

// WithIDGenerator sets how grab IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) { c.newID = fn }
}

// New builds the scene and starts an engine listening on the stage bus.
func New(doc *scene.Document, opts ...Option) (*Stage, error) {
	if doc == nil {
		doc = scene.Default()
	}
	cfg := config{start: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = doc.Name
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.owners == nil {
		cfg.owners = memory.NewOwnership()
	}

	rc, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidScene, doc.Name, err)
	}

	s := &Stage{
		id:      cfg.id,
		doc:     doc,
		started: cfg.start,
		scene:   rc,
		bus:     memory.NewBus(),
		clock:   clock.NewManual(cfg.start),
		trail:   memory.NewTrail(domain.EntityID(cfg.id + "/trail")),
		beam:    memory.NewBeam(domain.EntityID(cfg.id + "/beam")),
		camera:  memory.NewCamera(),
		tool:    memory.NewTool(doc.Tool.Domain()),
		owners:  cfg.owners,
		journal: newJournal(memory.DefaultHistory),
		logger:  cfg.logger.With("stage", cfg.id),
	}

	engineOpts := []raybrush.Option{
		raybrush.WithName(cfg.id),
		raybrush.WithLogger(cfg.logger),
		raybrush.WithClock(s.clock.Now),
		raybrush.WithLifecycleHooks(s.journal.Hooks()),
		raybrush.WithLifecycleHooks(cfg.hooks),
	}
	if cfg.tuning != nil {
		engineOpts = append(engineOpts, raybrush.WithTuning(*cfg.tuning))
	}
	if cfg.newID != nil {
		engineOpts = append(engineOpts, raybrush.WithIDGenerator(cfg.newID))
	}

	eng, err := raybrush.New(
		raybrush.Resources{Beam: s.beam, Trail: s.trail, Raycaster: s.scene},
		raybrush.Host{Tool: s.tool, Bus: s.bus, Scheduler: s.clock, Camera: s.camera, Owners: s.owners},
		engineOpts...,
	)
	if err != nil {
		return nil, err
	}
	s.engine = eng
	return s, nil
}

// ID returns the stage identifier.
func (s *Stage) ID() string { return s.id }

// Scene returns the scene document the stage was built from.
func (s *Stage) Scene() *scene.Document { return s.doc }

// Engine returns the engine drawing on the stage.
func (s *Stage) Engine() *raybrush.Engine { return s.engine }

// Journal returns the lifecycle record of the stage.
func (s *Stage) Journal() *Journal { return s.journal }

// Trail returns the recording trail effect.
func (s *Stage) Trail() *memory.Trail { return s.trail }

// Beam returns the recording beam.
func (s *Stage) Beam() *memory.Beam { return s.beam }

// Camera returns the recording camera.
func (s *Stage) Camera() *memory.Camera { return s.camera }

// Elapsed is the simulated time since the stage started.
func (s *Stage) Elapsed() time.Duration { return s.clock.Now().Sub(s.started) }

// Dispatch plays one step: wait, move the tool, then publish the event
// and its repeats. Timers that fall due during the waits fire in order.
func (s *Stage) Dispatch(ctx context.Context, step script.Step) error {
	if err := step.Validate(); err != nil {
		return err
	}
	if step.Wait > 0 {
		s.Advance(ctx, step.Wait)
	}
	if step.Pose != nil {
		s.tool.SetPose(step.Pose.Domain())
	}
	if step.Event == "" {
		return nil
	}
	ev := step.Input()
	s.publish(ctx, ev)
	for i := 0; i < step.Repeat; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step.Every > 0 {
			s.Advance(ctx, step.Every)
		}
		s.publish(ctx, ev)
	}
	return nil
}

// Run dispatches every step of sc in order and stops at the first invalid one.
func (s *Stage) Run(ctx context.Context, sc *script.Script) error {
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Dispatch(ctx, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Advance moves simulated time forward and returns how many timers fired.
func (s *Stage) Advance(ctx context.Context, d time.Duration) int {
	return s.clock.Advance(ctx, d)
}

// Tick advances one frame and publishes a tick.
func (s *Stage) Tick(ctx context.Context, frame time.Duration) {
	s.Advance(ctx, frame)
	s.publish(ctx, domain.InputEvent{Name: domain.EventTick})
}

// CheckTicks reports whether Ticks would accept n.
func CheckTicks(n int) error {
	if n < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", n)
	}
	if n > MaxTicks {
		return fmt.Errorf("%w: %d is above %d", ErrTooManyTicks, n, MaxTicks)
	}
	return nil
}

// Ticks splits d into n equal frames and ticks after each one. With n of
// zero it only advances. It stops early when ctx is done.
func (s *Stage) Ticks(ctx context.Context, d time.Duration, n int) error {
	if err := CheckTicks(n); err != nil {
		return err
	}
	if n == 0 {
		s.Advance(ctx, d)
		return nil
	}
	frame := d / time.Duration(n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick(ctx, frame)
	}
	return nil
}

func (s *Stage) publish(ctx context.Context, ev domain.InputEvent) {
	n := s.bus.Publish(ctx, ev)
	s.journal.countEvent(ev.Name)
	if n == 0 {
		s.logger.Debug("event had no listeners", "event", ev.Name)
	}
}

// Close releases any grab and detaches the engine from the bus.
func (s *Stage) Close(ctx context.Context) error {
	return s.engine.Close(ctx)
}
