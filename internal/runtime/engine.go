package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// Resources are the scene entities the controller drives.
type Resources struct {
	Beam      ports.Beam
	Trail     ports.TrailEffect
	Raycaster ports.Raycaster
}

// Host bundles the services provided by the embedding application.
type Host struct {
	Tool      ports.PoseSource
	Bus       ports.InputBus
	Scheduler ports.Scheduler
	Camera    ports.CameraController
	Owners    ports.OwnershipRegistry
}

func missing(res Resources, host Host) []string {
	var names []string
	check := func(name string, ok bool) {
		if !ok {
			names = append(names, name)
		}
	}
	check("beam", res.Beam != nil)
	check("trail", res.Trail != nil)
	check("raycaster", res.Raycaster != nil)
	check("tool", host.Tool != nil)
	check("bus", host.Bus != nil)
	check("scheduler", host.Scheduler != nil)
	check("camera", host.Camera != nil)
	check("owners", host.Owners != nil)
	return names
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTuning overrides the default tuning.
func WithTuning(t domain.Tuning) EngineOption {
	return func(e *Engine) {
		e.tuning = t
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source for event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets how grab IDs are minted.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

type grab struct {
	id       string
	agent    domain.Agent
	modality domain.InputModality
	subs     SubscriptionSet
	erase    ports.Timer
}

// Engine is the grab lifecycle controller. It owns the trail and the beam
// while a grab is active and hands them back to the default owner on release.
type Engine struct {
	res    Resources
	host   Host
	tuning domain.Tuning
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	resolver  *HitResolver
	draw      *DrawStateMachine
	input     *InputModeController
	gen       Generation
	lifecycle SubscriptionSet

	grab    *grab
	stopped bool
}

// NewEngine validates the configuration and subscribes to grab events on the bus.
// A missing resource or host service is reported as domain.ErrMissingResource.
func NewEngine(res Resources, host Host, opts ...EngineOption) (*Engine, error) {
	if names := missing(res, host); len(names) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingResource, strings.Join(names, ", "))
	}

	e := &Engine{
		res:    res,
		host:   host,
		tuning: domain.DefaultTuning(),
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	e.resolver = NewHitResolver(res.Raycaster)
	e.draw = NewDrawStateMachine(e.tuning.Offsets, e.tuning.FarDistance)
	e.input = newInputModeController(host.Bus, host.Tool, res.Beam, e, e.logger)
	e.input.camera = NewCameraSequencer(host.Camera, host.Scheduler, e.tuning.Transition,
		WithFocusHandlers(e.input.openFocused, e.input.closeFocused),
		WithPhaseObserver(e.emitCameraPhase),
		WithSequencerLogger(e.logger),
	)

	e.lifecycle.Subscribe(host.Bus, domain.EventGrabStart, e.onGrabStart)
	e.lifecycle.Subscribe(host.Bus, domain.EventGrabEnd, e.onGrabEnd)
	return e, nil
}

// Tuning returns the effective tuning.
func (e *Engine) Tuning() domain.Tuning {
	return e.tuning
}

func (e *Engine) onGrabStart(ctx context.Context, ev domain.InputEvent) {
	if ev.Agent == nil {
		e.logger.ErrorContext(ctx, "grab-start without agent")
		return
	}
	// Failures are logged and reported through hooks by GrabStart.
	_ = e.GrabStart(ctx, *ev.Agent)
}

func (e *Engine) onGrabEnd(ctx context.Context, _ domain.InputEvent) {
	if err := e.GrabEnd(ctx); errors.Is(err, domain.ErrNotGrabbed) {
		e.logger.DebugContext(ctx, "grab-end while idle")
	}
}

// GrabStart hands the tool to agent.
// An agent on an unsupported device gets domain.ErrUnsupportedDevice and no listeners.
// Grabbing while already grabbed releases the previous grab first.
func (e *Engine) GrabStart(ctx context.Context, agent domain.Agent) error {
	if e.grab != nil {
		e.logger.InfoContext(ctx, "grab replaced", "grab_id", e.grab.id, "agent", agent.ID)
		if err := e.GrabEnd(ctx); err != nil {
			e.logger.WarnContext(ctx, "releasing previous grab", "error", err)
		}
	}

	modality, ok := domain.ModalityFor(agent.Device)
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrUnsupportedDevice, agent.Device)
		e.logger.ErrorContext(ctx, "grab rejected", "agent", agent.ID, "device", agent.Device, "error", err)
		e.emitGrab(ctx, e.hooks.OnGrabError, domain.LifecycleGrabError, "", agent, "", err)
		return err
	}

	g := &grab{id: e.newID(), agent: agent, modality: modality}
	if err := e.assign(ctx, domain.OwnerOf(agent)); err != nil {
		err = fmt.Errorf("assigning ownership: %w", err)
		e.logger.ErrorContext(ctx, "grab rejected", "agent", agent.ID, "error", err)
		// Best effort: leave nothing owned by an agent that never got the grab.
		_ = e.assign(ctx, domain.DefaultOwner)
		e.emitGrab(ctx, e.hooks.OnGrabError, domain.LifecycleGrabError, g.id, agent, modality, err)
		return err
	}

	e.gen.Advance()
	e.draw.Reset()
	e.grab = g
	if e.stopped {
		// An erase from the previous grab never got to resume emission.
		e.res.Trail.Play()
		e.stopped = false
	}
	e.input.Attach(modality, &g.subs)

	e.logger.InfoContext(ctx, "grab started", "grab_id", g.id, "agent", agent.ID, "modality", modality)
	e.emitGrab(ctx, e.hooks.OnGrabStart, domain.LifecycleGrabStart, g.id, agent, modality, nil)
	return nil
}

// GrabEnd releases the tool: it lands the trail, hides the beam, tears down
// every listener of the grab and returns ownership to the default owner.
// Timers scheduled during the grab do nothing when they fire.
func (e *Engine) GrabEnd(ctx context.Context) error {
	g := e.grab
	if g == nil {
		return domain.ErrNotGrabbed
	}

	e.stopDrawing(ctx, domain.EventGrabEnd)
	e.res.Beam.SetVisible(false)
	e.input.Detach(ctx)
	g.subs.Close()
	if g.erase != nil {
		g.erase.Stop()
	}
	e.gen.Advance()
	e.grab = nil

	err := e.assign(ctx, domain.DefaultOwner)
	if err != nil {
		e.logger.ErrorContext(ctx, "restoring default ownership", "grab_id", g.id, "error", err)
	}
	e.logger.InfoContext(ctx, "grab ended", "grab_id", g.id, "agent", g.agent.ID)
	e.emitGrab(ctx, e.hooks.OnGrabEnd, domain.LifecycleGrabEnd, g.id, g.agent, g.modality, err)
	return err
}

// Erase stops trail emission and resumes it after the erase delay.
// Erasing again before the delay elapses restarts the delay.
func (e *Engine) Erase(ctx context.Context) error {
	g := e.grab
	if g == nil {
		return domain.ErrNotGrabbed
	}
	if g.erase != nil {
		g.erase.Stop()
	}
	e.res.Trail.Stop()
	e.stopped = true
	e.emitErase(ctx, false)

	g.erase = e.after(e.tuning.EraseDelay, "erase", func(ctx context.Context) {
		g.erase = nil
		e.res.Trail.Play()
		e.stopped = false
		e.emitErase(ctx, true)
	})
	return nil
}

// Snapshot returns the current controller state.
func (e *Engine) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Phase:                e.input.camera.Phase(),
		Draw:                 e.draw.State(),
		Generation:           e.gen.Current(),
		FocusedSubscriptions: e.input.camera.FocusedSubscriptions(),
		EmissionStopped:      e.stopped,
	}
	if g := e.grab; g != nil {
		agent := g.agent
		s.Grabbed = true
		s.GrabID = g.id
		s.Agent = &agent
		s.Modality = g.modality
		s.GrabSubscriptions = g.subs.Len()
	}
	return s
}

// Close releases any active grab and unsubscribes from the bus.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	if e.grab != nil {
		err = e.GrabEnd(ctx)
	}
	e.lifecycle.Close()
	return err
}

func (e *Engine) startDrawing(ctx context.Context, cause domain.EventName) {
	e.draw.StartDrawing()
	e.logger.DebugContext(ctx, "drawing started", "event", cause)
}

func (e *Engine) stopDrawing(ctx context.Context, cause domain.EventName) {
	e.place(ctx, e.draw.StopDrawing(), cause)
}

func (e *Engine) drawing() bool {
	return e.draw.State().Drawing
}

func (e *Engine) erase(ctx context.Context) {
	if err := e.Erase(ctx); err != nil {
		e.logger.DebugContext(ctx, "erase ignored", "error", err)
	}
}

func (e *Engine) evaluate(ctx context.Context, q domain.RayQuery, cause domain.EventName) domain.Step {
	out, err := e.resolver.Resolve(q)
	if err != nil {
		e.logger.WarnContext(ctx, "raycast failed, treating as miss", "error", err)
		if e.hooks.OnResolveError != nil {
			e.hooks.OnResolveError(ctx, &domain.ResolveEvent{
				EventBase: e.base(domain.LifecycleResolveError),
				Query:     q,
				Err:       err,
			})
		}
	}
	step := e.draw.Advance(q, out)
	if step.Placement != nil {
		e.place(ctx, *step.Placement, cause)
	}
	return step
}

func (e *Engine) place(ctx context.Context, p domain.Placement, cause domain.EventName) {
	e.res.Trail.SetPosition(p.Position)
	if e.hooks.OnPlacement != nil {
		e.hooks.OnPlacement(ctx, &domain.PlacementEvent{
			EventBase: e.base(domain.LifecyclePlacement),
			Placement: p,
			Cause:     cause,
		})
	}
}

// after schedules fn guarded by the current grab generation.
func (e *Engine) after(d time.Duration, name string, fn func(ctx context.Context)) ports.Timer {
	at := e.gen.Current()
	return e.host.Scheduler.AfterFunc(d, func(ctx context.Context) {
		if !e.gen.Is(at) {
			e.logger.DebugContext(ctx, "stale timer suppressed", "timer", name)
			return
		}
		fn(ctx)
	})
}

func (e *Engine) assign(ctx context.Context, owner domain.OwnerID) error {
	var errs []error
	for _, ent := range []ports.Entity{e.res.Trail, e.res.Beam} {
		if err := e.host.Owners.Assign(ctx, ent.EntityID(), owner); err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", ent.EntityID(), err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) base(t domain.LifecycleEvent) domain.EventBase {
	b := domain.EventBase{Timestamp: e.now(), Type: t}
	if e.grab != nil {
		b.GrabID = e.grab.id
	}
	return b
}

func (e *Engine) emitGrab(ctx context.Context, hook func(context.Context, *domain.GrabEvent), t domain.LifecycleEvent, id string, agent domain.Agent, modality domain.InputModality, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.GrabEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: t, GrabID: id},
		Agent:     agent,
		Modality:  modality,
		Err:       err,
	})
}

func (e *Engine) emitErase(ctx context.Context, resumed bool) {
	if e.hooks.OnErase == nil {
		return
	}
	e.hooks.OnErase(ctx, &domain.EraseEvent{
		EventBase: e.base(domain.LifecycleErase),
		Resumed:   resumed,
	})
}

func (e *Engine) emitCameraPhase(ctx context.Context, from, to domain.CameraPhase) {
	e.logger.DebugContext(ctx, "camera phase", "from", from, "to", to)
	if e.hooks.OnCameraPhase == nil {
		return
	}
	e.hooks.OnCameraPhase(ctx, &domain.CameraEvent{
		EventBase: e.base(domain.LifecycleCameraPhase),
		From:      from,
		To:        to,
	})
}
