package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// CameraSequencer moves the camera between third person and the focused
// first-person drawing mode. Each camera move is followed by a timer of the
// same duration, and the focused subscriptions only go live once the camera
// has arrived.
type CameraSequencer struct {
	camera    ports.CameraController
	scheduler ports.Scheduler
	spec      domain.TransitionSpec
	logger    *slog.Logger

	phase   domain.CameraPhase
	epoch   Generation
	pending ports.Timer
	focused SubscriptionSet

	onOpen  func(ctx context.Context, set *SubscriptionSet)
	onClose func(ctx context.Context)
	onPhase func(ctx context.Context, from, to domain.CameraPhase)
}

// SequencerOption configures a CameraSequencer.
type SequencerOption func(*CameraSequencer)

// WithFocusHandlers sets the callbacks run when focused mode opens and closes.
// open registers the focused subscriptions into the set it is given.
func WithFocusHandlers(open func(ctx context.Context, set *SubscriptionSet), close func(ctx context.Context)) SequencerOption {
	return func(s *CameraSequencer) {
		s.onOpen = open
		s.onClose = close
	}
}

// WithPhaseObserver sets a callback for every phase change.
func WithPhaseObserver(fn func(ctx context.Context, from, to domain.CameraPhase)) SequencerOption {
	return func(s *CameraSequencer) {
		s.onPhase = fn
	}
}

// WithSequencerLogger sets the logger used for suppressed timers.
func WithSequencerLogger(logger *slog.Logger) SequencerOption {
	return func(s *CameraSequencer) {
		s.logger = logger
	}
}

// NewCameraSequencer creates a sequencer resting in third person.
func NewCameraSequencer(camera ports.CameraController, scheduler ports.Scheduler, spec domain.TransitionSpec, opts ...SequencerOption) *CameraSequencer {
	s := &CameraSequencer{
		camera:    camera,
		scheduler: scheduler,
		spec:      spec,
		logger:    logging.NewNop(),
		phase:     domain.PhaseThirdPerson,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the current phase.
func (s *CameraSequencer) Phase() domain.CameraPhase {
	return s.phase
}

// FocusedSubscriptions returns how many focused-mode subscriptions are live.
func (s *CameraSequencer) FocusedSubscriptions() int {
	return s.focused.Len()
}

// Aim starts the transition into focused mode.
// It only acts from third person and reports whether it did.
func (s *CameraSequencer) Aim(ctx context.Context) bool {
	if s.phase != domain.PhaseThirdPerson {
		return false
	}
	s.setPhase(ctx, domain.PhaseToFirstPerson)
	s.camera.SetFirstPerson(ctx, s.spec)
	s.schedule("enter_focus", func(ctx context.Context) {
		s.setPhase(ctx, domain.PhaseFirstPersonFocused)
		if s.onOpen != nil {
			s.onOpen(ctx, &s.focused)
		}
	})
	return true
}

// Exit leaves focused mode, or abandons a transition into it.
// Focused subscriptions are torn down before the camera starts moving back.
// Exit reports false when there was nothing to leave.
func (s *CameraSequencer) Exit(ctx context.Context) bool {
	switch s.phase {
	case domain.PhaseFirstPersonFocused:
	case domain.PhaseToFirstPerson:
		s.cancelPending()
	default:
		return false
	}
	s.closeFocused(ctx)
	s.setPhase(ctx, domain.PhaseToThirdPerson)
	s.camera.SetThirdPerson(ctx, s.spec)
	s.schedule("leave_focus", func(ctx context.Context) {
		s.setPhase(ctx, domain.PhaseThirdPerson)
	})
	return true
}

// Reset drops any transition in flight and puts the sequencer back in third person.
// Pending timers become no-ops.
func (s *CameraSequencer) Reset(ctx context.Context) {
	s.cancelPending()
	s.closeFocused(ctx)
	switch s.phase {
	case domain.PhaseToFirstPerson, domain.PhaseFirstPersonFocused:
		s.camera.SetThirdPerson(ctx, s.spec)
		s.setPhase(ctx, domain.PhaseThirdPerson)
	case domain.PhaseToThirdPerson:
		s.setPhase(ctx, domain.PhaseThirdPerson)
	}
}

func (s *CameraSequencer) closeFocused(ctx context.Context) {
	s.focused.Close()
	if s.onClose != nil {
		s.onClose(ctx)
	}
}

func (s *CameraSequencer) schedule(name string, fn func(ctx context.Context)) {
	at := s.epoch.Current()
	s.pending = s.scheduler.AfterFunc(s.spec.Duration, func(ctx context.Context) {
		if !s.epoch.Is(at) {
			s.logger.DebugContext(ctx, "stale camera timer suppressed", "timer", name)
			return
		}
		s.pending = nil
		fn(ctx)
	})
}

func (s *CameraSequencer) cancelPending() {
	s.epoch.Advance()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *CameraSequencer) setPhase(ctx context.Context, to domain.CameraPhase) {
	from := s.phase
	if from == to {
		return
	}
	s.phase = to
	if s.onPhase != nil {
		s.onPhase(ctx, from, to)
	}
}
