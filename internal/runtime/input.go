package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// drawDriver is the part of the engine the input listeners act on.
type drawDriver interface {
	startDrawing(ctx context.Context, cause domain.EventName)
	stopDrawing(ctx context.Context, cause domain.EventName)
	evaluate(ctx context.Context, q domain.RayQuery, cause domain.EventName) domain.Step
	erase(ctx context.Context)
	drawing() bool
}

// InputModeController registers the listeners of one input modality.
type InputModeController struct {
	bus    ports.InputBus
	tool   ports.PoseSource
	beam   ports.Beam
	camera *CameraSequencer
	driver drawDriver
	logger *slog.Logger
}

func newInputModeController(bus ports.InputBus, tool ports.PoseSource, beam ports.Beam, driver drawDriver, logger *slog.Logger) *InputModeController {
	return &InputModeController{
		bus:    bus,
		tool:   tool,
		beam:   beam,
		driver: driver,
		logger: logger,
	}
}

// Camera returns the sequencer driving the pointer path.
func (c *InputModeController) Camera() *CameraSequencer {
	return c.camera
}

// Attach registers the listeners for modality into set.
func (c *InputModeController) Attach(modality domain.InputModality, set *SubscriptionSet) {
	switch modality {
	case domain.ModalityTracked:
		c.attachTracked(set)
	case domain.ModalityPointer:
		c.attachPointer(set)
	}
}

// Detach returns the camera to third person. The grab's own subscription set
// is closed by the caller.
func (c *InputModeController) Detach(ctx context.Context) {
	c.camera.Reset(ctx)
}

func (c *InputModeController) attachTracked(set *SubscriptionSet) {
	set.Subscribe(c.bus, domain.EventTriggerDown, func(ctx context.Context, ev domain.InputEvent) {
		c.driver.startDrawing(ctx, ev.Name)
	})
	set.Subscribe(c.bus, domain.EventTriggerUp, func(ctx context.Context, ev domain.InputEvent) {
		c.driver.stopDrawing(ctx, ev.Name)
	})
	set.Subscribe(c.bus, domain.EventSecondaryDown, func(ctx context.Context, _ domain.InputEvent) {
		c.driver.erase(ctx)
	})
	set.Subscribe(c.bus, domain.EventTick, func(ctx context.Context, ev domain.InputEvent) {
		q := c.tool.Pose().Ray()
		step := c.driver.evaluate(ctx, q, ev.Name)
		c.beam.SetTransform(domain.NewBeamTransform(q, step.Endpoint))
	})
	c.beam.SetVisible(true)
}

func (c *InputModeController) attachPointer(set *SubscriptionSet) {
	set.Subscribe(c.bus, domain.EventAimPressed, func(ctx context.Context, _ domain.InputEvent) {
		if !c.camera.Aim(ctx) {
			c.logger.DebugContext(ctx, "aim ignored", "phase", c.camera.Phase())
		}
	})
	set.Subscribe(c.bus, domain.EventErasePressed, func(ctx context.Context, _ domain.InputEvent) {
		c.driver.erase(ctx)
	})
	// Forced exit is live for the whole grab so it also covers the transition into focus.
	set.Subscribe(c.bus, domain.EventFocusedForcedExit, func(ctx context.Context, _ domain.InputEvent) {
		if !c.camera.Exit(ctx) {
			c.logger.DebugContext(ctx, "forced exit ignored", "phase", c.camera.Phase())
		}
	})
}

// openFocused registers the focused-drawing listeners once the camera is in first person.
func (c *InputModeController) openFocused(_ context.Context, set *SubscriptionSet) {
	set.Subscribe(c.bus, domain.EventReturnPressed, func(ctx context.Context, _ domain.InputEvent) {
		c.camera.Exit(ctx)
	})
	set.Subscribe(c.bus, domain.EventFocusedStarted, func(ctx context.Context, ev domain.InputEvent) {
		c.driver.startDrawing(ctx, ev.Name)
		c.evaluatePointer(ctx, ev)
	})
	set.Subscribe(c.bus, domain.EventFocusedMoved, func(ctx context.Context, ev domain.InputEvent) {
		c.evaluatePointer(ctx, ev)
	})
	set.Subscribe(c.bus, domain.EventFocusedEnded, func(ctx context.Context, ev domain.InputEvent) {
		c.driver.stopDrawing(ctx, ev.Name)
	})
}

// closeFocused lands the trail if a stroke was still in progress when focus closed.
func (c *InputModeController) closeFocused(ctx context.Context) {
	if c.driver.drawing() {
		c.driver.stopDrawing(ctx, domain.EventFocusedEnded)
	}
}

func (c *InputModeController) evaluatePointer(ctx context.Context, ev domain.InputEvent) {
	if ev.Ray == nil {
		c.logger.WarnContext(ctx, "pointer event without ray", "event", ev.Name)
		return
	}
	c.driver.evaluate(ctx, *ev.Ray, ev.Name)
}
