/*
Package raybrush is a controller for a hand-held drawing tool in a 3D scene.

The tool casts a ray into the scene and drags a single trail effect along the
surfaces it hits. How the tool is driven depends on who holds it: a tracked
VR controller draws with its trigger while a beam follows the ray every
frame, and a touch device switches the camera into a focused first-person
mode where finger strokes draw.

# Concept

The engine owns no rendering, physics or networking. The embedding host
supplies them as ports: a raycaster, the trail and beam entities, a camera,
an input bus, a scheduler and an ownership registry. The engine reacts to
grab-start and grab-end on the bus and, while a tool is held, decides where
the trail goes:

  - while drawing, hits raise the trail just above the surface
  - a miss parks the trail just under the last surface it touched
  - the first hit after a miss buries it at the new point, so the trail
    never smears across a gap

All handlers and timers run on the goroutine that publishes input and
advances the scheduler.

# Usage

	bus := memory.NewBus()
	clk := clock.NewManual(time.Now())

	eng, err := raybrush.New(
		raybrush.Resources{Beam: beam, Trail: trail, Raycaster: scene},
		raybrush.Host{Tool: tool, Bus: bus, Scheduler: clk, Camera: camera, Owners: memory.NewOwnership()},
		raybrush.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close(ctx)

	agent := domain.Agent{ID: "alice", Device: domain.DeviceVR}
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventGrabStart, Agent: &agent})
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventTriggerDown})
	bus.Publish(ctx, domain.InputEvent{Name: domain.EventTick})

For simulation, pkg/stage bundles all of this around a scene document and
pkg/runner replays scripts against it.
*/
package raybrush
