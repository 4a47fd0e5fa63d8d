/*
Package domain contains the core value types of the raybrush controller.

It defines the geometry exchanged with the host (rays, hits, poses), the
drawing state owned by the draw state machine, the input and camera
vocabulary, and the lifecycle hooks used for observability. This package is
kept free of I/O and of references to concrete adapters, following the
Hexagonal Architecture split between domain, ports and adapters.

# Key Entities

  - RayQuery: an origin and a unit direction, produced fresh on every evaluation.
  - Outcome: the result of a raycast, either a hit (point + normal) or a miss.
  - DrawState: drawing flag, restart flag and the last known surface point.
  - Placement: a trail position command, buried under or raised above a surface.
  - InputEvent: a logical input event delivered by the host input bus.
*/
package domain
