/*
Package ports defines the driven ports (interfaces) of the raybrush controller.

These interfaces decouple the interaction state machine from the host engine,
so the same core runs against a real scene, the in-memory simulation, or test
doubles. Each capability is resolved once at setup and never looked up per call.

# Key Interfaces

  - Raycaster: answers "what surface does this ray hit first".
  - TrailEffect and Beam: the visual entities the controller positions.
  - CameraController: switches the agent between third and first person.
  - InputBus: delivers logical input events and hands out cancelable subscriptions.
  - Scheduler: fire-once timers driven by the host's tick.
  - OwnershipRegistry: records which agent owns the controller's entities.
  - DistributedLocker: serializes stage access across replicas.
*/
package ports
