package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/raybrush/pkg/domain"
)

// LogHooks returns hooks that write one structured line per lifecycle event.
// Placements and camera phases are logged at Debug since they fire every frame.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGrabStart: func(ctx context.Context, e *domain.GrabEvent) {
			logger.InfoContext(ctx, "grab_start", "grab_id", e.GrabID, "agent", e.Agent.ID, "modality", e.Modality)
		},
		OnGrabEnd: func(ctx context.Context, e *domain.GrabEvent) {
			logger.InfoContext(ctx, "grab_end", "grab_id", e.GrabID, "agent", e.Agent.ID)
		},
		OnGrabError: func(ctx context.Context, e *domain.GrabEvent) {
			logger.ErrorContext(ctx, "grab_error", "agent", e.Agent.ID, "device", e.Agent.Device, "error", e.Err)
		},
		OnPlacement: func(ctx context.Context, e *domain.PlacementEvent) {
			logger.DebugContext(ctx, "placement", "grab_id", e.GrabID, "kind", e.Placement.Kind, "event", e.Cause)
		},
		OnResolveError: func(ctx context.Context, e *domain.ResolveEvent) {
			logger.WarnContext(ctx, "resolve_error", "grab_id", e.GrabID, "error", e.Err)
		},
		OnCameraPhase: func(ctx context.Context, e *domain.CameraEvent) {
			logger.DebugContext(ctx, "camera_phase", "grab_id", e.GrabID, "from", e.From, "phase", e.To)
		},
		OnErase: func(ctx context.Context, e *domain.EraseEvent) {
			logger.InfoContext(ctx, "erase", "grab_id", e.GrabID, "resumed", e.Resumed)
		},
	}
}
