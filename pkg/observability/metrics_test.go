package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	hooks := m.Hooks()
	hooks.OnGrabStart(ctx, &domain.GrabEvent{Modality: domain.ModalityTracked})
	hooks.OnPlacement(ctx, &domain.PlacementEvent{
		Placement: domain.Placement{Kind: domain.PlacementBury},
		Cause:     domain.EventTick,
	})
	hooks.OnPlacement(ctx, &domain.PlacementEvent{
		Placement: domain.Placement{Kind: domain.PlacementBury},
		Cause:     domain.EventTick,
	})
	hooks.OnResolveError(ctx, &domain.ResolveEvent{})
	hooks.OnErase(ctx, &domain.EraseEvent{Resumed: true})
	hooks.OnCameraPhase(ctx, &domain.CameraEvent{To: domain.PhaseToFirstPerson})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Grabs.WithLabelValues("tracked", "started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveGrabs))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Placements.WithLabelValues("bury", "tick")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Erases.WithLabelValues("resumed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CameraPhases.WithLabelValues("to_first_person")))

	hooks.OnGrabEnd(ctx, &domain.GrabEvent{Modality: domain.ModalityTracked})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveGrabs))
}

func TestNewMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.ErrorContains(t, err, "already registered")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LogHooks(logging.NewWithWriter(&buf, slog.LevelInfo))

	hooks.OnGrabError(context.Background(), &domain.GrabEvent{
		Agent: domain.Agent{ID: "carol", Device: domain.DeviceDesktop},
		Err:   errors.New("unsupported device class"),
	})
	hooks.OnPlacement(context.Background(), &domain.PlacementEvent{})

	out := buf.String()
	assert.Contains(t, out, "grab_error")
	assert.Contains(t, out, "agent=carol")
	assert.Contains(t, out, `err="unsupported device class"`)
	assert.NotContains(t, out, "placement", "placements are debug only")
}
