package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/raybrush/pkg/domain"
)

// Metrics holds the controller collectors.
type Metrics struct {
	Grabs         *prometheus.CounterVec
	ActiveGrabs   prometheus.Gauge
	Placements    *prometheus.CounterVec
	ResolveErrors prometheus.Counter
	CameraPhases  *prometheus.CounterVec
	Erases        *prometheus.CounterVec
	Stages        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// Registering twice on the same registry fails.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Grabs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raybrush_grabs_total",
				Help: "Grab lifecycle events by modality and result",
			},
			[]string{"modality", "result"},
		),
		ActiveGrabs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raybrush_active_grabs",
			Help: "Tools currently held",
		}),
		Placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raybrush_placements_total",
				Help: "Trail placements by kind and triggering event",
			},
			[]string{"kind", "cause"},
		),
		ResolveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raybrush_resolve_errors_total",
			Help: "Raycasts that failed and were treated as misses",
		}),
		CameraPhases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raybrush_camera_phase_transitions_total",
				Help: "Camera sequencer phase changes by target phase",
			},
			[]string{"phase"},
		),
		Erases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raybrush_erases_total",
				Help: "Trail emission stops and resumes",
			},
			[]string{"action"},
		),
		Stages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raybrush_stages",
			Help: "Stages hosted by this process",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.Grabs, m.ActiveGrabs, m.Placements, m.ResolveErrors, m.CameraPhases, m.Erases, m.Stages,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, errors.New("raybrush metrics already registered")
			}
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGrabStart: func(_ context.Context, e *domain.GrabEvent) {
			m.Grabs.WithLabelValues(string(e.Modality), "started").Inc()
			m.ActiveGrabs.Inc()
		},
		OnGrabEnd: func(_ context.Context, e *domain.GrabEvent) {
			m.Grabs.WithLabelValues(string(e.Modality), "ended").Inc()
			m.ActiveGrabs.Dec()
		},
		OnGrabError: func(_ context.Context, e *domain.GrabEvent) {
			m.Grabs.WithLabelValues(string(e.Modality), "rejected").Inc()
		},
		OnPlacement: func(_ context.Context, e *domain.PlacementEvent) {
			m.Placements.WithLabelValues(string(e.Placement.Kind), string(e.Cause)).Inc()
		},
		OnResolveError: func(context.Context, *domain.ResolveEvent) {
			m.ResolveErrors.Inc()
		},
		OnCameraPhase: func(_ context.Context, e *domain.CameraEvent) {
			m.CameraPhases.WithLabelValues(string(e.To)).Inc()
		},
		OnErase: func(_ context.Context, e *domain.EraseEvent) {
			action := "stopped"
			if e.Resumed {
				action = "resumed"
			}
			m.Erases.WithLabelValues(action).Inc()
		},
	}
}
