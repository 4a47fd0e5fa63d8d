// Package http exposes a session manager over a JSON API built on chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/raybrush"
	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/session"
	"github.com/aretw0/raybrush/pkg/stage"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20
	// maxMillis is the longest duration, in milliseconds, a time.Duration holds.
	maxMillis = float64(math.MaxInt64 / int64(time.Millisecond))
)

// Server serves stages from a session manager.
type Server struct {
	Manager  *session.Manager
	Scenes   scene.Catalog
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithScenes sets the catalog that POST /stages resolves scene names against.
func WithScenes(c scene.Catalog) Option {
	return func(s *Server) { s.Scenes = c }
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// NewHandler creates the HTTP handler for mgr.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Manager:  mgr,
		Scenes:   scene.NewStatic(),
		Streams:  NewStreamManager(),
		Gatherer: prometheus.DefaultGatherer,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", s.serveSpec)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.fail(w, r, badRequest{err})
		},
	})
}

// serveSpec writes the embedded OpenAPI document.
func (s *Server) serveSpec(w http.ResponseWriter, r *http.Request) {
	spec, err := rawSpec()
	if err != nil {
		s.fail(w, r, fmt.Errorf("load openapi spec: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	if _, err := w.Write(spec); err != nil {
		s.Logger.DebugContext(r.Context(), "spec write failed", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// badRequest marks errors caused by the request payload.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// statusFor maps errors to HTTP status codes. Payload errors are checked
// first, so an unknown scene name is a 400 even though it wraps ErrStageNotFound.
func statusFor(err error) int {
	var bad badRequest
	switch {
	case errors.As(err, &bad), errors.Is(err, domain.ErrUnknownEvent), errors.Is(err, stage.ErrTooManyTicks):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStageNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrStageExists):
		return http.StatusConflict
	case errors.Is(err, stage.ErrInvalidScene),
		errors.Is(err, domain.ErrMissingResource),
		errors.Is(err, domain.ErrUnsupportedDevice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.WarnContext(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, Error{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Info{
		Name:    "raybrush",
		Version: raybrush.Version,
		Stages:  len(s.Manager.List()),
	})
}

// ListScenes handles GET /scenes.
func (s *Server) ListScenes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Scenes.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SceneList{Scenes: ids})
}

// ListStages handles GET /stages.
func (s *Server) ListStages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StageList{Stages: s.Manager.List()})
}

// CreateStage handles POST /stages.
func (s *Server) CreateStage(w http.ResponseWriter, r *http.Request) {
	var body CreateStageJSONRequestBody
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	doc, err := s.resolveScene(r, body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.Manager.Create(r.Context(), deref(body.Id), doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.Manager.Inspect(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/stages/"+id)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) resolveScene(r *http.Request, body CreateStageRequest) (*scene.Document, error) {
	if body.Document != nil {
		doc, err := scene.FromMap(*body.Document)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", stage.ErrInvalidScene, err)
		}
		return doc, nil
	}
	name := deref(body.Scene)
	if name == "" {
		return scene.Default(), nil
	}
	doc, err := s.Scenes.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrStageNotFound) {
			return nil, badRequest{err}
		}
		return nil, err
	}
	return doc, nil
}

// GetStage handles GET /stages/{id}.
func (s *Server) GetStage(w http.ResponseWriter, r *http.Request, id string) {
	st, err := s.Manager.Inspect(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DeleteStage handles DELETE /stages/{id}.
func (s *Server) DeleteStage(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Manager.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// SendEvents handles POST /stages/{id}/events. The body is one step or an
// array of steps, dispatched in order.
func (s *Server) SendEvents(w http.ResponseWriter, r *http.Request, id string) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		s.fail(w, r, err)
		return
	}
	steps, err := decodeSteps(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.update(w, r, id, func(st *stage.Stage) error {
		for i, step := range steps {
			if err := st.Dispatch(r.Context(), step); err != nil {
				return badRequest{fmt.Errorf("step %d: %w", i, err)}
			}
		}
		return nil
	})
}

func decodeSteps(raw json.RawMessage) ([]script.Step, error) {
	var items []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, badRequest{fmt.Errorf("invalid steps: %w", err)}
		}
	} else {
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, badRequest{fmt.Errorf("invalid step: %w", err)}
		}
		items = append(items, one)
	}
	if len(items) == 0 {
		return nil, badRequest{errors.New("no steps")}
	}

	steps := make([]script.Step, len(items))
	for i, item := range items {
		st, err := script.DecodeStep(item)
		if err != nil {
			return nil, badRequest{fmt.Errorf("step %d: %w", i, err)}
		}
		steps[i] = st
	}
	return steps, nil
}

// AdvanceStage handles POST /stages/{id}/advance.
func (s *Server) AdvanceStage(w http.ResponseWriter, r *http.Request, id string) {
	var body AdvanceStageJSONRequestBody
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := parseDuration(body.Duration)
	if err != nil {
		s.fail(w, r, badRequest{err})
		return
	}
	ticks := 0
	if body.Ticks != nil {
		ticks = *body.Ticks
	}
	if err := stage.CheckTicks(ticks); err != nil {
		s.fail(w, r, badRequest{err})
		return
	}

	s.update(w, r, id, func(st *stage.Stage) error {
		return st.Ticks(r.Context(), d, ticks)
	})
}

func parseDuration(v any) (time.Duration, error) {
	var d time.Duration
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %w", err)
		}
		d = parsed
	case float64:
		if val < 0 {
			return 0, errors.New("duration must not be negative")
		}
		if val > maxMillis {
			return 0, fmt.Errorf("duration of %.0fms is too long", val)
		}
		d = time.Duration(val * float64(time.Millisecond))
	default:
		return 0, errors.New("duration is required")
	}
	if d < 0 {
		return 0, errors.New("duration must not be negative")
	}
	return d, nil
}

// update runs fn on stage id, then responds with and broadcasts the new state.
func (s *Server) update(w http.ResponseWriter, r *http.Request, id string, fn func(*stage.Stage) error) {
	var state stage.State
	err := s.Manager.WithStage(r.Context(), id, func(ctx context.Context, st *stage.Stage) error {
		if err := fn(st); err != nil {
			return err
		}
		var err error
		state, err = st.Inspect(ctx)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if payload, err := json.Marshal(state); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
	writeJSON(w, http.StatusOK, state)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
