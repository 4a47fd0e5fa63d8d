// Package mcp exposes stages as Model Context Protocol tools and resources,
// so an assistant can build a scene, drive the brush and inspect the result.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/raybrush"
	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/script"
	"github.com/aretw0/raybrush/pkg/session"
	"github.com/aretw0/raybrush/pkg/stage"
)

const (
	stagesURI = "raybrush://stages"
	scenesURI = "raybrush://scenes"
)

// Server exposes a session manager as an MCP server.
type Server struct {
	manager   *session.Manager
	scenes    scene.Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithScenes sets the catalog create_stage resolves scene names against.
func WithScenes(c scene.Catalog) Option {
	return func(s *Server) { s.scenes = c }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager:   mgr,
		scenes:    scene.NewStatic(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("raybrush-mcp", strings.TrimSpace(raybrush.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	createTool := mcp.NewTool("create_stage",
		mcp.WithDescription("Create a stage: a scene with a drawing tool in it. Uses the default studio scene unless a scene name or an inline document is given."),
		mcp.WithString("id", mcp.Description("Stage ID (optional, generated when empty)")),
		mcp.WithString("scene", mcp.Description("Name of a catalog scene (optional)")),
		mcp.WithString("document", mcp.Description("JSON scene document with name, surfaces and tool (optional)")),
		mcp.WithOutputSchema[stage.State](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreateStage))

	sendTool := mcp.NewTool("send_event",
		mcp.WithDescription("Publish an input event on a stage, e.g. grab-start, trigger-down, tick, aim-pressed, focused-started."),
		mcp.WithString("stage_id", mcp.Required(), mcp.Description("Stage ID")),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event name")),
		mcp.WithString("agent_id", mcp.Description("Agent ID, required for grab-start")),
		mcp.WithString("device", mcp.Description("Agent device for grab-start: vr, mobile or desktop")),
		mcp.WithString("step", mcp.Description("JSON object with extra step fields: ray, pose, wait, repeat, every")),
		mcp.WithOutputSchema[stage.State](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendEvent))

	advanceTool := mcp.NewTool("advance",
		mcp.WithDescription("Advance simulated time on a stage, optionally publishing ticks along the way."),
		mcp.WithString("stage_id", mcp.Required(), mcp.Description("Stage ID")),
		mcp.WithString("duration", mcp.Required(), mcp.Description("Go duration, e.g. 500ms")),
		mcp.WithNumber("ticks", mcp.Description("Number of evenly spaced ticks to publish (optional)")),
		mcp.WithOutputSchema[stage.State](),
	)
	s.mcpServer.AddTool(advanceTool, mcp.NewStructuredToolHandler(s.handleAdvance))

	inspectTool := mcp.NewTool("inspect_stage",
		mcp.WithDescription("Return the full state of a stage."),
		mcp.WithString("stage_id", mcp.Required(), mcp.Description("Stage ID")),
		mcp.WithOutputSchema[stage.State](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspectStage))

	s.mcpServer.AddTool(mcp.NewTool("delete_stage",
		mcp.WithDescription("Release any grab and delete a stage."),
		mcp.WithString("stage_id", mcp.Required(), mcp.Description("Stage ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("stage_id", "")
		if err := s.manager.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText("deleted " + id), nil
	})
}

func (s *Server) handleCreateStage(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (stage.State, error) {
	id, _ := args["id"].(string)
	doc, err := s.resolveScene(ctx, args)
	if err != nil {
		return stage.State{}, err
	}
	id, err = s.manager.Create(ctx, id, doc)
	if err != nil {
		return stage.State{}, fmt.Errorf("create failed: %w", err)
	}
	return s.manager.Inspect(ctx, id)
}

func (s *Server) resolveScene(ctx context.Context, args map[string]any) (*scene.Document, error) {
	if raw, ok := args["document"].(string); ok && raw != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("invalid document json: %w", err)
		}
		return scene.FromMap(m)
	}
	if name, ok := args["scene"].(string); ok && name != "" {
		return s.scenes.Get(ctx, name)
	}
	return scene.Default(), nil
}

// stepFromArgs builds a step map from tool arguments. Fields in the "step"
// JSON are overridden by the explicit arguments.
func stepFromArgs(args map[string]any) (script.Step, error) {
	raw := map[string]any{}
	if extra, ok := args["step"].(string); ok && extra != "" {
		if err := json.Unmarshal([]byte(extra), &raw); err != nil {
			return script.Step{}, fmt.Errorf("invalid step json: %w", err)
		}
	}
	raw["event"] = args["event"]
	if agentID, ok := args["agent_id"].(string); ok && agentID != "" {
		device, _ := args["device"].(string)
		raw["agent"] = map[string]any{"id": agentID, "device": device}
	}
	return script.DecodeStep(raw)
}

func (s *Server) handleSendEvent(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (stage.State, error) {
	id, _ := args["stage_id"].(string)
	step, err := stepFromArgs(args)
	if err != nil {
		return stage.State{}, err
	}
	return s.update(ctx, id, func(ctx context.Context, st *stage.Stage) error {
		return st.Dispatch(ctx, step)
	})
}

func (s *Server) handleAdvance(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (stage.State, error) {
	id, _ := args["stage_id"].(string)
	raw, _ := args["duration"].(string)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return stage.State{}, fmt.Errorf("invalid duration: %w", err)
	}
	if d < 0 {
		return stage.State{}, fmt.Errorf("duration must not be negative, got %s", d)
	}
	ticks := 0
	if n, ok := args["ticks"].(float64); ok {
		ticks = int(max(-1, min(n, stage.MaxTicks+1)))
	}
	if err := stage.CheckTicks(ticks); err != nil {
		return stage.State{}, err
	}

	return s.update(ctx, id, func(ctx context.Context, st *stage.Stage) error {
		return st.Ticks(ctx, d, ticks)
	})
}

func (s *Server) handleInspectStage(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (stage.State, error) {
	id, _ := args["stage_id"].(string)
	return s.manager.Inspect(ctx, id)
}

func (s *Server) update(ctx context.Context, id string, fn func(context.Context, *stage.Stage) error) (stage.State, error) {
	var state stage.State
	err := s.manager.WithStage(ctx, id, func(ctx context.Context, st *stage.Stage) error {
		if err := fn(ctx, st); err != nil {
			return err
		}
		var err error
		state, err = st.Inspect(ctx)
		return err
	})
	if err != nil {
		s.logger.WarnContext(ctx, "MCP tool failed", "stage", id, "err", err)
	}
	return state, err
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(stagesURI, "Hosted stages",
		mcp.WithResourceDescription("State of every stage hosted by this server"),
		mcp.WithMIMEType("application/json"),
	), s.readStages)

	s.mcpServer.AddResource(mcp.NewResource(scenesURI, "Scene catalog",
		mcp.WithResourceDescription("Names of the scenes create_stage accepts"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.scenes.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list scenes: %w", err)
		}
		return jsonResource(scenesURI, ids)
	})
}

func (s *Server) readStages(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	states := make([]stage.State, 0)
	for _, id := range s.manager.List() {
		st, err := s.manager.Inspect(ctx, id)
		if err != nil {
			// Deleted between List and Inspect.
			continue
		}
		states = append(states, st)
	}
	return jsonResource(stagesURI, states)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
