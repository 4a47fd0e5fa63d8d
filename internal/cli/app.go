// Package cli wires configuration, logging, metrics, storage and scenes
// into the objects the raybrush commands run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/raybrush/internal/config"
	"github.com/aretw0/raybrush/internal/logging"
	loamadapter "github.com/aretw0/raybrush/pkg/adapters/loam"
	"github.com/aretw0/raybrush/pkg/adapters/memory"
	redisadapter "github.com/aretw0/raybrush/pkg/adapters/redis"
	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/observability"
	"github.com/aretw0/raybrush/pkg/ports"
	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/session"
	"github.com/aretw0/raybrush/pkg/stage"
)

// Options are the global command flags.
type Options struct {
	ConfigPath string
	ScenesDir  string
	Debug      bool
}

// App holds everything built from configuration.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Owners   ports.OwnershipRegistry
	Locker   ports.DistributedLocker
	Scenes   scene.Catalog

	redis *redisadapter.Ownership
}

// Setup loads the configuration and builds the application services.
// Redis is only contacted when redis.addr is configured.
func Setup(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = slog.LevelDebug
	}

	app := &App{
		Config:   cfg,
		Logger:   logging.New(level),
		Registry: prometheus.NewRegistry(),
		Owners:   memory.NewOwnership(),
		Scenes:   scene.NewStatic(),
	}
	app.Registry.MustRegister(collectors.NewGoCollector())

	app.Metrics, err = observability.NewMetrics(app.Registry)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		owners := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithPrefix(cfg.Redis.Prefix))
		if err := owners.Ping(ctx); err != nil {
			_ = owners.Close()
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		app.redis = owners
		app.Owners = owners
		app.Locker = redisadapter.NewLocker(owners.Client(), cfg.Redis.Prefix)
		app.Logger.Info("using redis ownership registry", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	if opts.ScenesDir != "" {
		catalog, err := loamadapter.Open(opts.ScenesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open scenes: %w", err)
		}
		app.Scenes = catalog
	}
	return app, nil
}

// Hooks are the lifecycle hooks every stage gets: metrics, plus logging in debug.
func (a *App) Hooks() domain.LifecycleHooks {
	hooks := a.Metrics.Hooks()
	if a.Logger.Enabled(context.Background(), slog.LevelDebug) {
		hooks = hooks.Merge(observability.LogHooks(a.Logger))
	}
	return hooks
}

// StageOptions apply the configured tuning, hooks and ownership registry.
func (a *App) StageOptions() []stage.Option {
	return []stage.Option{
		stage.WithTuning(a.Config.DomainTuning()),
		stage.WithHooks(a.Hooks()),
		stage.WithOwnership(a.Owners),
		stage.WithLogger(a.Logger),
	}
}

// NewManager builds a session manager using the app services.
func (a *App) NewManager() *session.Manager {
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithStageOptions(a.StageOptions()...),
		session.WithCountObserver(func(n int) { a.Metrics.Stages.Set(float64(n)) }),
	}
	if a.Locker != nil {
		opts = append(opts, session.WithLocker(a.Locker), session.WithLockTTL(time.Duration(a.Config.Redis.LockTTL)))
	}
	return session.NewManager(opts...)
}

// ResolveScene accepts a scene file path or a catalog name. Empty means the default scene.
func (a *App) ResolveScene(ctx context.Context, ref string) (*scene.Document, error) {
	if ref == "" {
		return scene.Default(), nil
	}
	if _, err := os.Stat(ref); err == nil {
		return scene.Load(ref)
	}
	doc, err := a.Scenes.Get(ctx, ref)
	if err != nil && errors.Is(err, domain.ErrStageNotFound) && filepath.Ext(ref) != "" {
		return nil, fmt.Errorf("scene file %s not found", ref)
	}
	return doc, err
}

// Close releases the redis connection, if any.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
