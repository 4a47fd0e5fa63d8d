// Package config loads raybrush.yaml.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/raybrush/internal/logging"
	"github.com/aretw0/raybrush/pkg/domain"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "raybrush.yaml"

// Config is the full deployment configuration.
type Config struct {
	Tuning  TuningConfig  `yaml:"tuning" json:"tuning"`
	Runner  RunnerConfig  `yaml:"runner" json:"runner"`
	Redis   RedisConfig   `yaml:"redis" json:"redis"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// TuningConfig holds the controller knobs. Offsets are positive magnitudes.
type TuningConfig struct {
	BuryDepth        float64  `yaml:"bury_depth" json:"bury_depth"`
	RaiseHeight      float64  `yaml:"raise_height" json:"raise_height"`
	FarDistance      float64  `yaml:"far_distance" json:"far_distance"`
	CameraTransition Duration `yaml:"camera_transition" json:"camera_transition"`
	CameraEasing     string   `yaml:"camera_easing" json:"camera_easing"`
	EraseDelay       Duration `yaml:"erase_delay" json:"erase_delay"`
}

type RunnerConfig struct {
	FrameRate int `yaml:"frame_rate" json:"frame_rate"`
}

// RedisConfig enables the shared ownership registry and stage locks when Addr is set.
type RedisConfig struct {
	Addr     string   `yaml:"addr" json:"addr"`
	Password string   `yaml:"password" json:"password"`
	DB       int      `yaml:"db" json:"db"`
	Prefix   string   `yaml:"prefix" json:"prefix"`
	LockTTL  Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

// MetricsConfig exposes /metrics on Addr for commands without an HTTP server. Empty disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	t := domain.DefaultTuning()
	return Config{
		Tuning: TuningConfig{
			BuryDepth:        t.Offsets.BuryDepth,
			RaiseHeight:      t.Offsets.RaiseHeight,
			FarDistance:      t.FarDistance,
			CameraTransition: Duration(t.Transition.Duration),
			CameraEasing:     string(t.Transition.Easing),
			EraseDelay:       Duration(t.EraseDelay),
		},
		Runner: RunnerConfig{FrameRate: 60},
		Redis: RedisConfig{
			Prefix:  "raybrush:",
			LockTTL: Duration(5 * time.Second),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML or JSON file (by extension) over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return cfg, cfg.Validate()
}

// DomainTuning converts the tuning section to the domain type.
func (c Config) DomainTuning() domain.Tuning {
	return domain.Tuning{
		Offsets: domain.Offsets{
			BuryDepth:   c.Tuning.BuryDepth,
			RaiseHeight: c.Tuning.RaiseHeight,
		},
		FarDistance: c.Tuning.FarDistance,
		Transition: domain.TransitionSpec{
			Duration: time.Duration(c.Tuning.CameraTransition),
			Easing:   domain.Easing(c.Tuning.CameraEasing),
		},
		EraseDelay: time.Duration(c.Tuning.EraseDelay),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.DomainTuning().Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	if c.Runner.FrameRate <= 0 {
		return fmt.Errorf("runner: frame rate must be positive, got %d", c.Runner.FrameRate)
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis: lock ttl must be positive, got %v", time.Duration(c.Redis.LockTTL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// FrameInterval is the live-mode tick period.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Runner.FrameRate)
}
