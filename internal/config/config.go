// Package config loads dispatcher settings from YAML and the environment and
// turns them into dispatch options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-accel/dispatch"
	"github.com/cwbudde/algo-accel/internal/dynlib"
)

// Environment overrides, applied after the file.
const (
	TierEnv    = "ALGO_ACCEL_TIER"
	ThreadsEnv = "ALGO_ACCEL_THREADS"
	PluginEnv  = dispatch.PluginPathEnv
)

// Loader names accepted in plugins.loaders.
const (
	LoaderGoPlugin = "goplugin"
	LoaderShared   = "shared"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config holds the dispatcher settings.
type Config struct {
	// Optimized enables accelerators at startup.
	Optimized bool `yaml:"optimized"`

	// Tier overrides the detected tier for enabling. It is not checked against
	// the hardware. Empty means the detected tier.
	Tier string `yaml:"tier"`

	// Threads is the thread count for parallel code; 0 means all processors.
	Threads int `yaml:"threads"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Plugins Plugins `yaml:"plugins"`
}

// Plugins configures plugin discovery.
type Plugins struct {
	SearchPaths []string `yaml:"search_paths"`
	Loaders     []string `yaml:"loaders"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Optimized: true,
		LogLevel:  "warn",
		Plugins: Plugins{
			Loaders: []string{LoaderGoPlugin, LoaderShared},
		},
	}
}

// Load reads path over the defaults, then applies the environment. An empty
// path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(TierEnv); v != "" {
		c.Tier = v
	}
	if v := getenv(ThreadsEnv); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, ThreadsEnv, v, err)
		}
		c.Threads = n
	}
	if v := getenv(PluginEnv); v != "" {
		c.Plugins.SearchPaths = append(filepath.SplitList(v), c.Plugins.SearchPaths...)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Tier != "" {
		if _, err := dispatch.ParseTier(c.Tier); err != nil {
			return fmt.Errorf("%w: tier: %w", ErrInvalid, err)
		}
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be >= 0, got %d", ErrInvalid, c.Threads)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, l := range c.Plugins.Loaders {
		switch l {
		case LoaderGoPlugin, LoaderShared:
		default:
			return fmt.Errorf("%w: unknown loader %q", ErrInvalid, l)
		}
	}
	return nil
}

// ParseLevel maps a level name onto a slog level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
}

// Loader builds the file loader chain in configured order.
func (c Config) Loader() dynlib.Chain {
	var chain dynlib.Chain
	for _, l := range c.Plugins.Loaders {
		switch l {
		case LoaderGoPlugin:
			chain = append(chain, &dynlib.GoPlugin{SearchPaths: c.Plugins.SearchPaths})
		case LoaderShared:
			chain = append(chain, &dynlib.Shared{SearchPaths: c.Plugins.SearchPaths})
		}
	}
	return chain
}

// Options converts the settings into dispatch context options.
func (c Config) Options() []dispatch.Option {
	return []dispatch.Option{dispatch.WithLoader(c.Loader())}
}

// Apply sets the thread count on ctx and, when optimized mode is configured,
// enables accelerators up to the configured tier.
func (c Config) Apply(ctx *dispatch.Context) (dispatch.Stats, error) {
	ctx.SetThreadCount(c.Threads)
	if !c.Optimized {
		ctx.Disable()
		return dispatch.Stats{}, nil
	}
	if c.Tier == "" {
		return ctx.Enable(), nil
	}
	t, err := dispatch.ParseTier(c.Tier)
	if err != nil {
		return dispatch.Stats{}, fmt.Errorf("%w: tier: %w", ErrInvalid, err)
	}
	return ctx.EnableTier(t), nil
}
