// Package config loads and validates voxtrace's configuration from
// built-in defaults, a JSON or YAML file, and environment variable
// overrides, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration for the build, render,
// and serve commands.
type Config struct {
	StateDir string `json:"state_dir" yaml:"state_dir"`
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	Render    RenderConfig    `json:"render" yaml:"render"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
	Security  SecurityConfig  `json:"security" yaml:"security"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	TUI       TUIConfig       `json:"tui" yaml:"tui"`
}

// RenderConfig controls frame geometry and worker parallelism.
type RenderConfig struct {
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	FOVDegrees  float64 `json:"fov_degrees" yaml:"fov_degrees"`
	Workers     int     `json:"workers" yaml:"workers"`
	ShadowBias  float64 `json:"shadow_bias" yaml:"shadow_bias"`
}

// StorageConfig selects the backend the CSV model loader reads from.
type StorageConfig struct {
	Backend     string `json:"backend" yaml:"backend"` // local, s3, gcs, azure
	LocalPath   string `json:"local_path" yaml:"local_path"`
	CloudBucket string `json:"cloud_bucket" yaml:"cloud_bucket"`
	CloudRegion string `json:"cloud_region" yaml:"cloud_region"`
	CloudPrefix string `json:"cloud_prefix" yaml:"cloud_prefix"`
	Watch       bool   `json:"watch" yaml:"watch"` // fsnotify hot-reload on local backend
}

// CacheConfig sizes the ristretto-backed frame cache.
type CacheConfig struct {
	Enabled     bool  `json:"enabled" yaml:"enabled"`
	MaxCost     int64 `json:"max_cost" yaml:"max_cost"`
	NumCounters int64 `json:"num_counters" yaml:"num_counters"`
}

// TelemetryConfig controls the Prometheus metrics endpoint.
type TelemetryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// SecurityConfig covers the serve command's JWT-gated debug API.
type SecurityConfig struct {
	JWTSecret      string        `json:"-" yaml:"-"` // never serialized
	JWTExpiry      time.Duration `json:"jwt_expiry" yaml:"jwt_expiry"`
	EnableAuth     bool          `json:"enable_auth" yaml:"enable_auth"`
	AllowedOrigins []string      `json:"allowed_origins" yaml:"allowed_origins"`
}

// RateLimitConfig sizes the serve command's per-client token-bucket
// limiter (golang.org/x/time/rate), guarding /frame and /ws from a
// single client issuing more requests than the worker pool can render.
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled" yaml:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// TUIConfig controls the bubbletea build/render progress dashboard.
type TUIConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	Theme          string `json:"theme" yaml:"theme"` // dark, light, auto
	UpdateInterval string `json:"update_interval" yaml:"update_interval"`
}

// Validate parses UpdateInterval to catch a malformed config early
// rather than at first tick.
func (c *TUIConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := time.ParseDuration(c.UpdateInterval); err != nil {
		return fmt.Errorf("invalid tui.update_interval %q: %w", c.UpdateInterval, err)
	}
	return nil
}

// Default returns the built-in configuration used when no file is
// supplied and no environment overrides are present.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		StateDir: filepath.Join(homeDir, ".voxtrace"),
		CacheDir: filepath.Join(homeDir, ".voxtrace", "cache"),

		Render: RenderConfig{
			Width:      1280,
			Height:     720,
			FOVDegrees: 60,
			Workers:    0, // 0 means runtime.NumCPU()
			ShadowBias: 0.00001,
		},

		Storage: StorageConfig{
			Backend:   "local",
			LocalPath: filepath.Join(homeDir, ".voxtrace", "models"),
		},

		Cache: CacheConfig{
			Enabled:     true,
			MaxCost:     1 << 28, // 256 MiB of cached frames
			NumCounters: 1e6,
		},

		Telemetry: TelemetryConfig{
			Enabled: false,
			Addr:    ":9090",
		},

		Security: SecurityConfig{
			JWTExpiry:      24 * time.Hour,
			EnableAuth:     false,
			AllowedOrigins: []string{"http://localhost:3000"},
		},

		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},

		TUI: TUIConfig{
			Enabled:        true,
			Theme:          "dark",
			UpdateInterval: "100ms",
		},
	}
}

// Load builds a Config from defaults, an optional file, and then
// environment overrides, validating the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			fmt.Printf("warning: failed to load config file, using defaults: %v\n", err)
		}
	}

	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile parses a JSON or YAML config file into c, substituting
// ${VAR} environment references before unmarshaling.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	data = []byte(substituteEnvVars(string(data)))

	if strings.HasSuffix(strings.ToLower(path), ".yml") || strings.HasSuffix(strings.ToLower(path), ".yaml") {
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// LoadFromEnv overrides a handful of operationally-relevant fields
// from VOXTRACE_* environment variables, mirroring the precedence
// order documented on the package.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("VOXTRACE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("VOXTRACE_STORAGE_BUCKET"); v != "" {
		c.Storage.CloudBucket = v
	}
	if v := os.Getenv("VOXTRACE_JWT_SECRET"); v != "" {
		c.Security.JWTSecret = v
	}
	if v := os.Getenv("VOXTRACE_TELEMETRY_ADDR"); v != "" {
		c.Telemetry.Addr = v
	}
	if v := os.Getenv("VOXTRACE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Render.Workers = n
		}
	}
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render width/height must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FOVDegrees <= 0 || c.Render.FOVDegrees >= 180 {
		return fmt.Errorf("render.fov_degrees must be in (0, 180), got %v", c.Render.FOVDegrees)
	}
	switch c.Storage.Backend {
	case "local", "s3", "gcs", "azure":
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Security.EnableAuth && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.enable_auth is set but no JWT secret was provided (set VOXTRACE_JWT_SECRET)")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be positive when rate_limit.enabled is set, got %v", c.RateLimit.RequestsPerSecond)
	}
	return c.TUI.Validate()
}

// EnsureDirectories creates StateDir and CacheDir if they do not
// already exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.StateDir, c.CacheDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// envVarPattern matches both bare ${VAR} and ${VAR:-default} references;
// the third group is empty (and unmatched) for the bare form.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} references in a
// config file's contents with the corresponding environment variable,
// falling back to the literal default text when the variable is unset
// and the reference supplied one. A bare ${VAR} with no default and no
// matching environment variable is left untouched.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := groups[1], groups[2] != "", groups[3]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if hasDefault {
			return def
		}
		return match
	})
}
