package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the relay engine.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority, ADP_RELAY_ prefix)
//  3. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithMetadataTTL(30*time.Minute),
//	    WithVerboseDiagnostics(true),
//	)
type Config struct {
	// MetadataTTL bounds how long a discovered capability document is
	// served from cache before a fresh Info query is issued.
	MetadataTTL time.Duration `yaml:"metadata_ttl" envconfig:"METADATA_TTL" default:"1h"`

	// PreferenceTTL bounds the transmission-preference cache.
	PreferenceTTL time.Duration `yaml:"preference_ttl" envconfig:"PREFERENCE_TTL" default:"30m"`

	// MaxAttempts is the number of extraction strategies tried per request.
	// Four covers the full rotation (primary, aggressive, coercion, fuzzy).
	MaxAttempts int `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS" default:"4"`

	// AttemptDelay is the fixed pause between extraction attempts.
	AttemptDelay time.Duration `yaml:"attempt_delay" envconfig:"ATTEMPT_DELAY" default:"100ms"`

	// PacingDelay is inserted around discovery and before dispatch to
	// avoid upstream rate limiting. Not required for correctness.
	PacingDelay time.Duration `yaml:"pacing_delay" envconfig:"PACING_DELAY" default:"50ms"`

	// VerboseDiagnostics attaches session, category and timing context to
	// every result. Off by default to avoid leaking internal detail.
	VerboseDiagnostics bool `yaml:"verbose_diagnostics" envconfig:"VERBOSE_DIAGNOSTICS" default:"false"`

	// RedisURL, when set, backs the metadata cache with Redis so replicas
	// share discovered capability documents. Empty means in-memory only.
	RedisURL string `yaml:"redis_url" envconfig:"REDIS_URL"`

	// RedisPrefix namespaces cache keys in shared Redis deployments.
	RedisPrefix string `yaml:"redis_prefix" envconfig:"REDIS_PREFIX" default:"adprelay:meta:"`

	// MatchThreshold is the minimum handler-match score accepted.
	MatchThreshold float64 `yaml:"match_threshold" envconfig:"MATCH_THRESHOLD" default:"0.3"`
}

// Option is a functional option for Config
type Option func(*Config)

// NewConfig creates a configuration with defaults, environment overrides,
// then functional options applied in that order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("ADP_RELAY", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.MetadataTTL <= 0 {
		return fmt.Errorf("%w: metadata TTL must be positive", ErrInvalidConfiguration)
	}
	if c.PreferenceTTL <= 0 {
		return fmt.Errorf("%w: preference TTL must be positive", ErrInvalidConfiguration)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidConfiguration)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold >= 1 {
		return fmt.Errorf("%w: match threshold must be in [0,1)", ErrInvalidConfiguration)
	}
	return nil
}

// LoadConfigFile reads a YAML config file and returns the parsed Config.
// Values not present in the file keep their zero value, so callers usually
// combine this with WithConfigFile inside NewConfig rather than calling it
// directly.
func LoadConfigFile(path string) (*Config, error) {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: unsupported config file type %q", ErrInvalidConfiguration, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfiguration, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}

// WithConfigFile overlays values from a YAML file. File values replace
// only the fields the file actually sets (non-zero after parse).
func WithConfigFile(path string) Option {
	return func(c *Config) {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return
		}
		if fileCfg.MetadataTTL != 0 {
			c.MetadataTTL = fileCfg.MetadataTTL
		}
		if fileCfg.PreferenceTTL != 0 {
			c.PreferenceTTL = fileCfg.PreferenceTTL
		}
		if fileCfg.MaxAttempts != 0 {
			c.MaxAttempts = fileCfg.MaxAttempts
		}
		if fileCfg.AttemptDelay != 0 {
			c.AttemptDelay = fileCfg.AttemptDelay
		}
		if fileCfg.PacingDelay != 0 {
			c.PacingDelay = fileCfg.PacingDelay
		}
		if fileCfg.RedisURL != "" {
			c.RedisURL = fileCfg.RedisURL
		}
		if fileCfg.RedisPrefix != "" {
			c.RedisPrefix = fileCfg.RedisPrefix
		}
		if fileCfg.MatchThreshold != 0 {
			c.MatchThreshold = fileCfg.MatchThreshold
		}
		if fileCfg.VerboseDiagnostics {
			c.VerboseDiagnostics = true
		}
	}
}

// WithMetadataTTL sets the metadata cache TTL.
func WithMetadataTTL(ttl time.Duration) Option {
	return func(c *Config) { c.MetadataTTL = ttl }
}

// WithPreferenceTTL sets the transmission-preference cache TTL.
func WithPreferenceTTL(ttl time.Duration) Option {
	return func(c *Config) { c.PreferenceTTL = ttl }
}

// WithMaxAttempts sets how many extraction strategies are tried.
func WithMaxAttempts(n int) Option {
	return func(c *Config) { c.MaxAttempts = n }
}

// WithAttemptDelay sets the fixed pause between extraction attempts.
func WithAttemptDelay(d time.Duration) Option {
	return func(c *Config) { c.AttemptDelay = d }
}

// WithPacingDelay sets the rate-limit pacing delay.
func WithPacingDelay(d time.Duration) Option {
	return func(c *Config) { c.PacingDelay = d }
}

// WithVerboseDiagnostics toggles diagnostic context on results.
func WithVerboseDiagnostics(enabled bool) Option {
	return func(c *Config) { c.VerboseDiagnostics = enabled }
}

// WithRedisURL backs the metadata cache with Redis.
func WithRedisURL(url string) Option {
	return func(c *Config) { c.RedisURL = url }
}

// WithMatchThreshold sets the minimum accepted handler-match score.
func WithMatchThreshold(threshold float64) Option {
	return func(c *Config) { c.MatchThreshold = threshold }
}
