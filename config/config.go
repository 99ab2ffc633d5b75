// Package config loads sorter configuration from files and the environment.
//
// Files may be YAML, TOML or JSON; the format follows the file extension.
// Every key can be overridden by an NDSORT_ environment variable, with dots
// replaced by underscores (hybrid.kind becomes NDSORT_HYBRID_KIND).
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/hupe1980/ndsort"
	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/rankquery"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "NDSORT"

// Config describes a sorter: capacities, rank ceiling, backend, hybrid
// strategy, parallelism and logging. Zero thresholds keep the engine
// defaults; a zero memory limit means unlimited.
type Config struct {
	MaxPoints         int          `mapstructure:"max_points"         validate:"required,min=1"`
	MaxDimension      int          `mapstructure:"max_dimension"      validate:"required,min=1"`
	MaxRank           int          `mapstructure:"max_rank"           validate:"min=0"`
	Threads           int          `mapstructure:"threads"            validate:"min=-1,ne=0"`
	Backend           string       `mapstructure:"backend"            validate:"oneof=fenwick tree veb"`
	Hybrid            HybridConfig `mapstructure:"hybrid"`
	MemoryLimit       int64        `mapstructure:"memory_limit"       validate:"min=0"`
	ConsistencyChecks bool         `mapstructure:"consistency_checks"`
	ParallelThreshold int          `mapstructure:"parallel_threshold" validate:"min=0"`
	ForkThreshold     int          `mapstructure:"fork_threshold"     validate:"min=0"`
	Log               LogConfig    `mapstructure:"log"`
}

// HybridConfig selects the strategy for small subproblems. Kind is none or
// quadratic; Threshold 0 means hybrid.DefaultQuadraticThreshold.
type HybridConfig struct {
	Kind      string `mapstructure:"kind"      validate:"oneof=none quadratic"`
	Threshold int    `mapstructure:"threshold" validate:"min=0"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var defaults = map[string]any{
	"max_points":         10000,
	"max_dimension":      8,
	"max_rank":           1 << 30,
	"threads":            1,
	"backend":            string(rankquery.KindFenwick),
	"hybrid.kind":        "none",
	"hybrid.threshold":   hybrid.DefaultQuadraticThreshold,
	"memory_limit":       0,
	"consistency_checks": false,
	"parallel_threshold": 0,
	"fork_threshold":     0,
	"log.level":          "warn",
	"log.format":         "text",
}

// Default returns the configuration used when no file and no environment
// override is present.
func Default() *Config {
	c, err := Load("")
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the file at path (skipped when path is empty), applies the
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Backend == string(rankquery.KindVanEmdeBoas) && c.Threads != 1 {
		return fmt.Errorf("config validation failed: backend %q supports a single thread, got %d", c.Backend, c.Threads)
	}
	return nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*ndsort.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	if c.Log.Format == "json" {
		return ndsort.NewJSONLogger(level), nil
	}
	return ndsort.NewTextLogger(level), nil
}

// Strategy returns the hybrid strategy described by the hybrid section.
func (c *Config) Strategy() hybrid.Strategy {
	if c.Hybrid.Kind == "quadratic" {
		return hybrid.Quadratic{Threshold: c.Hybrid.Threshold}
	}
	return hybrid.None{}
}

// Options translates the configuration into sorter options.
func (c *Config) Options() ([]ndsort.Option, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	opts := []ndsort.Option{
		ndsort.WithThreads(c.Threads),
		ndsort.WithBackend(rankquery.Kind(c.Backend)),
		ndsort.WithHybrid(c.Strategy()),
		ndsort.WithLogger(logger),
		ndsort.WithConsistencyChecks(c.ConsistencyChecks),
		ndsort.WithParallelThresholds(c.ParallelThreshold, c.ForkThreshold),
	}
	if c.MemoryLimit > 0 {
		opts = append(opts, ndsort.WithMemoryLimit(c.MemoryLimit))
	}
	return opts, nil
}

// Build creates a sorter. extra options are applied after the configured ones.
func (c *Config) Build(extra ...ndsort.Option) (*ndsort.Sorter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return ndsort.New(c.MaxPoints, c.MaxDimension, append(opts, extra...)...)
}
