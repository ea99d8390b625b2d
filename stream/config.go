package stream

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/kbukum/streamkit/config"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/validation"
)

// ServiceName is the config file and service name used by LoadConfig.
const ServiceName = "streamkit"

// ExecutionConfig holds the defaults of the parallel strategy.
type ExecutionConfig struct {
	// Workers is the partition count of Parallel(0); 0 means GOMAXPROCS.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	// MinPartitionSize is the fewest elements a splittable source puts in a
	// partition.
	MinPartitionSize int `yaml:"min_partition_size" mapstructure:"min_partition_size" validate:"gte=1"`
}

// ApplyDefaults fills unset fields.
func (c *ExecutionConfig) ApplyDefaults() {
	if c.MinPartitionSize == 0 {
		c.MinPartitionSize = 1
	}
}

func (c ExecutionConfig) resolvedWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Config is the complete configuration of a streamkit process.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Execution            ExecutionConfig      `yaml:"execution" mapstructure:"execution"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Execution.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section and returns an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}

// LoadConfig reads streamkit.yml, .env and the environment, then applies
// defaults and validates the result.
func LoadConfig(opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var defaults atomic.Pointer[ExecutionConfig]

// Defaults returns the execution defaults in effect.
func Defaults() ExecutionConfig {
	if c := defaults.Load(); c != nil {
		return *c
	}
	c := ExecutionConfig{}
	c.ApplyDefaults()
	return c
}

// SetDefaults replaces the execution defaults used by pipelines whose
// terminal operation starts afterwards.
func SetDefaults(c ExecutionConfig) error {
	c.ApplyDefaults()
	if err := validation.Validate(c); err != nil {
		return err
	}
	defaults.Store(&c)
	return nil
}

// Setup installs the global logger, the execution defaults and, when
// enabled, the OTLP exporters described by cfg. The returned function
// flushes telemetry on shutdown.
func Setup(ctx context.Context, cfg *Config) (func(context.Context) error, error) {
	logger.Init(cfg.Logging)
	if err := SetDefaults(cfg.Execution); err != nil {
		return nil, err
	}
	shutdown, err := observability.Init(ctx, cfg.Name, cfg.Version, cfg.Environment, cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	logger.Get(component).Info("streamkit configured", logger.Fields(
		"workers", Defaults().resolvedWorkers(),
		"min_partition_size", Defaults().MinPartitionSize,
		"telemetry", cfg.Telemetry.Enabled,
	))
	return shutdown, nil
}
