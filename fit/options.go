package fit

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmr/nmr/bounds"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/optimize/pso"
	"github.com/cwbudde/algo-nmr/optimize/refine"
)

// Config holds the settings of every stage.
type Config struct {
	Bounds    bounds.Config
	Objective objective.Config
	Swarm     pso.Config
	Refine    refine.Config

	// Scale is the upsampling factor of the reconstructed curves.
	Scale int

	// Regions, when set, replace Objective.Weights with
	// objective.RegionWeights computed on the fitted axis.
	Regions []objective.Region
	Weights objective.WeightConfig

	Logger *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults of every stage and scale 1.
func DefaultConfig() Config {
	return Config{
		Bounds:    bounds.DefaultConfig(),
		Objective: objective.DefaultConfig(),
		Swarm:     pso.DefaultConfig(),
		Refine:    refine.DefaultConfig(),
		Scale:     1,
		Weights:   objective.DefaultWeightConfig(),
		Logger:    zap.NewNop(),
	}
}

// WithBounds sets the bound builder configuration.
func WithBounds(cfg bounds.Config) Option {
	return func(c *Config) { c.Bounds = cfg }
}

// WithObjective sets the residual configuration.
func WithObjective(cfg objective.Config) Option {
	return func(c *Config) { c.Objective = cfg }
}

// WithSwarm sets the particle swarm configuration.
func WithSwarm(cfg pso.Config) Option {
	return func(c *Config) { c.Swarm = cfg }
}

// WithRefine sets the polishing configuration.
func WithRefine(cfg refine.Config) Option {
	return func(c *Config) { c.Refine = cfg }
}

// WithScale sets the upsampling factor of the result curves.
func WithScale(scale int) Option {
	return func(c *Config) { c.Scale = scale }
}

// WithRegionWeights weights the residual by peak regions.
func WithRegionWeights(regions []objective.Region, cfg objective.WeightConfig) Option {
	return func(c *Config) {
		c.Regions = append([]objective.Region(nil), regions...)
		c.Weights = cfg
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
