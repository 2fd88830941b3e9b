package pso

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Config controls a swarm run. Zero values are replaced by the defaults of
// [DefaultConfig] where noted.
type Config struct {
	SwarmSize     int     // particles; 0 selects 40
	MaxIterations int     // 0 selects 500
	Tolerance     float64 // minimum improvement that resets the stall counter
	Patience      int     // stalled iterations before convergence; 0 selects 30

	// Inertia, Cognitive and Social weight the velocity update. If all
	// three are zero the constriction defaults are used.
	Inertia   float64
	Cognitive float64
	Social    float64

	Seed uint64
	// Rand overrides Seed when set.
	Rand rand.Source

	// Workers evaluating the objective in parallel; 0 selects 1.
	Workers int

	// TimeBudget stops the run with best-so-far once exceeded. Zero means
	// no limit.
	TimeBudget time.Duration

	// MaxVelocityFraction caps each velocity component at this fraction of
	// the bound width; 0 selects 1.
	MaxVelocityFraction float64

	// Initial, if set, is the starting position of particle 0.
	Initial []float64

	Logger *zap.Logger
}

// DefaultConfig returns the swarm defaults.
func DefaultConfig() Config {
	return Config{
		SwarmSize:           40,
		MaxIterations:       500,
		Tolerance:           1e-12,
		Patience:            30,
		Inertia:             0.7298,
		Cognitive:           1.49618,
		Social:              1.49618,
		Seed:                1,
		Workers:             1,
		MaxVelocityFraction: 1,
	}
}

func normalizeConfig(cfg Config) (Config, error) {
	const op = "pso.Config"

	def := DefaultConfig()

	if cfg.SwarmSize == 0 {
		cfg.SwarmSize = def.SwarmSize
	}

	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}

	if cfg.Patience == 0 {
		cfg.Patience = def.Patience
	}

	if cfg.Inertia == 0 && cfg.Cognitive == 0 && cfg.Social == 0 {
		cfg.Inertia, cfg.Cognitive, cfg.Social = def.Inertia, def.Cognitive, def.Social
	}

	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}

	if cfg.MaxVelocityFraction == 0 {
		cfg.MaxVelocityFraction = def.MaxVelocityFraction
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	switch {
	case cfg.SwarmSize < 1:
		return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "swarm size must be >= 1, got %d", cfg.SwarmSize)
	case cfg.MaxIterations < 1:
		return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "max iterations must be >= 1, got %d", cfg.MaxIterations)
	case cfg.Patience < 1:
		return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "patience must be >= 1, got %d", cfg.Patience)
	case cfg.Workers < 1:
		return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "workers must be >= 1, got %d", cfg.Workers)
	case cfg.TimeBudget < 0:
		return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "time budget must be >= 0, got %v", cfg.TimeBudget)
	}

	for name, v := range map[string]float64{
		"tolerance":             cfg.Tolerance,
		"inertia":               cfg.Inertia,
		"cognitive":             cfg.Cognitive,
		"social":                cfg.Social,
		"max velocity fraction": cfg.MaxVelocityFraction,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return cfg, fiterr.Configuration(fiterr.StageOptimize, op, "%s must be finite and >= 0, got %v", name, v)
		}
	}

	return cfg, nil
}
