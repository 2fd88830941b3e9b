package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-nmr/fit"
	"github.com/cwbudde/algo-nmr/nmr/bounds"
	"github.com/cwbudde/algo-nmr/nmr/lineshape"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/peakpick"
	"github.com/cwbudde/algo-nmr/optimize/pso"
	"github.com/cwbudde/algo-nmr/optimize/refine"
)

// fileConfig is the YAML layout of -config. Missing keys keep their
// defaults.
type fileConfig struct {
	Bounds    boundsConfig    `yaml:"bounds"`
	Objective objectiveConfig `yaml:"objective"`
	Weights   weightsConfig   `yaml:"weights"`
	Swarm     swarmConfig     `yaml:"swarm"`
	Refine    refineConfig    `yaml:"refine"`
	Picker    pickerConfig    `yaml:"picker"`
	Peaks     []peakConfig    `yaml:"peaks"`
	Scale     int             `yaml:"scale"`
	Log       logConfig       `yaml:"log"`
}

type boundsConfig struct {
	WidthLower   float64    `yaml:"width_lower"`
	WidthUpper   float64    `yaml:"width_upper"`
	CenterWindow float64    `yaml:"center_window"`
	AreaLower    float64    `yaml:"area_lower"`
	AreaUpper    float64    `yaml:"area_upper"`
	Phase        [2]float64 `yaml:"phase"`
	Mix          [2]float64 `yaml:"mix"`
	Offset       [2]float64 `yaml:"offset"`
}

type objectiveConfig struct {
	Norm       string  `yaml:"norm"`
	ImagWeight float64 `yaml:"imag_weight"`
	Dispersion string  `yaml:"dispersion"`
}

type weightsConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Default          float64 `yaml:"default"`
	Exponent         float64 `yaml:"exponent"`
	SmoothIterations int     `yaml:"smooth_iterations"`
	SmoothFactor     float64 `yaml:"smooth_factor"`
}

type swarmConfig struct {
	Size          int           `yaml:"size"`
	MaxIterations int           `yaml:"max_iterations"`
	Tolerance     float64       `yaml:"tolerance"`
	Patience      int           `yaml:"patience"`
	Inertia       float64       `yaml:"inertia"`
	Cognitive     float64       `yaml:"cognitive"`
	Social        float64       `yaml:"social"`
	Seed          uint64        `yaml:"seed"`
	Workers       int           `yaml:"workers"`
	TimeBudget    time.Duration `yaml:"time_budget"`
}

type refineConfig struct {
	Enabled        bool    `yaml:"enabled"`
	MaxEvaluations int     `yaml:"max_evaluations"`
	Tolerance      float64 `yaml:"tolerance"`
	Iterations     int     `yaml:"iterations"`
}

type pickerConfig struct {
	Threshold  float64 `yaml:"threshold"`
	Window     float64 `yaml:"window"`
	Component  string  `yaml:"component"`
	BrutePhase bool    `yaml:"brute_phase"`
}

type logConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func defaultFileConfig() fileConfig {
	b := bounds.DefaultConfig()
	w := objective.DefaultWeightConfig()
	s := pso.DefaultConfig()
	r := refine.DefaultConfig()
	p := peakpick.DefaultConfig()

	return fileConfig{
		Bounds: boundsConfig{
			WidthLower:   b.Multipliers.WidthLower,
			WidthUpper:   b.Multipliers.WidthUpper,
			CenterWindow: b.Multipliers.CenterWindow,
			AreaLower:    b.Multipliers.AreaLower,
			AreaUpper:    b.Multipliers.AreaUpper,
			Phase:        [2]float64{b.Globals.Phase.Lo, b.Globals.Phase.Hi},
			Mix:          [2]float64{b.Globals.Mix.Lo, b.Globals.Mix.Hi},
			Offset:       [2]float64{b.Globals.Offset.Lo, b.Globals.Offset.Hi},
		},
		Objective: objectiveConfig{
			Norm:       objective.NormSumSquares.String(),
			Dispersion: lineshape.DispersionAnalytic.String(),
		},
		Weights: weightsConfig{
			Default:          w.Default,
			Exponent:         w.Exponent,
			SmoothIterations: w.SmoothIterations,
			SmoothFactor:     w.SmoothFactor,
		},
		Swarm: swarmConfig{
			Size:          s.SwarmSize,
			MaxIterations: s.MaxIterations,
			Tolerance:     s.Tolerance,
			Patience:      s.Patience,
			Inertia:       s.Inertia,
			Cognitive:     s.Cognitive,
			Social:        s.Social,
			Seed:          s.Seed,
			Workers:       s.Workers,
		},
		Refine: refineConfig{
			Enabled:        r.Enabled,
			MaxEvaluations: r.MaxEvaluations,
			Tolerance:      r.Tolerance,
			Iterations:     r.Iterations,
		},
		Picker: pickerConfig{Threshold: p.Threshold, Window: p.Window, Component: "real"},
		Scale:  1,
		Log:    logConfig{Level: "warn"},
	}
}

// loadConfig overlays the YAML file at path on the defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("nmrfit: %s: %w", path, err)
	}

	return cfg, nil
}

func (c fileConfig) picker() (peakpick.Config, error) {
	comp, ok := peakpick.ParseComponent(c.Picker.Component)
	if !ok {
		return peakpick.Config{}, fmt.Errorf("nmrfit: unknown picker component %q", c.Picker.Component)
	}

	return peakpick.Config{Threshold: c.Picker.Threshold, Window: c.Picker.Window, Component: comp}, nil
}

// fitOptions translates the file config into fitter options. regions are
// used only when weighting is enabled.
func (c fileConfig) fitOptions(regions []objective.Region) ([]fit.Option, error) {
	norm, ok := objective.ParseNorm(c.Objective.Norm)
	if !ok {
		return nil, fmt.Errorf("nmrfit: unknown norm %q", c.Objective.Norm)
	}

	disp, ok := lineshape.ParseDispersion(c.Objective.Dispersion)
	if !ok {
		return nil, fmt.Errorf("nmrfit: unknown dispersion %q", c.Objective.Dispersion)
	}

	opts := []fit.Option{
		fit.WithBounds(bounds.Config{
			Multipliers: bounds.Multipliers{
				WidthLower:   c.Bounds.WidthLower,
				WidthUpper:   c.Bounds.WidthUpper,
				CenterWindow: c.Bounds.CenterWindow,
				AreaLower:    c.Bounds.AreaLower,
				AreaUpper:    c.Bounds.AreaUpper,
			},
			Globals: bounds.GlobalRanges{
				Phase:  bounds.Range{Lo: c.Bounds.Phase[0], Hi: c.Bounds.Phase[1]},
				Mix:    bounds.Range{Lo: c.Bounds.Mix[0], Hi: c.Bounds.Mix[1]},
				Offset: bounds.Range{Lo: c.Bounds.Offset[0], Hi: c.Bounds.Offset[1]},
			},
		}),
		fit.WithObjective(objective.Config{
			Norm:       norm,
			ImagWeight: c.Objective.ImagWeight,
			Dispersion: disp,
		}),
		fit.WithSwarm(pso.Config{
			SwarmSize:     c.Swarm.Size,
			MaxIterations: c.Swarm.MaxIterations,
			Tolerance:     c.Swarm.Tolerance,
			Patience:      c.Swarm.Patience,
			Inertia:       c.Swarm.Inertia,
			Cognitive:     c.Swarm.Cognitive,
			Social:        c.Swarm.Social,
			Seed:          c.Swarm.Seed,
			Workers:       c.Swarm.Workers,
			TimeBudget:    c.Swarm.TimeBudget,
		}),
		fit.WithRefine(refine.Config{
			Enabled:        c.Refine.Enabled,
			MaxEvaluations: c.Refine.MaxEvaluations,
			Tolerance:      c.Refine.Tolerance,
			Iterations:     c.Refine.Iterations,
		}),
		fit.WithScale(c.Scale),
	}

	if c.Weights.Enabled && len(regions) > 0 {
		opts = append(opts, fit.WithRegionWeights(regions, objective.WeightConfig{
			Default:          c.Weights.Default,
			Exponent:         c.Weights.Exponent,
			SmoothIterations: c.Weights.SmoothIterations,
			SmoothFactor:     c.Weights.SmoothFactor,
		}))
	}

	return opts, nil
}

// peakConfig is a manually selected peak. When any are given in the
// config file the automatic picker is skipped and weighting regions are
// derived from the listed peaks.
type peakConfig struct {
	Center float64 `yaml:"center"`
	Width  float64 `yaml:"width"`
	Area   float64 `yaml:"area"`
}
