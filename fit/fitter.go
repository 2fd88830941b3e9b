package fit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmr/fit/result"
	"github.com/cwbudde/algo-nmr/nmr/bounds"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
	"github.com/cwbudde/algo-nmr/optimize/pso"
	"github.com/cwbudde/algo-nmr/optimize/refine"
)

// Outcome is a completed fit.
type Outcome struct {
	Result *result.FitResult
	Status pso.Status

	// Warning is set when the swarm stopped on an objective error or the
	// polish met infeasible points. Result still holds the best point.
	Warning error

	Iterations  int
	Evaluations int
	Refined     bool
	History     []float64
	Elapsed     time.Duration
}

// Fitter fits spectra with a fixed configuration. It is safe for
// concurrent use.
type Fitter struct {
	cfg Config
}

// New returns a Fitter configured by opts.
func New(opts ...Option) *Fitter {
	return &Fitter{cfg: ApplyOptions(opts...)}
}

// Config returns the Fitter's configuration.
func (f *Fitter) Config() Config { return f.cfg }

// Fit fits peaks to s. The peaks are initial estimates; they define the
// bound box and seed one particle of the swarm.
func (f *Fitter) Fit(ctx context.Context, s *spectrum.Spectrum, peaks []model.Peak) (*Outcome, error) {
	const op = "fit.Fit"

	start := time.Now()
	cfg := f.cfg
	log := cfg.Logger

	if s == nil {
		return nil, fiterr.Configuration(fiterr.StageInput, op, "nil spectrum")
	}

	if cfg.Scale < 1 {
		return nil, fiterr.Configuration(fiterr.StageResult, op, "scale must be a positive integer, got %d", cfg.Scale)
	}

	log.Info("fit started", zap.Int("peaks", len(peaks)), zap.Int("samples", s.Len()))

	box, err := bounds.Build(peaks, cfg.Bounds)
	if err != nil {
		return nil, err
	}

	objCfg := cfg.Objective
	if len(cfg.Regions) > 0 {
		w, err := objective.RegionWeights(s.Freq(), cfg.Regions, cfg.Weights)
		if err != nil {
			return nil, err
		}

		objCfg.Weights = w
	}

	obj, err := objective.New(s, objCfg)
	if err != nil {
		return nil, err
	}

	g := cfg.Bounds.Globals
	initial := box.Clamp(model.Pack(model.Globals{
		Phase:  0,
		Mix:    0.5 * (g.Mix.Lo + g.Mix.Hi),
		Offset: 0,
	}, peaks))

	swarmCfg := cfg.Swarm
	if swarmCfg.Initial == nil {
		swarmCfg.Initial = initial
	}

	if swarmCfg.Logger == nil {
		swarmCfg.Logger = log.Named("pso")
	}

	log.Debug("bounds built", zap.Float64s("lower", box.Lower), zap.Float64s("upper", box.Upper))

	sw, err := pso.Run(ctx, pso.Func(obj.Func()), box.Lower, box.Upper, swarmCfg)
	if err != nil {
		params := sw.Best
		if params == nil {
			params = initial
		}

		return nil, fiterr.WithParams(err, fiterr.StageOptimize, params)
	}

	out := &Outcome{
		Status:      sw.Status,
		Iterations:  sw.Iterations,
		Evaluations: sw.Evaluations,
		History:     sw.History,
	}

	if sw.Cause != nil {
		out.Warning = fiterr.WithParams(sw.Cause, fiterr.StageOptimize, sw.Best)
		log.Warn("swarm failed, keeping best-so-far", zap.Error(sw.Cause))
	}

	best := model.Vector(sw.Best)

	if cfg.Refine.Enabled && (sw.Status == pso.StatusConverged || sw.Status == pso.StatusMaxIterations) {
		pr, err := refine.Polish(refine.Func(obj.Func()), best, box.Lower, box.Upper, cfg.Refine)
		if err != nil {
			return nil, fiterr.WithParams(err, fiterr.StageRefine, best)
		}

		out.Evaluations += pr.Evaluations
		out.Refined = pr.Improved

		if pr.Improved {
			best = pr.X
		}

		if pr.Cause != nil && out.Warning == nil {
			out.Warning = fiterr.Optimization(fiterr.StageRefine, "refine.Polish", pr.Cause)
		}

		log.Debug("polish finished",
			zap.String("status", pr.Status),
			zap.Bool("improved", pr.Improved),
			zap.Float64("value", pr.Value),
			zap.Int("evaluations", pr.Evaluations))
	}

	res, err := result.Generate(best, s, cfg.Scale, objCfg)
	if err != nil {
		return nil, fiterr.WithParams(err, fiterr.StageResult, best)
	}

	out.Result = res
	out.Elapsed = time.Since(start)

	log.Info("fit finished",
		zap.Stringer("status", out.Status),
		zap.Float64("error", res.Error),
		zap.Float64("relative_error", res.RelativeError),
		zap.Int("iterations", out.Iterations),
		zap.Int("evaluations", out.Evaluations),
		zap.Duration("elapsed", out.Elapsed))

	return out, nil
}
