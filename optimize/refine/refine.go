package refine

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Func is the objective being polished.
type Func func([]float64) (float64, error)

// Config controls [Polish].
type Config struct {
	Enabled        bool
	MaxEvaluations int     // objective evaluation limit
	Tolerance      float64 // function-value convergence tolerance
	Iterations     int     // iterations without improvement before stopping
	SimplexSize    float64 // initial simplex edge as a fraction of the box
}

// DefaultConfig returns an enabled refinement.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		MaxEvaluations: 4000,
		Tolerance:      1e-14,
		Iterations:     100,
		SimplexSize:    0.02,
	}
}

// Result of a polish.
type Result struct {
	X           []float64
	Value       float64
	Evaluations int
	Improved    bool
	Status      string

	// Cause records the first objective error met while polishing. Such
	// points are treated as infeasible.
	Cause error
}

// Polish minimises f starting at start within [lower, upper].
func Polish(f Func, start, lower, upper []float64, cfg Config) (Result, error) {
	const op = "refine.Polish"

	if len(start) == 0 || len(lower) != len(start) || len(upper) != len(start) {
		return Result{}, fiterr.Configuration(fiterr.StageRefine, op,
			"start, lower and upper must have equal non-zero length, got %d, %d, %d",
			len(start), len(lower), len(upper))
	}

	cfg = normalizeConfig(cfg)

	x0 := project(start, lower, upper)

	v0, err := f(x0)
	if err != nil {
		return Result{}, fiterr.WithParams(err, fiterr.StageRefine, x0)
	}

	res := Result{X: x0, Value: v0, Evaluations: 1, Status: "disabled"}
	if !cfg.Enabled {
		return res, nil
	}

	// Only free dimensions take part in the simplex.
	var free []int
	for d := range start {
		if upper[d] > lower[d] {
			free = append(free, d)
		}
	}

	if len(free) == 0 {
		res.Status = "fixed"
		return res, nil
	}

	x := make([]float64, len(start))
	toBox := func(z []float64) []float64 {
		copy(x, x0)
		for k, d := range free {
			x[d] = lower[d] + z[k]*(upper[d]-lower[d])
		}

		return project(x, lower, upper)
	}

	problem := optimize.Problem{
		Func: func(z []float64) float64 {
			v, err := f(toBox(z))
			res.Evaluations++

			if err != nil {
				if res.Cause == nil {
					res.Cause = err
				}

				return math.Inf(1)
			}

			if math.IsNaN(v) {
				return math.Inf(1)
			}

			return v
		},
	}

	z0 := make([]float64, len(free))
	for k, d := range free {
		z0[k] = (x0[d] - lower[d]) / (upper[d] - lower[d])
	}

	settings := &optimize.Settings{
		FuncEvaluations: cfg.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.Tolerance,
			Relative:   cfg.Tolerance,
			Iterations: cfg.Iterations,
		},
	}

	out, err := optimize.Minimize(problem, z0, settings, &optimize.NelderMead{SimplexSize: cfg.SimplexSize})
	if out == nil {
		if err != nil {
			res.Status = err.Error()
		}

		return res, nil
	}

	res.Status = out.Status.String()

	if !(out.F < v0) {
		return res, nil
	}

	// Re-evaluate at the projected point so the reported value matches X.
	best := append([]float64(nil), toBox(out.X)...)

	v, err := f(best)
	res.Evaluations++

	if err != nil || !(v < v0) {
		return res, nil
	}

	res.X, res.Value, res.Improved = best, v, true

	return res, nil
}

func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()

	if cfg.MaxEvaluations <= 0 {
		cfg.MaxEvaluations = def.MaxEvaluations
	}

	if !(cfg.Tolerance > 0) {
		cfg.Tolerance = def.Tolerance
	}

	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}

	if !(cfg.SimplexSize > 0) {
		cfg.SimplexSize = def.SimplexSize
	}

	return cfg
}

// project returns a copy of x clamped to [lower, upper].
func project(x, lower, upper []float64) []float64 {
	out := make([]float64, len(x))
	for d, v := range x {
		out[d] = math.Max(lower[d], math.Min(upper[d], v))
		if math.IsNaN(v) {
			out[d] = 0.5 * (lower[d] + upper[d])
		}
	}

	return out
}
