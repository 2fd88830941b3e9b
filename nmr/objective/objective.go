package objective

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/lineshape"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

// Config controls how residuals are accumulated.
type Config struct {
	Norm Norm

	// Weights holds one strictly positive weight per sample. Nil means
	// uniform weights.
	Weights []float64

	// ImagWeight scales the imaginary residual. Zero compares the real
	// part only.
	ImagWeight float64

	Dispersion lineshape.Dispersion
}

// DefaultConfig returns a real-only sum-of-squares objective with analytic
// dispersion.
func DefaultConfig() Config {
	return Config{Norm: NormSumSquares, Dispersion: lineshape.DispersionAnalytic}
}

// Func is the signature consumed by the optimizers.
type Func func([]float64) (float64, error)

// Objective scores parameter vectors against one observed spectrum.
type Objective struct {
	freq   []float64
	obsRe  []float64
	obsIm  []float64
	cfg    Config
	opts   []lineshape.Option
	buffer sync.Pool
}

type buffers struct {
	re, im []float64
}

// New validates cfg against obs and returns an Objective.
func New(obs *spectrum.Spectrum, cfg Config) (*Objective, error) {
	const op = "objective.New"

	if obs == nil {
		return nil, fiterr.Configuration(fiterr.StageObjective, op, "nil spectrum")
	}

	switch cfg.Norm {
	case NormSumSquares, NormSumAbs:
	default:
		return nil, fiterr.Configuration(fiterr.StageObjective, op, "unknown norm %d", int(cfg.Norm))
	}

	if math.IsNaN(cfg.ImagWeight) || math.IsInf(cfg.ImagWeight, 0) || cfg.ImagWeight < 0 {
		return nil, fiterr.Configuration(fiterr.StageObjective, op,
			"imaginary weight must be finite and >= 0, got %v", cfg.ImagWeight)
	}

	n := obs.Len()
	if cfg.Weights != nil {
		if len(cfg.Weights) != n {
			return nil, fiterr.Configuration(fiterr.StageObjective, op,
				"weights length %d does not match spectrum length %d", len(cfg.Weights), n)
		}

		for i, w := range cfg.Weights {
			if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
				return nil, fiterr.Configuration(fiterr.StageObjective, op,
					"weight %d must be finite and > 0, got %v", i, w)
			}
		}

		cfg.Weights = append([]float64(nil), cfg.Weights...)
	}

	o := &Objective{
		freq:  obs.Freq(),
		obsRe: obs.Real(),
		obsIm: obs.Imag(),
		cfg:   cfg,
		opts:  []lineshape.Option{lineshape.WithDispersion(cfg.Dispersion)},
	}
	o.buffer.New = func() any {
		return &buffers{re: make([]float64, n), im: make([]float64, n)}
	}

	return o, nil
}

// Config returns the configuration the objective was built with.
func (o *Objective) Config() Config { return o.cfg }

// Freq returns the observed frequency axis. The slice must not be modified.
func (o *Objective) Freq() []float64 { return o.freq }

// Evaluate composes params on the observed axis and returns the residual.
func (o *Objective) Evaluate(params model.Vector) (float64, error) {
	b := o.buffer.Get().(*buffers)
	defer o.buffer.Put(b)

	if err := model.ComposeInto(b.re, b.im, params, o.freq, o.opts...); err != nil {
		return 0, fiterr.WithParams(err, fiterr.StageObjective, params)
	}

	value, err := o.residual(b.re, b.im)
	if err != nil {
		return 0, fiterr.WithParams(err, fiterr.StageObjective, params)
	}

	return value, nil
}

// Residual scores an already composed model (re, im) sampled on the observed
// axis. re and im are overwritten.
func (o *Objective) Residual(re, im []float64) (float64, error) {
	if len(re) != len(o.freq) || len(im) != len(o.freq) {
		return 0, fiterr.Configuration(fiterr.StageObjective, "objective.Residual",
			"model length %d/%d does not match spectrum length %d", len(re), len(im), len(o.freq))
	}

	return o.residual(re, im)
}

// SignalNorm returns the residual of an all-zero model, the weighted norm
// of the observation itself.
func (o *Objective) SignalNorm() float64 {
	re := append([]float64(nil), o.obsRe...)
	im := append([]float64(nil), o.obsIm...)

	total := o.cfg.Norm.reduce(re, o.cfg.Weights)
	if o.cfg.ImagWeight > 0 {
		total += o.cfg.ImagWeight * o.cfg.Norm.reduce(im, o.cfg.Weights)
	}

	return total
}

// Func returns Evaluate as a plain function.
func (o *Objective) Func() Func {
	return func(x []float64) (float64, error) {
		return o.Evaluate(x)
	}
}

func (o *Objective) residual(re, im []float64) (float64, error) {
	floats.Sub(re, o.obsRe)
	total := o.cfg.Norm.reduce(re, o.cfg.Weights)

	if o.cfg.ImagWeight > 0 {
		floats.Sub(im, o.obsIm)
		total += o.cfg.ImagWeight * o.cfg.Norm.reduce(im, o.cfg.Weights)
	}

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fiterr.Numerical(fiterr.StageObjective, "objective.Evaluate",
			"residual is not finite: %v", total)
	}

	return total, nil
}
