package result

import (
	"math"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/lineshape"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
	"github.com/cwbudde/algo-nmr/stats/residual"
)

// FitResult holds a fitted parameter vector and the curves it produces.
type FitResult struct {
	Params  model.Vector
	Globals model.Globals

	// Error is the objective value at the observed resolution.
	Error float64
	// RelativeError is Error divided by the objective value of an
	// all-zero model.
	RelativeError float64

	// Freq, Real and Imag hold the reconstructed spectrum, Scale times as
	// many samples as the observation.
	Freq  []float64
	Real  []float64
	Imag  []float64
	Scale int

	// AreaFraction is the share of the total area held by satellite
	// peaks, those with less than the mean area.
	AreaFraction float64

	// Residual describes the real-part residual on the observed axis.
	Residual residual.Stats
}

// Peaks decodes the fitted peaks.
func (r *FitResult) Peaks() []model.Peak { return r.Params.Peaks() }

// Len returns the number of reconstructed samples.
func (r *FitResult) Len() int { return len(r.Freq) }

// Generate builds the FitResult of params for observed. cfg must be the
// objective configuration used for the fit.
func Generate(params model.Vector, observed *spectrum.Spectrum, scale int, cfg objective.Config) (*FitResult, error) {
	const op = "result.Generate"

	if scale < 1 {
		return nil, fiterr.Configuration(fiterr.StageResult, op, "scale must be a positive integer, got %d", scale)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	obj, err := objective.New(observed, cfg)
	if err != nil {
		return nil, err
	}

	value, err := obj.Evaluate(params)
	if err != nil {
		return nil, fiterr.WithParams(err, fiterr.StageResult, params)
	}

	opts := []lineshape.Option{lineshape.WithDispersion(cfg.Dispersion)}

	baseRe, _, err := model.ComposeParts(params, observed.Freq(), opts...)
	if err != nil {
		return nil, fiterr.WithParams(err, fiterr.StageResult, params)
	}

	stats, err := residual.Of(observed.Real(), baseRe)
	if err != nil {
		return nil, err
	}

	freq, err := spectrum.Upsample(observed.Freq(), scale)
	if err != nil {
		return nil, err
	}

	re, im, err := model.ComposeParts(params, freq, opts...)
	if err != nil {
		return nil, fiterr.WithParams(err, fiterr.StageResult, params)
	}

	return &FitResult{
		Params:        params.Clone(),
		Globals:       params.Globals(),
		Error:         value,
		RelativeError: relative(value, obj.SignalNorm()),
		Freq:          freq,
		Real:          re,
		Imag:          im,
		Scale:         scale,
		AreaFraction:  AreaFraction(params.Peaks()),
		Residual:      stats,
	}, nil
}

// AreaFraction returns the share of the total area held by peaks whose area
// is below the mean area. It returns 0 for no peaks or zero total area.
func AreaFraction(peaks []model.Peak) float64 {
	if len(peaks) == 0 {
		return 0
	}

	var total float64
	for _, p := range peaks {
		total += p.Area
	}

	mean := total / float64(len(peaks))

	var sats float64
	for _, p := range peaks {
		if p.Area < mean {
			sats += p.Area
		}
	}

	if total == 0 {
		return 0
	}

	return sats / total
}

func relative(value, norm float64) float64 {
	switch {
	case norm > 0:
		return value / norm
	case value == 0:
		return 0
	default:
		return math.Inf(1)
	}
}
