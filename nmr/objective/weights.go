package objective

import (
	"math"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Region is a frequency interval around one peak and the peak's height.
type Region struct {
	Lo, Hi float64
	Height float64
}

// WeightConfig controls [RegionWeights].
type WeightConfig struct {
	// Default is the weight of samples outside every region.
	Default float64
	// Exponent raises the ratio biggest/height inside each region.
	Exponent float64
	// SmoothIterations is the number of Laplacian smoothing passes.
	SmoothIterations int
	// SmoothFactor is the damping of each smoothing pass, in (0, 0.5].
	SmoothFactor float64
}

// DefaultWeightConfig returns the weighting used for small-satellite fits.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Default:          0.1,
		Exponent:         0.5,
		SmoothIterations: 10,
		SmoothFactor:     1.0 / 3,
	}
}

// RegionWeights builds per-sample weights for freq that emphasise small
// peaks. Samples in region i get weight (biggest/height_i)^Exponent, where
// biggest is the largest region height; all other samples get Default.
// Later regions overwrite earlier ones where they overlap. The result is
// smoothed so weights change gradually at region edges.
func RegionWeights(freq []float64, regions []Region, cfg WeightConfig) ([]float64, error) {
	const op = "objective.RegionWeights"

	if len(freq) == 0 {
		return nil, fiterr.Configuration(fiterr.StageObjective, op, "empty frequency axis")
	}

	if !(cfg.Default > 0) || math.IsInf(cfg.Default, 0) {
		return nil, fiterr.Configuration(fiterr.StageObjective, op,
			"default weight must be finite and > 0, got %v", cfg.Default)
	}

	if cfg.SmoothIterations < 0 || cfg.SmoothFactor < 0 || cfg.SmoothFactor > 0.5 {
		return nil, fiterr.Configuration(fiterr.StageObjective, op,
			"smoothing must have iterations >= 0 and factor in [0, 0.5], got %d and %v",
			cfg.SmoothIterations, cfg.SmoothFactor)
	}

	biggest := 0.0
	for i, r := range regions {
		h := math.Abs(r.Height)
		if !(h > 0) || math.IsInf(h, 0) {
			return nil, fiterr.Configuration(fiterr.StageObjective, op,
				"region %d height must be finite and non-zero, got %v", i, r.Height)
		}

		biggest = math.Max(biggest, h)
	}

	w := make([]float64, len(freq))
	for i := range w {
		w[i] = cfg.Default
	}

	for _, r := range regions {
		lo, hi := nearest(freq, r.Lo), nearest(freq, r.Hi)
		if lo > hi {
			lo, hi = hi, lo
		}

		value := math.Pow(biggest/math.Abs(r.Height), cfg.Exponent)
		for i := lo; i <= hi; i++ {
			w[i] = value
		}
	}

	smooth(w, cfg.SmoothIterations, cfg.SmoothFactor)

	return w, nil
}

// nearest returns the index of the sample closest to f.
func nearest(freq []float64, f float64) int {
	best, dist := 0, math.Inf(1)
	for i, v := range freq {
		if d := math.Abs(v - f); d < dist {
			best, dist = i, d
		}
	}

	return best
}

// smooth applies damped Jacobi passes of the discrete Laplacian with fixed
// end points. Positivity is preserved for omega <= 0.5.
func smooth(w []float64, iterations int, omega float64) {
	if len(w) < 3 || iterations == 0 || omega == 0 {
		return
	}

	prev := make([]float64, len(w))
	for range iterations {
		copy(prev, w)

		for i := 1; i < len(w)-1; i++ {
			w[i] = prev[i] + omega*(prev[i-1]-2*prev[i]+prev[i+1])
		}
	}
}
