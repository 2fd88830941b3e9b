// Package residual summarises the difference between an observed curve and
// a fitted model.
package residual

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Stats holds residual statistics.
type Stats struct {
	Length   int
	Mean     float64
	RMS      float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Peak     float64 // max(|max|, |min|)
	Energy   float64 // sum of squares
	// Variance, Skewness and Kurtosis are population moments (divided by
	// Length, no small-sample correction). Kurtosis is the excess kurtosis.
	Variance float64
	Skewness float64
	Kurtosis float64

	// SignChanges counts consecutive samples of opposite sign. A fit that
	// leaves only noise changes sign about every other sample.
	SignChanges int

	// DurbinWatson is sum (r_i - r_{i-1})^2 / sum r_i^2; about 2 for
	// uncorrelated residuals, near 0 for systematic misfit.
	DurbinWatson float64
}

// Calculate computes the statistics of a residual curve.
func Calculate(r []float64) Stats {
	n := len(r)
	if n == 0 {
		return Stats{}
	}

	s := Stats{
		Length: n,
		Max:    floats.Max(r),
		MaxPos: floats.MaxIdx(r),
		Min:    floats.Min(r),
		MinPos: floats.MinIdx(r),
		Energy: floats.Dot(r, r),
	}

	s.Mean, s.Variance = stat.PopMeanVariance(r, nil)
	s.RMS = math.Sqrt(s.Energy / float64(n))
	s.Peak = math.Max(math.Abs(s.Max), math.Abs(s.Min))

	if s.Variance > 0 {
		s.Skewness = stat.Moment(3, r, nil) / math.Pow(s.Variance, 1.5)
		s.Kurtosis = stat.Moment(4, r, nil)/(s.Variance*s.Variance) - 3
	}

	var diff float64
	for i := 1; i < n; i++ {
		if r[i-1]*r[i] < 0 {
			s.SignChanges++
		}

		d := r[i] - r[i-1]
		diff += d * d
	}

	if s.Energy > 0 {
		s.DurbinWatson = diff / s.Energy
	}

	return s
}

// Of returns the statistics of observed - model.
func Of(observed, model []float64) (Stats, error) {
	if len(observed) != len(model) {
		return Stats{}, fiterr.Configuration(fiterr.StageResult, "residual.Of",
			"length mismatch: %d != %d", len(observed), len(model))
	}

	r := make([]float64, len(observed))
	floats.SubTo(r, observed, model)

	return Calculate(r), nil
}
