package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return []float64{start}
	}

	return floats.Span(make([]float64, n), start, stop)
}

// Upsample returns a linear axis spanning the same endpoints as freq with
// scale*len(freq) points. Direction is preserved.
func Upsample(freq []float64, scale int) ([]float64, error) {
	if scale < 1 {
		return nil, fiterr.Configuration(fiterr.StageResult, "spectrum.Upsample",
			"scale must be a positive integer, got %d", scale)
	}

	if len(freq) == 0 {
		return nil, nil
	}

	if scale == 1 {
		return append([]float64(nil), freq...), nil
	}

	return Linspace(freq[0], freq[len(freq)-1], scale*len(freq)), nil
}

// IsUniformAxis reports whether every spacing of freq is within relTol of the
// mean spacing.
func IsUniformAxis(freq []float64, relTol float64) bool {
	n := len(freq)
	if n < 3 {
		return n > 0
	}

	step := (freq[n-1] - freq[0]) / float64(n-1)
	if step == 0 {
		return false
	}

	for i := 1; i < n; i++ {
		d := freq[i] - freq[i-1]
		if math.Abs(d-step) > relTol*math.Abs(step) {
			return false
		}
	}

	return true
}
