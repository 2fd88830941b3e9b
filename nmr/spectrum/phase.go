package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Rotate applies a zero-order phase correction and returns the rotated
// spectrum: V = u cos(phase) - v sin(phase), I = u sin(phase) + v cos(phase).
func (s *Spectrum) Rotate(phase float64) *Spectrum {
	rot := cmplx.Exp(complex(0, phase))

	data := make([]complex128, len(s.data))
	for i, c := range s.data {
		data[i] = c * rot
	}

	return &Spectrum{freq: s.freq, data: data}
}

// minPhaseStep bounds the scan of [Spectrum.BrutePhase] to 1e7 phases.
const minPhaseStep = 2 * math.Pi / 1e7

// BrutePhase scans phases in [-pi, pi) with the given step and returns the
// phase whose rotated real component has the smallest squared difference
// between its first and last sample, i.e. the flattest baseline. A zero or
// negative step selects pi/360.
func (s *Spectrum) BrutePhase(step float64) (float64, error) {
	if step <= 0 {
		step = math.Pi / 360
	}

	if math.IsInf(step, 0) || math.IsNaN(step) || step < minPhaseStep {
		return 0, fiterr.Configuration(fiterr.StageInput, "spectrum.BrutePhase",
			"phase step must be finite and >= %g, got %v", minPhaseStep, step)
	}

	first, last := s.data[0], s.data[len(s.data)-1]

	best := 0.0
	bestErr := math.Inf(1)

	n := int(math.Ceil(2 * math.Pi / step))
	for k := range n {
		theta := -math.Pi + float64(k)*step
		cos, sin := math.Cos(theta), math.Sin(theta)
		v0 := real(first)*cos - imag(first)*sin
		v1 := real(last)*cos - imag(last)*sin

		d := (v0 - v1) * (v0 - v1)
		if d < bestErr {
			bestErr = d
			best = theta
		}
	}

	return best, nil
}
