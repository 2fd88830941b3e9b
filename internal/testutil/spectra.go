package testutil

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Line describes one synthetic resonance: FWHM width, center and area.
type Line struct {
	Width  float64
	Center float64
	Area   float64
}

// Axis returns n evenly spaced frequencies from start to stop inclusive.
// stop < start gives a descending ppm-style axis.
func Axis(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}

	return floats.Span(make([]float64, n), start, stop)
}

// GaussianLines evaluates a sum of Gaussian absorption lines, each
// integrating to its area. It is written independently of the library
// lineshapes so tests do not validate the model against itself.
func GaussianLines(freq []float64, lines ...Line) []float64 {
	out := make([]float64, len(freq))
	for _, l := range lines {
		sigma := l.Width / (2 * math.Sqrt(2*math.Ln2))
		norm := l.Area / (sigma * math.Sqrt(2*math.Pi))
		for i, f := range freq {
			d := (f - l.Center) / sigma
			out[i] += norm * math.Exp(-0.5*d*d)
		}
	}

	return out
}

// LorentzianLines evaluates a sum of Lorentzian absorption lines, each
// integrating to its area.
func LorentzianLines(freq []float64, lines ...Line) []float64 {
	out := make([]float64, len(freq))
	for _, l := range lines {
		gamma := l.Width / 2
		for i, f := range freq {
			d := f - l.Center
			out[i] += l.Area * gamma / (math.Pi * (d*d + gamma*gamma))
		}
	}

	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude) that
// depends only on seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x6e6d72))

	out := make([]float64, length)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}
