package lineshape

import (
	"math"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/hilbert"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

// Dispersion selects how the imaginary part of a lineshape is computed.
type Dispersion int

const (
	// DispersionAnalytic uses the closed-form dispersion curves.
	DispersionAnalytic Dispersion = iota
	// DispersionFFT applies a numeric Hilbert transform to the sampled
	// absorptive part. The frequency axis must be uniform.
	DispersionFFT
)

// String returns the configuration name of d.
func (d Dispersion) String() string {
	switch d {
	case DispersionAnalytic:
		return "analytic"
	case DispersionFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// ParseDispersion maps a configuration name to a Dispersion.
func ParseDispersion(name string) (Dispersion, bool) {
	switch name {
	case "", "analytic":
		return DispersionAnalytic, true
	case "fft":
		return DispersionFFT, true
	default:
		return DispersionAnalytic, false
	}
}

// uniformTolerance is the relative spacing tolerance required by DispersionFFT.
const uniformTolerance = 1e-6

// Params are the shape parameters of one Voigt line.
type Params struct {
	Width  float64
	Center float64
	Area   float64
	Mix    float64
}

// Validate reports a DomainError for parameters that cannot be evaluated.
func (p Params) Validate() error {
	const op = "lineshape.Voigt"

	if !(p.Width > 0) || math.IsInf(p.Width, 0) {
		return fiterr.Domain(fiterr.StageLineshape, op, "width must be finite and > 0, got %v", p.Width)
	}

	if !finite(p.Center) {
		return fiterr.Domain(fiterr.StageLineshape, op, "center must be finite, got %v", p.Center)
	}

	if !finite(p.Area) {
		return fiterr.Domain(fiterr.StageLineshape, op, "area must be finite, got %v", p.Area)
	}

	if !(p.Mix >= 0 && p.Mix <= 1) {
		return fiterr.Domain(fiterr.StageLineshape, op, "mix ratio must be in [0,1], got %v", p.Mix)
	}

	return nil
}

// Voigt evaluates the complex Voigt approximation of one peak on freq.
func Voigt(width, center, area, mix float64, freq []float64, opts ...Option) ([]complex128, error) {
	re := make([]float64, len(freq))
	im := make([]float64, len(freq))

	if err := VoigtInto(re, im, Params{Width: width, Center: center, Area: area, Mix: mix}, freq, opts...); err != nil {
		return nil, err
	}

	out := make([]complex128, len(freq))
	for i := range out {
		out[i] = complex(re[i], im[i])
	}

	return out, nil
}

// VoigtInto writes the absorptive part of p into re and the dispersive part
// into im. Both must have the same length as freq; im may be nil to skip the
// dispersive part.
func VoigtInto(re, im []float64, p Params, freq []float64, opts ...Option) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if len(re) != len(freq) || (im != nil && len(im) != len(freq)) {
		return fiterr.Configuration(fiterr.StageLineshape, "lineshape.VoigtInto",
			"output length does not match axis length %d", len(freq))
	}

	cfg := applyOptions(opts)

	lor := p.Area * p.Mix
	gau := p.Area * (1 - p.Mix)

	for i, x := range freq {
		re[i] = lor*Lorentzian(x, p.Width, p.Center) + gau*Gaussian(x, p.Width, p.Center)
	}

	if im == nil {
		return nil
	}

	switch cfg.dispersion {
	case DispersionFFT:
		if err := fftDispersion(im, re, freq); err != nil {
			return err
		}
	default:
		for i, x := range freq {
			im[i] = lor*LorentzianDispersion(x, p.Width, p.Center) + gau*GaussianDispersion(x, p.Width, p.Center)
		}
	}

	return nil
}

func fftDispersion(dst, absorptive, freq []float64) error {
	const op = "lineshape.fftDispersion"

	if len(freq) < 2 {
		return fiterr.Configuration(fiterr.StageLineshape, op, "need at least 2 samples")
	}

	if !spectrum.IsUniformAxis(freq, uniformTolerance) {
		return fiterr.Configuration(fiterr.StageLineshape, op, "FFT dispersion requires a uniform frequency axis")
	}

	if err := hilbert.TransformInto(dst, absorptive); err != nil {
		return fiterr.Numerical(fiterr.StageLineshape, op, "%v", err)
	}

	// The index-domain transform follows the axis direction.
	if freq[1] < freq[0] {
		for i := range dst {
			dst[i] = -dst[i]
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
