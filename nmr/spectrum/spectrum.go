package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Spectrum is a complex spectrum sampled on a strictly monotonic frequency axis.
type Spectrum struct {
	freq []float64
	data []complex128
}

// New validates freq and data and returns a Spectrum holding copies of both.
func New(freq []float64, data []complex128) (*Spectrum, error) {
	if err := validate(freq, data); err != nil {
		return nil, err
	}

	return &Spectrum{
		freq: append([]float64(nil), freq...),
		data: append([]complex128(nil), data...),
	}, nil
}

// FromParts builds a Spectrum from separate real and imaginary parts.
func FromParts(freq, re, im []float64) (*Spectrum, error) {
	if len(re) != len(im) {
		return nil, fiterr.Configuration(fiterr.StageInput, "spectrum.FromParts",
			"real and imaginary parts differ in length: %d vs %d", len(re), len(im))
	}

	data := make([]complex128, len(re))
	for i := range data {
		data[i] = complex(re[i], im[i])
	}

	return New(freq, data)
}

func validate(freq []float64, data []complex128) error {
	const op = "spectrum.New"

	if len(freq) != len(data) {
		return fiterr.Configuration(fiterr.StageInput, op,
			"axis and samples differ in length: %d vs %d", len(freq), len(data))
	}

	if len(freq) < 2 {
		return fiterr.Configuration(fiterr.StageInput, op, "need at least 2 samples, got %d", len(freq))
	}

	for i, f := range freq {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fiterr.Configuration(fiterr.StageInput, op, "non-finite frequency at index %d", i)
		}
	}

	for i, c := range data {
		if !isFinite(real(c)) || !isFinite(imag(c)) {
			return fiterr.Configuration(fiterr.StageInput, op, "non-finite sample at index %d", i)
		}
	}

	if !strictlyMonotonic(freq) {
		return fiterr.Configuration(fiterr.StageInput, op, "frequency axis must be strictly monotonic")
	}

	return nil
}

func strictlyMonotonic(freq []float64) bool {
	ascending := freq[1] > freq[0]
	for i := 1; i < len(freq); i++ {
		if ascending && freq[i] <= freq[i-1] {
			return false
		}

		if !ascending && freq[i] >= freq[i-1] {
			return false
		}
	}

	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.data) }

// Freq returns the frequency axis. The slice is shared and must not be modified.
func (s *Spectrum) Freq() []float64 { return s.freq }

// Samples returns the complex samples. The slice is shared and must not be modified.
func (s *Spectrum) Samples() []complex128 { return s.data }

// At returns the frequency and sample at index i.
func (s *Spectrum) At(i int) (float64, complex128) { return s.freq[i], s.data[i] }

// Real returns a copy of the real (absorptive) component.
func (s *Spectrum) Real() []float64 {
	out := make([]float64, len(s.data))
	for i, c := range s.data {
		out[i] = real(c)
	}

	return out
}

// Imag returns a copy of the imaginary (dispersive) component.
func (s *Spectrum) Imag() []float64 {
	out := make([]float64, len(s.data))
	for i, c := range s.data {
		out[i] = imag(c)
	}

	return out
}

// Descending reports whether the axis runs from high to low frequency.
func (s *Spectrum) Descending() bool { return s.freq[1] < s.freq[0] }

// Min returns the lowest frequency on the axis.
func (s *Spectrum) Min() float64 { return floats.Min(s.freq) }

// Max returns the highest frequency on the axis.
func (s *Spectrum) Max() float64 { return floats.Max(s.freq) }

// Step returns the mean signed sample spacing.
func (s *Spectrum) Step() float64 {
	n := len(s.freq)
	return (s.freq[n-1] - s.freq[0]) / float64(n-1)
}

// IsUniform reports whether every sample spacing is within relTol of the
// mean spacing.
func (s *Spectrum) IsUniform(relTol float64) bool {
	return IsUniformAxis(s.freq, relTol)
}

// Range returns a view of the samples whose frequency lies strictly between
// lo and hi. The bounds may be given in either order. The view shares storage
// with s.
func (s *Spectrum) Range(lo, hi float64) (*Spectrum, error) {
	if lo > hi {
		lo, hi = hi, lo
	}

	start, end := -1, -1
	for i, f := range s.freq {
		if f > lo && f < hi {
			if start < 0 {
				start = i
			}

			end = i + 1
		}
	}

	if start < 0 || end-start < 2 {
		return nil, fiterr.Configuration(fiterr.StageInput, "spectrum.Range",
			"range (%g, %g) selects fewer than 2 samples", lo, hi)
	}

	return &Spectrum{
		freq: s.freq[start:end:end],
		data: s.data[start:end:end],
	}, nil
}
