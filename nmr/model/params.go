package model

import (
	"fmt"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// Vector layout.
const (
	IndexPhase  = 0
	IndexMix    = 1
	IndexOffset = 2
	GlobalCount = 3
	PeakStride  = 3
)

// Peak is one resonance: FWHM width, center frequency and integrated area.
type Peak struct {
	Center float64
	Width  float64
	Area   float64
}

func (p Peak) String() string {
	return fmt.Sprintf("center=%g width=%g area=%g", p.Center, p.Width, p.Area)
}

// Globals are the parameters shared by all peaks of a fit.
type Globals struct {
	Phase  float64 // radians
	Mix    float64 // 0 = Gaussian, 1 = Lorentzian
	Offset float64 // added to the real component
}

// Vector is a flat fit parameter vector.
type Vector []float64

// Len returns the vector length for n peaks.
func Len(n int) int { return GlobalCount + PeakStride*n }

// Pack lays out g and peaks as a Vector.
func Pack(g Globals, peaks []Peak) Vector {
	v := make(Vector, Len(len(peaks)))
	v[IndexPhase] = g.Phase
	v[IndexMix] = g.Mix
	v[IndexOffset] = g.Offset

	for i, p := range peaks {
		j := GlobalCount + PeakStride*i
		v[j] = p.Width
		v[j+1] = p.Center
		v[j+2] = p.Area
	}

	return v
}

// Validate reports a ConfigurationError if v does not have length 3 + 3n
// for some n >= 1.
func (v Vector) Validate() error {
	if len(v) < Len(1) || (len(v)-GlobalCount)%PeakStride != 0 {
		return fiterr.Configuration(fiterr.StageCompose, "model.Vector",
			"parameter vector length %d is not 3 + 3n with n >= 1", len(v))
	}

	return nil
}

// NumPeaks returns the number of peaks encoded in v.
func (v Vector) NumPeaks() int {
	if len(v) < GlobalCount {
		return 0
	}

	return (len(v) - GlobalCount) / PeakStride
}

// Globals decodes the shared parameters.
func (v Vector) Globals() Globals {
	return Globals{Phase: v[IndexPhase], Mix: v[IndexMix], Offset: v[IndexOffset]}
}

// Peak decodes the i-th peak.
func (v Vector) Peak(i int) Peak {
	j := GlobalCount + PeakStride*i
	return Peak{Width: v[j], Center: v[j+1], Area: v[j+2]}
}

// Peaks decodes all peaks.
func (v Vector) Peaks() []Peak {
	out := make([]Peak, v.NumPeaks())
	for i := range out {
		out[i] = v.Peak(i)
	}

	return out
}

// Unpack decodes v into globals and peaks.
func Unpack(v Vector) (Globals, []Peak, error) {
	if err := v.Validate(); err != nil {
		return Globals{}, nil, err
	}

	return v.Globals(), v.Peaks(), nil
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}
