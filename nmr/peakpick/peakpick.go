package peakpick

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/lineshape"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

// Component selects the curve searched for maxima.
type Component int

const (
	// ComponentReal searches the absorptive (real) part.
	ComponentReal Component = iota
	// ComponentMagnitude searches |data|, which does not depend on phase.
	ComponentMagnitude
)

// ParseComponent maps "real" or "magnitude" to a Component.
func ParseComponent(name string) (Component, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "real":
		return ComponentReal, true
	case "magnitude", "abs":
		return ComponentMagnitude, true
	default:
		return 0, false
	}
}

// Config controls [Find].
type Config struct {
	// Threshold is the minimum peak height relative to the tallest sample.
	Threshold float64
	// Window is the non-maximum suppression distance in frequency units.
	Window    float64
	Component Component
}

// DefaultConfig returns the picker defaults.
func DefaultConfig() Config {
	return Config{Threshold: 0.05, Window: 0.02, Component: ComponentReal}
}

// Selection is one detected peak.
type Selection struct {
	Peak   model.Peak
	Height float64
	// Lo and Hi bound the peak's region: the half-maximum crossings
	// widened by one width on either side.
	Lo, Hi float64
}

// fwhmAreaFraction is the share of a Gaussian's area within its FWHM,
// erf(sqrt(ln 2)).
var fwhmAreaFraction = math.Erf(math.Sqrt(math.Ln2))

// Find returns the peaks of s ordered along its axis.
func Find(s *spectrum.Spectrum, cfg Config) ([]Selection, error) {
	const op = "peakpick.Find"

	if s == nil {
		return nil, fiterr.Configuration(fiterr.StageInput, op, "nil spectrum")
	}

	if !(cfg.Threshold >= 0 && cfg.Threshold <= 1) {
		return nil, fiterr.Configuration(fiterr.StageInput, op, "threshold must be in [0,1], got %v", cfg.Threshold)
	}

	if !(cfg.Window >= 0) || math.IsInf(cfg.Window, 0) {
		return nil, fiterr.Configuration(fiterr.StageInput, op, "window must be finite and >= 0, got %v", cfg.Window)
	}

	freq := s.Freq()

	var y []float64

	switch cfg.Component {
	case ComponentReal:
		y = s.Real()
	case ComponentMagnitude:
		y = make([]float64, s.Len())
		vecmath.Magnitude(y, s.Real(), s.Imag())
	default:
		return nil, fiterr.Configuration(fiterr.StageInput, op, "unknown component %d", int(cfg.Component))
	}

	top := floats.Max(y)
	if !(top > 0) {
		return nil, nil
	}

	level := cfg.Threshold * top

	var candidates []int
	for i := 1; i < len(y)-1; i++ {
		if y[i] > y[i-1] && y[i] >= y[i+1] && y[i] > 0 && y[i] >= level {
			candidates = append(candidates, i)
		}
	}

	// Strongest first; ties keep axis order.
	slices.SortStableFunc(candidates, func(a, b int) int {
		switch {
		case y[a] > y[b]:
			return -1
		case y[a] < y[b]:
			return 1
		default:
			return 0
		}
	})

	var kept []int
	for _, c := range candidates {
		if slices.ContainsFunc(kept, func(k int) bool { return math.Abs(freq[c]-freq[k]) <= cfg.Window }) {
			continue
		}

		kept = append(kept, c)
	}

	slices.Sort(kept)

	out := make([]Selection, 0, len(kept))
	for _, i := range kept {
		if sel, ok := measure(freq, y, i); ok {
			out = append(out, sel)
		}
	}

	return out, nil
}

// measure estimates the peak at index i from its half-maximum crossings.
func measure(freq, y []float64, i int) (Selection, bool) {
	half := 0.5 * y[i]

	l := i
	for l > 0 && y[l-1] > half {
		l--
	}

	r := i
	for r < len(y)-1 && y[r+1] > half {
		r++
	}

	fl := crossing(freq, y, l, l-1, half)
	fr := crossing(freq, y, r, r+1, half)

	width := math.Abs(fr - fl)
	if !(width > 0) {
		return Selection{}, false
	}

	// Integrate between the crossings, including the interpolated ends.
	x := make([]float64, 0, r-l+3)
	f := make([]float64, 0, r-l+3)

	x = append(x, fl)
	f = append(f, half)
	x = append(x, freq[l:r+1]...)
	f = append(f, y[l:r+1]...)
	x = append(x, fr)
	f = append(f, half)

	if x[0] > x[len(x)-1] {
		slices.Reverse(x)
		slices.Reverse(f)
	}

	var core float64
	if sorted(x) {
		core = integrate.Trapezoidal(x, f)
	}

	area := core / fwhmAreaFraction
	if !(area > 0) {
		// Degenerate crossings; assume a Gaussian.
		area = y[i] * width * math.Sqrt(math.Pi/(4*math.Ln2))
	}

	lo, hi := math.Min(fl, fr)-width, math.Max(fl, fr)+width

	return Selection{
		Peak:   model.Peak{Center: freq[i], Width: width, Area: area},
		Height: y[i],
		Lo:     lo,
		Hi:     hi,
	}, true
}

// crossing interpolates the frequency where y falls to level between the
// inner index in (above level) and the outer index out. If out is off the
// axis the inner sample's frequency is returned.
func crossing(freq, y []float64, in, out int, level float64) float64 {
	if out < 0 || out >= len(y) {
		return freq[in]
	}

	d := y[in] - y[out]
	if d == 0 {
		return freq[in]
	}

	t := (y[in] - level) / d

	return freq[in] + t*(freq[out]-freq[in])
}

// Peaks returns the peak estimates of sel.
func Peaks(sel []Selection) []model.Peak {
	out := make([]model.Peak, len(sel))
	for i, s := range sel {
		out[i] = s.Peak
	}

	return out
}

// Regions returns the weighting regions of sel.
func Regions(sel []Selection) []objective.Region {
	out := make([]objective.Region, len(sel))
	for i, s := range sel {
		out[i] = objective.Region{Lo: s.Lo, Hi: s.Hi, Height: s.Height}
	}

	return out
}

// PeakRegions returns weighting regions for peaks given without a picker
// run. Each region spans the half-maximum points widened by one width, as
// [Find] does, and its height is the Gaussian peak maximum.
func PeakRegions(peaks []model.Peak) []objective.Region {
	out := make([]objective.Region, len(peaks))
	for i, p := range peaks {
		out[i] = objective.Region{
			Lo:     p.Center - 1.5*p.Width,
			Hi:     p.Center + 1.5*p.Width,
			Height: p.Area * lineshape.Gaussian(p.Center, p.Width, p.Center),
		}
	}

	return out
}

// sorted reports whether x is non-decreasing, as integrate.Trapezoidal
// requires.
func sorted(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] < x[i-1] {
			return false
		}
	}

	return true
}
