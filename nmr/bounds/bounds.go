package bounds

import (
	"math"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/model"
)

// Range is a closed interval.
type Range struct {
	Lo, Hi float64
}

// Multipliers scale each peak's estimate into its search interval.
type Multipliers struct {
	WidthLower   float64
	WidthUpper   float64
	CenterWindow float64 // half-window in units of the estimated width
	AreaLower    float64
	AreaUpper    float64
}

// GlobalRanges bound the shared parameters.
type GlobalRanges struct {
	Phase  Range
	Mix    Range
	Offset Range
}

// Config controls [Build].
type Config struct {
	Multipliers Multipliers
	Globals     GlobalRanges
}

// DefaultConfig returns the bounds used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Multipliers: Multipliers{
			WidthLower:   0.5,
			WidthUpper:   2,
			CenterWindow: 0.5,
			AreaLower:    0,
			AreaUpper:    3,
		},
		Globals: GlobalRanges{
			Phase:  Range{Lo: -0.05, Hi: 0.05},
			Mix:    Range{Lo: 0, Hi: 1},
			Offset: Range{Lo: -0.01, Hi: 0.01},
		},
	}
}

// AroundPhase returns a phase range of the given half width centred on p0.
func AroundPhase(p0, halfWidth float64) Range {
	halfWidth = math.Abs(halfWidth)
	return Range{Lo: p0 - halfWidth, Hi: p0 + halfWidth}
}

// Bounds is an element-wise box for a parameter vector.
type Bounds struct {
	Lower model.Vector
	Upper model.Vector
}

// Build returns the search box for peaks under cfg.
func Build(peaks []model.Peak, cfg Config) (Bounds, error) {
	const op = "bounds.Build"

	if len(peaks) == 0 {
		return Bounds{}, fiterr.Configuration(fiterr.StageBounds, op, "no peaks")
	}

	if err := cfg.validate(); err != nil {
		return Bounds{}, err
	}

	m := cfg.Multipliers
	g := cfg.Globals

	b := Bounds{
		Lower: make(model.Vector, model.Len(len(peaks))),
		Upper: make(model.Vector, model.Len(len(peaks))),
	}

	b.Lower[model.IndexPhase], b.Upper[model.IndexPhase] = g.Phase.Lo, g.Phase.Hi
	b.Lower[model.IndexMix], b.Upper[model.IndexMix] = g.Mix.Lo, g.Mix.Hi
	b.Lower[model.IndexOffset], b.Upper[model.IndexOffset] = g.Offset.Lo, g.Offset.Hi

	for i, p := range peaks {
		if !(p.Width > 0) || math.IsInf(p.Width, 0) {
			return Bounds{}, fiterr.Configuration(fiterr.StageBounds, op,
				"peak %d: width must be finite and > 0, got %v", i, p.Width)
		}

		if !(p.Area > 0) || math.IsInf(p.Area, 0) {
			return Bounds{}, fiterr.Configuration(fiterr.StageBounds, op,
				"peak %d: area must be finite and > 0, got %v", i, p.Area)
		}

		if math.IsNaN(p.Center) || math.IsInf(p.Center, 0) {
			return Bounds{}, fiterr.Configuration(fiterr.StageBounds, op,
				"peak %d: center must be finite, got %v", i, p.Center)
		}

		j := model.GlobalCount + model.PeakStride*i
		window := m.CenterWindow * p.Width

		b.Lower[j], b.Upper[j] = m.WidthLower*p.Width, m.WidthUpper*p.Width
		b.Lower[j+1], b.Upper[j+1] = p.Center-window, p.Center+window
		b.Lower[j+2], b.Upper[j+2] = m.AreaLower*p.Area, m.AreaUpper*p.Area
	}

	return b, b.Validate()
}

func (c Config) validate() error {
	const op = "bounds.Build"

	m := c.Multipliers
	for _, v := range []float64{m.WidthLower, m.WidthUpper, m.CenterWindow, m.AreaLower, m.AreaUpper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fiterr.Configuration(fiterr.StageBounds, op, "multipliers must be finite: %+v", m)
		}
	}

	if !(m.WidthLower > 0) {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"width lower multiplier must be > 0, got %v", m.WidthLower)
	}

	if m.WidthLower > m.WidthUpper {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"width multipliers inverted: %v > %v", m.WidthLower, m.WidthUpper)
	}

	if m.CenterWindow < 0 {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"center window must be >= 0, got %v", m.CenterWindow)
	}

	if m.AreaLower < 0 || m.AreaLower > m.AreaUpper {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"area multipliers must satisfy 0 <= lower <= upper, got %v and %v", m.AreaLower, m.AreaUpper)
	}

	g := c.Globals
	if g.Mix.Lo < 0 || g.Mix.Hi > 1 {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"mix range must lie within [0,1], got [%v, %v]", g.Mix.Lo, g.Mix.Hi)
	}

	for name, r := range map[string]Range{"phase": g.Phase, "mix": g.Mix, "offset": g.Offset} {
		if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) || math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) || r.Lo > r.Hi {
			return fiterr.Configuration(fiterr.StageBounds, op,
				"%s range [%v, %v] is not a finite interval", name, r.Lo, r.Hi)
		}
	}

	return nil
}

// Dim returns the dimension of the box.
func (b Bounds) Dim() int { return len(b.Lower) }

// Validate reports a ConfigurationError if the box is malformed.
func (b Bounds) Validate() error {
	const op = "bounds.Validate"

	if len(b.Lower) != len(b.Upper) {
		return fiterr.Configuration(fiterr.StageBounds, op,
			"lower and upper lengths differ: %d != %d", len(b.Lower), len(b.Upper))
	}

	if err := b.Lower.Validate(); err != nil {
		return err
	}

	for i := range b.Lower {
		if !(b.Lower[i] <= b.Upper[i]) {
			return fiterr.Configuration(fiterr.StageBounds, op,
				"index %d: lower %v > upper %v", i, b.Lower[i], b.Upper[i])
		}
	}

	return nil
}

// Contains reports whether v lies inside the box.
func (b Bounds) Contains(v []float64) bool {
	if len(v) != len(b.Lower) {
		return false
	}

	for i, x := range v {
		if !(x >= b.Lower[i] && x <= b.Upper[i]) {
			return false
		}
	}

	return true
}

// Clamp returns a copy of v projected onto the box. NaN coordinates map to
// the box center.
func (b Bounds) Clamp(v []float64) model.Vector {
	out := make(model.Vector, len(v))
	for i, x := range v {
		switch {
		case math.IsNaN(x):
			out[i] = 0.5 * (b.Lower[i] + b.Upper[i])
		case x < b.Lower[i]:
			out[i] = b.Lower[i]
		case x > b.Upper[i]:
			out[i] = b.Upper[i]
		default:
			out[i] = x
		}
	}

	return out
}

// Center returns the midpoint of the box.
func (b Bounds) Center() model.Vector {
	out := make(model.Vector, len(b.Lower))
	for i := range out {
		out[i] = 0.5 * (b.Lower[i] + b.Upper[i])
	}

	return out
}
