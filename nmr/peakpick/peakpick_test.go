package peakpick

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-nmr/internal/testutil"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

func realSpectrum(t *testing.T, freq, re []float64) *spectrum.Spectrum {
	t.Helper()

	s, err := spectrum.FromParts(freq, re, make([]float64, len(re)))
	if err != nil {
		t.Fatalf("FromParts() error = %v", err)
	}

	return s
}

func TestFindGaussianPeaks(t *testing.T) {
	x := testutil.Axis(0.8, 1.7, 901)
	lines := []testutil.Line{{Width: 0.02, Center: 1.0, Area: 10}, {Width: 0.03, Center: 1.5, Area: 5}}

	sel, err := Find(realSpectrum(t, x, testutil.GaussianLines(x, lines...)), DefaultConfig())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 2 {
		t.Fatalf("found %d peaks, want 2: %+v", len(sel), sel)
	}

	for i, l := range lines {
		p := sel[i].Peak
		if math.Abs(p.Center-l.Center) > 1e-3 {
			t.Fatalf("peak %d center = %v, want %v", i, p.Center, l.Center)
		}

		testutil.RequireRelativeClose(t, "width", p.Width, l.Width, 0.02)
		testutil.RequireRelativeClose(t, "area", p.Area, l.Area, 0.02)

		if !(sel[i].Lo < p.Center-p.Width && sel[i].Hi > p.Center+p.Width) {
			t.Fatalf("peak %d region [%v, %v] too narrow", i, sel[i].Lo, sel[i].Hi)
		}
	}
}

func TestFindDescendingAxis(t *testing.T) {
	x := testutil.Axis(1.7, 0.8, 901)
	y := testutil.GaussianLines(x, testutil.Line{Width: 0.02, Center: 1.2, Area: 3})

	sel, err := Find(realSpectrum(t, x, y), DefaultConfig())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 1 {
		t.Fatalf("found %d peaks, want 1", len(sel))
	}

	testutil.RequireRelativeClose(t, "width", sel[0].Peak.Width, 0.02, 0.02)
	testutil.RequireRelativeClose(t, "area", sel[0].Peak.Area, 3, 0.02)

	if !(sel[0].Lo < sel[0].Hi) {
		t.Fatalf("region [%v, %v] inverted", sel[0].Lo, sel[0].Hi)
	}
}

func TestFindLorentzianWidth(t *testing.T) {
	x := testutil.Axis(0, 2, 2001)
	y := testutil.LorentzianLines(x, testutil.Line{Width: 0.05, Center: 1, Area: 1})

	sel, err := Find(realSpectrum(t, x, y), DefaultConfig())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 1 {
		t.Fatalf("found %d peaks, want 1", len(sel))
	}

	testutil.RequireRelativeClose(t, "width", sel[0].Peak.Width, 0.05, 0.02)
}

func TestFindThresholdAndWindow(t *testing.T) {
	x := testutil.Axis(0, 1, 1001)
	y := testutil.GaussianLines(x,
		testutil.Line{Width: 0.01, Center: 0.3, Area: 1},
		testutil.Line{Width: 0.01, Center: 0.6, Area: 0.01},
	)

	sel, err := Find(realSpectrum(t, x, y), Config{Threshold: 0.05, Window: 0.02})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 1 || math.Abs(sel[0].Peak.Center-0.3) > 1e-3 {
		t.Fatalf("Find() = %+v, want only the peak at 0.3", sel)
	}

	sel, err = Find(realSpectrum(t, x, y), Config{Threshold: 0, Window: 0.02})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 2 {
		t.Fatalf("found %d peaks without threshold, want 2", len(sel))
	}

	// A ripple next to a tall peak is suppressed by the window.
	z := slices.Clone(y)
	z[320] += 0.5
	z[321] -= 0.2

	sel, err = Find(realSpectrum(t, x, z), Config{Threshold: 0, Window: 0.05})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 2 {
		t.Fatalf("found %d peaks with ripple, want 2", len(sel))
	}
}

func TestFindMagnitude(t *testing.T) {
	x := testutil.Axis(0.8, 1.2, 401)
	y := testutil.GaussianLines(x, testutil.Line{Width: 0.02, Center: 1, Area: 1})

	// Rotated by 90 degrees the real part is empty but the magnitude is not.
	s, err := spectrum.FromParts(x, make([]float64, len(x)), y)
	if err != nil {
		t.Fatalf("FromParts() error = %v", err)
	}

	sel, err := Find(s, DefaultConfig())
	if err != nil || len(sel) != 0 {
		t.Fatalf("Find(real) = %d peaks, %v; want none", len(sel), err)
	}

	sel, err = Find(s, Config{Threshold: 0.05, Window: 0.02, Component: ComponentMagnitude})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(sel) != 1 || math.Abs(sel[0].Peak.Center-1) > 1e-3 {
		t.Fatalf("Find(magnitude) = %+v", sel)
	}
}

func TestFindValidation(t *testing.T) {
	x := testutil.Axis(0, 1, 11)
	s := realSpectrum(t, x, make([]float64, 11))

	for _, cfg := range []Config{
		{Threshold: -0.1},
		{Threshold: 2},
		{Window: -1},
		{Window: math.Inf(1)},
		{Component: Component(7)},
	} {
		if _, err := Find(s, cfg); !errors.Is(err, fiterr.ErrConfiguration) {
			t.Fatalf("Find(%+v) error = %v, want configuration error", cfg, err)
		}
	}

	if _, err := Find(nil, DefaultConfig()); !errors.Is(err, fiterr.ErrConfiguration) {
		t.Fatalf("Find(nil) error = %v, want configuration error", err)
	}
}

func TestPeaksAndRegions(t *testing.T) {
	x := testutil.Axis(0.8, 1.7, 901)
	y := testutil.GaussianLines(x,
		testutil.Line{Width: 0.02, Center: 1.0, Area: 10},
		testutil.Line{Width: 0.02, Center: 1.4, Area: 1},
	)

	sel, err := Find(realSpectrum(t, x, y), DefaultConfig())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	peaks := Peaks(sel)
	regions := Regions(sel)

	if len(peaks) != 2 || len(regions) != 2 {
		t.Fatalf("len = %d/%d, want 2", len(peaks), len(regions))
	}

	if !(regions[0].Height > regions[1].Height) {
		t.Fatalf("heights = %v, %v; want the first taller", regions[0].Height, regions[1].Height)
	}

	if peaks[1] != sel[1].Peak {
		t.Fatalf("Peaks()[1] = %+v, want %+v", peaks[1], sel[1].Peak)
	}
}

func TestPeakRegions(t *testing.T) {
	peaks := []model.Peak{
		{Center: 1.0, Width: 0.02, Area: 10},
		{Center: 1.5, Width: 0.04, Area: 1},
	}

	regions := PeakRegions(peaks)
	if len(regions) != 2 {
		t.Fatalf("len(regions) = %d, want 2", len(regions))
	}

	for i, p := range peaks {
		r := regions[i]
		top := testutil.GaussianLines([]float64{p.Center}, testutil.Line{Width: p.Width, Center: p.Center, Area: p.Area})[0]

		testutil.RequireRelativeClose(t, "Height", r.Height, top, 1e-12)
		testutil.RequireRelativeClose(t, "Lo", r.Lo, p.Center-1.5*p.Width, 1e-12)
		testutil.RequireRelativeClose(t, "Hi", r.Hi, p.Center+1.5*p.Width, 1e-12)
	}

	freq := testutil.Axis(0.9, 1.6, 701)
	cfg := objective.DefaultWeightConfig()
	cfg.SmoothIterations = 0

	w, err := objective.RegionWeights(freq, regions, cfg)
	if err != nil {
		t.Fatalf("RegionWeights() error = %v", err)
	}

	// Samples at 1.0, 1.5 and 0.9.
	if !(w[600] > w[100]) || w[100] != 1 || w[0] != cfg.Default {
		t.Fatalf("weights = %v %v %v, want small peak > big peak = 1 > default", w[600], w[100], w[0])
	}
}

func TestParseComponent(t *testing.T) {
	if c, ok := ParseComponent("Magnitude"); !ok || c != ComponentMagnitude {
		t.Fatalf("ParseComponent(Magnitude) = %v, %v", c, ok)
	}

	if _, ok := ParseComponent("phase"); ok {
		t.Fatal("ParseComponent(phase) ok = true, want false")
	}
}
