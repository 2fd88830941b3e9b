package objective

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nmr/internal/testutil"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

func TestRegionWeightsUnsmoothed(t *testing.T) {
	x := testutil.Axis(0, 10, 11)
	cfg := DefaultWeightConfig()
	cfg.SmoothIterations = 0

	w, err := RegionWeights(x, []Region{
		{Lo: 1, Hi: 2, Height: 100},
		{Lo: 6, Hi: 8, Height: 1},
	}, cfg)
	if err != nil {
		t.Fatalf("RegionWeights() error = %v", err)
	}

	want := []float64{0.1, 1, 1, 0.1, 0.1, 0.1, 10, 10, 10, 0.1, 0.1}
	testutil.RequireSliceNearlyEqual(t, w, want, 1e-12)
}

func TestRegionWeightsSmoothingKeepsPositive(t *testing.T) {
	x := testutil.Axis(0, 10, 101)

	w, err := RegionWeights(x, []Region{{Lo: 4, Hi: 6, Height: 0.01}, {Lo: 7, Hi: 8, Height: 1}},
		DefaultWeightConfig())
	if err != nil {
		t.Fatalf("RegionWeights() error = %v", err)
	}

	testutil.RequireFinite(t, w)

	for i, v := range w {
		if !(v > 0) {
			t.Fatalf("w[%d] = %v, want > 0", i, v)
		}
	}

	// The jump at the region edge is spread over neighbours.
	if w[39] <= 0.1 || w[39] >= 10 {
		t.Fatalf("w[39] = %v, want strictly between 0.1 and 10", w[39])
	}

	if math.Abs(w[0]-0.1) > 1e-12 || math.Abs(w[100]-0.1) > 1e-12 {
		t.Fatalf("end points changed: %v %v", w[0], w[100])
	}
}

func TestRegionWeightsValidation(t *testing.T) {
	x := testutil.Axis(0, 1, 5)

	tests := []struct {
		name    string
		freq    []float64
		regions []Region
		cfg     WeightConfig
	}{
		{"empty axis", nil, nil, DefaultWeightConfig()},
		{"zero height", x, []Region{{Lo: 0, Hi: 1}}, DefaultWeightConfig()},
		{"zero default", x, nil, WeightConfig{}},
		{"unstable smoothing", x, nil, WeightConfig{Default: 1, SmoothIterations: 1, SmoothFactor: 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RegionWeights(tt.freq, tt.regions, tt.cfg); !errors.Is(err, fiterr.ErrConfiguration) {
				t.Fatalf("RegionWeights() error = %v, want configuration error", err)
			}
		})
	}
}
