package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nmr/internal/testutil"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

func newTestSpectrum(t *testing.T, freq []float64) *Spectrum {
	t.Helper()

	data := make([]complex128, len(freq))
	for i := range data {
		data[i] = complex(float64(i), -float64(i))
	}

	s, err := New(freq, data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		freq []float64
		data []complex128
	}{
		{name: "length mismatch", freq: []float64{0, 1}, data: []complex128{1}},
		{name: "too short", freq: []float64{0}, data: []complex128{1}},
		{name: "not monotonic", freq: []float64{0, 1, 1}, data: []complex128{1, 2, 3}},
		{name: "zigzag", freq: []float64{0, 2, 1}, data: []complex128{1, 2, 3}},
		{name: "nan frequency", freq: []float64{0, math.NaN()}, data: []complex128{1, 2}},
		{name: "inf sample", freq: []float64{0, 1}, data: []complex128{1, complex(math.Inf(1), 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.freq, tt.data)
			if !errors.Is(err, fiterr.ErrConfiguration) {
				t.Fatalf("New() error = %v, want configuration error", err)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	freq := []float64{0, 1, 2}
	data := []complex128{1, 2, 3}

	s, err := New(freq, data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	freq[0] = 99
	data[0] = 99

	if f, c := s.At(0); f != 0 || c != 1 {
		t.Fatalf("At(0) = (%v, %v), want (0, 1)", f, c)
	}
}

func TestDescendingAxis(t *testing.T) {
	s := newTestSpectrum(t, []float64{3, 2, 1, 0})
	if !s.Descending() {
		t.Fatal("expected descending axis")
	}

	if s.Min() != 0 || s.Max() != 3 {
		t.Fatalf("Min/Max = %v/%v, want 0/3", s.Min(), s.Max())
	}

	if s.Step() != -1 {
		t.Fatalf("Step() = %v, want -1", s.Step())
	}
}

func TestRangeIsView(t *testing.T) {
	s := newTestSpectrum(t, testutil.Axis(0, 9, 10))

	sub, err := s.Range(6.5, 2.5)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, sub.Freq(), []float64{3, 4, 5, 6}, 0)

	if &sub.Samples()[0] != &s.Samples()[3] {
		t.Fatal("Range must share storage with the parent spectrum")
	}

	if cap(sub.Freq()) != sub.Len() {
		t.Fatalf("view capacity = %d, want %d", cap(sub.Freq()), sub.Len())
	}
}

func TestRangeTooNarrow(t *testing.T) {
	s := newTestSpectrum(t, testutil.Axis(0, 9, 10))
	if _, err := s.Range(2.5, 3.5); !errors.Is(err, fiterr.ErrConfiguration) {
		t.Fatalf("Range() error = %v, want configuration error", err)
	}
}

func TestRealImag(t *testing.T) {
	s := newTestSpectrum(t, []float64{0, 1, 2})
	testutil.RequireSliceNearlyEqual(t, s.Real(), []float64{0, 1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, s.Imag(), []float64{0, -1, -2}, 0)
}

func TestFromParts(t *testing.T) {
	s, err := FromParts([]float64{0, 1}, []float64{1, 2}, []float64{3, 4})
	if err != nil {
		t.Fatalf("FromParts() error = %v", err)
	}

	if _, c := s.At(1); c != complex(2, 4) {
		t.Fatalf("At(1) = %v, want (2+4i)", c)
	}

	if _, err := FromParts([]float64{0, 1}, []float64{1, 2}, []float64{3}); err == nil {
		t.Fatal("expected error for mismatched parts")
	}
}

func TestRotateRoundTrip(t *testing.T) {
	s := newTestSpectrum(t, testutil.Axis(0, 1, 8))
	back := s.Rotate(0.7).Rotate(-0.7)

	testutil.RequireSliceNearlyEqual(t, back.Real(), s.Real(), 1e-12)
	testutil.RequireSliceNearlyEqual(t, back.Imag(), s.Imag(), 1e-12)
}

func TestRotateQuarterTurn(t *testing.T) {
	s, err := New([]float64{0, 1}, []complex128{1, 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := s.Rotate(math.Pi / 2)
	testutil.RequireSliceNearlyEqual(t, r.Real(), []float64{0, 0}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, r.Imag(), []float64{1, 1}, 1e-15)
}

func TestBrutePhaseFlattensBaseline(t *testing.T) {
	freq := testutil.Axis(0, 1, 64)
	data := make([]complex128, len(freq))
	for i := range data {
		data[i] = complex(0, float64(i)/64)
	}

	s, err := New(freq, data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	theta, err := s.BrutePhase(math.Pi / 180)
	if err != nil {
		t.Fatalf("BrutePhase() error = %v", err)
	}

	r := s.Rotate(theta).Real()
	if d := math.Abs(r[0] - r[len(r)-1]); d > 0.02 {
		t.Fatalf("baseline drift after BrutePhase = %v", d)
	}

	if theta < -math.Pi || theta >= math.Pi {
		t.Fatalf("BrutePhase() = %v, want in [-pi, pi)", theta)
	}
}

func TestBrutePhaseRejectsUnusableStep(t *testing.T) {
	s := newTestSpectrum(t, testutil.Axis(0, 1, 8))

	for _, step := range []float64{1e-17, 1e-9, math.Inf(1), math.NaN()} {
		if _, err := s.BrutePhase(step); !errors.Is(err, fiterr.ErrConfiguration) {
			t.Fatalf("BrutePhase(%v) error = %v, want configuration error", step, err)
		}
	}

	if _, err := s.BrutePhase(0); err != nil {
		t.Fatalf("BrutePhase(0) error = %v, want default step", err)
	}
}

func TestUpsample(t *testing.T) {
	freq := []float64{4, 3, 2, 1}

	up, err := Upsample(freq, 3)
	if err != nil {
		t.Fatalf("Upsample() error = %v", err)
	}

	if len(up) != 12 {
		t.Fatalf("len = %d, want 12", len(up))
	}

	if up[0] != 4 || up[len(up)-1] != 1 {
		t.Fatalf("endpoints = %v..%v, want 4..1", up[0], up[len(up)-1])
	}

	if !IsUniformAxis(up, 1e-9) {
		t.Fatal("upsampled axis must be uniform")
	}

	if _, err := Upsample(freq, 0); !errors.Is(err, fiterr.ErrConfiguration) {
		t.Fatalf("Upsample(0) error = %v, want configuration error", err)
	}
}

func TestIsUniform(t *testing.T) {
	if !newTestSpectrum(t, testutil.Axis(1, 2, 11)).IsUniform(1e-9) {
		t.Fatal("expected uniform axis")
	}

	if newTestSpectrum(t, []float64{0, 1, 3, 4}).IsUniform(1e-3) {
		t.Fatal("expected non-uniform axis")
	}
}
