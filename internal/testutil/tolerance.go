package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or in any
// element by more than eps. The failure names the worst index.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	if len(got) == 0 || floats.EqualApprox(got, want, eps) {
		return
	}

	worst := WorstIndex(got, want)
	t.Fatalf("index %d: got %v, want %v (max diff %v > eps %v)",
		worst, got[worst], want[worst], floats.Distance(got, want, math.Inf(1)), eps)
}

// RequireRelativeClose fails t if got deviates from want by more than
// relTol*|want|.
func RequireRelativeClose(t *testing.T, name string, got, want, relTol float64) {
	t.Helper()

	if !scalar.EqualWithinRel(got, want, relTol) {
		t.Fatalf("%s = %v, want %v (rel tol %v)", name, got, want, relTol)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	if floats.HasNaN(data) {
		t.Fatalf("NaN in %d samples", len(data))
	}

	for i, v := range data {
		if math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// WorstIndex returns the index of the largest absolute difference between a
// and b, which must have equal non-zero length.
func WorstIndex(a, b []float64) int {
	d := floats.SubTo(make([]float64, len(a)), a, b)
	for i, v := range d {
		d[i] = math.Abs(v)
	}

	return floats.MaxIdx(d)
}
