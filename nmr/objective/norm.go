package objective

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-vecmath"
)

// Norm selects the per-sample residual penalty.
type Norm int

const (
	// NormSumSquares sums squared differences.
	NormSumSquares Norm = iota
	// NormSumAbs sums absolute differences.
	NormSumAbs
)

func (n Norm) String() string {
	switch n {
	case NormSumSquares:
		return "sumsquares"
	case NormSumAbs:
		return "sumabs"
	default:
		return "unknown"
	}
}

// ParseNorm maps a name as printed by [Norm.String] back to a Norm.
func ParseNorm(name string) (Norm, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sumsquares", "l2":
		return NormSumSquares, true
	case "sumabs", "l1":
		return NormSumAbs, true
	default:
		return 0, false
	}
}

// reduce returns sum_k w_k * r(d_k), with w nil meaning uniform weights.
// d is overwritten with r(d).
func (n Norm) reduce(d, w []float64) float64 {
	switch n {
	case NormSumAbs:
		for i, v := range d {
			d[i] = math.Abs(v)
		}
	default:
		vecmath.MulBlockInPlace(d, d)
	}

	if w == nil {
		return floats.Sum(d)
	}

	return floats.Dot(w, d)
}
