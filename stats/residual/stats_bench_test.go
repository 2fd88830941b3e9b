package residual

import (
	"testing"

	"github.com/cwbudde/algo-nmr/internal/testutil"
)

func BenchmarkCalculate(b *testing.B) {
	r := testutil.DeterministicNoise(1, 1, 8192)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		_ = Calculate(r)
	}
}
