package model

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/lineshape"
)

// scratch holds per-call buffers for one peak's lineshape.
type scratch struct {
	re, im []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratch{} },
}

func getScratch(n int) *scratch {
	s := scratchPool.Get().(*scratch)
	if cap(s.re) < n {
		s.re = make([]float64, n)
		s.im = make([]float64, n)
	}

	s.re = s.re[:n]
	s.im = s.im[:n]

	return s
}

// Compose returns the synthetic complex spectrum for params on freq.
func Compose(params Vector, freq []float64, opts ...lineshape.Option) ([]complex128, error) {
	re := make([]float64, len(freq))
	im := make([]float64, len(freq))

	if err := ComposeInto(re, im, params, freq, opts...); err != nil {
		return nil, err
	}

	out := make([]complex128, len(freq))
	for i := range out {
		out[i] = complex(re[i], im[i])
	}

	return out, nil
}

// ComposeParts returns the real and imaginary parts of [Compose].
func ComposeParts(params Vector, freq []float64, opts ...lineshape.Option) (re, im []float64, err error) {
	re = make([]float64, len(freq))
	im = make([]float64, len(freq))

	if err := ComposeInto(re, im, params, freq, opts...); err != nil {
		return nil, nil, err
	}

	return re, im, nil
}

// ComposeInto writes the synthetic spectrum for params into re and im, which
// must both have the length of freq. It does not retain any of its arguments
// and is safe for concurrent use.
func ComposeInto(re, im []float64, params Vector, freq []float64, opts ...lineshape.Option) error {
	const op = "model.Compose"

	if err := params.Validate(); err != nil {
		return err
	}

	if len(re) != len(freq) || len(im) != len(freq) {
		return fiterr.Configuration(fiterr.StageCompose, op,
			"output length %d/%d does not match axis length %d", len(re), len(im), len(freq))
	}

	for i := range re {
		re[i] = 0
		im[i] = 0
	}

	g := params.Globals()
	if !finite(g.Phase) || !finite(g.Offset) {
		return fiterr.Domain(fiterr.StageCompose, op, "phase and offset must be finite, got %v and %v", g.Phase, g.Offset)
	}

	s := getScratch(len(freq))
	defer scratchPool.Put(s)

	for i := range params.NumPeaks() {
		p := params.Peak(i)

		err := lineshape.VoigtInto(s.re, s.im, lineshape.Params{
			Width:  p.Width,
			Center: p.Center,
			Area:   p.Area,
			Mix:    g.Mix,
		}, freq, opts...)
		if err != nil {
			return err
		}

		vecmath.AddBlockInPlace(re, s.re)
		vecmath.AddBlockInPlace(im, s.im)
	}

	if g.Phase != 0 {
		sin, cos := math.Sincos(g.Phase)
		for i := range re {
			r, m := re[i], im[i]
			re[i] = r*cos - m*sin
			im[i] = r*sin + m*cos
		}
	}

	if g.Offset != 0 {
		for i := range re {
			re[i] += g.Offset
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
