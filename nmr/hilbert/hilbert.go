package hilbert

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrEmptyInput is returned for zero-length input.
var ErrEmptyInput = errors.New("hilbert: input must not be empty")

type fftPlan interface {
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

// workspace holds a plan and scratch buffers for one FFT size. Plans carry
// internal state, so each goroutine draws its own workspace from a pool.
type workspace struct {
	plan    fftPlan
	buf     []complex128
	spectra []complex128
}

var pools sync.Map // map[int]*sync.Pool

func getWorkspace(size int) (*workspace, error) {
	v, _ := pools.LoadOrStore(size, &sync.Pool{})
	pool := v.(*sync.Pool)

	if ws, ok := pool.Get().(*workspace); ok {
		return ws, nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("hilbert: failed to create FFT plan: %w", err)
	}

	return &workspace{
		plan:    plan,
		buf:     make([]complex128, size),
		spectra: make([]complex128, size),
	}, nil
}

func putWorkspace(size int, ws *workspace) {
	if v, ok := pools.Load(size); ok {
		v.(*sync.Pool).Put(ws)
	}
}

// PaddedSize returns the FFT length used for an input of n samples: the
// smallest power of two that is at least 2n.
func PaddedSize(n int) int {
	p := 1
	for p < 2*n {
		p <<= 1
	}

	return p
}

// Transform returns H[x], the discrete Hilbert transform of x with respect to
// the sample index, using the kernel 1/(pi*(n-m)). A cosine maps to a sine.
func Transform(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	if err := TransformInto(out, x); err != nil {
		return nil, err
	}

	return out, nil
}

// TransformInto writes H[x] into dst, which must have the same length as x.
func TransformInto(dst, x []float64) error {
	if len(x) == 0 {
		return ErrEmptyInput
	}

	if len(dst) != len(x) {
		return fmt.Errorf("hilbert: dst length %d does not match input length %d", len(dst), len(x))
	}

	size := PaddedSize(len(x))

	ws, err := getWorkspace(size)
	if err != nil {
		return err
	}
	defer putWorkspace(size, ws)

	for i := range ws.buf {
		if i < len(x) {
			ws.buf[i] = complex(x[i], 0)
		} else {
			ws.buf[i] = 0
		}
	}

	if err := ws.plan.Forward(ws.spectra, ws.buf); err != nil {
		return fmt.Errorf("hilbert: forward FFT failed: %w", err)
	}

	// Multiply by -i*sgn(k): positive bins rotate by -90 degrees, negative
	// bins by +90, DC and Nyquist vanish.
	half := size / 2
	ws.spectra[0] = 0
	ws.spectra[half] = 0

	for k := 1; k < half; k++ {
		c := ws.spectra[k]
		ws.spectra[k] = complex(imag(c), -real(c))
	}

	for k := half + 1; k < size; k++ {
		c := ws.spectra[k]
		ws.spectra[k] = complex(-imag(c), real(c))
	}

	if err := ws.plan.Inverse(ws.buf, ws.spectra); err != nil {
		return fmt.Errorf("hilbert: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(ws.buf[i])
	}

	return nil
}

// Analytic returns the analytic signal x + i*H[x].
func Analytic(x []float64) ([]complex128, error) {
	h, err := Transform(x)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(x))
	for i := range x {
		out[i] = complex(x[i], h[i])
	}

	return out, nil
}
