package lineshape

import "math"

// Rybicki's method for the Dawson integral, accurate to about 2e-7.
const (
	dawsonStep  = 0.4
	dawsonTerms = 6
	dawsonA1    = 2.0 / 3.0
	dawsonA2    = 0.4
	dawsonA3    = 2.0 / 7.0
)

var dawsonCoeffs = func() [dawsonTerms]float64 {
	var c [dawsonTerms]float64
	for i := range c {
		v := float64(2*i+1) * dawsonStep
		c[i] = math.Exp(-v * v)
	}

	return c
}()

// Dawson returns the Dawson integral F(x) = exp(-x^2) * int_0^x exp(t^2) dt.
func Dawson(x float64) float64 {
	ax := math.Abs(x)
	if ax < 0.2 {
		x2 := x * x
		return x * (1 - dawsonA1*x2*(1-dawsonA2*x2*(1-dawsonA3*x2)))
	}

	n0 := 2 * math.Round(0.5*ax/dawsonStep)
	xp := ax - n0*dawsonStep
	e1 := math.Exp(2 * xp * dawsonStep)
	e2 := e1 * e1
	d1 := n0 + 1
	d2 := d1 - 2

	sum := 0.0
	for i := range dawsonTerms {
		sum += dawsonCoeffs[i] * (e1/d1 + 1/(d2*e1))
		d1 += 2
		d2 -= 2
		e1 *= e2
	}

	return math.Copysign(math.Exp(-xp*xp)*sum/math.SqrtPi, x)
}
