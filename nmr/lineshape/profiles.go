package lineshape

import "math"

var (
	// gaussNorm is 2*sqrt(ln2/pi); a unit-area Gaussian of FWHM w peaks at gaussNorm/w.
	gaussNorm = 2 * math.Sqrt(math.Ln2/math.Pi)
	// gaussScale maps (x-c)/w to the argument of exp(-u^2).
	gaussScale = 2 * math.Sqrt(math.Ln2)
)

// Gaussian returns the unit-area Gaussian absorption profile of FWHM width at x.
func Gaussian(x, width, center float64) float64 {
	u := gaussScale * (x - center) / width
	return gaussNorm / width * math.Exp(-u*u)
}

// GaussianDispersion returns the Hilbert transform of [Gaussian] at x.
func GaussianDispersion(x, width, center float64) float64 {
	a := gaussScale / width
	return 2 * a / math.Pi * Dawson(a*(x-center))
}

// Lorentzian returns the unit-area Lorentzian absorption profile of FWHM width at x.
func Lorentzian(x, width, center float64) float64 {
	u := 2 * (x - center) / width
	return 2 / (math.Pi * width) / (1 + u*u)
}

// LorentzianDispersion returns the Hilbert transform of [Lorentzian] at x.
func LorentzianDispersion(x, width, center float64) float64 {
	u := 2 * (x - center) / width
	return 2 / (math.Pi * width) * u / (1 + u*u)
}
