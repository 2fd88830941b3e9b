// Package lineshape evaluates complex NMR lineshapes on a frequency axis.
//
// All profiles are parameterised by full width at half maximum (FWHM), center
// and area, and are normalised analytically to integrate to area over the real
// line. The real part of each profile is absorptive, the imaginary part is the
// dispersive Hilbert-transform partner.
//
// Mixing convention for [Voigt]: V = area*(mix*L + (1-mix)*G), so mix = 0 is a
// pure Gaussian and mix = 1 a pure Lorentzian. The bounds package uses the same
// [0, 1] range for the mix parameter.
//
// Dispersive parts come from closed forms by default ([DispersionAnalytic]):
// the Lorentzian dispersion curve and, for the Gaussian, the Dawson integral.
// [DispersionFFT] instead applies the numeric Hilbert transform of package
// hilbert to the sampled absorptive part.
package lineshape
