// Package model defines the fit parameter layout and composes synthetic
// spectra from it.
//
// A parameter [Vector] is laid out as
//
//	[phase, mix, offset, width_1, center_1, area_1, ..., width_n, center_n, area_n]
//
// and always has length 3 + 3n. The same layout is shared by the bounds,
// objective, optimiser and result packages and never changes during a fit.
//
// [Compose] sums one Voigt line per peak, rotates the sum by exp(i*phase) and
// adds the offset to the real component only.
package model
