// Package spectrum holds the observed complex NMR spectrum and its frequency
// axis.
//
// A [Spectrum] is immutable once constructed. [Spectrum.Range] returns a view
// over a frequency sub-range that shares storage with its parent. Axes may be
// ascending or descending (chemical shift axes usually run high to low) but
// must be strictly monotonic.
package spectrum
