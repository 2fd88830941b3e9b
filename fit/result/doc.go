// Package result turns a fitted parameter vector into reconstructed curves
// and quality figures.
//
// [Generate] recomposes the model either on the observed axis or on a
// linearly upsampled copy of it, and scores the fit on the observed axis
// with the same objective settings used during fitting. A [FitResult] is
// never mutated after it is returned.
package result
