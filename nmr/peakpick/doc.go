// Package peakpick estimates initial peaks from a spectrum.
//
// [Find] locates local maxima above a relative threshold, suppresses
// weaker maxima within a frequency window of a stronger one, and measures
// each surviving peak at half maximum. The estimates feed [bounds.Build]
// and [objective.RegionWeights].
package peakpick
