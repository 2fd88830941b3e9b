// Package objective scores a candidate parameter vector against an observed
// spectrum.
//
// The residual is a weighted sum over the sample axis of the squared (or
// absolute) difference between the composed model and the observation. The
// real part is always compared; the imaginary part contributes with
// [Config.ImagWeight]. An [Objective] is immutable after [New] and safe for
// concurrent use by the optimizer's workers.
package objective
