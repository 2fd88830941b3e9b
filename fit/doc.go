// Package fit runs the complete peak fit of one spectrum.
//
// A [Fitter] chains the stages: build the bound box from the initial peaks,
// construct the objective, search the box with the particle swarm, polish
// the swarm's best point with Nelder-Mead, and generate the [result.FitResult].
// Every error names the failing stage and, where known, the last parameter
// vector (see [fiterr.StageOf] and [fiterr.ParamsOf]).
package fit
