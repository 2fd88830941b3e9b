// Package fiterr defines the error taxonomy shared by the fitting packages.
//
// Every failure is reported as an [*Error] whose Kind is one of the sentinel
// errors below, so callers can branch with errors.Is:
//
//   - [ErrDomain]:        invalid lineshape parameters (for example width <= 0)
//   - [ErrNumerical]:     NaN or Inf produced while evaluating the model
//   - [ErrConfiguration]: malformed peaks, bounds, weights or scale
//   - [ErrOptimization]:  the swarm lost feasibility or never evaluated successfully
//
// The Stage and Params fields record where a fit failed and the last
// parameter vector known at that point.
package fiterr
