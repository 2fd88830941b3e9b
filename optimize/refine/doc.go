// Package refine polishes a swarm result with a local Nelder-Mead search.
//
// The simplex works in coordinates normalised to the bound box, and every
// candidate is projected back into the box before the objective sees it.
// [Polish] never returns a point worse than its start.
package refine
