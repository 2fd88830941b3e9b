// Package pso implements a bounded particle swarm optimizer.
//
// The swarm state lives in an explicit [Swarm] value advanced one iteration
// at a time by [Swarm.Step]; [Run] drives it to completion. Objective
// evaluations of one iteration run on a fixed worker pool and are joined
// before the global best is updated. All random numbers are drawn on the
// calling goroutine in particle order, so a run is reproducible from its
// seed regardless of the number of workers.
package pso
