package pso

// Status is the state of a swarm.
type Status int

const (
	// StatusInitialized means the swarm has not finished.
	StatusInitialized Status = iota
	// StatusConverged means the global best stalled for Patience iterations.
	StatusConverged
	// StatusMaxIterations means the iteration limit was reached.
	StatusMaxIterations
	// StatusStopped means the context was cancelled or the time budget ran
	// out.
	StatusStopped
	// StatusFailed means an objective evaluation returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max-iterations"
	case StatusStopped:
		return "stopped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether s is terminal.
func (s Status) Done() bool { return s != StatusInitialized }
