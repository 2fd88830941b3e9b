package pso

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

// ErrNoFeasible is wrapped into the error of a run that never evaluated a
// finite objective value.
var ErrNoFeasible = errors.New("pso: no feasible evaluation")

// Func is the objective minimised by the swarm. An error marks the
// evaluated point infeasible and fails the run after the current
// iteration.
type Func func([]float64) (float64, error)

// Result is the outcome of a run.
type Result struct {
	Best        []float64
	Value       float64
	Status      Status
	Iterations  int
	Evaluations int

	// History holds the global best value after each iteration.
	History []float64

	// Cause is set when Status is StatusFailed.
	Cause error
}

// Swarm is the mutable state of one optimization run.
type Swarm struct {
	cfg   Config
	f     Func
	lower []float64
	upper []float64
	vmax  []float64
	rng   *rand.Rand
	pool  *workerPool

	pos      [][]float64
	vel      [][]float64
	val      []float64
	errs     []error
	pbest    [][]float64
	pbestVal []float64

	gbest    []float64
	gbestVal float64
	feasible bool

	iteration   int
	stall       int
	evaluations int
	status      Status
	cause       error
	history     []float64
}

// NewSwarm validates the box and configuration and scatters the particles.
// Call [Swarm.Close] when done.
func NewSwarm(f Func, lower, upper []float64, cfg Config) (*Swarm, error) {
	const op = "pso.NewSwarm"

	if f == nil {
		return nil, fiterr.Configuration(fiterr.StageOptimize, op, "nil objective")
	}

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	dim := len(lower)
	if dim == 0 || len(upper) != dim {
		return nil, fiterr.Configuration(fiterr.StageOptimize, op,
			"bounds must be non-empty and of equal length, got %d and %d", len(lower), len(upper))
	}

	for d := range dim {
		if !finite(lower[d]) || !finite(upper[d]) || lower[d] > upper[d] {
			return nil, fiterr.Configuration(fiterr.StageOptimize, op,
				"dimension %d: invalid bounds [%v, %v]", d, lower[d], upper[d])
		}
	}

	if cfg.Initial != nil && len(cfg.Initial) != dim {
		return nil, fiterr.Configuration(fiterr.StageOptimize, op,
			"initial position has length %d, want %d", len(cfg.Initial), dim)
	}

	src := cfg.Rand
	if src == nil {
		src = rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	}

	s := &Swarm{
		cfg:      cfg,
		f:        f,
		lower:    append([]float64(nil), lower...),
		upper:    append([]float64(nil), upper...),
		vmax:     make([]float64, dim),
		rng:      rand.New(src),
		pos:      make([][]float64, cfg.SwarmSize),
		vel:      make([][]float64, cfg.SwarmSize),
		val:      make([]float64, cfg.SwarmSize),
		errs:     make([]error, cfg.SwarmSize),
		pbest:    make([][]float64, cfg.SwarmSize),
		pbestVal: make([]float64, cfg.SwarmSize),
		gbest:    make([]float64, dim),
		gbestVal: math.Inf(1),
		history:  make([]float64, 0, cfg.MaxIterations),
	}

	for d := range dim {
		s.vmax[d] = cfg.MaxVelocityFraction * (upper[d] - lower[d])
	}

	for i := range cfg.SwarmSize {
		s.pos[i] = make([]float64, dim)
		s.vel[i] = make([]float64, dim)
		s.pbest[i] = make([]float64, dim)
		s.pbestVal[i] = math.Inf(1)

		for d := range dim {
			span := upper[d] - lower[d]
			s.pos[i][d] = lower[d] + s.rng.Float64()*span
			s.vel[i][d] = (2*s.rng.Float64() - 1) * s.vmax[d]
		}
	}

	if cfg.Initial != nil {
		s.pos[0] = clampPosition(append([]float64(nil), cfg.Initial...), s.lower, s.upper)
	}

	copy(s.gbest, s.pos[0])

	if cfg.Workers > 1 {
		s.pool = newWorkerPool(cfg.Workers)
	}

	return s, nil
}

// Close releases the worker goroutines.
func (s *Swarm) Close() {
	if s.pool != nil {
		s.pool.close()
	}
}

// Status returns the current status.
func (s *Swarm) Status() Status { return s.status }

// Iteration returns the number of completed iterations.
func (s *Swarm) Iteration() int { return s.iteration }

// Best returns a copy of the global best position and its value.
func (s *Swarm) Best() ([]float64, float64) {
	return append([]float64(nil), s.gbest...), s.gbestVal
}

// Step evaluates every particle, updates the bests and moves the swarm.
// It returns the status after the iteration; once terminal, Step is a no-op.
func (s *Swarm) Step() Status {
	if s.status.Done() {
		return s.status
	}

	s.evaluate()

	prev := s.gbestVal
	var first error

	for i := range s.pos {
		if s.errs[i] != nil {
			if first == nil {
				first = s.errs[i]
			}

			continue
		}

		v := s.val[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		s.feasible = true

		if v < s.pbestVal[i] {
			s.pbestVal[i] = v
			copy(s.pbest[i], s.pos[i])
		}

		if v < s.gbestVal {
			s.gbestVal = v
			copy(s.gbest, s.pos[i])
		}
	}

	s.iteration++
	s.history = append(s.history, s.gbestVal)

	if !(prev-s.gbestVal > s.cfg.Tolerance) {
		s.stall++
	} else {
		s.stall = 0
	}

	s.cfg.Logger.Debug("swarm iteration",
		zap.Int("iteration", s.iteration),
		zap.Float64("best", s.gbestVal),
		zap.Int("stall", s.stall))

	switch {
	case first != nil:
		s.status = StatusFailed
		s.cause = fiterr.Optimization(fiterr.StageOptimize, "pso.Step", first)
	case s.stall >= s.cfg.Patience:
		s.status = StatusConverged
	case s.iteration >= s.cfg.MaxIterations:
		s.status = StatusMaxIterations
	default:
		s.move()
	}

	return s.status
}

// Result returns a snapshot of the run so far.
func (s *Swarm) Result() Result {
	best, value := s.Best()

	return Result{
		Best:        best,
		Value:       value,
		Status:      s.status,
		Iterations:  s.iteration,
		Evaluations: s.evaluations,
		History:     append([]float64(nil), s.history...),
		Cause:       s.cause,
	}
}

func (s *Swarm) evaluate() {
	eval := func(i int) {
		s.errs[i] = nil

		x := s.pos[i]
		for _, v := range x {
			if !finite(v) {
				s.val[i] = math.Inf(1)
				return
			}
		}

		v, err := s.f(x)
		if err != nil {
			s.val[i] = math.Inf(1)
			s.errs[i] = err

			return
		}

		s.val[i] = v
	}

	if s.pool == nil {
		for i := range s.pos {
			eval(i)
		}
	} else {
		s.pool.run(len(s.pos), eval)
	}

	s.evaluations += len(s.pos)
}

// move updates velocities and positions. Random numbers are drawn in
// particle and dimension order.
func (s *Swarm) move() {
	w, c1, c2 := s.cfg.Inertia, s.cfg.Cognitive, s.cfg.Social

	for i := range s.pos {
		x, v, p := s.pos[i], s.vel[i], s.pbest[i]

		if math.IsInf(s.pbestVal[i], 1) {
			p = x
		}

		for d := range x {
			r1, r2 := s.rng.Float64(), s.rng.Float64()

			nv := w*v[d] + c1*r1*(p[d]-x[d]) + c2*r2*(s.gbest[d]-x[d])
			nv = math.Max(-s.vmax[d], math.Min(s.vmax[d], nv))

			nx := x[d] + nv
			switch {
			case nx < s.lower[d]:
				nx, nv = s.lower[d], 0
			case nx > s.upper[d]:
				nx, nv = s.upper[d], 0
			}

			x[d], v[d] = nx, nv
		}
	}
}

// Run optimizes f over the box [lower, upper].
//
// Cancellation of ctx or an exhausted time budget returns the best point so
// far with StatusStopped. An objective error ends the run with StatusFailed
// and Result.Cause set. Run returns an error only for invalid input or when
// it stops before any feasible evaluation.
func Run(ctx context.Context, f Func, lower, upper []float64, cfg Config) (Result, error) {
	s, err := NewSwarm(f, lower, upper, cfg)
	if err != nil {
		return Result{}, err
	}
	defer s.Close()

	cfg = s.cfg

	if cfg.TimeBudget > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()
	}

	for !s.status.Done() {
		if ctx.Err() != nil {
			s.status = StatusStopped
			break
		}

		s.Step()
	}

	res := s.Result()

	cfg.Logger.Info("swarm finished",
		zap.Stringer("status", res.Status),
		zap.Int("iterations", res.Iterations),
		zap.Int("evaluations", res.Evaluations),
		zap.Float64("best", res.Value))

	if !s.feasible {
		if res.Cause != nil {
			return res, res.Cause
		}

		cause := ctx.Err()
		if cause == nil {
			cause = ErrNoFeasible
		}

		return res, fiterr.Optimization(fiterr.StageOptimize, "pso.Run", cause)
	}

	return res, nil
}

func clampPosition(x, lower, upper []float64) []float64 {
	for d, v := range x {
		switch {
		case math.IsNaN(v):
			x[d] = 0.5 * (lower[d] + upper[d])
		case v < lower[d]:
			x[d] = lower[d]
		case v > upper[d]:
			x[d] = upper[d]
		}
	}

	return x
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
