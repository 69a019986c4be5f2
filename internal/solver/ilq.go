package solver

import (
	"context"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/cost"
	"github.com/mkrv/lqnash/internal/dynamics"
)

// Phase identifies where the iteration controller currently is.
type Phase int

const (
	PhaseLinearizing Phase = iota
	PhaseQuadraticizing
	PhaseSolving
	PhaseLineSearching
	PhaseConverged
	PhaseMaxIterationsReached
)

func (p Phase) String() string {
	switch p {
	case PhaseLinearizing:
		return "linearizing"
	case PhaseQuadraticizing:
		return "quadraticizing"
	case PhaseSolving:
		return "solving"
	case PhaseLineSearching:
		return "line_searching"
	case PhaseConverged:
		return "converged"
	case PhaseMaxIterationsReached:
		return "max_iterations"
	}
	return "unknown"
}

// Observer is notified after every completed outer iteration.
type Observer interface {
	OnIteration(e *LogEntry)
}

// Solver is the outer iteration controller: it repeatedly linearizes
// the dynamics and quadraticizes the costs about the nominal
// trajectory, solves the induced LQ game and line-searches the
// resulting strategies, until the feedforward magnitude drops below
// tolerance or the iteration budget runs out.
type Solver struct {
	sys    dynamics.System
	costs  []*cost.PlayerCost
	params Params

	lin  *Linearization
	quad *CostApproximation
	fb   *FeedbackSolver
	ls   *LineSearch

	horizon    int
	strategies []*Strategy

	logger    *slog.Logger
	observers []Observer

	phase Phase
}

// Option configures a Solver at construction.
type Option func(*Solver)

func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, o) }
}

// New validates the problem dimensions once, up front; the hot loops
// assume them afterwards.
func New(sys dynamics.System, costs []*cost.PlayerCost, integ dynamics.Integrator, horizon int, params Params, bounds []*ControlBounds, opts ...Option) (*Solver, error) {
	if len(costs) != sys.NumPlayers() {
		return nil, ErrPlayerCountMismatch
	}
	if horizon <= 0 {
		return nil, ErrBadParams
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if bounds != nil && len(bounds) != sys.NumPlayers() {
		return nil, ErrPlayerCountMismatch
	}

	s := &Solver{
		sys:     sys,
		costs:   costs,
		params:  params,
		horizon: horizon,
		lin:     NewLinearization(horizon, sys),
		quad:    NewCostApproximation(horizon, sys),
		fb:      NewFeedbackSolver(sys, params.Regularization),
		ls:      NewLineSearch(sys, integ, params, bounds),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	s.strategies = make([]*Strategy, sys.NumPlayers())
	for i := range s.strategies {
		s.strategies[i] = NewStrategy(horizon, sys.XDim(), sys.UDim(i))
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Solver) Phase() Phase { return s.phase }

// Solve iterates from x0 until convergence or budget exhaustion and
// returns the append-only iterate log. The context is checked only
// between iterations; a single iteration always runs to completion.
func (s *Solver) Solve(ctx context.Context, x0 *mat.VecDense) (*Log, error) {
	if x0.Len() != s.sys.XDim() {
		return nil, ErrInvalidStateDim
	}

	log := NewLog()

	// Initial nominal trajectory: replay zero strategies from x0.
	op := NewOperatingPoint(s.horizon, s.sys)
	op.Xs[0].CopyVec(x0)
	op, err := s.ls.Rollout(op, s.strategies, 0)
	if err != nil {
		return nil, err
	}

	for iter := 1; iter <= s.params.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return log, ctx.Err()
		default:
		}

		s.phase = PhaseLinearizing
		s.lin.ComputeAbout(s.sys, op)

		s.phase = PhaseQuadraticizing
		s.quad.ComputeAbout(s.costs, op)

		s.phase = PhaseSolving
		if err := s.fb.Solve(s.lin, s.quad, s.strategies); err != nil {
			return log, err
		}

		s.phase = PhaseLineSearching
		next, totals, eta, accepted := s.ls.Search(s.costs, op, s.strategies)

		maxAlpha := 0.0
		for _, st := range s.strategies {
			if v := st.MaxFeedforward(); v > maxAlpha {
				maxAlpha = v
			}
		}

		entry := &LogEntry{
			Iteration:      iter,
			StepSize:       eta,
			Accepted:       accepted,
			TotalCosts:     totals,
			MaxFeedforward: maxAlpha,
			OperatingPoint: next.Clone(),
			Strategies:     cloneStrategies(s.strategies),
		}
		log.Append(entry)
		for _, o := range s.observers {
			o.OnIteration(entry)
		}

		s.logger.Debug("iteration complete",
			"iteration", iter,
			"accepted", accepted,
			"step_size", eta,
			"max_feedforward", maxAlpha,
			"total_cost", sum(totals))

		op = next

		if accepted && maxAlpha < s.params.ConvergenceTolerance {
			s.phase = PhaseConverged
			return log, nil
		}
		if !accepted && s.params.TerminateOnStall {
			// No step size improved the trajectory; nothing more to
			// gain from further iterations.
			s.phase = PhaseConverged
			return log, nil
		}
	}

	s.phase = PhaseMaxIterationsReached
	return log, nil
}

// CostBreakdowns sums every named cost term for each player along op,
// with the terminal state evaluated under zero controls.
func (s *Solver) CostBreakdowns(op *OperatingPoint) []map[string]float64 {
	horizon := op.Horizon()
	out := make([]map[string]float64, len(s.costs))
	for i := range out {
		out[i] = make(map[string]float64)
	}

	zeroUs := make([]*mat.VecDense, s.sys.NumPlayers())
	for i := range zeroUs {
		zeroUs[i] = mat.NewVecDense(s.sys.UDim(i), nil)
	}

	for k := 0; k <= horizon; k++ {
		us := zeroUs
		if k < horizon {
			us = op.Us[k]
		}
		for i, pc := range s.costs {
			for name, v := range pc.Breakdown(op.Xs[k], us) {
				out[i][name] += v
			}
		}
	}
	return out
}

func cloneStrategies(ss []*Strategy) []*Strategy {
	out := make([]*Strategy, len(ss))
	for i, s := range ss {
		out[i] = s.Clone()
	}
	return out
}

func sum(vs []float64) float64 {
	t := 0.0
	for _, v := range vs {
		t += v
	}
	return t
}
