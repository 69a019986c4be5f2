package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/cost"
	"github.com/mkrv/lqnash/internal/dynamics"
)

// ControlBounds saturates one player's control during the forward
// rollout. Saturation is part of the true dynamics; the LQ
// approximation sees the unclamped model plus whatever bound penalty
// the costs carry.
type ControlBounds struct {
	Lower []float64
	Upper []float64
}

func (b *ControlBounds) clamp(u *mat.VecDense) {
	if b == nil {
		return
	}
	for i := 0; i < u.Len(); i++ {
		v := u.AtVec(i)
		if i < len(b.Lower) && v < b.Lower[i] {
			v = b.Lower[i]
		}
		if i < len(b.Upper) && v > b.Upper[i] {
			v = b.Upper[i]
		}
		u.SetVec(i, v)
	}
}

// LineSearch rolls out candidate trajectories of the true nonlinear
// dynamics under a scaled strategy and backtracks on the step size
// until the configured acceptance rule passes.
type LineSearch struct {
	sys    dynamics.System
	integ  dynamics.Integrator
	params Params
	bounds []*ControlBounds
}

func NewLineSearch(sys dynamics.System, integ dynamics.Integrator, params Params, bounds []*ControlBounds) *LineSearch {
	return &LineSearch{sys: sys, integ: integ, params: params, bounds: bounds}
}

// Rollout forward-simulates from op's initial state, applying every
// player's feedback law scaled by eta relative to op. Returns an
// error if the state leaves the finite domain.
func (ls *LineSearch) Rollout(op *OperatingPoint, strategies []*Strategy, eta float64) (*OperatingPoint, error) {
	horizon := op.Horizon()
	next := NewOperatingPoint(horizon, ls.sys)
	next.Xs[0].CopyVec(op.Xs[0])

	dt := ls.sys.TimeStep()
	for k := 0; k < horizon; k++ {
		for i := 0; i < ls.sys.NumPlayers(); i++ {
			u := strategies[i].Control(k, next.Xs[k], op.Xs[k], op.Us[k][i], eta)
			if ls.bounds != nil {
				ls.bounds[i].clamp(u)
			}
			next.Us[k][i] = u
		}

		x := ls.integ.Step(ls.sys, next.Xs[k], next.Us[k], dt)
		if !dynamics.Valid(x) {
			return nil, ErrDivergedRollout
		}
		next.Xs[k+1] = x
	}
	return next, nil
}

// TotalCosts accumulates every player's true cost along op, including
// the terminal state evaluated with zero controls.
func (ls *LineSearch) TotalCosts(costs []*cost.PlayerCost, op *OperatingPoint) []float64 {
	horizon := op.Horizon()
	totals := make([]float64, len(costs))

	zeroUs := make([]*mat.VecDense, ls.sys.NumPlayers())
	for i := range zeroUs {
		zeroUs[i] = mat.NewVecDense(ls.sys.UDim(i), nil)
	}

	for k := 0; k <= horizon; k++ {
		us := zeroUs
		if k < horizon {
			us = op.Us[k]
		}
		for i, pc := range costs {
			totals[i] += pc.Evaluate(op.Xs[k], us)
		}
	}
	return totals
}

func (ls *LineSearch) accepts(candidate, nominal []float64) bool {
	switch ls.params.Acceptance {
	case AcceptPerPlayer:
		for i := range candidate {
			if candidate[i] > nominal[i]+ls.params.CostTolerance {
				return false
			}
		}
		return true
	default:
		candTotal, nomTotal := 0.0, 0.0
		for i := range candidate {
			candTotal += candidate[i]
			nomTotal += nominal[i]
		}
		return candTotal <= nomTotal+ls.params.CostTolerance
	}
}

// Search backtracks from the initial step size. On success it returns
// the accepted candidate, its per-player costs and the step size used.
// When the step shrinks below the minimum without an acceptable
// candidate, the nominal point is returned unchanged with ok false.
func (ls *LineSearch) Search(costs []*cost.PlayerCost, op *OperatingPoint, strategies []*Strategy) (*OperatingPoint, []float64, float64, bool) {
	nominal := ls.TotalCosts(costs, op)

	eta := ls.params.InitialStepSize
	for eta >= ls.params.MinStepSize {
		candidate, err := ls.Rollout(op, strategies, eta)
		if err == nil {
			candCosts := ls.TotalCosts(costs, candidate)
			if ls.accepts(candCosts, nominal) {
				return candidate, candCosts, eta, true
			}
		}
		eta *= ls.params.StepShrinkFactor
	}

	return op, nominal, 0, false
}
