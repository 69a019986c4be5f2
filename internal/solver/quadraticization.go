package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/cost"
	"github.com/mkrv/lqnash/internal/dynamics"
)

// CostApproximation holds every player's quadraticized cost at every
// time step, horizon+1 slots deep: the last slot is evaluated with
// zero controls and seeds the terminal cost-to-go.
type CostApproximation struct {
	Steps [][]*cost.Quadraticization

	zeroUs []*mat.VecDense
}

func NewCostApproximation(horizon int, sys dynamics.System) *CostApproximation {
	udims := make([]int, sys.NumPlayers())
	for i := range udims {
		udims[i] = sys.UDim(i)
	}

	ca := &CostApproximation{
		Steps:  make([][]*cost.Quadraticization, horizon+1),
		zeroUs: make([]*mat.VecDense, sys.NumPlayers()),
	}
	for k := 0; k <= horizon; k++ {
		ca.Steps[k] = make([]*cost.Quadraticization, sys.NumPlayers())
		for i := 0; i < sys.NumPlayers(); i++ {
			ca.Steps[k][i] = cost.NewQuadraticization(sys.XDim(), udims)
		}
	}
	for i := range ca.zeroUs {
		ca.zeroUs[i] = mat.NewVecDense(sys.UDim(i), nil)
	}
	return ca
}

// ComputeAbout quadraticizes every player's cost about op. Steps and
// players are independent and run on a worker pool.
func (ca *CostApproximation) ComputeAbout(costs []*cost.PlayerCost, op *OperatingPoint) {
	horizon := op.Horizon()
	parallelFor(horizon+1, 8, func(start, end int) {
		for k := start; k < end; k++ {
			us := ca.zeroUs
			if k < horizon {
				us = op.Us[k]
			}
			for i, pc := range costs {
				pc.Quadraticize(op.Xs[k], us, ca.Steps[k][i])
			}
		}
	})
}
