package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// Linearization holds the discrete-time Jacobians of the joint
// dynamics about an operating point, one slot per time step. The
// buffers are preallocated once and refilled each outer iteration.
type Linearization struct {
	As []*mat.Dense
	Bs [][]*mat.Dense
}

func NewLinearization(horizon int, sys dynamics.System) *Linearization {
	l := &Linearization{
		As: make([]*mat.Dense, horizon),
		Bs: make([][]*mat.Dense, horizon),
	}
	for k := 0; k < horizon; k++ {
		l.As[k] = mat.NewDense(sys.XDim(), sys.XDim(), nil)
		l.Bs[k] = make([]*mat.Dense, sys.NumPlayers())
		for i := 0; i < sys.NumPlayers(); i++ {
			l.Bs[k][i] = mat.NewDense(sys.XDim(), sys.UDim(i), nil)
		}
	}
	return l
}

// ComputeAbout fills every time step's Jacobians about op. Steps are
// independent and run on a worker pool.
func (l *Linearization) ComputeAbout(sys dynamics.System, op *OperatingPoint) {
	parallelFor(op.Horizon(), 8, func(start, end int) {
		for k := start; k < end; k++ {
			sys.LinearizeDiscrete(op.Xs[k], op.Us[k], l.As[k], l.Bs[k])
		}
	})
}
