package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// OperatingPoint is the nominal trajectory of one outer iteration:
// horizon+1 joint states and horizon steps of per-player controls.
// It is owned by the iteration controller and replaced wholesale when
// a line-search candidate is accepted, never mutated in place.
type OperatingPoint struct {
	Xs []*mat.VecDense
	Us [][]*mat.VecDense
}

func NewOperatingPoint(horizon int, sys dynamics.System) *OperatingPoint {
	op := &OperatingPoint{
		Xs: make([]*mat.VecDense, horizon+1),
		Us: make([][]*mat.VecDense, horizon),
	}
	for k := 0; k <= horizon; k++ {
		op.Xs[k] = mat.NewVecDense(sys.XDim(), nil)
	}
	for k := 0; k < horizon; k++ {
		op.Us[k] = make([]*mat.VecDense, sys.NumPlayers())
		for i := 0; i < sys.NumPlayers(); i++ {
			op.Us[k][i] = mat.NewVecDense(sys.UDim(i), nil)
		}
	}
	return op
}

func (op *OperatingPoint) Horizon() int { return len(op.Us) }

func (op *OperatingPoint) Clone() *OperatingPoint {
	c := &OperatingPoint{
		Xs: make([]*mat.VecDense, len(op.Xs)),
		Us: make([][]*mat.VecDense, len(op.Us)),
	}
	for k, x := range op.Xs {
		c.Xs[k] = mat.VecDenseCopyOf(x)
	}
	for k, us := range op.Us {
		c.Us[k] = make([]*mat.VecDense, len(us))
		for i, u := range us {
			c.Us[k][i] = mat.VecDenseCopyOf(u)
		}
	}
	return c
}
