package integrators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// Euler is the explicit first-order step. It matches the
// discretization used for the Jacobians exactly.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamics.System, x *mat.VecDense, us []*mat.VecDense, dt float64) *mat.VecDense {
	dx := sys.Derivative(x, us)
	result := mat.NewVecDense(x.Len(), nil)
	result.AddScaledVec(x, dt, dx)
	return result
}
