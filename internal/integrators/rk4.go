package integrators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// RK4 is the classical fourth-order Runge-Kutta step with
// zero-order-hold controls.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamics.System, x *mat.VecDense, us []*mat.VecDense, dt float64) *mat.VecDense {
	n := x.Len()

	k1 := sys.Derivative(x, us)

	scratch := mat.NewVecDense(n, nil)
	scratch.AddScaledVec(x, dt*0.5, k1)
	k2 := sys.Derivative(scratch, us)

	scratch.AddScaledVec(x, dt*0.5, k2)
	k3 := sys.Derivative(scratch, us)

	scratch.AddScaledVec(x, dt, k3)
	k4 := sys.Derivative(scratch, us)

	result := mat.NewVecDense(n, nil)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result.SetVec(i, x.AtVec(i)+dt6*(k1.AtVec(i)+2*k2.AtVec(i)+2*k3.AtVec(i)+k4.AtVec(i)))
	}
	return result
}
