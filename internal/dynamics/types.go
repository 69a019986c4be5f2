package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SinglePlayer describes one player's continuous-time subsystem. The
// player owns a block of the joint state and its own control vector.
type SinglePlayer interface {
	StateDim() int
	ControlDim() int

	// Derivative computes the continuous-time derivative of this
	// player's substate given that substate and the player's control.
	Derivative(x, u *mat.VecDense) *mat.VecDense

	// Linearize writes the continuous-time Jacobians df/dx (into A)
	// and df/du (into B), evaluated at (x, u). A is StateDim x
	// StateDim and B is StateDim x ControlDim.
	Linearize(x, u *mat.VecDense, A, B *mat.Dense)
}

// System is the joint game dynamics seen by the solver: all players'
// substates stacked into one state vector.
type System interface {
	XDim() int
	NumPlayers() int
	UDim(i int) int
	TimeStep() float64

	// Derivative stacks every player's continuous-time derivative.
	Derivative(x *mat.VecDense, us []*mat.VecDense) *mat.VecDense

	// LinearizeDiscrete writes first-order discrete-time Jacobians
	// about (x, us): A is XDim x XDim, Bs[i] is XDim x UDim(i).
	LinearizeDiscrete(x *mat.VecDense, us []*mat.VecDense, A *mat.Dense, Bs []*mat.Dense)
}

// Integrator advances the joint system one step of length dt.
type Integrator interface {
	Step(sys System, x *mat.VecDense, us []*mat.VecDense, dt float64) *mat.VecDense
}

// Valid reports whether every entry of v is finite.
func Valid(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
