package cost

import "gonum.org/v1/gonum/mat"

// Cost is one term of a player's objective. It is evaluated on either
// the joint state or one player's control vector, depending on which
// bucket of a PlayerCost it is added to.
type Cost interface {
	Name() string

	// Evaluate returns the scalar cost at v.
	Evaluate(v *mat.VecDense) float64

	// Quadraticize accumulates the gradient and Hessian of the cost
	// at v into grad and hess. Callers zero the buffers; costs only
	// add their own contribution.
	Quadraticize(v *mat.VecDense, grad *mat.VecDense, hess *mat.Dense)
}

// Quadraticization holds one player's second-order cost approximation
// at a single time step: gradient/Hessian in the joint state plus a
// gradient/Hessian block per player's control.
type Quadraticization struct {
	Lx  *mat.VecDense
	Lxx *mat.Dense

	Lus  []*mat.VecDense
	Luus []*mat.Dense
}

func NewQuadraticization(xdim int, udims []int) *Quadraticization {
	q := &Quadraticization{
		Lx:   mat.NewVecDense(xdim, nil),
		Lxx:  mat.NewDense(xdim, xdim, nil),
		Lus:  make([]*mat.VecDense, len(udims)),
		Luus: make([]*mat.Dense, len(udims)),
	}
	for i, m := range udims {
		q.Lus[i] = mat.NewVecDense(m, nil)
		q.Luus[i] = mat.NewDense(m, m, nil)
	}
	return q
}

func (q *Quadraticization) Zero() {
	q.Lx.Zero()
	q.Lxx.Zero()
	for i := range q.Lus {
		q.Lus[i].Zero()
		q.Luus[i].Zero()
	}
}
