package dynamics

import "gonum.org/v1/gonum/mat"

// PointMass state layout.
const (
	PointMassPxIdx = 0
	PointMassPyIdx = 1
	PointMassVxIdx = 2
	PointMassVyIdx = 3
)

// PointMass is a planar double integrator: state (px, py, vx, vy),
// control (ax, ay).
type PointMass struct{}

func NewPointMass() *PointMass { return &PointMass{} }

func (p *PointMass) StateDim() int   { return 4 }
func (p *PointMass) ControlDim() int { return 2 }

func (p *PointMass) Derivative(x, u *mat.VecDense) *mat.VecDense {
	return mat.NewVecDense(4, []float64{
		x.AtVec(PointMassVxIdx),
		x.AtVec(PointMassVyIdx),
		u.AtVec(0),
		u.AtVec(1),
	})
}

func (p *PointMass) Linearize(x, u *mat.VecDense, A, B *mat.Dense) {
	A.Zero()
	A.Set(PointMassPxIdx, PointMassVxIdx, 1)
	A.Set(PointMassPyIdx, PointMassVyIdx, 1)

	B.Zero()
	B.Set(PointMassVxIdx, 0, 1)
	B.Set(PointMassVyIdx, 1, 1)
}
