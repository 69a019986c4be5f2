package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unicycle state layout.
const (
	UnicyclePxIdx    = 0
	UnicyclePyIdx    = 1
	UnicycleThetaIdx = 2
)

// Unicycle is a constant-speed Dubins car. State is (px, py, theta),
// control is the turning rate omega.
type Unicycle struct {
	Speed float64
}

func NewUnicycle(speed float64) *Unicycle {
	return &Unicycle{Speed: speed}
}

func (c *Unicycle) StateDim() int   { return 3 }
func (c *Unicycle) ControlDim() int { return 1 }

func (c *Unicycle) Derivative(x, u *mat.VecDense) *mat.VecDense {
	theta := x.AtVec(UnicycleThetaIdx)
	return mat.NewVecDense(3, []float64{
		c.Speed * math.Cos(theta),
		c.Speed * math.Sin(theta),
		u.AtVec(0),
	})
}

func (c *Unicycle) Linearize(x, u *mat.VecDense, A, B *mat.Dense) {
	theta := x.AtVec(UnicycleThetaIdx)

	A.Zero()
	A.Set(UnicyclePxIdx, UnicycleThetaIdx, -c.Speed*math.Sin(theta))
	A.Set(UnicyclePyIdx, UnicycleThetaIdx, c.Speed*math.Cos(theta))

	B.Zero()
	B.Set(UnicycleThetaIdx, 0, 1)
}
