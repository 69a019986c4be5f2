package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DelayedUnicycle state layout.
const (
	DelayedPxIdx    = 0
	DelayedPyIdx    = 1
	DelayedThetaIdx = 2
	DelayedOmegaIdx = 3
)

// DelayedUnicycle is a constant-speed Dubins car whose turning rate is
// itself a state; the control is the turning acceleration. Bounding
// omega then becomes a state constraint rather than a control bound.
type DelayedUnicycle struct {
	Speed float64
}

func NewDelayedUnicycle(speed float64) *DelayedUnicycle {
	return &DelayedUnicycle{Speed: speed}
}

func (c *DelayedUnicycle) StateDim() int   { return 4 }
func (c *DelayedUnicycle) ControlDim() int { return 1 }

func (c *DelayedUnicycle) Derivative(x, u *mat.VecDense) *mat.VecDense {
	theta := x.AtVec(DelayedThetaIdx)
	return mat.NewVecDense(4, []float64{
		c.Speed * math.Cos(theta),
		c.Speed * math.Sin(theta),
		x.AtVec(DelayedOmegaIdx),
		u.AtVec(0),
	})
}

func (c *DelayedUnicycle) Linearize(x, u *mat.VecDense, A, B *mat.Dense) {
	theta := x.AtVec(DelayedThetaIdx)

	A.Zero()
	A.Set(DelayedPxIdx, DelayedThetaIdx, -c.Speed*math.Sin(theta))
	A.Set(DelayedPyIdx, DelayedThetaIdx, c.Speed*math.Cos(theta))
	A.Set(DelayedThetaIdx, DelayedOmegaIdx, 1)

	B.Zero()
	B.Set(DelayedOmegaIdx, 0, 1)
}
