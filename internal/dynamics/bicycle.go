package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BicycleCar state layout.
const (
	BicyclePxIdx    = 0
	BicyclePyIdx    = 1
	BicycleThetaIdx = 2
	BicyclePhiIdx   = 3
	BicycleVIdx     = 4
)

// BicycleCar is a kinematic bicycle model: state (px, py, theta, phi,
// v) where phi is the front-wheel steering angle, controls are the
// steering rate and longitudinal acceleration.
type BicycleCar struct {
	WheelBase float64
}

func NewBicycleCar(wheelBase float64) *BicycleCar {
	return &BicycleCar{WheelBase: wheelBase}
}

func (c *BicycleCar) StateDim() int   { return 5 }
func (c *BicycleCar) ControlDim() int { return 2 }

func (c *BicycleCar) Derivative(x, u *mat.VecDense) *mat.VecDense {
	theta := x.AtVec(BicycleThetaIdx)
	phi := x.AtVec(BicyclePhiIdx)
	v := x.AtVec(BicycleVIdx)
	return mat.NewVecDense(5, []float64{
		v * math.Cos(theta),
		v * math.Sin(theta),
		v * math.Tan(phi) / c.WheelBase,
		u.AtVec(0),
		u.AtVec(1),
	})
}

func (c *BicycleCar) Linearize(x, u *mat.VecDense, A, B *mat.Dense) {
	theta := x.AtVec(BicycleThetaIdx)
	phi := x.AtVec(BicyclePhiIdx)
	v := x.AtVec(BicycleVIdx)
	sec := 1 / math.Cos(phi)

	A.Zero()
	A.Set(BicyclePxIdx, BicycleThetaIdx, -v*math.Sin(theta))
	A.Set(BicyclePxIdx, BicycleVIdx, math.Cos(theta))
	A.Set(BicyclePyIdx, BicycleThetaIdx, v*math.Cos(theta))
	A.Set(BicyclePyIdx, BicycleVIdx, math.Sin(theta))
	A.Set(BicycleThetaIdx, BicyclePhiIdx, v*sec*sec/c.WheelBase)
	A.Set(BicycleThetaIdx, BicycleVIdx, math.Tan(phi)/c.WheelBase)

	B.Zero()
	B.Set(BicyclePhiIdx, 0, 1)
	B.Set(BicycleVIdx, 1, 1)
}
