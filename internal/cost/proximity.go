package cost

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Proximity penalizes two players' planar positions coming within a
// threshold distance of each other. It reads both players' position
// entries from the joint state, so it couples the players' costs.
type Proximity struct {
	Weight    float64
	Threshold float64

	XIdx1, YIdx1 int
	XIdx2, YIdx2 int

	Label string
}

func NewProximity(weight, threshold float64, xIdx1, yIdx1, xIdx2, yIdx2 int, label string) *Proximity {
	return &Proximity{
		Weight:    weight,
		Threshold: threshold,
		XIdx1:     xIdx1, YIdx1: yIdx1,
		XIdx2: xIdx2, YIdx2: yIdx2,
		Label: label,
	}
}

func (c *Proximity) Name() string { return c.Label }

func (c *Proximity) delta(x *mat.VecDense) (dx, dy, dist float64) {
	dx = x.AtVec(c.XIdx1) - x.AtVec(c.XIdx2)
	dy = x.AtVec(c.YIdx1) - x.AtVec(c.YIdx2)
	dist = math.Hypot(dx, dy)
	return
}

func (c *Proximity) Evaluate(x *mat.VecDense) float64 {
	_, _, dist := c.delta(x)
	if dist >= c.Threshold {
		return 0
	}
	gap := c.Threshold - dist
	return 0.5 * c.Weight * gap * gap
}

func (c *Proximity) Quadraticize(x *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	dx, dy, dist := c.delta(x)
	if dist >= c.Threshold {
		return
	}
	// Guard the gradient of the distance near coincident positions.
	const minDist = 1e-6
	if dist < minDist {
		dist = minDist
	}

	gap := c.Threshold - dist

	// Involved joint-state dimensions with their signs and planar
	// components. dd/dq = sign * comp / dist.
	dims := [4]int{c.XIdx1, c.YIdx1, c.XIdx2, c.YIdx2}
	signs := [4]float64{1, 1, -1, -1}
	comps := [4]float64{dx, dy, dx, dy}
	axes := [4]int{0, 1, 0, 1}

	for a := 0; a < 4; a++ {
		dda := signs[a] * comps[a] / dist
		grad.SetVec(dims[a], grad.AtVec(dims[a])-c.Weight*gap*dda)

		for b := 0; b < 4; b++ {
			ddb := signs[b] * comps[b] / dist

			// Second derivative of the distance itself.
			kron := 0.0
			if axes[a] == axes[b] {
				kron = 1
			}
			d2 := signs[a] * signs[b] * (kron - comps[a]*comps[b]/(dist*dist)) / dist

			h := c.Weight * (dda*ddb - gap*d2)
			hess.Set(dims[a], dims[b], hess.At(dims[a], dims[b])+h)
		}
	}
}
