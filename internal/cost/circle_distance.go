package cost

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CircleDistance is the signed distance from a player's planar
// position to a circular target set, positive outside the circle.
// With Reach set the cost is the signed distance itself (drives the
// player into the set); otherwise the sign flips and the player is
// driven out. Combined with an exponentiated PlayerCost this is the
// smooth surrogate for a worst-case reach/avoid objective.
type CircleDistance struct {
	Weight  float64
	XIdx    int
	YIdx    int
	CenterX float64
	CenterY float64
	Radius  float64
	Reach   bool
	Label   string
}

func NewCircleDistance(weight float64, xIdx, yIdx int, cx, cy, radius float64, reach bool, label string) *CircleDistance {
	return &CircleDistance{
		Weight: weight, XIdx: xIdx, YIdx: yIdx,
		CenterX: cx, CenterY: cy, Radius: radius,
		Reach: reach, Label: label,
	}
}

func (c *CircleDistance) Name() string { return c.Label }

func (c *CircleDistance) sign() float64 {
	if c.Reach {
		return 1
	}
	return -1
}

func (c *CircleDistance) Evaluate(x *mat.VecDense) float64 {
	dx := x.AtVec(c.XIdx) - c.CenterX
	dy := x.AtVec(c.YIdx) - c.CenterY
	sd := math.Hypot(dx, dy) - c.Radius
	return c.sign() * c.Weight * sd
}

func (c *CircleDistance) Quadraticize(x *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	dx := x.AtVec(c.XIdx) - c.CenterX
	dy := x.AtVec(c.YIdx) - c.CenterY
	dist := math.Hypot(dx, dy)

	const minDist = 1e-6
	if dist < minDist {
		dist = minDist
	}

	w := c.sign() * c.Weight
	ex := dx / dist
	ey := dy / dist

	grad.SetVec(c.XIdx, grad.AtVec(c.XIdx)+w*ex)
	grad.SetVec(c.YIdx, grad.AtVec(c.YIdx)+w*ey)

	// Hessian of the Euclidean distance: (I - e e^T) / dist.
	hess.Set(c.XIdx, c.XIdx, hess.At(c.XIdx, c.XIdx)+w*(1-ex*ex)/dist)
	hess.Set(c.YIdx, c.YIdx, hess.At(c.YIdx, c.YIdx)+w*(1-ey*ey)/dist)
	hess.Set(c.XIdx, c.YIdx, hess.At(c.XIdx, c.YIdx)-w*ex*ey/dist)
	hess.Set(c.YIdx, c.XIdx, hess.At(c.YIdx, c.XIdx)-w*ex*ey/dist)
}
