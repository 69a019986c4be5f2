package cost

import "gonum.org/v1/gonum/mat"

// DefaultConstraintWeight is the penalty stiffness used when a
// constraint is built without an explicit weight.
const DefaultConstraintWeight = 100.0

// Constraint is a one-sided bound on a single joint-state dimension,
// enforced through a steep quadratic penalty folded into the state
// gradient and Hessian during quadraticization.
type Constraint struct {
	Dim       int
	Threshold float64
	// KeepBelow penalizes values above the threshold; otherwise
	// values below it.
	KeepBelow bool
	Weight    float64
	Label     string
}

func NewConstraint(dim int, threshold float64, keepBelow bool, label string) *Constraint {
	return &Constraint{
		Dim:       dim,
		Threshold: threshold,
		KeepBelow: keepBelow,
		Weight:    DefaultConstraintWeight,
		Label:     label,
	}
}

func (c *Constraint) Name() string { return c.Label }

// Violation is positive when the constraint is broken and negative
// inside the feasible region.
func (c *Constraint) Violation(x *mat.VecDense) float64 {
	if c.KeepBelow {
		return x.AtVec(c.Dim) - c.Threshold
	}
	return c.Threshold - x.AtVec(c.Dim)
}

func (c *Constraint) Evaluate(x *mat.VecDense) float64 {
	v := c.Violation(x)
	if v <= 0 {
		return 0
	}
	return 0.5 * c.Weight * v * v
}

func (c *Constraint) Quadraticize(x *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	v := c.Violation(x)
	if v <= 0 {
		return
	}
	sign := 1.0
	if !c.KeepBelow {
		sign = -1.0
	}
	grad.SetVec(c.Dim, grad.AtVec(c.Dim)+sign*c.Weight*v)
	hess.Set(c.Dim, c.Dim, hess.At(c.Dim, c.Dim)+c.Weight)
}
