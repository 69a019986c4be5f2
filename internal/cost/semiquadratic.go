package cost

import "gonum.org/v1/gonum/mat"

// Semiquadratic is a one-sided quadratic: it penalizes deviation past
// a threshold in one dimension and is zero on the other side. Used
// for soft bounds on speeds, accelerations and lane limits.
type Semiquadratic struct {
	Weight    float64
	Dim       int
	Threshold float64
	// AboveThreshold selects which side is penalized: true penalizes
	// values above the threshold.
	AboveThreshold bool
	Label          string
}

func NewSemiquadratic(weight float64, dim int, threshold float64, above bool, label string) *Semiquadratic {
	return &Semiquadratic{Weight: weight, Dim: dim, Threshold: threshold, AboveThreshold: above, Label: label}
}

func (c *Semiquadratic) Name() string { return c.Label }

func (c *Semiquadratic) active(v float64) bool {
	if c.AboveThreshold {
		return v > c.Threshold
	}
	return v < c.Threshold
}

func (c *Semiquadratic) Evaluate(v *mat.VecDense) float64 {
	val := v.AtVec(c.Dim)
	if !c.active(val) {
		return 0
	}
	d := val - c.Threshold
	return 0.5 * c.Weight * d * d
}

func (c *Semiquadratic) Quadraticize(v *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	val := v.AtVec(c.Dim)
	if !c.active(val) {
		return
	}
	d := val - c.Threshold
	grad.SetVec(c.Dim, grad.AtVec(c.Dim)+c.Weight*d)
	hess.Set(c.Dim, c.Dim, hess.At(c.Dim, c.Dim)+c.Weight)
}
