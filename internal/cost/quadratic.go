package cost

import "gonum.org/v1/gonum/mat"

// Quadratic penalizes squared deviation from a nominal value, either
// in a single dimension of the input vector or in all of them.
type Quadratic struct {
	Weight  float64
	Dim     int // -1 applies to every dimension
	Nominal float64
	Label   string
}

func NewQuadratic(weight float64, dim int, nominal float64, label string) *Quadratic {
	return &Quadratic{Weight: weight, Dim: dim, Nominal: nominal, Label: label}
}

func (c *Quadratic) Name() string { return c.Label }

func (c *Quadratic) Evaluate(v *mat.VecDense) float64 {
	if c.Dim >= 0 {
		d := v.AtVec(c.Dim) - c.Nominal
		return 0.5 * c.Weight * d * d
	}
	total := 0.0
	for i := 0; i < v.Len(); i++ {
		d := v.AtVec(i) - c.Nominal
		total += 0.5 * c.Weight * d * d
	}
	return total
}

func (c *Quadratic) Quadraticize(v *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	if c.Dim >= 0 {
		d := v.AtVec(c.Dim) - c.Nominal
		grad.SetVec(c.Dim, grad.AtVec(c.Dim)+c.Weight*d)
		hess.Set(c.Dim, c.Dim, hess.At(c.Dim, c.Dim)+c.Weight)
		return
	}
	for i := 0; i < v.Len(); i++ {
		d := v.AtVec(i) - c.Nominal
		grad.SetVec(i, grad.AtVec(i)+c.Weight*d)
		hess.Set(i, i, hess.At(i, i)+c.Weight)
	}
}
