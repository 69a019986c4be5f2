package cost

import "gonum.org/v1/gonum/mat"

// QuadraticDifference penalizes the squared gap between two
// dimensions of the input vector, e.g. keeping one player's speed or
// position tracking another's.
type QuadraticDifference struct {
	Weight  float64
	Dim1    int
	Dim2    int
	Nominal float64
	Label   string
}

func NewQuadraticDifference(weight float64, dim1, dim2 int, nominal float64, label string) *QuadraticDifference {
	return &QuadraticDifference{Weight: weight, Dim1: dim1, Dim2: dim2, Nominal: nominal, Label: label}
}

func (c *QuadraticDifference) Name() string { return c.Label }

func (c *QuadraticDifference) gap(v *mat.VecDense) float64 {
	return v.AtVec(c.Dim1) - v.AtVec(c.Dim2) - c.Nominal
}

func (c *QuadraticDifference) Evaluate(v *mat.VecDense) float64 {
	d := c.gap(v)
	return 0.5 * c.Weight * d * d
}

func (c *QuadraticDifference) Quadraticize(v *mat.VecDense, grad *mat.VecDense, hess *mat.Dense) {
	d := c.gap(v)

	grad.SetVec(c.Dim1, grad.AtVec(c.Dim1)+c.Weight*d)
	grad.SetVec(c.Dim2, grad.AtVec(c.Dim2)-c.Weight*d)

	hess.Set(c.Dim1, c.Dim1, hess.At(c.Dim1, c.Dim1)+c.Weight)
	hess.Set(c.Dim2, c.Dim2, hess.At(c.Dim2, c.Dim2)+c.Weight)
	hess.Set(c.Dim1, c.Dim2, hess.At(c.Dim1, c.Dim2)-c.Weight)
	hess.Set(c.Dim2, c.Dim1, hess.At(c.Dim2, c.Dim1)-c.Weight)
}
