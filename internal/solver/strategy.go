package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Strategy is one player's time-indexed affine feedback law. At step
// k the control is u_ref - P_k*(x - x_ref) - alpha_k, with the
// reference taken from the current operating point.
type Strategy struct {
	Ps     []*mat.Dense
	Alphas []*mat.VecDense
}

func NewStrategy(horizon, xdim, udim int) *Strategy {
	s := &Strategy{
		Ps:     make([]*mat.Dense, horizon),
		Alphas: make([]*mat.VecDense, horizon),
	}
	for k := 0; k < horizon; k++ {
		s.Ps[k] = mat.NewDense(udim, xdim, nil)
		s.Alphas[k] = mat.NewVecDense(udim, nil)
	}
	return s
}

// Control evaluates the feedback law at step k with the correction
// scaled by eta: u = uRef - eta*(P*(x - xRef) + alpha). At eta zero
// the nominal control is replayed unchanged.
func (s *Strategy) Control(k int, x, xRef, uRef *mat.VecDense, eta float64) *mat.VecDense {
	dx := mat.NewVecDense(x.Len(), nil)
	dx.SubVec(x, xRef)

	corr := mat.NewVecDense(uRef.Len(), nil)
	corr.MulVec(s.Ps[k], dx)
	corr.AddVec(corr, s.Alphas[k])

	u := mat.NewVecDense(uRef.Len(), nil)
	u.AddScaledVec(uRef, -eta, corr)
	return u
}

// MaxFeedforward is the largest feedforward entry magnitude over the
// horizon, the solver's convergence measure.
func (s *Strategy) MaxFeedforward() float64 {
	max := 0.0
	for _, a := range s.Alphas {
		for i := 0; i < a.Len(); i++ {
			if v := math.Abs(a.AtVec(i)); v > max {
				max = v
			}
		}
	}
	return max
}

func (s *Strategy) Clone() *Strategy {
	c := &Strategy{
		Ps:     make([]*mat.Dense, len(s.Ps)),
		Alphas: make([]*mat.VecDense, len(s.Alphas)),
	}
	for k := range s.Ps {
		c.Ps[k] = mat.DenseCopyOf(s.Ps[k])
		c.Alphas[k] = mat.VecDenseCopyOf(s.Alphas[k])
	}
	return c
}
