package dynamics

import "gonum.org/v1/gonum/mat"

// LTI is a linear time-invariant continuous subsystem xdot = Ax + Bu.
type LTI struct {
	A *mat.Dense
	B *mat.Dense
}

func NewLTI(A, B *mat.Dense) *LTI {
	return &LTI{A: A, B: B}
}

func (s *LTI) StateDim() int {
	r, _ := s.A.Dims()
	return r
}

func (s *LTI) ControlDim() int {
	_, c := s.B.Dims()
	return c
}

func (s *LTI) Derivative(x, u *mat.VecDense) *mat.VecDense {
	xdot := mat.NewVecDense(s.StateDim(), nil)
	xdot.MulVec(s.A, x)
	tmp := mat.NewVecDense(s.StateDim(), nil)
	tmp.MulVec(s.B, u)
	xdot.AddVec(xdot, tmp)
	return xdot
}

func (s *LTI) Linearize(x, u *mat.VecDense, A, B *mat.Dense) {
	A.Copy(s.A)
	B.Copy(s.B)
}
