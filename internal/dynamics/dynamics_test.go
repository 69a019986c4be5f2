package dynamics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// finiteDiffJacobians numerically differentiates a player's Derivative
// to check its analytic Linearize.
func finiteDiffJacobians(p SinglePlayer, x, u *mat.VecDense) (*mat.Dense, *mat.Dense) {
	const h = 1e-6
	n, m := p.StateDim(), p.ControlDim()

	A := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		hi := mat.NewVecDense(n, nil)
		lo := mat.NewVecDense(n, nil)
		hi.CopyVec(x)
		lo.CopyVec(x)
		hi.SetVec(j, x.AtVec(j)+h)
		lo.SetVec(j, x.AtVec(j)-h)
		fh := p.Derivative(hi, u)
		fl := p.Derivative(lo, u)
		for i := 0; i < n; i++ {
			A.Set(i, j, (fh.AtVec(i)-fl.AtVec(i))/(2*h))
		}
	}

	B := mat.NewDense(n, m, nil)
	for j := 0; j < m; j++ {
		hi := mat.NewVecDense(m, nil)
		lo := mat.NewVecDense(m, nil)
		hi.CopyVec(u)
		lo.CopyVec(u)
		hi.SetVec(j, u.AtVec(j)+h)
		lo.SetVec(j, u.AtVec(j)-h)
		fh := p.Derivative(x, hi)
		fl := p.Derivative(x, lo)
		for i := 0; i < n; i++ {
			B.Set(i, j, (fh.AtVec(i)-fl.AtVec(i))/(2*h))
		}
	}

	return A, B
}

func checkJacobians(t *testing.T, p SinglePlayer, x, u *mat.VecDense) {
	t.Helper()

	n, m := p.StateDim(), p.ControlDim()
	A := mat.NewDense(n, n, nil)
	B := mat.NewDense(n, m, nil)
	p.Linearize(x, u, A, B)

	numA, numB := finiteDiffJacobians(p, x, u)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.Abs(A.At(i, j)-numA.At(i, j)) > 1e-5 {
				t.Errorf("A(%d,%d): analytic %f, numeric %f", i, j, A.At(i, j), numA.At(i, j))
			}
		}
		for j := 0; j < m; j++ {
			if math.Abs(B.At(i, j)-numB.At(i, j)) > 1e-5 {
				t.Errorf("B(%d,%d): analytic %f, numeric %f", i, j, B.At(i, j), numB.At(i, j))
			}
		}
	}
}

func TestUnicycleDerivative(t *testing.T) {
	c := NewUnicycle(2.0)

	x := mat.NewVecDense(3, []float64{0, 0, math.Pi / 2})
	u := mat.NewVecDense(1, []float64{0.5})

	dx := c.Derivative(x, u)

	if math.Abs(dx.AtVec(UnicyclePxIdx)) > 1e-10 {
		t.Errorf("expected zero x velocity at theta=pi/2, got %f", dx.AtVec(UnicyclePxIdx))
	}
	if math.Abs(dx.AtVec(UnicyclePyIdx)-2.0) > 1e-10 {
		t.Errorf("expected y velocity 2.0, got %f", dx.AtVec(UnicyclePyIdx))
	}
	if math.Abs(dx.AtVec(UnicycleThetaIdx)-0.5) > 1e-10 {
		t.Errorf("expected turning rate 0.5, got %f", dx.AtVec(UnicycleThetaIdx))
	}
}

func TestUnicycleLinearize(t *testing.T) {
	c := NewUnicycle(1.5)
	x := mat.NewVecDense(3, []float64{1.0, -2.0, 0.7})
	u := mat.NewVecDense(1, []float64{0.3})
	checkJacobians(t, c, x, u)
}

func TestDelayedUnicycleLinearize(t *testing.T) {
	c := NewDelayedUnicycle(1.0)
	x := mat.NewVecDense(4, []float64{2.0, 2.0, -math.Pi, 0.2})
	u := mat.NewVecDense(1, []float64{-0.4})
	checkJacobians(t, c, x, u)
}

func TestPointMassLinearize(t *testing.T) {
	p := NewPointMass()
	x := mat.NewVecDense(4, []float64{0.5, -1.0, 2.0, 0.1})
	u := mat.NewVecDense(2, []float64{0.3, -0.7})
	checkJacobians(t, p, x, u)
}

func TestBicycleCarLinearize(t *testing.T) {
	c := NewBicycleCar(2.5)
	x := mat.NewVecDense(5, []float64{0, 0, 0.4, 0.1, 3.0})
	u := mat.NewVecDense(2, []float64{0.2, -0.5})
	checkJacobians(t, c, x, u)
}

func TestLTIDerivative(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	B := mat.NewDense(2, 1, []float64{0, 1})
	s := NewLTI(A, B)

	x := mat.NewVecDense(2, []float64{1.0, 2.0})
	u := mat.NewVecDense(1, []float64{3.0})

	dx := s.Derivative(x, u)
	if math.Abs(dx.AtVec(0)-2.0) > 1e-12 {
		t.Errorf("expected xdot(0)=2, got %f", dx.AtVec(0))
	}
	if math.Abs(dx.AtVec(1)-3.0) > 1e-12 {
		t.Errorf("expected xdot(1)=3, got %f", dx.AtVec(1))
	}
}

func TestConcatenatedDims(t *testing.T) {
	sys, err := NewConcatenated([]SinglePlayer{
		NewUnicycle(1.0),
		NewPointMass(),
	}, 0.1)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	if sys.XDim() != 7 {
		t.Errorf("expected joint state dim 7, got %d", sys.XDim())
	}
	if sys.NumPlayers() != 2 {
		t.Errorf("expected 2 players, got %d", sys.NumPlayers())
	}
	if sys.UDim(0) != 1 || sys.UDim(1) != 2 {
		t.Errorf("unexpected control dims: %d, %d", sys.UDim(0), sys.UDim(1))
	}
	if sys.Offset(0) != 0 || sys.Offset(1) != 3 {
		t.Errorf("unexpected offsets: %d, %d", sys.Offset(0), sys.Offset(1))
	}
}

func TestConcatenatedValidation(t *testing.T) {
	if _, err := NewConcatenated(nil, 0.1); err != ErrNoPlayers {
		t.Errorf("expected ErrNoPlayers, got %v", err)
	}
	if _, err := NewConcatenated([]SinglePlayer{NewUnicycle(1.0)}, 0); err != ErrInvalidTimeStep {
		t.Errorf("expected ErrInvalidTimeStep, got %v", err)
	}
}

func TestConcatenatedDerivativeStacking(t *testing.T) {
	sys, err := NewConcatenated([]SinglePlayer{
		NewUnicycle(1.0),
		NewUnicycle(2.0),
	}, 0.1)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	x := mat.NewVecDense(6, []float64{0, 0, 0, 5, 5, math.Pi})
	us := []*mat.VecDense{
		mat.NewVecDense(1, []float64{0.1}),
		mat.NewVecDense(1, []float64{-0.2}),
	}

	dx := sys.Derivative(x, us)

	if math.Abs(dx.AtVec(0)-1.0) > 1e-10 {
		t.Errorf("player 1 x velocity: expected 1.0, got %f", dx.AtVec(0))
	}
	if math.Abs(dx.AtVec(3)+2.0) > 1e-10 {
		t.Errorf("player 2 x velocity: expected -2.0, got %f", dx.AtVec(3))
	}
	if math.Abs(dx.AtVec(2)-0.1) > 1e-10 || math.Abs(dx.AtVec(5)+0.2) > 1e-10 {
		t.Errorf("turning rates not stacked correctly: %f, %f", dx.AtVec(2), dx.AtVec(5))
	}
}

func TestConcatenatedLinearizeDiscrete(t *testing.T) {
	dt := 0.05
	sys, err := NewConcatenated([]SinglePlayer{
		NewUnicycle(1.0),
		NewPointMass(),
	}, dt)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	x := mat.NewVecDense(7, []float64{0, 0, 0.3, 1, 1, 0.5, -0.5})
	us := []*mat.VecDense{
		mat.NewVecDense(1, []float64{0.1}),
		mat.NewVecDense(2, []float64{0.2, 0.3}),
	}

	A := mat.NewDense(7, 7, nil)
	Bs := []*mat.Dense{
		mat.NewDense(7, 1, nil),
		mat.NewDense(7, 2, nil),
	}
	sys.LinearizeDiscrete(x, us, A, Bs)

	// Neither model has diagonal continuous terms, so the discrete
	// diagonal is exactly the identity.
	for i := 0; i < 7; i++ {
		if math.Abs(A.At(i, i)-1.0) > 1e-12 {
			t.Errorf("A(%d,%d): expected 1 on diagonal, got %f", i, i, A.At(i, i))
		}
	}

	// Cross-player blocks are zero.
	for r := 0; r < 3; r++ {
		for c := 3; c < 7; c++ {
			if A.At(r, c) != 0 {
				t.Errorf("cross-player A(%d,%d) nonzero: %f", r, c, A.At(r, c))
			}
		}
	}

	// Player 1's control only reaches player 1's rows.
	if math.Abs(Bs[0].At(UnicycleThetaIdx, 0)-dt) > 1e-12 {
		t.Errorf("expected B1 theta entry %f, got %f", dt, Bs[0].At(UnicycleThetaIdx, 0))
	}
	for r := 3; r < 7; r++ {
		if Bs[0].At(r, 0) != 0 {
			t.Errorf("B1 leaks into player 2 rows at %d: %f", r, Bs[0].At(r, 0))
		}
	}

	// Point mass accelerations sit in player 2's velocity rows.
	if math.Abs(Bs[1].At(3+PointMassVxIdx, 0)-dt) > 1e-12 {
		t.Errorf("expected B2 vx entry %f, got %f", dt, Bs[1].At(3+PointMassVxIdx, 0))
	}
}

func TestValid(t *testing.T) {
	ok := mat.NewVecDense(2, []float64{1, -2})
	if !Valid(ok) {
		t.Error("finite vector reported invalid")
	}

	bad := mat.NewVecDense(2, []float64{1, math.NaN()})
	if Valid(bad) {
		t.Error("NaN vector reported valid")
	}

	inf := mat.NewVecDense(2, []float64{math.Inf(1), 0})
	if Valid(inf) {
		t.Error("Inf vector reported valid")
	}
}
