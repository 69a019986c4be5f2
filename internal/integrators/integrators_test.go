package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

// decaySystem builds a single-player xdot = -x system; the control
// input is unused but required by the joint-system shape.
func decaySystem(t *testing.T) *dynamics.Concatenated {
	t.Helper()
	A := mat.NewDense(1, 1, []float64{-1})
	B := mat.NewDense(1, 1, []float64{0})
	sys, err := dynamics.NewConcatenated([]dynamics.SinglePlayer{dynamics.NewLTI(A, B)}, 0.1)
	if err != nil {
		t.Fatalf("system construction failed: %v", err)
	}
	return sys
}

func TestRK4AccuracyOnExponentialDecay(t *testing.T) {
	sys := decaySystem(t)
	integ := NewRK4()

	x := mat.NewVecDense(1, []float64{1.0})
	us := []*mat.VecDense{mat.NewVecDense(1, nil)}

	dt := 0.1
	for i := 0; i < 10; i++ {
		x = integ.Step(sys, x, us, dt)
	}

	exact := math.Exp(-1.0)
	if math.Abs(x.AtVec(0)-exact) > 1e-6 {
		t.Errorf("RK4: got %f, exact %f", x.AtVec(0), exact)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	sys := decaySystem(t)
	integ := NewEuler()

	x := mat.NewVecDense(1, []float64{1.0})
	us := []*mat.VecDense{mat.NewVecDense(1, nil)}

	x = integ.Step(sys, x, us, 0.1)

	// Single explicit Euler step: x + dt*(-x).
	if math.Abs(x.AtVec(0)-0.9) > 1e-12 {
		t.Errorf("Euler: got %f, want 0.9", x.AtVec(0))
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	sys := decaySystem(t)
	us := []*mat.VecDense{mat.NewVecDense(1, nil)}

	for _, integ := range []dynamics.Integrator{NewRK4(), NewEuler()} {
		x := mat.NewVecDense(1, []float64{1.0})
		_ = integ.Step(sys, x, us, 0.1)
		if x.AtVec(0) != 1.0 {
			t.Errorf("%T mutated the input state: %f", integ, x.AtVec(0))
		}
	}
}

func TestFactory(t *testing.T) {
	if _, err := New("rk4"); err != nil {
		t.Errorf("rk4: %v", err)
	}
	if _, err := New(""); err != nil {
		t.Errorf("empty name should default: %v", err)
	}
	if _, err := New("euler"); err != nil {
		t.Errorf("euler: %v", err)
	}
	if _, err := New("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
