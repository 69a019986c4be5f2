package cost

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const fdStep = 1e-5

func perturb(v *mat.VecDense, i int, h float64) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)
	out.SetVec(i, v.AtVec(i)+h)
	return out
}

// checkQuadraticization compares a cost's analytic gradient and
// Hessian against central differences of Evaluate.
func checkQuadraticization(t *testing.T, c Cost, v *mat.VecDense, tol float64) {
	t.Helper()

	n := v.Len()
	grad := mat.NewVecDense(n, nil)
	hess := mat.NewDense(n, n, nil)
	c.Quadraticize(v, grad, hess)

	for i := 0; i < n; i++ {
		num := (c.Evaluate(perturb(v, i, fdStep)) - c.Evaluate(perturb(v, i, -fdStep))) / (2 * fdStep)
		if math.Abs(grad.AtVec(i)-num) > tol {
			t.Errorf("%s grad(%d): analytic %f, numeric %f", c.Name(), i, grad.AtVec(i), num)
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			hi := perturb(v, j, fdStep)
			lo := perturb(v, j, -fdStep)
			gh := mat.NewVecDense(n, nil)
			gl := mat.NewVecDense(n, nil)
			scratch := mat.NewDense(n, n, nil)
			c.Quadraticize(hi, gh, scratch)
			scratch.Zero()
			c.Quadraticize(lo, gl, scratch)
			num := (gh.AtVec(i) - gl.AtVec(i)) / (2 * fdStep)
			if math.Abs(hess.At(i, j)-num) > tol {
				t.Errorf("%s hess(%d,%d): analytic %f, numeric %f", c.Name(), i, j, hess.At(i, j), num)
			}
		}
	}
}

func TestQuadraticSingleDim(t *testing.T) {
	c := NewQuadratic(2.0, 1, 0.5, "q")
	v := mat.NewVecDense(3, []float64{1, 2, 3})

	want := 0.5 * 2.0 * 1.5 * 1.5
	if got := c.Evaluate(v); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected cost %f, got %f", want, got)
	}
	checkQuadraticization(t, c, v, 1e-6)
}

func TestQuadraticAllDims(t *testing.T) {
	c := NewQuadratic(1.0, -1, 0, "q_all")
	v := mat.NewVecDense(2, []float64{3, 4})

	if got := c.Evaluate(v); math.Abs(got-12.5) > 1e-12 {
		t.Errorf("expected cost 12.5, got %f", got)
	}
	checkQuadraticization(t, c, v, 1e-6)
}

// Sub-costs whose magnitudes differ by 16 orders make the float sum
// sensitive to addition order; repeated evaluation of the same inputs
// must nonetheless return the same total every time.
func TestPlayerCostEvaluationOrderFixed(t *testing.T) {
	p := NewPlayerCost("p1")
	p.AddStateCost(NewQuadratic(2.0, 0, 1.0, "state"))
	p.AddControlCost(0, NewQuadratic(2e16, 0, 1.0, "u0"))
	p.AddControlCost(1, NewQuadratic(2.0, 0, 1.0, "u1"))

	x := mat.NewVecDense(2, nil)
	us := []*mat.VecDense{mat.NewVecDense(1, nil), mat.NewVecDense(1, nil)}

	// state -> player 0 -> player 1: (1 + 1e16) + 1 rounds to 1e16.
	if got := p.Evaluate(x, us); got != 1e16 {
		t.Fatalf("expected 1e16 from fixed summation order, got %v", got)
	}
	first := p.Evaluate(x, us)
	for i := 0; i < 64; i++ {
		if got := p.Evaluate(x, us); got != first {
			t.Fatalf("evaluation %d returned %v, earlier call returned %v", i, got, first)
		}
	}
}

func TestQuadraticDifferenceTracking(t *testing.T) {
	c := NewQuadraticDifference(3.0, 0, 2, 0.5, "qdiff")
	v := mat.NewVecDense(4, []float64{2.0, 9.0, 1.0, 9.0})

	// gap = 2.0 - 1.0 - 0.5
	want := 0.5 * 3.0 * 0.25
	if got := c.Evaluate(v); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected cost %f, got %f", want, got)
	}
	checkQuadraticization(t, c, v, 1e-6)
}

func TestSemiquadraticOneSided(t *testing.T) {
	c := NewSemiquadratic(2.0, 0, 1.0, true, "sq")

	below := mat.NewVecDense(1, []float64{0.5})
	if got := c.Evaluate(below); got != 0 {
		t.Errorf("expected zero cost below threshold, got %f", got)
	}

	above := mat.NewVecDense(1, []float64{2.0})
	if got := c.Evaluate(above); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected cost 1.0 above threshold, got %f", got)
	}
	checkQuadraticization(t, c, above, 1e-6)
}

func TestProximityGradient(t *testing.T) {
	c := NewProximity(10.0, 2.0, 0, 1, 3, 4, "prox")

	// Players 1.0 apart, inside the threshold.
	v := mat.NewVecDense(6, []float64{0, 0, 0.3, 0.8, 0.6, 0.1})
	if c.Evaluate(v) <= 0 {
		t.Fatal("expected positive proximity cost inside threshold")
	}
	checkQuadraticization(t, c, v, 1e-4)

	// Out of range: no cost, no derivatives.
	far := mat.NewVecDense(6, []float64{0, 0, 0.3, 5, 5, 0.1})
	if c.Evaluate(far) != 0 {
		t.Error("expected zero cost outside threshold")
	}
	grad := mat.NewVecDense(6, nil)
	hess := mat.NewDense(6, 6, nil)
	c.Quadraticize(far, grad, hess)
	if mat.Norm(grad, 2) != 0 {
		t.Error("expected zero gradient outside threshold")
	}
}

func TestCircleDistanceReach(t *testing.T) {
	reach := NewCircleDistance(1.0, 0, 1, 0, 0, 0.5, true, "goal")
	avoid := NewCircleDistance(1.0, 0, 1, 0, 0, 0.5, false, "obstacle")

	outside := mat.NewVecDense(3, []float64{2, 0, 0.7})
	if reach.Evaluate(outside) <= 0 {
		t.Error("reach cost should penalize being outside the circle")
	}
	if avoid.Evaluate(outside) >= 0 {
		t.Error("avoid cost should reward being outside the circle")
	}
	if got := reach.Evaluate(outside) + avoid.Evaluate(outside); math.Abs(got) > 1e-12 {
		t.Errorf("reach and avoid should be opposite signs, sum %f", got)
	}
	checkQuadraticization(t, reach, outside, 1e-4)
}

func TestConstraintPenalty(t *testing.T) {
	c := NewConstraint(0, 1.0, true, "omega_max")

	ok := mat.NewVecDense(2, []float64{0.5, 9})
	if c.Violation(ok) > 0 {
		t.Errorf("expected no violation at 0.5, got %f", c.Violation(ok))
	}
	if c.Evaluate(ok) != 0 {
		t.Errorf("expected zero penalty when satisfied, got %f", c.Evaluate(ok))
	}

	bad := mat.NewVecDense(2, []float64{1.5, 9})
	if got := c.Violation(bad); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected violation 0.5, got %f", got)
	}
	if c.Evaluate(bad) <= 0 {
		t.Error("expected positive penalty when violated")
	}
	checkQuadraticization(t, c, bad, 1e-4)
}

func TestPlayerCostAggregation(t *testing.T) {
	pc := NewPlayerCost("p1")
	pc.AddStateCost(NewQuadratic(1.0, 0, 0, "x0"))
	pc.AddControlCost(0, NewQuadratic(2.0, 0, 0, "u0"))

	x := mat.NewVecDense(2, []float64{2, 7})
	us := []*mat.VecDense{mat.NewVecDense(1, []float64{3})}

	want := 0.5*4.0 + 0.5*2.0*9.0
	if got := pc.Evaluate(x, us); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected total %f, got %f", want, got)
	}

	bd := pc.Breakdown(x, us)
	if math.Abs(bd["x0"]-2.0) > 1e-12 || math.Abs(bd["u0"]-9.0) > 1e-12 {
		t.Errorf("unexpected breakdown: %v", bd)
	}
}

func TestPlayerCostQuadraticize(t *testing.T) {
	pc := NewPlayerCost("p1")
	pc.AddStateCost(NewQuadratic(1.5, 1, 0.2, "x1"))
	pc.AddControlCost(0, NewQuadratic(0.7, -1, 0, "effort"))

	x := mat.NewVecDense(3, []float64{0.1, -0.4, 2})
	us := []*mat.VecDense{mat.NewVecDense(2, []float64{0.5, -0.3})}

	q := NewQuadraticization(3, []int{2})
	pc.Quadraticize(x, us, q)

	if math.Abs(q.Lx.AtVec(1)-1.5*(-0.6)) > 1e-12 {
		t.Errorf("unexpected Lx(1): %f", q.Lx.AtVec(1))
	}
	if math.Abs(q.Lxx.At(1, 1)-1.5) > 1e-12 {
		t.Errorf("unexpected Lxx(1,1): %f", q.Lxx.At(1, 1))
	}
	if math.Abs(q.Lus[0].AtVec(0)-0.7*0.5) > 1e-12 {
		t.Errorf("unexpected Lu(0): %f", q.Lus[0].AtVec(0))
	}
	if math.Abs(q.Luus[0].At(1, 1)-0.7) > 1e-12 {
		t.Errorf("unexpected Luu(1,1): %f", q.Luus[0].At(1, 1))
	}
}

// The exponentiated gradient must match central differences of the
// exponentiated Evaluate, confirming the chain rule.
func TestPlayerCostExponentialChainRule(t *testing.T) {
	pc := NewPlayerCost("p1")
	pc.AddStateCost(NewQuadratic(1.0, -1, 0, "x"))
	pc.SetExponentialConstant(0.1)

	x := mat.NewVecDense(2, []float64{0.8, -0.3})
	us := []*mat.VecDense{mat.NewVecDense(1, []float64{0.2})}

	q := NewQuadraticization(2, []int{1})
	pc.Quadraticize(x, us, q)

	for i := 0; i < 2; i++ {
		hi := perturb(x, i, fdStep)
		lo := perturb(x, i, -fdStep)
		num := (pc.Evaluate(hi, us) - pc.Evaluate(lo, us)) / (2 * fdStep)
		if math.Abs(q.Lx.AtVec(i)-num) > 1e-6 {
			t.Errorf("exponentiated Lx(%d): analytic %f, numeric %f", i, q.Lx.AtVec(i), num)
		}
	}

	// Hessian picks up the outer-product term: for J = 0.5*|x|^2 the
	// second derivative of exp(g*J) at x is g*exp(g*J)*(1 + g*x_i^2).
	g := 0.1
	raw := 0.5 * (0.8*0.8 + 0.3*0.3)
	for i := 0; i < 2; i++ {
		xi := x.AtVec(i)
		want := g * math.Exp(g*raw) * (1 + g*xi*xi)
		if math.Abs(q.Lxx.At(i, i)-want) > 1e-9 {
			t.Errorf("exponentiated Lxx(%d,%d): got %f, want %f", i, i, q.Lxx.At(i, i), want)
		}
	}
}
