package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/solver"
)

func entry(iter int, accepted bool, cost float64, us []float64) *solver.LogEntry {
	e := &solver.LogEntry{
		Iteration:  iter,
		Accepted:   accepted,
		TotalCosts: []float64{cost},
	}
	if us != nil {
		op := &solver.OperatingPoint{
			Us: make([][]*mat.VecDense, len(us)),
		}
		for k, u := range us {
			op.Us[k] = []*mat.VecDense{mat.NewVecDense(1, []float64{u})}
		}
		e.OperatingPoint = op
	}
	return e
}

func TestCostDecrease(t *testing.T) {
	m := NewCostDecrease()
	if m.Value() != 0 {
		t.Error("expected zero before any iteration")
	}

	m.OnIteration(entry(1, true, 10, nil))
	m.OnIteration(entry(2, true, 4, nil))

	if math.Abs(m.Value()-0.6) > 1e-12 {
		t.Errorf("expected relative decrease 0.6, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	m.OnIteration(entry(1, true, 1, []float64{0.5, -1.5}))
	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("expected mean effort 1.0, got %f", m.Value())
	}

	// Rejected iterations do not overwrite the last accepted value.
	m.OnIteration(entry(2, false, 1, []float64{100, 100}))
	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("rejected iteration changed value to %f", m.Value())
	}
}

func TestStepAcceptance(t *testing.T) {
	m := NewStepAcceptance()
	if m.Value() != 0 {
		t.Error("expected zero before any iteration")
	}

	m.OnIteration(entry(1, true, 1, nil))
	m.OnIteration(entry(2, false, 1, nil))
	m.OnIteration(entry(3, true, 1, nil))
	m.OnIteration(entry(4, true, 1, nil))

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected acceptance 0.75, got %f", m.Value())
	}
}

// Compile-time interface checks.
var (
	_ Metric = (*CostDecrease)(nil)
	_ Metric = (*ControlEffort)(nil)
	_ Metric = (*StepAcceptance)(nil)
)
