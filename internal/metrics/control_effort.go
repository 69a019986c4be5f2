package metrics

import (
	"math"

	"github.com/mkrv/lqnash/internal/solver"
)

// ControlEffort reports the mean absolute control entry over the most
// recent accepted trajectory.
type ControlEffort struct {
	name  string
	value float64
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) OnIteration(e *solver.LogEntry) {
	if !e.Accepted {
		return
	}
	sum := 0.0
	samples := 0
	for _, us := range e.OperatingPoint.Us {
		for _, u := range us {
			for i := 0; i < u.Len(); i++ {
				sum += math.Abs(u.AtVec(i))
				samples++
			}
		}
	}
	if samples > 0 {
		c.value = sum / float64(samples)
	}
}

func (c *ControlEffort) Value() float64 { return c.value }

func (c *ControlEffort) Reset() { c.value = 0 }
