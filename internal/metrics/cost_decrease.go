package metrics

import "github.com/mkrv/lqnash/internal/solver"

// CostDecrease reports the relative drop in summed player cost from
// the first iteration to the latest one.
type CostDecrease struct {
	first  float64
	latest float64
	seen   bool
}

func NewCostDecrease() *CostDecrease {
	return &CostDecrease{}
}

func (c *CostDecrease) Name() string { return "cost_decrease" }

func (c *CostDecrease) OnIteration(e *solver.LogEntry) {
	total := 0.0
	for _, v := range e.TotalCosts {
		total += v
	}
	if !c.seen {
		c.first = total
		c.seen = true
	}
	c.latest = total
}

func (c *CostDecrease) Value() float64 {
	if !c.seen || c.first == 0 {
		return 0
	}
	return (c.first - c.latest) / c.first
}

func (c *CostDecrease) Reset() {
	c.first = 0
	c.latest = 0
	c.seen = false
}
