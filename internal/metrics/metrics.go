package metrics

import "github.com/mkrv/lqnash/internal/solver"

// Metric accumulates a scalar summary over solver iterations. Metrics
// implement solver.Observer and are attached at construction.
type Metric interface {
	solver.Observer
	Name() string
	Value() float64
	Reset()
}
