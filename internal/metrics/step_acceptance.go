package metrics

import "github.com/mkrv/lqnash/internal/solver"

// StepAcceptance reports the fraction of outer iterations whose line
// search found an acceptable candidate.
type StepAcceptance struct {
	accepted int
	total    int
}

func NewStepAcceptance() *StepAcceptance {
	return &StepAcceptance{}
}

func (s *StepAcceptance) Name() string { return "step_acceptance" }

func (s *StepAcceptance) OnIteration(e *solver.LogEntry) {
	s.total++
	if e.Accepted {
		s.accepted++
	}
}

func (s *StepAcceptance) Value() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.accepted) / float64(s.total)
}

func (s *StepAcceptance) Reset() {
	s.accepted = 0
	s.total = 0
}
