package solver

// AcceptanceRule selects how the line search judges a candidate
// trajectory against the nominal one.
type AcceptanceRule int

const (
	// AcceptTotalCost accepts when the sum of all players' costs does
	// not increase beyond the cost tolerance.
	AcceptTotalCost AcceptanceRule = iota

	// AcceptPerPlayer accepts only when no single player's cost
	// increases beyond the cost tolerance.
	AcceptPerPlayer
)

// Params are the outer-loop knobs. Zero values are invalid; start
// from DefaultParams.
type Params struct {
	MaxIterations        int
	ConvergenceTolerance float64

	InitialStepSize  float64
	MinStepSize      float64
	StepShrinkFactor float64

	// Regularization is added to the diagonal of the coupled control
	// block system when it is numerically singular.
	Regularization float64

	Acceptance AcceptanceRule

	// CostTolerance is the slack allowed in the acceptance rule.
	CostTolerance float64

	// TerminateOnStall treats a fully exhausted line search as
	// convergence instead of continuing to the next iteration.
	TerminateOnStall bool
}

func DefaultParams() Params {
	return Params{
		MaxIterations:        50,
		ConvergenceTolerance: 1e-2,
		InitialStepSize:      1.0,
		MinStepSize:          1e-3,
		StepShrinkFactor:     0.5,
		Regularization:       1e-4,
		Acceptance:           AcceptTotalCost,
		CostTolerance:        1e-4,
		TerminateOnStall:     true,
	}
}

func (p Params) validate() error {
	switch {
	case p.MaxIterations <= 0,
		p.ConvergenceTolerance <= 0,
		p.InitialStepSize <= 0 || p.InitialStepSize > 1,
		p.MinStepSize <= 0 || p.MinStepSize > p.InitialStepSize,
		p.StepShrinkFactor <= 0 || p.StepShrinkFactor >= 1,
		p.Regularization < 0,
		p.CostTolerance < 0:
		return ErrBadParams
	}
	return nil
}
