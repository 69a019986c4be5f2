package dynamics

import "errors"

// Domain errors for game dynamics construction and evaluation.
var (
	// ErrNoPlayers indicates a joint system built with an empty player list.
	ErrNoPlayers = errors.New("dynamics: joint system requires at least one player")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamics: dimension mismatch")

	// ErrInvalidTimeStep indicates a non-positive discretization step.
	ErrInvalidTimeStep = errors.New("dynamics: time step must be positive")
)
