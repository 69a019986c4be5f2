package solver

import "errors"

var (
	// ErrPlayerCountMismatch indicates the cost list does not match the
	// joint system's player count.
	ErrPlayerCountMismatch = errors.New("solver: one cost per player required")

	// ErrBadParams indicates non-positive step sizes, tolerances or
	// iteration budgets.
	ErrBadParams = errors.New("solver: invalid solver parameters")

	// ErrSingularSystem indicates the coupled control block system
	// stayed singular even after regularization. This happens only in
	// degenerate configurations, e.g. a player with no control cost at
	// all, and is fatal.
	ErrSingularSystem = errors.New("solver: coupled control system is singular")

	// ErrInvalidStateDim indicates the initial state does not match
	// the joint system dimension.
	ErrInvalidStateDim = errors.New("solver: initial state dimension mismatch")

	// ErrDivergedRollout indicates the forward rollout produced a
	// non-finite state.
	ErrDivergedRollout = errors.New("solver: forward rollout diverged (NaN/Inf state)")
)
