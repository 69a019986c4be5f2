package problems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/cost"
	"github.com/mkrv/lqnash/internal/dynamics"
	"github.com/mkrv/lqnash/internal/solver"
)

// Problem bundles everything a solve needs: joint dynamics, one cost
// per player, the initial joint state and optional control bounds.
// Problems are constructed explicitly; there is no global registry.
type Problem struct {
	Name     string
	Dynamics *dynamics.Concatenated
	Costs    []*cost.PlayerCost
	X0       *mat.VecDense
	Bounds   []*solver.ControlBounds

	// PositionDims lists each player's (x, y) joint-state indices,
	// used by plotting and export.
	PositionDims [][2]int
}

func Names() []string {
	return []string{
		"one_player_reachability",
		"two_player_intersection",
		"three_player_intersection",
	}
}

// Build constructs a named problem with the given discretization step.
func Build(name string, dt float64) (*Problem, error) {
	switch name {
	case "one_player_reachability":
		return OnePlayerReachability(dt)
	case "two_player_intersection":
		return TwoPlayerIntersection(dt)
	case "three_player_intersection":
		return ThreePlayerIntersection(dt)
	}
	return nil, fmt.Errorf("problems: unknown problem %q", name)
}

// OnePlayerReachability: a single delayed unicycle steering toward a
// circular target at the origin, with its turning rate bounded as a
// state constraint and the whole objective exponentiated so the sum
// of costs approximates the worst case over the horizon.
func OnePlayerReachability(dt float64) (*Problem, error) {
	const (
		speed        = 1.0
		omegaMax     = 1.0
		steerWeight  = 1.0
		targetRadius = 0.5
		expConstant  = 0.1
	)

	car := dynamics.NewDelayedUnicycle(speed)
	sys, err := dynamics.NewConcatenated([]dynamics.SinglePlayer{car}, dt)
	if err != nil {
		return nil, err
	}

	pc := cost.NewPlayerCost("P1")
	pc.AddControlCost(0, cost.NewQuadratic(steerWeight, 0, 0, "steering"))
	pc.AddStateConstraint(cost.NewConstraint(dynamics.DelayedOmegaIdx, omegaMax, true, "omega_max"))
	pc.AddStateConstraint(cost.NewConstraint(dynamics.DelayedOmegaIdx, -omegaMax, false, "omega_min"))
	pc.AddStateCost(cost.NewCircleDistance(1.0,
		dynamics.DelayedPxIdx, dynamics.DelayedPyIdx,
		0, 0, targetRadius, true, "goal"))
	pc.SetExponentialConstant(expConstant)

	x0 := mat.NewVecDense(4, []float64{2.0, 2.0, -math.Pi, 0.0})

	return &Problem{
		Name:     "one_player_reachability",
		Dynamics: sys,
		Costs:    []*cost.PlayerCost{pc},
		X0:       x0,
		Bounds: []*solver.ControlBounds{
			{Lower: []float64{-omegaMax}, Upper: []float64{omegaMax}},
		},
		PositionDims: [][2]int{{dynamics.DelayedPxIdx, dynamics.DelayedPyIdx}},
	}, nil
}

// TwoPlayerIntersection: two unicycles crossing at the origin, each
// tracking its own goal while both pay for coming too close.
func TwoPlayerIntersection(dt float64) (*Problem, error) {
	const (
		speed         = 1.0
		goalWeight    = 0.5
		steerWeight   = 1.0
		proxWeight    = 10.0
		proxThreshold = 1.0
	)

	p1 := dynamics.NewUnicycle(speed)
	p2 := dynamics.NewUnicycle(speed)
	sys, err := dynamics.NewConcatenated([]dynamics.SinglePlayer{p1, p2}, dt)
	if err != nil {
		return nil, err
	}

	// Player 1 drives east along y=0, player 2 north along x=0.
	o1, o2 := sys.Offset(0), sys.Offset(1)

	prox := cost.NewProximity(proxWeight, proxThreshold,
		o1+dynamics.UnicyclePxIdx, o1+dynamics.UnicyclePyIdx,
		o2+dynamics.UnicyclePxIdx, o2+dynamics.UnicyclePyIdx,
		"proximity")

	c1 := cost.NewPlayerCost("P1")
	c1.AddStateCost(cost.NewQuadratic(goalWeight, o1+dynamics.UnicyclePxIdx, 4.0, "goal_x"))
	c1.AddStateCost(cost.NewQuadratic(goalWeight, o1+dynamics.UnicyclePyIdx, 0.0, "goal_y"))
	c1.AddControlCost(0, cost.NewQuadratic(steerWeight, 0, 0, "steering"))
	c1.AddStateCost(prox)

	c2 := cost.NewPlayerCost("P2")
	c2.AddStateCost(cost.NewQuadratic(goalWeight, o2+dynamics.UnicyclePxIdx, 0.0, "goal_x"))
	c2.AddStateCost(cost.NewQuadratic(goalWeight, o2+dynamics.UnicyclePyIdx, 4.0, "goal_y"))
	c2.AddControlCost(1, cost.NewQuadratic(steerWeight, 0, 0, "steering"))
	c2.AddStateCost(prox)

	x0 := mat.NewVecDense(6, []float64{
		-4.0, 0.0, 0.0, // P1: heading east
		0.0, -4.0, math.Pi / 2, // P2: heading north
	})

	return &Problem{
		Name:     "two_player_intersection",
		Dynamics: sys,
		Costs:    []*cost.PlayerCost{c1, c2},
		X0:       x0,
		PositionDims: [][2]int{
			{o1 + dynamics.UnicyclePxIdx, o1 + dynamics.UnicyclePyIdx},
			{o2 + dynamics.UnicyclePxIdx, o2 + dynamics.UnicyclePyIdx},
		},
	}, nil
}

// ThreePlayerIntersection adds a third unicycle crossing against the
// first; every pair shares a proximity cost.
func ThreePlayerIntersection(dt float64) (*Problem, error) {
	const (
		speed         = 1.0
		goalWeight    = 0.5
		steerWeight   = 1.0
		proxWeight    = 10.0
		proxThreshold = 1.0
	)

	players := []dynamics.SinglePlayer{
		dynamics.NewUnicycle(speed),
		dynamics.NewUnicycle(speed),
		dynamics.NewUnicycle(speed),
	}
	sys, err := dynamics.NewConcatenated(players, dt)
	if err != nil {
		return nil, err
	}

	offs := []int{sys.Offset(0), sys.Offset(1), sys.Offset(2)}
	goals := [][2]float64{{4, 0}, {0, 4}, {-4, 0}}
	starts := []float64{
		-4, 0, 0,
		0, -4, math.Pi / 2,
		4, 0, math.Pi,
	}

	costs := make([]*cost.PlayerCost, 3)
	for i := range costs {
		c := cost.NewPlayerCost(fmt.Sprintf("P%d", i+1))
		c.AddStateCost(cost.NewQuadratic(goalWeight, offs[i]+dynamics.UnicyclePxIdx, goals[i][0], "goal_x"))
		c.AddStateCost(cost.NewQuadratic(goalWeight, offs[i]+dynamics.UnicyclePyIdx, goals[i][1], "goal_y"))
		c.AddControlCost(i, cost.NewQuadratic(steerWeight, 0, 0, "steering"))
		costs[i] = c
	}

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			prox := cost.NewProximity(proxWeight, proxThreshold,
				offs[i]+dynamics.UnicyclePxIdx, offs[i]+dynamics.UnicyclePyIdx,
				offs[j]+dynamics.UnicyclePxIdx, offs[j]+dynamics.UnicyclePyIdx,
				fmt.Sprintf("proximity_%d%d", i+1, j+1))
			costs[i].AddStateCost(prox)
			costs[j].AddStateCost(prox)
		}
	}

	x0 := mat.NewVecDense(9, starts)

	pos := make([][2]int, 3)
	for i := range pos {
		pos[i] = [2]int{offs[i] + dynamics.UnicyclePxIdx, offs[i] + dynamics.UnicyclePyIdx}
	}

	return &Problem{
		Name:         "three_player_intersection",
		Dynamics:     sys,
		Costs:        costs,
		X0:           x0,
		PositionDims: pos,
	}, nil
}
