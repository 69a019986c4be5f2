package cost

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PlayerCost aggregates one player's sub-costs: costs of the joint
// state, costs of any player's control, and one-sided state
// constraints. Optionally the whole objective is exponentiated,
// J -> exp(gamma*J), applied per time step by the chain rule during
// quadraticization.
type PlayerCost struct {
	name       string
	stateCosts []Cost
	// Indexed by player so evaluation order, and with it the
	// floating-point sum, is fixed across calls.
	controlCosts [][]Cost
	constraints  []*Constraint
	expConstant  float64
}

func NewPlayerCost(name string) *PlayerCost {
	return &PlayerCost{name: name}
}

func (p *PlayerCost) PlayerName() string { return p.name }

func (p *PlayerCost) AddStateCost(c Cost) {
	p.stateCosts = append(p.stateCosts, c)
}

// AddControlCost attaches a cost of the given player's control. A
// player's cost may depend on another player's control.
func (p *PlayerCost) AddControlCost(player int, c Cost) {
	for len(p.controlCosts) <= player {
		p.controlCosts = append(p.controlCosts, nil)
	}
	p.controlCosts[player] = append(p.controlCosts[player], c)
}

func (p *PlayerCost) AddStateConstraint(c *Constraint) {
	p.constraints = append(p.constraints, c)
}

// SetExponentialConstant turns on the exponential transform with
// constant gamma. Zero disables it.
func (p *PlayerCost) SetExponentialConstant(gamma float64) {
	p.expConstant = gamma
}

func (p *PlayerCost) IsExponentiated() bool { return p.expConstant != 0 }

func (p *PlayerCost) evaluateRaw(x *mat.VecDense, us []*mat.VecDense) float64 {
	total := 0.0
	for _, c := range p.stateCosts {
		total += c.Evaluate(x)
	}
	for _, c := range p.constraints {
		total += c.Evaluate(x)
	}
	for player, costs := range p.controlCosts {
		for _, c := range costs {
			total += c.Evaluate(us[player])
		}
	}
	return total
}

// Evaluate returns the player's instantaneous cost at (x, us),
// exponentiated when configured.
func (p *PlayerCost) Evaluate(x *mat.VecDense, us []*mat.VecDense) float64 {
	total := p.evaluateRaw(x, us)
	if p.IsExponentiated() {
		return math.Exp(p.expConstant * total)
	}
	return total
}

// Breakdown reports each named sub-cost's raw value, for inspection.
func (p *PlayerCost) Breakdown(x *mat.VecDense, us []*mat.VecDense) map[string]float64 {
	out := make(map[string]float64)
	for _, c := range p.stateCosts {
		out[c.Name()] += c.Evaluate(x)
	}
	for _, c := range p.constraints {
		out[c.Name()] += c.Evaluate(x)
	}
	for player, costs := range p.controlCosts {
		for _, c := range costs {
			out[c.Name()] += c.Evaluate(us[player])
		}
	}
	return out
}

// Quadraticize fills q with the gradient and Hessian of the player's
// instantaneous cost about (x, us). With exponentiation enabled the
// raw derivatives are rescaled by gamma*exp(gamma*J) and each Hessian
// block picks up the gamma*(grad)(grad)^T outer-product term.
func (p *PlayerCost) Quadraticize(x *mat.VecDense, us []*mat.VecDense, q *Quadraticization) {
	q.Zero()

	for _, c := range p.stateCosts {
		c.Quadraticize(x, q.Lx, q.Lxx)
	}
	for _, c := range p.constraints {
		c.Quadraticize(x, q.Lx, q.Lxx)
	}
	for player, costs := range p.controlCosts {
		for _, c := range costs {
			c.Quadraticize(us[player], q.Lus[player], q.Luus[player])
		}
	}

	if !p.IsExponentiated() {
		return
	}

	raw := p.evaluateRaw(x, us)
	scale := p.expConstant * math.Exp(p.expConstant*raw)

	modify := func(grad *mat.VecDense, hess *mat.Dense) {
		n := grad.Len()
		outer := mat.NewDense(n, n, nil)
		outer.Outer(p.expConstant, grad, grad)
		hess.Add(hess, outer)
		hess.Scale(scale, hess)
		grad.ScaleVec(scale, grad)
	}

	modify(q.Lx, q.Lxx)
	for i := range q.Lus {
		modify(q.Lus[i], q.Luus[i])
	}
}
