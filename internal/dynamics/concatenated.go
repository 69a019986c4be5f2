package dynamics

import (
	"gonum.org/v1/gonum/mat"
)

// Concatenated stacks per-player subsystems into one joint system.
// Player substates occupy contiguous blocks of the joint state in
// player order; cross-player derivative terms are zero.
type Concatenated struct {
	players []SinglePlayer
	dt      float64
	xdim    int
	offsets []int
}

func NewConcatenated(players []SinglePlayer, dt float64) (*Concatenated, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	if dt <= 0 {
		return nil, ErrInvalidTimeStep
	}

	c := &Concatenated{
		players: players,
		dt:      dt,
		offsets: make([]int, len(players)),
	}
	for i, p := range players {
		if p.StateDim() <= 0 || p.ControlDim() <= 0 {
			return nil, ErrDimensionMismatch
		}
		c.offsets[i] = c.xdim
		c.xdim += p.StateDim()
	}
	return c, nil
}

func (c *Concatenated) XDim() int         { return c.xdim }
func (c *Concatenated) NumPlayers() int   { return len(c.players) }
func (c *Concatenated) UDim(i int) int    { return c.players[i].ControlDim() }
func (c *Concatenated) TimeStep() float64 { return c.dt }
func (c *Concatenated) Offset(i int) int  { return c.offsets[i] }

// SubState copies player i's block out of the joint state.
func (c *Concatenated) SubState(x *mat.VecDense, i int) *mat.VecDense {
	n := c.players[i].StateDim()
	sub := mat.NewVecDense(n, nil)
	for j := 0; j < n; j++ {
		sub.SetVec(j, x.AtVec(c.offsets[i]+j))
	}
	return sub
}

func (c *Concatenated) Derivative(x *mat.VecDense, us []*mat.VecDense) *mat.VecDense {
	xdot := mat.NewVecDense(c.xdim, nil)
	for i, p := range c.players {
		sub := c.SubState(x, i)
		d := p.Derivative(sub, us[i])
		for j := 0; j < p.StateDim(); j++ {
			xdot.SetVec(c.offsets[i]+j, d.AtVec(j))
		}
	}
	return xdot
}

// LinearizeDiscrete fills the first-order discrete Jacobians about
// (x, us) under the explicit-Euler discretization x+ = x + dt*f(x, u):
// A = I + dt*dfdx, Bs[i] = dt*dfdu_i. Each player's continuous
// Jacobians land on the block diagonal of A and in its own rows of
// Bs[i]; all other entries are zeroed. Safe for concurrent calls with
// distinct output matrices.
func (c *Concatenated) LinearizeDiscrete(x *mat.VecDense, us []*mat.VecDense, A *mat.Dense, Bs []*mat.Dense) {
	A.Zero()
	for i := 0; i < c.xdim; i++ {
		A.Set(i, i, 1)
	}

	for i, p := range c.players {
		sub := c.SubState(x, i)
		subA := mat.NewDense(p.StateDim(), p.StateDim(), nil)
		subB := mat.NewDense(p.StateDim(), p.ControlDim(), nil)
		p.Linearize(sub, us[i], subA, subB)

		off := c.offsets[i]
		for r := 0; r < p.StateDim(); r++ {
			for col := 0; col < p.StateDim(); col++ {
				A.Set(off+r, off+col, A.At(off+r, off+col)+c.dt*subA.At(r, col))
			}
		}

		Bs[i].Zero()
		for r := 0; r < p.StateDim(); r++ {
			for col := 0; col < p.ControlDim(); col++ {
				Bs[i].Set(off+r, col, c.dt*subB.At(r, col))
			}
		}
	}
}
