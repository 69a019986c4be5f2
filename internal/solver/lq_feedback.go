package solver

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/mkrv/lqnash/internal/dynamics"
)

const maxRegularizationAttempts = 5

// FeedbackSolver computes the feedback-Nash solution of the
// time-varying LQ game induced by a linearization and a cost
// approximation. Unlike single-agent iterative LQR, the per-step
// stationarity conditions of all players couple through the shared
// next-step cost-to-go, so every player's gain and feedforward come
// out of one joint linear solve of size sum(udim) per step.
//
// All work buffers are preallocated at construction and reused across
// outer iterations; Solve is not safe for concurrent use.
type FeedbackSolver struct {
	sys dynamics.System
	reg float64

	n      int
	totalU int
	uoff   []int

	// cost-to-go per player, threaded backward through time
	Zs    []*mat.Dense
	zetas []*mat.VecDense

	// joint block system: S * [P | alpha] = Y
	S     *mat.Dense
	Swork *mat.Dense
	Y     *mat.Dense
	X     *mat.Dense

	// closed-loop dynamics
	F    *mat.Dense
	beta *mat.VecDense

	// scratch
	BiTZi   []*mat.Dense
	ru      []*mat.VecDense
	rp      []*mat.Dense
	BP      *mat.Dense
	Balpha  *mat.VecDense
	tmpN    *mat.VecDense
	newZeta *mat.VecDense
	contrib *mat.VecDense
	ZF      *mat.Dense
	newZ    *mat.Dense
	PRP     *mat.Dense
}

func NewFeedbackSolver(sys dynamics.System, regularization float64) *FeedbackSolver {
	n := sys.XDim()
	np := sys.NumPlayers()

	s := &FeedbackSolver{
		sys:     sys,
		reg:     regularization,
		n:       n,
		uoff:    make([]int, np),
		Zs:      make([]*mat.Dense, np),
		zetas:   make([]*mat.VecDense, np),
		BiTZi:   make([]*mat.Dense, np),
		ru:      make([]*mat.VecDense, np),
		rp:      make([]*mat.Dense, np),
		BP:      mat.NewDense(n, n, nil),
		Balpha:  mat.NewVecDense(n, nil),
		tmpN:    mat.NewVecDense(n, nil),
		newZeta: mat.NewVecDense(n, nil),
		contrib: mat.NewVecDense(n, nil),
		ZF:      mat.NewDense(n, n, nil),
		newZ:    mat.NewDense(n, n, nil),
		PRP:     mat.NewDense(n, n, nil),
	}

	for i := 0; i < np; i++ {
		s.uoff[i] = s.totalU
		s.totalU += sys.UDim(i)
		s.Zs[i] = mat.NewDense(n, n, nil)
		s.zetas[i] = mat.NewVecDense(n, nil)
		s.BiTZi[i] = mat.NewDense(sys.UDim(i), n, nil)
		s.ru[i] = mat.NewVecDense(sys.UDim(i), nil)
		s.rp[i] = mat.NewDense(sys.UDim(i), n, nil)
	}

	s.S = mat.NewDense(s.totalU, s.totalU, nil)
	s.Swork = mat.NewDense(s.totalU, s.totalU, nil)
	s.Y = mat.NewDense(s.totalU, n+1, nil)
	s.X = mat.NewDense(s.totalU, n+1, nil)
	s.F = mat.NewDense(n, n, nil)
	s.beta = mat.NewVecDense(n, nil)

	return s
}

// Solve runs the backward recursion over the whole horizon and writes
// each player's gains and feedforward terms into strategies. The
// terminal cost-to-go is seeded from the last quadraticization slot.
func (s *FeedbackSolver) Solve(lin *Linearization, quad *CostApproximation, strategies []*Strategy) error {
	np := s.sys.NumPlayers()
	horizon := len(lin.As)

	for i := 0; i < np; i++ {
		s.Zs[i].Copy(quad.Steps[horizon][i].Lxx)
		s.zetas[i].CopyVec(quad.Steps[horizon][i].Lx)
	}

	for k := horizon - 1; k >= 0; k-- {
		A := lin.As[k]
		Bs := lin.Bs[k]

		// Assemble the coupled block system. Block (i, j) is
		// B_i^T Z_i B_j, plus player i's own control Hessian on the
		// diagonal. The right-hand side carries B_i^T Z_i A for the
		// gains and B_i^T zeta_i + l_{u_i} for the feedforward.
		for i := 0; i < np; i++ {
			mi := s.sys.UDim(i)
			qi := quad.Steps[k][i]

			s.BiTZi[i].Mul(Bs[i].T(), s.Zs[i])

			for j := 0; j < np; j++ {
				mj := s.sys.UDim(j)
				blk := s.S.Slice(s.uoff[i], s.uoff[i]+mi, s.uoff[j], s.uoff[j]+mj).(*mat.Dense)
				blk.Mul(s.BiTZi[i], Bs[j])
				if i == j {
					blk.Add(blk, qi.Luus[i])
				}
			}

			yp := s.Y.Slice(s.uoff[i], s.uoff[i]+mi, 0, s.n).(*mat.Dense)
			yp.Mul(s.BiTZi[i], A)

			for r := 0; r < mi; r++ {
				v := qi.Lus[i].AtVec(r)
				for c := 0; c < s.n; c++ {
					v += Bs[i].At(c, r) * s.zetas[i].AtVec(c)
				}
				s.Y.Set(s.uoff[i]+r, s.n, v)
			}
		}

		if err := s.solveBlockSystem(); err != nil {
			return err
		}

		// Extract strategies and form the closed-loop dynamics
		// F = A - sum_i B_i P_i, beta = -sum_i B_i alpha_i.
		s.F.Copy(A)
		s.beta.Zero()
		for i := 0; i < np; i++ {
			mi := s.sys.UDim(i)
			strategies[i].Ps[k].Copy(s.X.Slice(s.uoff[i], s.uoff[i]+mi, 0, s.n))
			for r := 0; r < mi; r++ {
				strategies[i].Alphas[k].SetVec(r, s.X.At(s.uoff[i]+r, s.n))
			}

			s.BP.Mul(Bs[i], strategies[i].Ps[k])
			s.F.Sub(s.F, s.BP)
			s.Balpha.MulVec(Bs[i], strategies[i].Alphas[k])
			s.beta.SubVec(s.beta, s.Balpha)
		}

		// Propagate each player's cost-to-go one step earlier under
		// the closed loop of everyone's just-solved strategies.
		for i := 0; i < np; i++ {
			qi := quad.Steps[k][i]

			s.tmpN.MulVec(s.Zs[i], s.beta)
			s.tmpN.AddVec(s.tmpN, s.zetas[i])
			s.newZeta.MulVec(s.F.T(), s.tmpN)
			s.newZeta.AddVec(s.newZeta, qi.Lx)

			s.ZF.Mul(s.Zs[i], s.F)
			s.newZ.Mul(s.F.T(), s.ZF)
			s.newZ.Add(s.newZ, qi.Lxx)

			for j := 0; j < np; j++ {
				Pj := strategies[j].Ps[k]

				s.ru[j].MulVec(qi.Luus[j], strategies[j].Alphas[k])
				s.ru[j].SubVec(s.ru[j], qi.Lus[j])
				s.contrib.MulVec(Pj.T(), s.ru[j])
				s.newZeta.AddVec(s.newZeta, s.contrib)

				s.rp[j].Mul(qi.Luus[j], Pj)
				s.PRP.Mul(Pj.T(), s.rp[j])
				s.newZ.Add(s.newZ, s.PRP)
			}

			// Symmetrize against floating-point drift; the backward
			// pass assumes Z stays symmetric.
			for r := 0; r < s.n; r++ {
				for c := r + 1; c < s.n; c++ {
					avg := 0.5 * (s.newZ.At(r, c) + s.newZ.At(c, r))
					s.newZ.Set(r, c, avg)
					s.newZ.Set(c, r, avg)
				}
			}

			s.Zs[i].Copy(s.newZ)
			s.zetas[i].CopyVec(s.newZeta)
		}
	}

	return nil
}

// solveBlockSystem solves S X = Y, adding escalating diagonal
// regularization when the factorization reports singularity. An
// ill-conditioned but solvable system is accepted: the outer loop
// only needs a descent-improving strategy, not an exact solution.
func (s *FeedbackSolver) solveBlockSystem() error {
	reg := 0.0
	var err error
	for attempt := 0; attempt <= maxRegularizationAttempts; attempt++ {
		s.Swork.Copy(s.S)
		if reg > 0 {
			for d := 0; d < s.totalU; d++ {
				s.Swork.Set(d, d, s.Swork.At(d, d)+reg)
			}
		}

		err = s.X.Solve(s.Swork, s.Y)
		if err == nil {
			return nil
		}

		var cond mat.Condition
		if errors.As(err, &cond) {
			// Solution exists but is poorly conditioned; keep it.
			return nil
		}

		if reg == 0 {
			reg = s.reg
			if reg == 0 {
				reg = 1e-4
			}
		} else {
			reg *= 10
		}
	}
	return ErrSingularSystem
}
