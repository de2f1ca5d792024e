// SPDX-License-Identifier: MIT
// File: branch.go
// Role: depth-first branch-and-bound over LP relaxations.
// Determinism:
//   - Branching picks the most fractional binary (lowest index on ties),
//     then violated indicators, then unsatisfied disjunctions, each in
//     model order. The child nearer the relaxation is explored first.
// Pruning:
//   - A node is discarded once its bound cannot beat the incumbent; with an
//     integral objective, ceil(bound) must beat it.
// Errors:
//   - Model construction errors, ErrNumerical, context.Canceled.
//   - A deadline on ctx is not an error: the solve returns StatusTimeLimit
//     with the incumbent, if any.

package milp

import (
	"context"
	"errors"
	"math"
)

// Solver is the optimization collaborator. Implementations must be safe
// for sequential reuse; a Solver never mutates the model it is given.
type Solver interface {
	// Solve returns an optimal assignment or a terminal status.
	Solve(ctx context.Context, m *Model) (Solution, error)
	// Populate returns up to params.Capacity distinct assignments whose
	// objectives lie within the configured gap of the optimum.
	Populate(ctx context.Context, m *Model, params PoolParams) (Pool, error)
}

// BranchAndBound is the built-in Solver.
type BranchAndBound struct {
	opts Options
}

var _ Solver = (*BranchAndBound)(nil)

// NewSolver builds a BranchAndBound with DefaultOptions adjusted by opts.
func NewSolver(opts ...Option) *BranchAndBound {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &BranchAndBound{opts: o}
}

// Options returns the effective options.
func (b *BranchAndBound) Options() Options { return b.opts }

// Solve implements Solver.
func (b *BranchAndBound) Solve(ctx context.Context, m *Model) (Solution, error) {
	if err := m.Err(); err != nil {
		return Solution{}, err
	}
	sign := 1.0
	if m.maximize {
		sign = -1
	}
	integral := m.integralObjective()

	root := node{
		lb:     make([]float64, len(m.vars)),
		ub:     make([]float64, len(m.vars)),
		choice: make([]int8, len(m.disj)),
		bound:  math.Inf(-1),
	}
	for j, v := range m.vars {
		root.lb[j], root.ub[j] = v.lb, v.ub
	}
	for i := range root.choice {
		root.choice[i] = -1
	}

	var (
		best      []float64
		incumbent = math.Inf(1)
		stack     = []node{root}
		visited   int
	)
	finish := func(st Status) Solution {
		if best == nil {
			return Solution{Status: st}
		}
		return Solution{Status: st, Objective: m.Objective(best), Values: best}
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return finish(StatusTimeLimit), nil
			}
			return Solution{}, err
		}
		if b.opts.MaxNodes > 0 && visited >= b.opts.MaxNodes {
			return finish(StatusNodeLimit), nil
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		if b.dominated(nd.bound, incumbent, integral) {
			continue
		}
		rel, err := b.relax(m, nd, sign)
		if err != nil {
			return Solution{}, err
		}
		switch rel.status {
		case StatusInfeasible:
			continue
		case StatusUnbounded:
			return Solution{Status: StatusUnbounded}, nil
		}
		if b.dominated(rel.obj, incumbent, integral) {
			continue
		}
		nd.bound = rel.obj

		children := b.branch(m, nd, rel.x)
		if children == nil {
			best = b.round(m, rel.x)
			incumbent = sign * m.Objective(best)
			continue
		}
		// Last pushed is explored first.
		stack = append(stack, children[1], children[0])
	}

	if best == nil {
		return Solution{Status: StatusInfeasible}, nil
	}

	return finish(StatusOptimal), nil
}

func (b *BranchAndBound) dominated(bound, incumbent float64, integral bool) bool {
	if math.IsInf(incumbent, 1) || math.IsInf(bound, -1) {
		return false
	}
	if integral {
		bound = math.Ceil(bound - 1e-6)
	}

	return bound >= incumbent-b.opts.FeasibilityTol*(1+abs(incumbent))
}

// branch returns the two children of nd, preferred child first, or nil
// when x satisfies every integrality, indicator and disjunction.
func (b *BranchAndBound) branch(m *Model, nd node, x []float64) []node {
	tol := b.opts.IntegralityTol
	pick, worst := -1, tol
	for j, v := range m.vars {
		if v.kind != Binary || nd.fixed(Var(j)) {
			continue
		}
		f := x[j] - math.Floor(x[j])
		if d := math.Min(f, 1-f); d > worst {
			pick, worst = j, d
		}
	}
	if pick >= 0 {
		return b.splitBinary(nd, Var(pick), x[pick] >= 0.5)
	}

	feas := b.opts.FeasibilityTol
	for _, ic := range m.inds {
		if nd.fixed(ic.Ind) {
			continue
		}
		on := x[ic.Ind] >= 0.5
		if on == ic.Active && !ic.C.Satisfied(x, feas) {
			return b.splitBinary(nd, ic.Ind, on)
		}
	}

	for i, d := range m.disj {
		if nd.choice[i] >= 0 || d.A.Satisfied(x, feas) || d.B.Satisfied(x, feas) {
			continue
		}
		first, second := nd.child(), nd.child()
		first.choice[i], second.choice[i] = 0, 1
		if violation(d.B, x) < violation(d.A, x) {
			first, second = second, first
		}
		return []node{first, second}
	}

	return nil
}

func (b *BranchAndBound) splitBinary(nd node, v Var, upFirst bool) []node {
	down, up := nd.child(), nd.child()
	down.ub[v] = 0
	up.lb[v] = 1
	if upFirst {
		return []node{up, down}
	}

	return []node{down, up}
}

// round snaps binaries to 0/1; continuous values are kept.
func (b *BranchAndBound) round(m *Model, x []float64) []float64 {
	out := append([]float64(nil), x...)
	for j, v := range m.vars {
		if v.kind == Binary {
			out[j] = math.Round(out[j])
		}
	}

	return out
}

func violation(c Constraint, x []float64) float64 {
	act := c.Activity(x)
	switch c.Sense {
	case LessEq:
		return math.Max(act-c.RHS, 0)
	case GreaterEq:
		return math.Max(c.RHS-act, 0)
	default:
		return abs(act - c.RHS)
	}
}
