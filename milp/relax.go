// SPDX-License-Identifier: MIT
// File: relax.go
// Role: LP relaxation of a branch-and-bound node, solved with gonum's
//       simplex in standard form.
// Steps:
//   1. Substitute y = x - lb; fixed variables become constants.
//   2. Collect linear rows, the disjunction sides chosen on the path,
//      and the indicator rows (exact when the indicator is fixed, a
//      bound-derived big-M relaxation otherwise).
//   3. Drop constant rows after checking them; standard.go turns the rest
//      into a tableau with its own starting basis and solves it.
// Complexity:
//   - O(R·N) to assemble the dense tableau, plus the simplex itself.

package milp

import (
	"errors"
	"math"
)

// node is a branch-and-bound subproblem: tightened bounds plus the
// disjunction sides selected on the path from the root (-1 = open).
type node struct {
	lb, ub []float64
	choice []int8
	bound  float64
}

func (n node) fixed(v Var) bool { return n.ub[v]-n.lb[v] <= 0 }

func (n node) child() node {
	return node{
		lb:     append([]float64(nil), n.lb...),
		ub:     append([]float64(nil), n.ub...),
		choice: append([]int8(nil), n.choice...),
		bound:  n.bound,
	}
}

// relaxation is the solved LP of one node. obj is sign-normalized so
// that smaller is always better.
type relaxation struct {
	status Status
	obj    float64
	x      []float64
}

type row struct {
	coef  []float64
	sense Sense
	rhs   float64
}

func (b *BranchAndBound) relax(m *Model, nd node, sign float64) (relaxation, error) {
	n := len(m.vars)
	for j := 0; j < n; j++ {
		if nd.lb[j] > nd.ub[j]+b.opts.FeasibilityTol {
			return relaxation{status: StatusInfeasible}, nil
		}
	}

	rows := make([]row, 0, len(m.cons)+len(m.inds))
	push := func(c Constraint) {
		r := row{coef: make([]float64, n), sense: c.Sense, rhs: c.RHS}
		for _, t := range c.Terms {
			if nd.fixed(t.Var) {
				r.rhs -= t.Coef * nd.lb[t.Var]
				continue
			}
			r.coef[t.Var] += t.Coef
			r.rhs -= t.Coef * nd.lb[t.Var]
		}
		rows = append(rows, r)
	}
	for _, c := range m.cons {
		push(c)
	}
	for i, d := range m.disj {
		switch nd.choice[i] {
		case 0:
			push(d.A)
		case 1:
			push(d.B)
		}
	}
	for _, ic := range m.inds {
		if nd.fixed(ic.Ind) {
			if (nd.lb[ic.Ind] > 0.5) == ic.Active {
				push(ic.C)
			}
			continue
		}
		for _, c := range bigM(ic, nd) {
			push(c)
		}
	}

	// Constant rows are checked here; the rest mark their columns used.
	used := make([]bool, n)
	kept := rows[:0]
	for _, r := range rows {
		constant := true
		for j, a := range r.coef {
			if a != 0 {
				used[j] = true
				constant = false
			}
		}
		if !constant {
			kept = append(kept, r)
			continue
		}
		if !constantHolds(r, b.opts.FeasibilityTol) {
			return relaxation{status: StatusInfeasible}, nil
		}
	}
	rows = kept

	cost := make([]float64, n)
	for _, t := range m.obj {
		cost[t.Var] += sign * t.Coef
	}

	// Columns that appear in no row sit at whichever bound the cost prefers.
	y := make([]float64, n)
	cols := make([]int, 0, n)
	for j := 0; j < n; j++ {
		switch {
		case nd.fixed(Var(j)):
		case used[j]:
			cols = append(cols, j)
		case cost[j] < 0:
			if math.IsInf(nd.ub[j], 1) {
				return relaxation{status: StatusUnbounded}, nil
			}
			y[j] = nd.ub[j] - nd.lb[j]
		}
	}

	if len(rows) > 0 {
		if err := b.simplex(rows, cols, cost, nd, y); err != nil {
			var st statusError
			if errors.As(err, &st) {
				return relaxation{status: st.status}, nil
			}
			return relaxation{}, err
		}
	}

	x := make([]float64, n)
	for j := range x {
		x[j] = nd.lb[j] + y[j]
	}

	return relaxation{status: StatusOptimal, obj: sign * m.Objective(x), x: x}, nil
}

// statusError carries a terminal LP status out of simplex.
type statusError struct{ status Status }

func (e statusError) Error() string { return "milp: relaxation " + e.status.String() }

// simplex writes into y the optimum of min cost·y over the used columns.
// A degenerate tableau that stalls gonum's pivoting is retried once with
// its right-hand sides perturbed.
func (b *BranchAndBound) simplex(rows []row, cols []int, cost []float64, nd node, y []float64) error {
	sf, err := b.standardForm(rows, cols, cost, nd)
	if err != nil {
		return err
	}
	opt, err := sf.solve(b.opts, 0)
	if errors.Is(err, ErrNumerical) {
		opt, err = sf.solve(b.opts, perturbation)
	}
	if err != nil {
		return err
	}
	for k, j := range sf.cols {
		y[j] = math.Max(opt[k], 0)
	}

	return nil
}

func constantHolds(r row, tol float64) bool {
	eps := tol * (1 + abs(r.rhs))
	switch r.sense {
	case LessEq:
		return 0 <= r.rhs+eps
	case GreaterEq:
		return 0 >= r.rhs-eps
	default:
		return abs(r.rhs) <= eps
	}
}

// bigM relaxes (ind == active) ⇒ c with the activity range of c under the
// node bounds. Rows that can never bind, or whose range is unbounded, are
// omitted; integrality of ind is then checked at the leaves.
func bigM(ic Indicator, nd node) []Constraint {
	lo, hi := 0.0, 0.0
	for _, t := range ic.C.Terms {
		if t.Coef == 0 {
			continue
		}
		a, b := t.Coef*nd.lb[t.Var], t.Coef*nd.ub[t.Var]
		lo += math.Min(a, b)
		hi += math.Max(a, b)
	}

	var out []Constraint
	le := func() {
		gap := hi - ic.C.RHS
		if gap <= 0 || math.IsInf(hi, 0) || math.IsNaN(hi) {
			return
		}
		if ic.Active {
			// a·x + gap·ind <= hi
			out = append(out, withInd(ic, LessEq, gap, hi))
		} else {
			// a·x - gap·ind <= rhs
			out = append(out, withInd(ic, LessEq, -gap, ic.C.RHS))
		}
	}
	ge := func() {
		gap := ic.C.RHS - lo
		if gap <= 0 || math.IsInf(lo, 0) || math.IsNaN(lo) {
			return
		}
		if ic.Active {
			// a·x - gap·ind >= lo
			out = append(out, withInd(ic, GreaterEq, -gap, lo))
		} else {
			// a·x + gap·ind >= rhs
			out = append(out, withInd(ic, GreaterEq, gap, ic.C.RHS))
		}
	}
	switch ic.C.Sense {
	case LessEq:
		le()
	case GreaterEq:
		ge()
	default:
		le()
		ge()
	}

	return out
}

func withInd(ic Indicator, sense Sense, coef, rhs float64) Constraint {
	terms := make([]Term, 0, len(ic.C.Terms)+1)
	terms = append(terms, ic.C.Terms...)
	terms = append(terms, Term{Var: ic.Ind, Coef: coef})

	return Constraint{Name: ic.Name, Terms: terms, Sense: sense, RHS: rhs}
}
