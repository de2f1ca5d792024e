// SPDX-License-Identifier: MIT
// File: standard.go
// Role: standard-form tableau of one relaxation and its two-phase solve
//       on gonum's simplex.
// Columns:
//   - structural: one per used variable, identical columns merged;
//   - slack: one per inequality or upper-bound row;
//   - artificial: one per row whose slack cannot start in the basis.
// Basis:
//   - Every rhs is made non-negative, so each row's +1 slack or its
//     artificial gives an identity starting basis. It is handed to
//     lp.Simplex as initialBasic; gonum's own phase 1 is never run.
// Phases:
//   1. min Σ artificials. A positive optimum means the node is infeasible.
//   2. min cost·y + M·Σ artificials from the same basis. M grows until
//      every artificial is zero.
// Rows:
//   - Equalities carry no slack and are never split. Proportional
//     equality rows and exact duplicate inequalities are kept once.

package milp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// perturbation scales the rhs shift of the retry after a stalled pivot.
	perturbation = 1e-9

	bigMStart  = 1e4
	bigMGrowth = 100
	bigMRounds = 3
)

// stdRow is coef·y + slack·s = rhs over the structural columns.
type stdRow struct {
	coef  []float64
	slack float64 // +1, -1, or 0 for an equality
	rhs   float64
}

type standardForm struct {
	cols []int // model variable of each structural column
	cost []float64
	rows []stdRow
}

// standardForm builds the tableau of rows over the used columns cols.
// It returns statusError{StatusInfeasible} when two copies of an
// equality disagree.
func (b *BranchAndBound) standardForm(rows []row, cols []int, cost []float64, nd node) (*standardForm, error) {
	std := make([]stdRow, 0, len(rows)+len(cols))
	for _, r := range rows {
		coef := make([]float64, len(cols))
		for k, j := range cols {
			coef[k] = r.coef[j]
		}
		var slack float64
		switch r.sense {
		case LessEq:
			slack = 1
		case GreaterEq:
			slack = -1
		}
		std = append(std, stdRow{coef: coef, slack: slack, rhs: r.rhs})
	}
	for k, j := range cols {
		if math.IsInf(nd.ub[j], 1) {
			continue
		}
		coef := make([]float64, len(cols))
		coef[k] = 1
		std = append(std, stdRow{coef: coef, slack: 1, rhs: nd.ub[j] - nd.lb[j]})
	}

	std, ok := dedupeRows(std, b.opts.FeasibilityTol)
	if !ok {
		return nil, statusError{StatusInfeasible}
	}
	for i := range std {
		if std[i].rhs < 0 {
			r := &std[i]
			for k := range r.coef {
				r.coef[k] = -r.coef[k]
			}
			r.slack, r.rhs = -r.slack, -r.rhs
		}
	}

	keep := distinctColumns(std, cols, cost)
	sf := &standardForm{
		cols: make([]int, len(keep)),
		cost: make([]float64, len(keep)),
		rows: make([]stdRow, len(std)),
	}
	for k, c := range keep {
		sf.cols[k] = cols[c]
		sf.cost[k] = cost[cols[c]]
	}
	for i, r := range std {
		coef := make([]float64, len(keep))
		for k, c := range keep {
			coef[k] = r.coef[c]
		}
		sf.rows[i] = stdRow{coef: coef, slack: r.slack, rhs: r.rhs}
	}

	return sf, nil
}

// dedupeRows keeps one copy of every equality up to scaling and of every
// exactly repeated inequality. ok is false when two copies of an equality
// ask for different right-hand sides.
func dedupeRows(std []stdRow, tol float64) (out []stdRow, ok bool) {
	seen := make(map[string]float64, len(std))
	out = std[:0]
	for _, r := range std {
		scale := 1.0
		if r.slack == 0 {
			for _, v := range r.coef {
				if v != 0 {
					scale = v
					break
				}
			}
		}
		var key strings.Builder
		key.WriteString(strconv.FormatFloat(r.slack, 'g', -1, 64))
		for _, v := range r.coef {
			key.WriteByte(',')
			key.WriteString(strconv.FormatFloat(v/scale, 'g', -1, 64))
		}
		rhs := r.rhs / scale
		if r.slack != 0 {
			key.WriteByte('|')
			key.WriteString(strconv.FormatFloat(rhs, 'g', -1, 64))
		}
		k := key.String()
		if prev, dup := seen[k]; dup {
			if abs(prev-rhs) > tol*(1+abs(prev)) {
				return nil, false
			}
			continue
		}
		seen[k] = rhs
		out = append(out, r)
	}

	return out, true
}

// distinctColumns returns the structural columns to keep, dropping any
// column whose entries and cost repeat an earlier one. A dropped column
// stays at zero; its twin can carry its whole value.
func distinctColumns(std []stdRow, cols []int, cost []float64) []int {
	seen := make(map[string]bool, len(cols))
	keep := make([]int, 0, len(cols))
	for c := range cols {
		var key strings.Builder
		key.WriteString(strconv.FormatFloat(cost[cols[c]], 'g', -1, 64))
		for _, r := range std {
			key.WriteByte(',')
			key.WriteString(strconv.FormatFloat(r.coef[c], 'g', -1, 64))
		}
		k := key.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		keep = append(keep, c)
	}

	return keep
}

// solve runs both phases and returns the structural values. A positive
// shift perturbs every rhs by a distinct tiny amount to break degenerate
// ties.
func (sf *standardForm) solve(o Options, shift float64) ([]float64, error) {
	m, k := len(sf.rows), len(sf.cols)
	nSlack, nArt := 0, 0
	for _, r := range sf.rows {
		if r.slack != 0 {
			nSlack++
		}
		if r.slack != 1 {
			nArt++
		}
	}
	n := k + nSlack + nArt

	A := mat.NewDense(m, n, nil)
	rhs := make([]float64, m)
	basis := make([]int, m)
	arts := make([]int, 0, nArt)
	s, a := k, k+nSlack
	maxRHS := 0.0
	for i, r := range sf.rows {
		for c, v := range r.coef {
			if v != 0 {
				A.Set(i, c, v)
			}
		}
		if r.slack != 0 {
			A.Set(i, s, r.slack)
			basis[i] = s
			s++
		}
		if r.slack != 1 {
			A.Set(i, a, 1)
			basis[i] = a
			arts = append(arts, a)
			a++
		}
		rhs[i] = r.rhs
		if shift > 0 {
			rhs[i] += shift * (1 + r.rhs) * float64(i+1) / float64(m)
		}
		maxRHS = math.Max(maxRHS, rhs[i])
	}
	tol := o.FeasibilityTol * (1 + maxRHS)

	c := make([]float64, n)
	if len(arts) > 0 {
		for _, j := range arts {
			c[j] = 1
		}
		infeas, _, err := simplexFrom(c, A, rhs, o.SimplexTol, basis)
		if err != nil {
			return nil, err
		}
		if infeas > tol {
			return nil, statusError{StatusInfeasible}
		}
	}

	scale := 1.0
	for j, v := range sf.cost {
		c[j] = v
		scale = math.Max(scale, abs(v))
	}
	big := bigMStart * scale
	for round := 1; ; round++ {
		for _, j := range arts {
			c[j] = big
		}
		_, x, err := simplexFrom(c, A, rhs, o.SimplexTol, basis)
		if err != nil {
			return nil, err
		}
		left := 0.0
		for _, j := range arts {
			left += x[j]
		}
		if left <= tol {
			return x[:k], nil
		}
		if round == bigMRounds {
			return nil, fmt.Errorf("%w: artificial columns remain at %g", ErrNumerical, left)
		}
		big *= bigMGrowth
	}
}

// simplexFrom calls lp.Simplex from the feasible basis and maps its
// errors onto statuses and ErrNumerical.
func simplexFrom(c []float64, A mat.Matrix, b []float64, tol float64, basis []int) (float64, []float64, error) {
	f, x, err := lp.Simplex(c, A, b, tol, basis)
	switch {
	case err == nil:
		return f, x, nil
	case errors.Is(err, lp.ErrUnbounded):
		return 0, nil, statusError{StatusUnbounded}
	case errors.Is(err, lp.ErrInfeasible):
		return 0, nil, statusError{StatusInfeasible}
	}

	return 0, nil, fmt.Errorf("%w: %v", ErrNumerical, err)
}
