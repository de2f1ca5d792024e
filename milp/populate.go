// SPDX-License-Identifier: MIT
// File: populate.go
// Role: solution-pool enumeration by repeated solves with no-good cuts.
// Steps:
//   1. Solve a private clone of the model.
//   2. Record the assignment and cut off its binary pattern:
//      Σ_{v=0} x_v + Σ_{v=1} (1 - x_v) >= 1.
//   3. Repeat until the pool is full, the model turns infeasible, or the
//      next optimum falls outside the gap.
// Status:
//   - StatusOptimal when enumeration ended on its own terms; otherwise the
//     limiting status (time or node limit) with the members found so far.

package milp

import (
	"context"
	"fmt"
	"math"
)

// Populate implements Solver.
func (b *BranchAndBound) Populate(ctx context.Context, m *Model, params PoolParams) (Pool, error) {
	if err := m.Err(); err != nil {
		return Pool{}, err
	}
	if params.Capacity <= 0 {
		params.Capacity = DefaultPoolParams().Capacity
	}
	if params.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.TimeLimit)
		defer cancel()
	}

	work := m.Clone()
	pool := Pool{Status: StatusOptimal}
	var best float64
	for round := 0; len(pool.Solutions) < params.Capacity; round++ {
		sol, err := b.Solve(ctx, work)
		if err != nil {
			return pool, err
		}
		switch sol.Status {
		case StatusOptimal:
		case StatusInfeasible:
			if round == 0 {
				pool.Status = StatusInfeasible
			}
			return pool, nil
		default:
			pool.Status = sol.Status
			return pool, nil
		}

		obj := sol.Objective
		if round == 0 {
			best = obj
		} else if outsideGap(obj, best, params, m.maximize) {
			return pool, nil
		}
		pool.Solutions = append(pool.Solutions, sol)

		cut, ok := noGood(work, sol.Values, round)
		if !ok {
			// Without binaries the pattern cannot be excluded.
			return pool, nil
		}
		work.AddConstraint(cut)
	}

	return pool, nil
}

func outsideGap(obj, best float64, p PoolParams, maximize bool) bool {
	gap := math.Max(p.AbsGap, p.RelGap*abs(best))
	if maximize {
		return obj < best-gap
	}

	return obj > best+gap
}

func noGood(m *Model, values []float64, round int) (Constraint, bool) {
	c := Constraint{Name: fmt.Sprintf("nogood_%d", round), Sense: GreaterEq, RHS: 1}
	for j, v := range m.vars {
		if v.kind != Binary {
			continue
		}
		if values[j] >= 0.5 {
			c.Terms = append(c.Terms, Term{Var: Var(j), Coef: -1})
			c.RHS--
		} else {
			c.Terms = append(c.Terms, Term{Var: Var(j), Coef: 1})
		}
	}

	return c, len(c.Terms) > 0
}
