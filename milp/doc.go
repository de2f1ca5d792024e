// SPDX-License-Identifier: MIT

// Package milp is the mixed-integer linear programming layer: a Model
// builder, the Solver interface consumed by the search and verification
// packages, and BranchAndBound, a pure-Go solver over gonum's simplex.
//
// Model:
//
//   - Variables are Continuous or Binary with a finite lower bound and an
//     optional (+Inf) upper bound.
//   - Constraints are linear (LessEq, GreaterEq, Equal), indicator
//     ((ind == active) ⇒ c) or disjunctive (a ∨ b).
//   - Construction never fails eagerly: the first invalid input is kept
//     and returned by Model.Err and by every solve.
//
// Solving:
//
//   - Solve returns a Solution with a Status. Infeasible and unbounded
//     models are statuses, not errors.
//   - A context deadline turns into StatusTimeLimit; cancellation is an
//     error.
//   - Populate enumerates distinct binary patterns within an objective gap
//     of the optimum, which is how a batch of equal-size answers is
//     obtained in one call.
//
// Example:
//
//	m := milp.NewModel()
//	x := m.Binary("x")
//	y := m.Binary("y")
//	m.AddConstraint(milp.Constraint{Terms: []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, Sense: milp.GreaterEq, RHS: 1})
//	m.Minimize(milp.Term{Var: x, Coef: 2}, milp.Term{Var: y, Coef: 1})
//	sol, _ := milp.NewSolver().Solve(ctx, m) // y = 1
package milp
