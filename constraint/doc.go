// SPDX-License-Identifier: MIT

// Package constraint enumerates minimal precursor sets with a
// mixed-integer program.
//
// Build turns a network and a target into a program whose feasible points
// are flux distributions fed by a chosen subset of the candidate sources;
// minimizing the number of chosen sources yields a minimum-cardinality
// precursor set. An Enumerator then alternates solving and excluding:
// after a set S is found, Σ ind[S] <= |S| - 1 forbids S and all of its
// supersets, so every later answer is a new minimal set. Constraints are
// only ever appended; the program of a target is built once.
//
// Variants (Variant.Kind) change the rows of the program, never the
// protocol: Normal, DuplicatingMachinery and SteadyState.
//
// Population mode asks the solver for a pool of equal-size answers per
// call. A pool is only trusted when it is proven optimal and every
// objective is integral; otherwise the enumerator falls back to one
// answer per solve for the rest of the target.
//
// Example:
//
//	e, _ := constraint.NewEnumerator(net, "T", milp.NewSolver(), constraint.DefaultConfig())
//	sets, err := e.All(ctx)
package constraint
