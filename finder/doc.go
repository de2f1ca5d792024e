// SPDX-License-Identifier: MIT

// Package finder drives a precursor search over the targets of a network.
//
// An Engine takes one Strategy (constraint.Strategy or traversal.Strategy
// satisfy it) and, per run:
//
//   - works on a copy-on-write clone of the caller's network, so flags,
//     removals and synthetic compounds never leak back;
//   - derives topological precursors and drops forbidden ones;
//   - searches each target on its own clone (OneByOne) or all targets at
//     once through an artificial target (Joint);
//   - warns when a target lies outside the forward scope of the
//     precursors, and audits every result for nested solutions.
//
// Run returns a Report identified by a random RunID. Errors that
// invalidate the run (an inconsistent solution, an unknown compound,
// cancellation) abort it; any other strategy error is recorded on its
// TargetReport and the run moves on.
//
// Metrics keeps Prometheus collectors in a private registry; wrap the
// solver with Metrics.InstrumentSolver to count MILP calls by status.
package finder
