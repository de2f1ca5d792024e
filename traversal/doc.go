// SPDX-License-Identifier: MIT

// Package traversal enumerates minimal precursor sets by walking the
// network backwards from the target, with the MILP solver used only to
// verify candidates.
//
// The walk runs on a many-to-one view: a reaction with k products becomes
// k single-product edges sharing its substrates, and every precursor gets
// an artificial source edge. A compound is satisfied by any of its
// producing edges; an edge needs all its substrates at once, so per-
// substrate results are combined by Cartesian union. Cycles end in stop
// compounds instead of recursing. With by-product cuts on, an edge whose
// reaction also yields a compound being produced further up ends in a
// by-product stop.
//
// Splitting loses the coupling between co-products, so candidates are
// verified by flux balance afterwards. Rejected candidates are merged
// pairwise, up to MaxK at a time, and re-verified. Accepted sets are kept
// in a precursor.Collection, an antichain under the configured rule.
//
// Key entry points:
//   - Enumerate(ctx, net, target, opts...): raw candidates, no solver.
//   - New(verifier, opts...).Run(ctx, net, target): the full search.
//   - Strategy: Run wired to an fba.Verifier and, optionally, to
//     constraint.Complete for early stopping.
//
// Options:
//   - WithMaxK(k)          combination bound (default 4).
//   - WithMaxDepth(d)      recursion bound (default unbounded).
//   - WithStopInByProducts(on) by-product cuts (default off).
//   - WithRule(r)          final minimality rule.
//   - WithCompleteness(fn) early-stop check between rounds.
//   - WithLogger(l)        zap logger.
//
// Complexity: exponential in the number of alternative routes in the
// worst case; the reduction after every visit keeps each level's result
// an antichain under reaction-subset minimality.
package traversal
