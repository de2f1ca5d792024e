// SPDX-License-Identifier: MIT

// Package netgen builds metabolic networks for tests, examples and
// benchmarks.
//
// Build composes Constructors over a fresh network:
//
//	net, err := netgen.Build(nil, []netgen.Option{netgen.WithTarget("T")},
//		netgen.Equations("R1: A -> X", "R2: B + X -> T"),
//		netgen.Mark(network.FlagUserPrecursor, "A", "B"),
//		netgen.MarkTarget())
//
// Shapes with known answers (Chain, FanIn, Ladder, Cycle) mark their own
// precursors and target. RandomSparse needs WithSeed and leaves precursor
// derivation to the caller.
//
// Constructors return sentinel errors (ErrTooSmall, ErrBadEquation,
// ErrNeedRandSource, ...) wrapped with context; option constructors panic
// on meaningless input.
package netgen
