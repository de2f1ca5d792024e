// SPDX-License-Identifier: MIT

// Package fba verifies candidate precursor sets with a flux-balance linear
// program: given the compounds available from outside, how much net
// production of the target can the network sustain?
//
// A Verifier is bound to a snapshot of a network taken at construction
// time. Productions are memoized in an LRU cache keyed by the target and
// the sorted source and bootstrap IDs, so re-checking a candidate that a
// search strategy produced twice costs nothing. CheckAll fans requests out
// over a bounded number of goroutines.
//
// Acceptance:
//
//   - default: production > 0 (up to solver noise);
//   - Strict: production >= Epsilon1.
//
// Compounds flagged bootstrap in the network are always available.
package fba
