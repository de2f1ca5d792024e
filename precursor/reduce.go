// SPDX-License-Identifier: MIT
// File: reduce.go
// Role: Batch antichain reduction and the minimality audit.

package precursor

import "github.com/katalvlaran/precursor/network"

// Reduce keeps the members of sets that no other kept member dominates
// under rule, preserving input order.
//
// Steps:
//  1. Build a hash index of the compared members of every candidate.
//  2. For each ordered pair (i, j), i≠j: if j is not flagged and j
//     dominates i, flag i. The flag table is local to this call.
//  3. Return the unflagged candidates.
//
// With a non-strict rule, a group of equal candidates keeps exactly one
// survivor (the last one in input order). Reduce is idempotent.
//
// Complexity: Time O(N²·k) for N candidates of size ≤ k, Memory O(N·k).
func Reduce(sets []*Set, rule Rule) []*Set {
	n := len(sets)
	if n < 2 {
		return append([]*Set(nil), sets...)
	}

	// 1) Index.
	members := make([][]network.Ref, n)
	index := make([]map[network.Ref]struct{}, n)
	for i, s := range sets {
		members[i] = rule.compared(s)
		index[i] = make(map[network.Ref]struct{}, len(members[i]))
		for _, r := range members[i] {
			index[i][r] = struct{}{}
		}
	}
	subset := func(j, i int) bool {
		if len(members[j]) > len(members[i]) {
			return false
		}
		for _, r := range members[j] {
			if _, ok := index[i][r]; !ok {
				return false
			}
		}

		return true
	}

	// 2) Flag dominated candidates.
	dominated := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || dominated[j] || !subset(j, i) {
				continue
			}
			// Proper subsets settle immediately; equal-size pairs need the
			// rule's tie-breaks.
			if len(members[j]) < len(members[i]) && rule.Definition != ReactionSubset {
				dominated[i] = true
				break
			}
			if rule.Dominates(sets[j], sets[i]) {
				dominated[i] = true
				break
			}
		}
	}

	// 3) Collect survivors.
	out := make([]*Set, 0, n)
	for i, s := range sets {
		if !dominated[i] {
			out = append(out, s)
		}
	}

	return out
}

// Violation names two positions whose precursor sets are nested.
type Violation struct {
	Subset, Superset int
}

// AntichainViolations returns every ordered pair (i, j) where the
// precursor set of sets[i] is a non-strict subset of that of sets[j].
// An empty result means sets is an antichain.
// Complexity: O(N²·k).
func AntichainViolations(sets []*Set) []Violation {
	var out []Violation
	for i := range sets {
		for j := range sets {
			if i != j && sets[i].precursors.subsetOf(sets[j].precursors) {
				out = append(out, Violation{Subset: i, Superset: j})
			}
		}
	}

	return out
}

// Violations returns every ordered pair (i, j) where sets[i] dominates
// sets[j] under r. An empty result means sets is minimal under r.
// Complexity: O(N²·k).
func (r Rule) Violations(sets []*Set) []Violation {
	var out []Violation
	for i := range sets {
		for j := range sets {
			if i != j && r.Dominates(sets[i], sets[j]) {
				out = append(out, Violation{Subset: i, Superset: j})
			}
		}
	}

	return out
}
