// Package precursor holds the solution representation of the search
// engine and the antichain (minimal set) maintenance shared by every
// search strategy.
//
// A Set records the precursors a solution needs, the bootstraps it
// assumes, and optional detail: reactions used, cumulated compounds,
// by-products, and the stop compounds where a traversal branch was cut.
//
// Minimality is decided by a Rule:
//
//	PrecursorSubset     B dominates A when P(B) ⊆ P(A); equal precursor
//	                    sets fall back to bootstraps, then reaction count.
//	PrecursorBootstrap  B dominates A when P(B)∪Boot(B) ⊆ P(A)∪Boot(A).
//	ReactionSubset      every member set of B, reactions included, is
//	                    contained in A's.
//
// Reduce filters a batch in O(N²) pair checks against hash indices.
// Collection maintains an antichain incrementally, one Add at a time.
package precursor
