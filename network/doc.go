// Package network provides the metabolic hypergraph consumed by the
// precursor search engine: compounds are nodes, reactions are hyperedges
// with a substrate multiset and a product multiset.
//
// Storage model:
//
//   - Compounds and reactions live in arenas addressed by stable integer
//     indices. Algorithms keep their transient annotations (visited marks,
//     counters, Tarjan indices, ...) in side tables indexed by these
//     integers instead of on the nodes.
//   - Compound and reaction payloads are immutable once inserted and are
//     shared between clones.
//   - Clone is O(1). Flags and topology are copy-on-write overlays, so a
//     per-target copy that only re-flags compounds pays O(V), and one that
//     adds a synthetic reaction pays O(V + E), only on its first write.
//
// Reversibility:
//
//	AddReaction(r, true) inserts r and its mirror r+"_REV". The pair is
//	linked; removing one demotes the other to irreversible.
//
// Precursors:
//
//	A compound is a precursor iff it is user-designated or topological
//	(WithUserDefinedOnly restricts to the former). MarkTopologicalPrecursors
//	derives the topological bit from the graph shape. Targets never carry
//	precursor or bootstrap bits.
//
// Identity:
//
//	Ref{ID, Name} is the value identity of a compound; results built on one
//	network copy compare equal to results built on another.
//
// Concurrency:
//
//	All methods are safe for concurrent use. Index-level readers
//	(ProducedByAt, SubstratesAt, ...) take a read lock per call.
package network
