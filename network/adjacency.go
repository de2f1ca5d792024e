// SPDX-License-Identifier: MIT
// File: adjacency.go
// Role: Producer/consumer queries and the index-level read API used by
//       algorithms that keep their own side tables.

package network

import "slices"

// ProducersOf returns the IDs of live reactions producing id. When
// considerRev is true, reversible reactions consuming id are included as
// well, since their mirror direction produces it.
// Returns ErrCompoundNotFound for unknown compounds.
// Complexity: O(deg(id)).
func (n *Network) ProducersOf(id string, considerRev bool) ([]string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return nil, err
	}

	return n.reactionIDs(n.topo.producedBy[ci], n.topo.substrateOf[ci], considerRev), nil
}

// ConsumersOf returns the IDs of live reactions consuming id. When
// considerRev is true, reversible reactions producing id are included.
// Returns ErrCompoundNotFound for unknown compounds.
// Complexity: O(deg(id)).
func (n *Network) ConsumersOf(id string, considerRev bool) ([]string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return nil, err
	}

	return n.reactionIDs(n.topo.substrateOf[ci], n.topo.producedBy[ci], considerRev), nil
}

// reactionIDs lists primary, then reversible members of other not yet listed.
func (n *Network) reactionIDs(primary, other []int, considerRev bool) []string {
	out := make([]string, 0, len(primary))
	seen := make(map[int]struct{}, len(primary))
	for _, ri := range primary {
		seen[ri] = struct{}{}
		out = append(out, n.topo.reactions[ri].payload.ID)
	}
	if !considerRev {
		return out
	}
	for _, ri := range other {
		if _, ok := seen[ri]; ok || !n.topo.reversible[ri] {
			continue
		}
		out = append(out, n.topo.reactions[ri].payload.ID)
	}

	return out
}

// CompoundIndex returns the arena index of a live compound.
func (n *Network) CompoundIndex(id string) (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.compoundIndex(id)
}

// ReactionIndex returns the arena index of a live reaction.
func (n *Network) ReactionIndex(id string) (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.reactionIndex(id)
}

// CompoundSlots returns the arena size for compounds, removed slots
// included. Side tables indexed by compound index use this length.
func (n *Network) CompoundSlots() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.topo.compounds)
}

// ReactionSlots returns the arena size for reactions, removed slots included.
func (n *Network) ReactionSlots() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.topo.reactions)
}

// CompoundAt returns the payload at index i and whether the slot is live.
func (n *Network) CompoundAt(i int) (*Compound, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if i < 0 || i >= len(n.topo.compounds) {
		return nil, false
	}

	return n.topo.compounds[i], !n.topo.removedC[i]
}

// ReactionAt returns the payload at index i and whether the slot is live.
func (n *Network) ReactionAt(i int) (*Reaction, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if i < 0 || i >= len(n.topo.reactions) {
		return nil, false
	}

	return n.topo.reactions[i].payload, !n.topo.removedR[i]
}

// LiveCompounds returns the indices of live compounds in ascending order.
func (n *Network) LiveCompounds() []int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]int, 0, len(n.topo.compounds))
	for i := range n.topo.compounds {
		if !n.topo.removedC[i] {
			out = append(out, i)
		}
	}

	return out
}

// LiveReactions returns the indices of live reactions in ascending order.
func (n *Network) LiveReactions() []int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]int, 0, len(n.topo.reactions))
	for i := range n.topo.reactions {
		if !n.topo.removedR[i] {
			out = append(out, i)
		}
	}

	return out
}

// ProducedByAt returns a copy of the producer indices of compound i.
func (n *Network) ProducedByAt(i int) []int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return slices.Clone(n.topo.producedBy[i])
}

// SubstrateOfAt returns a copy of the consumer indices of compound i.
func (n *Network) SubstrateOfAt(i int) []int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return slices.Clone(n.topo.substrateOf[i])
}

// SubstratesAt returns the substrate terms of reaction i. The slice is
// shared and must not be modified.
func (n *Network) SubstratesAt(i int) []Stoich {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.topo.reactions[i].subs
}

// ProductsAt returns the product terms of reaction i. The slice is shared
// and must not be modified.
func (n *Network) ProductsAt(i int) []Stoich {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.topo.reactions[i].prods
}

// ReverseAt returns the mirror index of reaction i, or -1.
func (n *Network) ReverseAt(i int) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.topo.reverse[i]
}

// FlagsAt returns the flags of compound i.
func (n *Network) FlagsAt(i int) Flag {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.flags[i]
}

// IsPrecursorAt reports whether compound i is a precursor under the
// network options.
func (n *Network) IsPrecursorAt(i int) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.isPrecursor(n.flags[i])
}

// isPrecursor applies the UserDefinedOnly option to f.
func (n *Network) isPrecursor(f Flag) bool {
	if n.opts.UserDefinedOnly {
		return f&FlagUserPrecursor != 0
	}

	return f&(FlagUserPrecursor|FlagTopologicalPrecursor) != 0
}

// NetCoefficientAt returns products minus substrates of compound c in
// reaction r. Zero when c does not take part in r.
func (n *Network) NetCoefficientAt(c, r int) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var net float64
	rx := n.topo.reactions[r]
	for _, p := range rx.prods {
		if p.Compound == c {
			net += p.Coef
		}
	}
	for _, s := range rx.subs {
		if s.Compound == c {
			net -= s.Coef
		}
	}

	return net
}
