// SPDX-License-Identifier: MIT
// File: topology.go
// Role: Graph-shape derivations: topological precursors and forward scope.

package network

import "context"

// MarkTopologicalPrecursors flags as topological precursor every live
// non-target compound that
//
//  1. has no producing reaction, or
//  2. (ReversibleRule only) has exactly one producer, that producer is
//     reversible, and the compound has exactly one consumer.
//
// Returns the IDs newly flagged, in insertion order.
// Complexity: O(V).
func (n *Network) MarkTopologicalPrecursors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var marked []string
	t := n.topo
	for ci, c := range t.compounds {
		f := n.flags[ci]
		if t.removedC[ci] || f.Has(FlagTarget) || f.Has(FlagTopologicalPrecursor) {
			continue
		}
		prod := t.producedBy[ci]
		source := len(prod) == 0
		if !source && n.opts.ReversibleRule {
			source = len(prod) == 1 && t.reversible[prod[0]] && len(t.substrateOf[ci]) == 1
		}
		if source {
			n.ownFlags()
			n.flags[ci] |= FlagTopologicalPrecursor
			marked = append(marked, c.ID)
		}
	}

	return marked
}

// ClearTopologicalPrecursors removes the derived precursor bit everywhere.
func (n *Network) ClearTopologicalPrecursors() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ownFlags()
	for i := range n.flags {
		n.flags[i] &^= FlagTopologicalPrecursor
	}
}

// Scope is the forward closure of a seed set: every compound reachable by
// firing reactions whose substrates are all available, starting from the
// seeds.
type Scope struct {
	// Compounds lists reachable compound IDs in discovery order (seeds first).
	Compounds []string
	// Reactions lists fired reaction IDs in firing order.
	Reactions []string
	reached   map[string]struct{}
}

// Contains reports whether compound id is in the scope.
func (s *Scope) Contains(id string) bool {
	_, ok := s.reached[id]
	return ok
}

// ForwardScope computes the scope of seeds by breadth-first propagation.
// A reaction fires once its last missing substrate becomes available; a
// reaction without substrates fires immediately. Unknown seeds return
// ErrCompoundNotFound. Cancellation is checked once per dequeued compound.
//
// Complexity: O(V + Σ|reaction|).
func (n *Network) ForwardScope(ctx context.Context, seeds []string) (*Scope, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	t := n.topo

	// missing[r] counts substrates of r not yet reached (side table).
	missing := make([]int, len(t.reactions))
	reached := make([]bool, len(t.compounds))
	fired := make([]bool, len(t.reactions))
	queue := make([]int, 0, len(seeds))
	res := &Scope{reached: make(map[string]struct{})}

	reach := func(ci int) {
		if reached[ci] {
			return
		}
		reached[ci] = true
		res.reached[t.compounds[ci].ID] = struct{}{}
		res.Compounds = append(res.Compounds, t.compounds[ci].ID)
		queue = append(queue, ci)
	}
	fire := func(ri int) {
		fired[ri] = true
		res.Reactions = append(res.Reactions, t.reactions[ri].payload.ID)
		for _, p := range t.reactions[ri].prods {
			reach(p.Compound)
		}
	}

	for _, id := range seeds {
		ci, err := n.compoundIndex(id)
		if err != nil {
			return nil, err
		}
		reach(ci)
	}
	for ri, r := range t.reactions {
		missing[ri] = len(r.subs)
		if !t.removedR[ri] && missing[ri] == 0 {
			fire(ri)
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ci := queue[0]
		queue = queue[1:]
		for _, ri := range t.substrateOf[ci] {
			if fired[ri] {
				continue
			}
			missing[ri]--
			if missing[ri] == 0 {
				fire(ri)
			}
		}
	}

	return res, nil
}
