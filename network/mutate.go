// SPDX-License-Identifier: MIT
// File: mutate.go
// Role: Flag updates, removals and synthetic target injection.
// Invariants:
//   - producedBy/substrateOf always list exactly the live reactions touching
//     a compound; RemoveReaction detaches from both sides.
//   - A target never carries precursor or bootstrap bits.

package network

import (
	"fmt"
	"slices"
)

// Artificial target identifiers used when several targets are searched jointly.
const (
	ArtificialTargetID       = "__TARGET__"
	ArtificialTargetReaction = "__TARGET_REACTION__"
)

// Flags returns the flags of a live compound.
func (n *Network) Flags(id string) (Flag, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return 0, err
	}

	return n.flags[ci], nil
}

// Is reports whether compound id carries every bit of f. Unknown
// compounds report false.
func (n *Network) Is(id string, f Flag) bool {
	got, err := n.Flags(id)
	return err == nil && got.Has(f)
}

// IsPrecursor reports whether id is a precursor: user-designated or
// topological, or user-designated only under WithUserDefinedOnly.
func (n *Network) IsPrecursor(id string) bool {
	got, err := n.Flags(id)
	return err == nil && n.isPrecursor(got)
}

// SetFlag sets (on=true) or clears the bits f on compound id.
// Precursor and bootstrap bits are silently ignored on a target, and
// setting FlagTarget clears them.
func (n *Network) SetFlag(id string, f Flag, on bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return err
	}
	n.ownFlags()
	cur := n.flags[ci]
	if !on {
		n.flags[ci] = cur &^ f
		return nil
	}
	if cur.Has(FlagTarget) || f.Has(FlagTarget) {
		cur &^= precursorMask
		f &^= precursorMask
	}
	n.flags[ci] = cur | f

	return nil
}

// compoundsWith lists refs of live compounds accepted by keep. Caller holds mu.
func (n *Network) compoundsWith(keep func(Flag) bool) []Ref {
	var out []Ref
	for i, c := range n.topo.compounds {
		if !n.topo.removedC[i] && keep(n.flags[i]) {
			out = append(out, c.Ref())
		}
	}

	return out
}

// Precursors returns the precursor compounds in insertion order.
func (n *Network) Precursors() []Ref {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.compoundsWith(n.isPrecursor)
}

// Bootstraps returns the bootstrap compounds in insertion order.
func (n *Network) Bootstraps() []Ref {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.compoundsWith(func(f Flag) bool { return f.Has(FlagBootstrap) })
}

// Targets returns the target compounds in insertion order.
func (n *Network) Targets() []Ref {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.compoundsWith(func(f Flag) bool { return f.Has(FlagTarget) })
}

// RemoveReaction detaches reaction id from every compound adjacency list.
// If id has a reversible partner, the partner stays and is demoted to an
// irreversible reaction.
// Complexity: O(Σ deg(c)) over the compounds of the reaction.
func (n *Network) RemoveReaction(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	ri, err := n.reactionIndex(id)
	if err != nil {
		return err
	}
	n.ownTopo()
	n.detach(ri)

	return nil
}

// detach removes reaction ri. Caller holds mu and owns the topology.
func (n *Network) detach(ri int) {
	t := n.topo
	drop := func(list []int) []int {
		return slices.DeleteFunc(list, func(x int) bool { return x == ri })
	}
	for _, s := range t.reactions[ri].subs {
		t.substrateOf[s.Compound] = drop(t.substrateOf[s.Compound])
	}
	for _, p := range t.reactions[ri].prods {
		t.producedBy[p.Compound] = drop(t.producedBy[p.Compound])
	}
	if rev := t.reverse[ri]; rev >= 0 {
		t.reversible[rev] = false
		t.reverse[rev] = -1
	}
	t.reversible[ri] = false
	t.reverse[ri] = -1
	t.removedR[ri] = true
}

// RemoveCompound removes compound id together with every reaction that
// produces or consumes it.
func (n *Network) RemoveCompound(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return err
	}
	n.ownTopo()
	n.removeCompound(ci)

	return nil
}

// removeCompound drops ci and its reactions. Caller holds mu and owns the topology.
func (n *Network) removeCompound(ci int) {
	t := n.topo
	touching := append(slices.Clone(t.producedBy[ci]), t.substrateOf[ci]...)
	for _, ri := range touching {
		if !t.removedR[ri] {
			n.detach(ri)
		}
	}
	t.removedC[ci] = true
}

// RemoveForbiddenPrecursors removes every precursor flagged FlagForbidden
// with its reactions and returns the removed IDs.
func (n *Network) RemoveForbiddenPrecursors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var removed []string
	for ci, c := range n.topo.compounds {
		if n.topo.removedC[ci] {
			continue
		}
		f := n.flags[ci]
		if f.Has(FlagForbidden) && n.isPrecursor(f) {
			n.ownTopo()
			n.removeCompound(ci)
			removed = append(removed, c.ID)
		}
	}

	return removed
}

// AddArtificialTarget joins several targets into one synthetic compound
// produced by a reaction that consumes one unit of each target. The
// original targets lose their target flag and become ordinary
// intermediates. Returns the ID of the synthetic compound.
func (n *Network) AddArtificialTarget(targets []string) (string, error) {
	if len(targets) == 0 {
		return "", fmt.Errorf("%w: no targets", ErrEmptyID)
	}
	for _, t := range targets {
		if !n.HasCompound(t) {
			return "", fmt.Errorf("%w: target %q", ErrCompoundNotFound, t)
		}
	}
	err := n.AddCompound(Compound{ID: ArtificialTargetID, Name: ArtificialTargetID}, FlagTarget)
	if err != nil {
		return "", err
	}
	subs := make([]Term, 0, len(targets))
	for _, t := range targets {
		subs = append(subs, Term{Compound: t, Coef: 1})
		if err = n.SetFlag(t, FlagTarget, false); err != nil {
			return "", err
		}
	}
	r := Reaction{
		ID:         ArtificialTargetReaction,
		Substrates: subs,
		Products:   []Term{{Compound: ArtificialTargetID, Coef: 1}},
	}
	if err = n.AddReaction(r, false); err != nil {
		return "", err
	}

	return ArtificialTargetID, nil
}
