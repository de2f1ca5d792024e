// SPDX-License-Identifier: MIT
// File: network.go
// Role: Network storage, construction and identifier lookups.
// Layout:
//   - Compounds and reactions live in arenas addressed by stable integer
//     indices. Removal flags a slot; indices are never reused.
//   - Payloads (*Compound, *reaction) are immutable and shared between clones.
//   - Mutable state is split in two overlays (topology, flags), each copied
//     lazily on the first write after a Clone.
// Concurrency:
//   - A single RWMutex guards both overlays; readers never block each other.

package network

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// reaction is the arena entry for one hyperedge.
type reaction struct {
	payload *Reaction
	subs    []Stoich
	prods   []Stoich
}

// topology is the part of a Network that changes when compounds or
// reactions are added or removed.
type topology struct {
	compounds []*Compound
	cIndex    map[string]int
	reactions []*reaction
	rIndex    map[string]int

	reversible []bool
	reverse    []int // mirror reaction index, -1 if none
	removedC   []bool
	removedR   []bool

	producedBy  [][]int // compound index → producing reaction indices
	substrateOf [][]int // compound index → consuming reaction indices
}

func newTopology() *topology {
	return &topology{
		cIndex: make(map[string]int),
		rIndex: make(map[string]int),
	}
}

// clone copies every mutable slice and map; payload pointers are shared.
// Complexity: O(V + E).
func (t *topology) clone() *topology {
	c := &topology{
		compounds:   slices.Clone(t.compounds),
		cIndex:      make(map[string]int, len(t.cIndex)),
		reactions:   slices.Clone(t.reactions),
		rIndex:      make(map[string]int, len(t.rIndex)),
		reversible:  slices.Clone(t.reversible),
		reverse:     slices.Clone(t.reverse),
		removedC:    slices.Clone(t.removedC),
		removedR:    slices.Clone(t.removedR),
		producedBy:  make([][]int, len(t.producedBy)),
		substrateOf: make([][]int, len(t.substrateOf)),
	}
	for k, v := range t.cIndex {
		c.cIndex[k] = v
	}
	for k, v := range t.rIndex {
		c.rIndex[k] = v
	}
	for i := range t.producedBy {
		c.producedBy[i] = slices.Clone(t.producedBy[i])
		c.substrateOf[i] = slices.Clone(t.substrateOf[i])
	}

	return c
}

// Network is a compound/reaction hypergraph with per-compound flags.
//
// A Network is safe for concurrent readers. Clone is O(1): the clone and
// the original share storage until either side writes, at which point the
// writer copies only the overlay it touches (flags or topology).
type Network struct {
	mu   sync.RWMutex
	opts Options

	topo       *topology
	topoShared bool

	flags       []Flag
	flagsShared bool
}

// New creates an empty Network configured by opts.
// Complexity: O(1).
func New(opts ...Option) *Network {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Network{opts: o, topo: newTopology()}
}

// Options returns the immutable configuration of n.
func (n *Network) Options() Options { return n.opts }

// Clone returns an isolated copy of n that shares storage until written.
// Complexity: O(1).
func (n *Network) Clone() *Network {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topoShared, n.flagsShared = true, true

	return &Network{
		opts:        n.opts,
		topo:        n.topo,
		topoShared:  true,
		flags:       n.flags,
		flagsShared: true,
	}
}

// ownTopo makes the topology overlay private to n. Caller holds mu.
func (n *Network) ownTopo() {
	if n.topoShared {
		n.topo = n.topo.clone()
		n.topoShared = false
	}
}

// ownFlags makes the flag overlay private to n. Caller holds mu.
func (n *Network) ownFlags() {
	if n.flagsShared {
		n.flags = slices.Clone(n.flags)
		n.flagsShared = false
	}
}

// AddCompound inserts a copy of c with the given flags.
// Returns ErrEmptyID or ErrDuplicateCompound.
// Complexity: O(1) amortized (O(V) once after a Clone).
func (n *Network) AddCompound(c Compound, flags Flag) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.topo.cIndex[c.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCompound, c.ID)
	}
	n.ownTopo()
	n.ownFlags()

	payload := c
	if c.Atoms != nil {
		payload.Atoms = make(map[string]int, len(c.Atoms))
		for k, v := range c.Atoms {
			payload.Atoms[k] = v
		}
	}
	if flags.Has(FlagTarget) {
		flags &^= precursorMask
	}

	t := n.topo
	t.cIndex[c.ID] = len(t.compounds)
	t.compounds = append(t.compounds, &payload)
	t.removedC = append(t.removedC, false)
	t.producedBy = append(t.producedBy, nil)
	t.substrateOf = append(t.substrateOf, nil)
	n.flags = append(n.flags, flags)

	return nil
}

// AddReaction inserts r. When reversible is true a mirror reaction named
// r.ID+ReverseSuffix is inserted as well, with sides swapped, and the two
// are linked as reverse partners. Terms naming the same compound on one
// side are merged by summing their coefficients.
//
// Returns ErrEmptyID, ErrEmptyReaction, ErrBadCoefficient,
// ErrCompoundNotFound or ErrDuplicateReaction.
func (n *Network) AddReaction(r Reaction, reversible bool) error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if len(r.Substrates) == 0 && len(r.Products) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyReaction, r.ID)
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	mirrorID := r.ID + n.opts.ReverseSuffix
	if _, ok := n.topo.rIndex[r.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateReaction, r.ID)
	}
	if _, ok := n.topo.rIndex[mirrorID]; ok && reversible {
		return fmt.Errorf("%w: %q", ErrDuplicateReaction, mirrorID)
	}
	subs, err := n.resolveTerms(r.ID, r.Substrates)
	if err != nil {
		return err
	}
	prods, err := n.resolveTerms(r.ID, r.Products)
	if err != nil {
		return err
	}
	n.ownTopo()

	fwd := n.insertReaction(r, subs, prods)
	if !reversible {
		return nil
	}
	mirror := Reaction{
		ID:         mirrorID,
		Name:       r.Name,
		Substrates: r.Products,
		Products:   r.Substrates,
		Cofactors:  r.Cofactors,
	}
	rev := n.insertReaction(mirror, prods, subs)
	n.topo.reversible[fwd], n.topo.reversible[rev] = true, true
	n.topo.reverse[fwd], n.topo.reverse[rev] = rev, fwd

	return nil
}

// resolveTerms validates and merges terms. Caller holds mu.
func (n *Network) resolveTerms(rid string, terms []Term) ([]Stoich, error) {
	out := make([]Stoich, 0, len(terms))
	pos := make(map[int]int, len(terms))
	for _, t := range terms {
		if !(t.Coef > 0) || math.IsInf(t.Coef, 0) {
			return nil, fmt.Errorf("%w: reaction %q, compound %q", ErrBadCoefficient, rid, t.Compound)
		}
		ci, ok := n.topo.cIndex[t.Compound]
		if !ok || n.topo.removedC[ci] {
			return nil, fmt.Errorf("%w: %q (reaction %q)", ErrCompoundNotFound, t.Compound, rid)
		}
		if p, dup := pos[ci]; dup {
			out[p].Coef += t.Coef
			continue
		}
		pos[ci] = len(out)
		out = append(out, Stoich{Compound: ci, Coef: t.Coef})
	}

	return out, nil
}

// insertReaction appends one directed reaction and wires adjacency.
// Caller holds mu and owns the topology.
func (n *Network) insertReaction(r Reaction, subs, prods []Stoich) int {
	t := n.topo
	payload := &Reaction{
		ID:        r.ID,
		Name:      r.Name,
		Cofactors: slices.Clone(r.Cofactors),
	}
	for _, s := range subs {
		payload.Substrates = append(payload.Substrates, Term{Compound: t.compounds[s.Compound].ID, Coef: s.Coef})
	}
	for _, p := range prods {
		payload.Products = append(payload.Products, Term{Compound: t.compounds[p.Compound].ID, Coef: p.Coef})
	}

	ri := len(t.reactions)
	t.rIndex[r.ID] = ri
	t.reactions = append(t.reactions, &reaction{payload: payload, subs: subs, prods: prods})
	t.reversible = append(t.reversible, false)
	t.reverse = append(t.reverse, -1)
	t.removedR = append(t.removedR, false)
	for _, s := range subs {
		t.substrateOf[s.Compound] = append(t.substrateOf[s.Compound], ri)
	}
	for _, p := range prods {
		t.producedBy[p.Compound] = append(t.producedBy[p.Compound], ri)
	}

	return ri
}

// compoundIndex resolves a live compound. Caller holds mu.
func (n *Network) compoundIndex(id string) (int, error) {
	if id == "" {
		return -1, ErrEmptyID
	}
	ci, ok := n.topo.cIndex[id]
	if !ok || n.topo.removedC[ci] {
		return -1, fmt.Errorf("%w: %q", ErrCompoundNotFound, id)
	}

	return ci, nil
}

// reactionIndex resolves a live reaction. Caller holds mu.
func (n *Network) reactionIndex(id string) (int, error) {
	if id == "" {
		return -1, ErrEmptyID
	}
	ri, ok := n.topo.rIndex[id]
	if !ok || n.topo.removedR[ri] {
		return -1, fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}

	return ri, nil
}

// Compound returns the payload of a live compound.
func (n *Network) Compound(id string) (*Compound, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ci, err := n.compoundIndex(id)
	if err != nil {
		return nil, err
	}

	return n.topo.compounds[ci], nil
}

// HasCompound reports whether a live compound with the given ID exists.
func (n *Network) HasCompound(id string) bool {
	_, err := n.Compound(id)
	return err == nil
}

// Reaction returns the payload of a live reaction.
func (n *Network) Reaction(id string) (*Reaction, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ri, err := n.reactionIndex(id)
	if err != nil {
		return nil, err
	}

	return n.topo.reactions[ri].payload, nil
}

// IsReversible reports whether the live reaction id has a mirror partner.
func (n *Network) IsReversible(id string) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ri, err := n.reactionIndex(id)
	if err != nil {
		return false, err
	}

	return n.topo.reversible[ri], nil
}

// ReverseOf returns the ID of the mirror partner of id, if any.
func (n *Network) ReverseOf(id string) (string, bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ri, err := n.reactionIndex(id)
	if err != nil {
		return "", false, err
	}
	rev := n.topo.reverse[ri]
	if rev < 0 {
		return "", false, nil
	}

	return n.topo.reactions[rev].payload.ID, true, nil
}

// Compounds returns the live compounds in insertion order.
// Complexity: O(V).
func (n *Network) Compounds() []*Compound {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Compound, 0, len(n.topo.compounds))
	for i, c := range n.topo.compounds {
		if !n.topo.removedC[i] {
			out = append(out, c)
		}
	}

	return out
}

// Reactions returns the live reactions in insertion order.
// Complexity: O(E).
func (n *Network) Reactions() []*Reaction {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Reaction, 0, len(n.topo.reactions))
	for i, r := range n.topo.reactions {
		if !n.topo.removedR[i] {
			out = append(out, r.payload)
		}
	}

	return out
}

// NumCompounds returns the number of live compounds.
func (n *Network) NumCompounds() int { return len(n.Compounds()) }

// NumReactions returns the number of live reactions.
func (n *Network) NumReactions() int { return len(n.Reactions()) }
