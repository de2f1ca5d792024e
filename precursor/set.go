// SPDX-License-Identifier: MIT
// File: set.go
// Role: Set, the candidate/accepted solution unit.
// Lifecycle:
//   - Built by a search step via Add*/Merge, combined with Union.
//   - Frozen when accepted into a Collection; a frozen Set panics on
//     mutation. Extend a frozen Set through Clone.

package precursor

import (
	"errors"
	"strings"

	"github.com/katalvlaran/precursor/network"
)

// ErrFrozen is the panic value raised when a frozen Set is mutated.
var ErrFrozen = errors.New("precursor: set is frozen")

// Status is a bit set of traversal bookkeeping flags.
type Status uint8

const (
	// StoppedPremature marks a branch cut at an already visited compound.
	StoppedPremature Status = 1 << iota
	// ReachedSizeK marks a branch cut by the depth bound.
	ReachedSizeK
	// PositiveZeroCycle marks a solution relying on a self-feeding cycle.
	PositiveZeroCycle
)

func refCmp(a, b network.Ref) int { return a.Compare(b) }

func newRefs() ordset[network.Ref] { return ordset[network.Ref]{cmp: refCmp} }

func newIDs() ordset[string] { return ordset[string]{cmp: strings.Compare} }

// Set is a precursor set: the compounds that must be supplied, the
// bootstraps assumed available, and optional derivation detail.
//
// Equality (Equal, Key) covers precursors, bootstraps and stop compounds
// only; two routes through different reactions are the same solution.
type Set struct {
	precursors ordset[network.Ref]
	bootstraps ordset[network.Ref]
	reactions  ordset[string]
	cumulated  ordset[network.Ref]
	byProducts ordset[network.Ref]
	visited    ordset[network.Ref]
	stopSubstr ordset[network.Ref]
	stopByProd ordset[network.Ref]
	status     Status
	frozen     bool
}

// New returns an empty Set.
func New() *Set {
	return &Set{
		precursors: newRefs(),
		bootstraps: newRefs(),
		reactions:  newIDs(),
		cumulated:  newRefs(),
		byProducts: newRefs(),
		visited:    newRefs(),
		stopSubstr: newRefs(),
		stopByProd: newRefs(),
	}
}

// Of returns a Set holding the given precursors.
func Of(precursors ...network.Ref) *Set {
	s := New()
	for _, p := range precursors {
		s.precursors.add(p)
	}

	return s
}

func (s *Set) mutable() {
	if s.frozen {
		panic(ErrFrozen)
	}
}

// Freeze forbids further mutation. Idempotent.
func (s *Set) Freeze() { s.frozen = true }

// Frozen reports whether s was frozen.
func (s *Set) Frozen() bool { return s.frozen }

// AddPrecursor adds a precursor compound.
func (s *Set) AddPrecursor(r network.Ref) { s.mutable(); s.precursors.add(r) }

// AddBootstrap adds a bootstrap compound.
func (s *Set) AddBootstrap(r network.Ref) { s.mutable(); s.bootstraps.add(r) }

// AddReaction records a reaction used by the solution.
func (s *Set) AddReaction(id string) { s.mutable(); s.reactions.add(id) }

// AddCumulated records a compound with positive net production.
func (s *Set) AddCumulated(r network.Ref) { s.mutable(); s.cumulated.add(r) }

// AddByProduct records a by-product; precursors of s are skipped.
func (s *Set) AddByProduct(r network.Ref) {
	s.mutable()
	if !s.precursors.contains(r) {
		s.byProducts.add(r)
	}
}

// AddVisited records a compound explored on the way to this solution.
func (s *Set) AddVisited(r network.Ref) { s.mutable(); s.visited.add(r) }

// AddStopSubstrate records a substrate whose exploration was cut.
func (s *Set) AddStopSubstrate(r network.Ref) { s.mutable(); s.stopSubstr.add(r) }

// AddStopByProduct records a by-product whose exploration was cut.
func (s *Set) AddStopByProduct(r network.Ref) { s.mutable(); s.stopByProd.add(r) }

// Mark sets status bits.
func (s *Set) Mark(st Status) { s.mutable(); s.status |= st }

// Status returns the status bits.
func (s *Set) Status() Status { return s.status }

// Merge adds every member and status bit of o to s.
// Complexity: O(|s| + |o|) per component.
func (s *Set) Merge(o *Set) {
	s.mutable()
	s.precursors.merge(o.precursors)
	s.bootstraps.merge(o.bootstraps)
	s.reactions.merge(o.reactions)
	s.cumulated.merge(o.cumulated)
	s.byProducts.merge(o.byProducts)
	s.visited.merge(o.visited)
	s.stopSubstr.merge(o.stopSubstr)
	s.stopByProd.merge(o.stopByProd)
	s.status |= o.status
}

// Union returns a new unfrozen Set holding s ∪ o.
func (s *Set) Union(o *Set) *Set {
	u := s.Clone()
	u.Merge(o)

	return u
}

// Clone returns an unfrozen deep copy of s.
func (s *Set) Clone() *Set {
	return &Set{
		precursors: s.precursors.clone(),
		bootstraps: s.bootstraps.clone(),
		reactions:  s.reactions.clone(),
		cumulated:  s.cumulated.clone(),
		byProducts: s.byProducts.clone(),
		visited:    s.visited.clone(),
		stopSubstr: s.stopSubstr.clone(),
		stopByProd: s.stopByProd.clone(),
		status:     s.status,
	}
}

// IsEmpty reports whether s has no precursors, bootstraps or stop compounds.
func (s *Set) IsEmpty() bool {
	return s.precursors.len() == 0 && s.bootstraps.len() == 0 &&
		s.stopSubstr.len() == 0 && s.stopByProd.len() == 0
}

// Equal reports equal precursors, bootstraps and stop compounds.
func (s *Set) Equal(o *Set) bool {
	return s.precursors.equal(o.precursors) &&
		s.bootstraps.equal(o.bootstraps) &&
		s.stopSubstr.equal(o.stopSubstr) &&
		s.stopByProd.equal(o.stopByProd)
}

// Key is a canonical string of the equality-relevant members; Equal
// sets have equal keys.
func (s *Set) Key() string {
	var b strings.Builder
	write := func(tag byte, refs []network.Ref) {
		b.WriteByte(tag)
		for _, r := range refs {
			b.WriteString(r.ID)
			b.WriteByte(0)
			b.WriteString(r.Name)
			b.WriteByte(1)
		}
	}
	write('P', s.precursors.items)
	write('B', s.bootstraps.items)
	write('S', s.stopSubstr.items)
	write('Y', s.stopByProd.items)

	return b.String()
}

// Size returns the number of precursors.
func (s *Set) Size() int { return s.precursors.len() }

// HasPrecursor reports whether r is a precursor of s.
func (s *Set) HasPrecursor(r network.Ref) bool { return s.precursors.contains(r) }

// HasStops reports whether any exploration branch of s was cut.
func (s *Set) HasStops() bool { return s.stopSubstr.len() > 0 || s.stopByProd.len() > 0 }

// Precursors returns the sorted precursors (copy).
func (s *Set) Precursors() []network.Ref { return s.precursors.clone().items }

// Bootstraps returns the sorted bootstraps (copy).
func (s *Set) Bootstraps() []network.Ref { return s.bootstraps.clone().items }

// Reactions returns the sorted reaction IDs (copy).
func (s *Set) Reactions() []string { return s.reactions.clone().items }

// Cumulated returns the sorted cumulated compounds (copy).
func (s *Set) Cumulated() []network.Ref { return s.cumulated.clone().items }

// ByProducts returns the sorted by-products (copy).
func (s *Set) ByProducts() []network.Ref { return s.byProducts.clone().items }

// Visited returns the sorted visited compounds (copy).
func (s *Set) Visited() []network.Ref { return s.visited.clone().items }

// StopSubstrates returns the sorted substrate-origin stop compounds (copy).
func (s *Set) StopSubstrates() []network.Ref { return s.stopSubstr.clone().items }

// StopByProducts returns the sorted by-product-origin stop compounds (copy).
func (s *Set) StopByProducts() []network.Ref { return s.stopByProd.clone().items }

// IDs returns the precursor IDs in sorted order.
func (s *Set) IDs() []string {
	out := make([]string, 0, s.precursors.len())
	for _, r := range s.precursors.items {
		out = append(out, r.ID)
	}

	return out
}

// String renders "{A, B}" with bootstraps appended as "+{C}".
func (s *Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(strings.Join(s.IDs(), ", "))
	b.WriteByte('}')
	if s.bootstraps.len() > 0 {
		ids := make([]string, 0, s.bootstraps.len())
		for _, r := range s.bootstraps.items {
			ids = append(ids, r.ID)
		}
		b.WriteString("+{")
		b.WriteString(strings.Join(ids, ", "))
		b.WriteByte('}')
	}

	return b.String()
}
