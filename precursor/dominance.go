package precursor

import (
	"fmt"

	"github.com/katalvlaran/precursor/network"
)

// Definition selects how two solutions are compared for minimality.
type Definition int

const (
	// PrecursorSubset compares precursor sets; ties go to fewer bootstraps,
	// then to fewer reactions.
	PrecursorSubset Definition = iota
	// PrecursorBootstrap compares the union of precursors and bootstraps.
	PrecursorBootstrap
	// ReactionSubset requires every member set, reactions included, to be
	// contained. Used for local pruning during traversal, where two partial
	// routes with the same sources may still differ in what they consume.
	ReactionSubset
)

// String returns the definition name.
func (d Definition) String() string {
	switch d {
	case PrecursorSubset:
		return "precursor-subset"
	case PrecursorBootstrap:
		return "precursor-bootstrap"
	case ReactionSubset:
		return "reaction-subset"
	default:
		return "unknown"
	}
}

// ParseDefinition is the inverse of Definition.String.
func ParseDefinition(s string) (Definition, error) {
	for d := PrecursorSubset; d <= ReactionSubset; d++ {
		if d.String() == s {
			return d, nil
		}
	}

	return PrecursorSubset, fmt.Errorf("precursor: unknown minimality definition %q", s)
}

// Rule is an active minimality definition. With Strict false, a solution
// equal to another under the definition dominates it, so duplicates
// collapse to one survivor.
type Rule struct {
	Definition Definition
	Strict     bool
}

// DefaultRule is non-strict precursor-subset minimality.
func DefaultRule() Rule { return Rule{Definition: PrecursorSubset} }

// Dominates reports whether b dominates a, i.e. a is not minimal in the
// presence of b.
func (r Rule) Dominates(b, a *Set) bool {
	switch r.Definition {
	case PrecursorBootstrap:
		ub, ua := unionOf(b), unionOf(a)
		if !ub.subsetOf(ua) {
			return false
		}

		return ub.len() < ua.len() || !r.Strict

	case ReactionSubset:
		if !b.precursors.subsetOf(a.precursors) || !b.bootstraps.subsetOf(a.bootstraps) ||
			!b.stopSubstr.subsetOf(a.stopSubstr) || !b.stopByProd.subsetOf(a.stopByProd) ||
			!b.reactions.subsetOf(a.reactions) {
			return false
		}
		if b.Equal(a) && b.reactions.len() == a.reactions.len() {
			return !r.Strict
		}

		return true

	default:
		if !b.precursors.subsetOf(a.precursors) {
			return false
		}
		if b.Size() < a.Size() {
			return true
		}
		if !b.bootstraps.subsetOf(a.bootstraps) {
			return false
		}
		if b.bootstraps.len() < a.bootstraps.len() {
			return true
		}
		rb, ra := b.reactions.len(), a.reactions.len()
		if rb > 0 && ra > 0 && rb != ra {
			return rb < ra
		}

		return !r.Strict
	}
}

// compared returns the members the definition indexes for subset tests.
func (r Rule) compared(s *Set) []network.Ref {
	if r.Definition == PrecursorBootstrap {
		return unionOf(s).items
	}

	return s.precursors.items
}

func unionOf(s *Set) ordset[network.Ref] {
	u := s.precursors.clone()
	u.merge(s.bootstraps)

	return u
}
