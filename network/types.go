// SPDX-License-Identifier: MIT
// Package network defines the compound/reaction hypergraph used by the
// precursor search engine, together with sentinel errors and options.
//
// This file declares Flag, Ref, Compound, Term, Reaction, Stoich,
// Options and the sentinel errors.
//
// Errors:
//
//	ErrEmptyID            - compound or reaction identifier is empty.
//	ErrCompoundNotFound   - requested compound does not exist (or was removed).
//	ErrReactionNotFound   - requested reaction does not exist (or was removed).
//	ErrDuplicateCompound  - a compound with the same ID already exists.
//	ErrDuplicateReaction  - a reaction with the same ID already exists.
//	ErrBadCoefficient     - a stoichiometric coefficient is not strictly positive.
//	ErrEmptyReaction      - a reaction has neither substrates nor products.
package network

import (
	"errors"
	"strings"
)

// Sentinel errors for network operations.
var (
	// ErrEmptyID indicates that a compound or reaction has an empty ID.
	ErrEmptyID = errors.New("network: identifier is empty")

	// ErrCompoundNotFound indicates an operation referenced a non-existent compound.
	ErrCompoundNotFound = errors.New("network: compound not found")

	// ErrReactionNotFound indicates an operation referenced a non-existent reaction.
	ErrReactionNotFound = errors.New("network: reaction not found")

	// ErrDuplicateCompound indicates a second compound with an existing ID.
	ErrDuplicateCompound = errors.New("network: duplicate compound")

	// ErrDuplicateReaction indicates a second reaction with an existing ID.
	ErrDuplicateReaction = errors.New("network: duplicate reaction")

	// ErrBadCoefficient indicates a zero, negative or NaN stoichiometric coefficient.
	ErrBadCoefficient = errors.New("network: stoichiometric coefficient must be positive")

	// ErrEmptyReaction indicates a reaction without substrates and products.
	ErrEmptyReaction = errors.New("network: reaction has no substrates and no products")
)

// Flag is a bit set of compound annotations.
type Flag uint16

// Compound annotation bits.
const (
	// FlagUserPrecursor marks an externally designated precursor.
	FlagUserPrecursor Flag = 1 << iota
	// FlagTopologicalPrecursor marks a precursor derived from the graph shape.
	FlagTopologicalPrecursor
	// FlagForbidden marks a compound that is not allowed to act as a precursor.
	FlagForbidden
	// FlagBootstrap marks a compound assumed available to seed self-feeding cycles.
	FlagBootstrap
	// FlagTarget marks a compound the search must produce.
	FlagTarget
	// FlagBoundary marks an exchange compound allowed to accumulate in steady state.
	FlagBoundary
	// FlagEmpty marks a placeholder compound without chemical content.
	FlagEmpty
	// FlagHighDegree marks a currency compound with unusually many reactions.
	FlagHighDegree
)

// precursorMask is the set of bits a target compound may never carry.
const precursorMask = FlagUserPrecursor | FlagTopologicalPrecursor | FlagBootstrap

// Has reports whether every bit of x is set in f.
func (f Flag) Has(x Flag) bool { return f&x == x }

// String renders the set bits in declaration order, e.g. "user|bootstrap".
func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	names := []string{"user", "topological", "forbidden", "bootstrap", "target", "boundary", "empty", "high-degree"}
	var parts []string
	for i, name := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, "|")
}

// Ref is the value identity of a compound: two compounds with the same
// ID and Name are interchangeable across independent network copies.
// Ref is comparable and may be used as a map key.
type Ref struct {
	ID   string
	Name string
}

// Compare orders refs by ID, then by Name.
func (r Ref) Compare(o Ref) int {
	if c := strings.Compare(r.ID, o.ID); c != 0 {
		return c
	}

	return strings.Compare(r.Name, o.Name)
}

// String returns the compound ID.
func (r Ref) String() string { return r.ID }

// Compound is the immutable payload of a graph node. Payloads are shared
// between network clones and must not be modified after insertion.
type Compound struct {
	// ID uniquely identifies the compound within its network.
	ID string
	// Name is the display name; part of the compound identity.
	Name string
	// Compartment is the cellular compartment label.
	Compartment string
	// Atoms maps an element symbol to its count (used by balance checks).
	Atoms map[string]int
}

// Ref returns the value identity of c.
func (c *Compound) Ref() Ref { return Ref{ID: c.ID, Name: c.Name} }

// Term is one side entry of a reaction: compound ID and coefficient.
type Term struct {
	Compound string
	Coef     float64
}

// Reaction is the immutable payload of a hyperedge.
type Reaction struct {
	// ID uniquely identifies the reaction within its network.
	ID string
	// Name is an optional display name.
	Name string
	// Substrates is the consumed multiset (compound ID → coefficient).
	Substrates []Term
	// Products is the produced multiset (compound ID → coefficient).
	Products []Term
	// Cofactors lists informational cofactor compound IDs.
	Cofactors []string
}

// Stoich is an index-level reaction term used by algorithms that work on
// arena indices instead of identifiers.
type Stoich struct {
	Compound int
	Coef     float64
}

// Options is the immutable configuration of a Network.
type Options struct {
	// UserDefinedOnly restricts IsPrecursor to user-designated precursors.
	UserDefinedOnly bool
	// ReversibleRule lets MarkTopologicalPrecursors also mark compounds whose
	// only producer is reversible and whose only consumer is its mirror.
	ReversibleRule bool
	// ReverseSuffix names the mirror of a reversible reaction (default "_REV").
	ReverseSuffix string
}

// Option configures a Network before creation.
type Option func(*Options)

// DefaultOptions returns Options with the reversible rule on,
// both precursor kinds considered, and "_REV" as mirror suffix.
func DefaultOptions() Options {
	return Options{
		UserDefinedOnly: false,
		ReversibleRule:  true,
		ReverseSuffix:   "_REV",
	}
}

// WithUserDefinedOnly restricts precursors to user-designated compounds.
func WithUserDefinedOnly() Option {
	return func(o *Options) { o.UserDefinedOnly = true }
}

// WithReversibleRule toggles the reversible-producer topological rule.
func WithReversibleRule(on bool) Option {
	return func(o *Options) { o.ReversibleRule = on }
}

// WithReverseSuffix overrides the mirror reaction suffix. Empty values are ignored.
func WithReverseSuffix(s string) Option {
	return func(o *Options) {
		if s != "" {
			o.ReverseSuffix = s
		}
	}
}
