package precursor

import (
	"cmp"
	"slices"
)

// Collection is the set of accepted solutions for one target. It keeps
// the antichain property under its rule incrementally: Add compares the
// candidate with current members only.
type Collection struct {
	rule  Rule
	items []*Set
}

// NewCollection returns an empty Collection governed by rule.
func NewCollection(rule Rule) *Collection {
	return &Collection{rule: rule}
}

// Rule returns the active minimality rule.
func (c *Collection) Rule() Rule { return c.rule }

// Add accepts s unless a member equals or dominates it. Members that s
// dominates are dropped. An accepted s is frozen.
// Complexity: O(|c|·k).
func (c *Collection) Add(s *Set) bool {
	if c.Dominated(s) {
		return false
	}
	c.items = slices.DeleteFunc(c.items, func(e *Set) bool { return c.rule.Dominates(s, e) })
	s.Freeze()
	c.items = append(c.items, s)

	return true
}

// Dominated reports whether a member equals or dominates s.
func (c *Collection) Dominated(s *Set) bool {
	for _, e := range c.items {
		if e.Equal(s) || c.rule.Dominates(e, s) {
			return true
		}
	}

	return false
}

// Contains reports whether a member is Equal to s.
func (c *Collection) Contains(s *Set) bool {
	for _, e := range c.items {
		if e.Equal(s) {
			return true
		}
	}

	return false
}

// Len returns the number of members.
func (c *Collection) Len() int { return len(c.items) }

// Sets returns the members ordered by size, then canonical key.
func (c *Collection) Sets() []*Set {
	out := slices.Clone(c.items)
	Sort(out)

	return out
}

// Minimize re-runs Reduce over the members and returns how many were dropped.
func (c *Collection) Minimize() int {
	before := len(c.items)
	c.items = Reduce(c.items, c.rule)

	return before - len(c.items)
}

// Sort orders sets by precursor count, then by canonical key.
func Sort(sets []*Set) {
	slices.SortStableFunc(sets, func(a, b *Set) int {
		if c := cmp.Compare(a.Size(), b.Size()); c != 0 {
			return c
		}

		return cmp.Compare(a.Key(), b.Key())
	})
}
