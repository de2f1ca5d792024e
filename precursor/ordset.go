package precursor

import "slices"

// ordset is a duplicate-free slice kept sorted by cmp.
type ordset[T any] struct {
	items []T
	cmp   func(a, b T) int
}

func (s *ordset[T]) add(v T) bool {
	i, found := slices.BinarySearchFunc(s.items, v, s.cmp)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, v)

	return true
}

func (s *ordset[T]) contains(v T) bool {
	_, found := slices.BinarySearchFunc(s.items, v, s.cmp)
	return found
}

func (s *ordset[T]) len() int { return len(s.items) }

func (s *ordset[T]) clone() ordset[T] {
	return ordset[T]{items: slices.Clone(s.items), cmp: s.cmp}
}

// merge adds every element of o. O(|s| + |o|).
func (s *ordset[T]) merge(o ordset[T]) {
	if len(o.items) == 0 {
		return
	}
	out := make([]T, 0, len(s.items)+len(o.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(o.items) {
		switch c := s.cmp(s.items[i], o.items[j]); {
		case c < 0:
			out = append(out, s.items[i])
			i++
		case c > 0:
			out = append(out, o.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, o.items[j:]...)
	s.items = out
}

// subsetOf reports s ⊆ o by merge walk. O(|s| + |o|).
func (s *ordset[T]) subsetOf(o ordset[T]) bool {
	if len(s.items) > len(o.items) {
		return false
	}
	j := 0
	for _, v := range s.items {
		for j < len(o.items) && s.cmp(o.items[j], v) < 0 {
			j++
		}
		if j == len(o.items) || s.cmp(o.items[j], v) != 0 {
			return false
		}
		j++
	}

	return true
}

func (s *ordset[T]) equal(o ordset[T]) bool {
	return slices.EqualFunc(s.items, o.items, func(a, b T) bool { return s.cmp(a, b) == 0 })
}
