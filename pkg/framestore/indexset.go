package framestore

import "sort"

// IndexSet is a set of saved frame indices.
type IndexSet map[int]struct{}

// NewIndexSet returns a set containing the given indices.
func NewIndexSet(indices ...int) IndexSet {
	s := make(IndexSet, len(indices))
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// Add inserts i into the set.
func (s IndexSet) Add(i int) {
	s[i] = struct{}{}
}

// Contains reports whether i is in the set.
func (s IndexSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Len returns the number of indices in the set.
func (s IndexSet) Len() int {
	return len(s)
}

// MaxOr returns the largest index, or def when the set is empty.
func (s IndexSet) MaxOr(def int) int {
	max := def
	first := true
	for i := range s {
		if first || i > max {
			max = i
			first = false
		}
	}
	return max
}

// Sorted returns the indices in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
