package ecs

// SparseSet maps entity slot ids to values of T. Lookups are O(1) and the
// dense arrays can be iterated without touching empty slots. Removal swaps
// the last element into the hole, so dense order is not insertion order.
type SparseSet[T any] struct {
	ids    []int
	values []T
	sparse []int
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Has reports whether id has a value.
func (s *SparseSet[T]) Has(id int) bool {
	if s == nil || id <= 0 || id > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.ids) && s.ids[idx] == id
}

// Get returns the value stored for id.
func (s *SparseSet[T]) Get(id int) (T, bool) {
	if !s.Has(id) {
		var zero T
		return zero, false
	}
	return s.values[s.sparse[id-1]], true
}

// Set inserts or replaces the value for id.
func (s *SparseSet[T]) Set(id int, v T) {
	if s == nil || id <= 0 {
		return
	}
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.ids = append(s.ids, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.ids) - 1
}

// Remove deletes id's value and reports whether there was one.
func (s *SparseSet[T]) Remove(id int) bool {
	if !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.ids) - 1
	moved := s.ids[last]

	s.ids[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved-1] = idx

	var zero T
	s.values[last] = zero
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

// IDs returns the dense id list. Callers must not modify it.
func (s *SparseSet[T]) IDs() []int {
	if s == nil {
		return nil
	}
	return s.ids
}
