package idset

import (
	"cmp"
	"maps"
	"slices"
)

// SetOf is a set of IDs of type T. The zero value is an empty set that is
// not ready for additions. Use make or Of to create one.
type SetOf[T comparable] map[T]struct{}

// Of returns a set holding the given ids.
func Of[T comparable](ids ...T) SetOf[T] {
	set := make(SetOf[T], len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains returns true if the given id is present in the set.
func (set SetOf[T]) Contains(id T) bool {
	_, present := set[id]
	return present
}

// Add adds the given id to the set. It returns false if the id was
// already present.
func (set SetOf[T]) Add(id T) bool {
	if _, present := set[id]; present {
		return false
	}
	set[id] = struct{}{}
	return true
}

// Remove removes the given id from the set. If it is not present, it takes
// no action.
func (set SetOf[T]) Remove(id T) {
	delete(set, id)
}

// Len returns the number of ids in the set.
func (set SetOf[T]) Len() int {
	return len(set)
}

// Sorted returns the members of set in ascending order.
func Sorted[T cmp.Ordered](set SetOf[T]) []T {
	return slices.Sorted(maps.Keys(set))
}
