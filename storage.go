package genvec

import (
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/outofforest/genvec/types"
)

type slot[V any] struct {
	value      V
	generation types.Generation
	occupied   bool
}

func newStorage[V any](capacity uint64) storage[V] {
	return storage[V]{
		slots: make([]slot[V], 0, capacity),
	}
}

// storage keeps values in slots stamped with generations.
type storage[V any] struct {
	slots         []slot[V]
	numOfOccupied uint64
}

func (s *storage[V]) lookup(index types.Index) *slot[V] {
	if index.Position() >= types.Position(len(s.slots)) {
		return nil
	}
	sl := &s.slots[index.Position()]
	if !sl.occupied || sl.generation != index.Generation() {
		return nil
	}
	return sl
}

func (s *storage[V]) get(index types.Index) (V, bool) {
	if sl := s.lookup(index); sl != nil {
		return sl.value, true
	}
	var v V
	return v, false
}

func (s *storage[V]) getPtr(index types.Index) *V {
	if sl := s.lookup(index); sl != nil {
		return &sl.value
	}
	return nil
}

func (s *storage[V]) replace(index types.Index, value V) (V, bool) {
	sl := s.lookup(index)
	if sl == nil {
		var v V
		return v, false
	}
	previous := sl.value
	sl.value = value
	return previous, true
}

func (s *storage[V]) remove(index types.Index) (V, bool) {
	sl := s.lookup(index)
	if sl == nil {
		var v V
		return v, false
	}

	value := sl.value
	var zero V
	sl.value = zero
	sl.occupied = false
	s.numOfOccupied--
	return value, true
}

// at returns the slot at position, growing storage if needed.
// It panics if storage can't be grown to hold the position.
func (s *storage[V]) at(position types.Position) *slot[V] {
	if position >= types.Position(len(s.slots)) {
		if position >= math.MaxInt {
			panic(errors.Errorf("allocating storage for position %d failed", position))
		}
		s.slots = append(s.slots, make([]slot[V], position-types.Position(len(s.slots))+1)...)
	}
	return &s.slots[position]
}

// put stores value in the slot and stamps it with index generation.
// It returns the value previously held by the slot, whatever generation it belonged to.
func (s *storage[V]) put(index types.Index, value V) (V, bool) {
	sl := s.at(index.Position())
	previous, occupied := sl.value, sl.occupied
	if !occupied {
		s.numOfOccupied++
	}

	sl.value = value
	sl.generation = index.Generation()
	sl.occupied = true

	return previous, occupied
}

func (s *storage[V]) clear() {
	var zero V
	for i := range s.slots {
		s.slots[i].value = zero
		s.slots[i].occupied = false
	}
	s.numOfOccupied = 0
}

func (s *storage[V]) reserve(additional uint64) {
	s.slots = slices.Grow(s.slots, int(additional))
}

func (s *storage[V]) capacity() uint64 {
	return uint64(cap(s.slots))
}

func (s *storage[V]) iterator() func(func(types.Index, V) bool) {
	return func(yield func(index types.Index, value V) bool) {
		for i := range s.slots {
			sl := &s.slots[i]
			if !sl.occupied {
				continue
			}
			if !yield(types.NewIndex(types.Position(i), sl.generation), sl.value) {
				return
			}
		}
	}
}

func (s *storage[V]) ptrIterator() func(func(types.Index, *V) bool) {
	return func(yield func(index types.Index, value *V) bool) {
		for i := range s.slots {
			sl := &s.slots[i]
			if !sl.occupied {
				continue
			}
			if !yield(types.NewIndex(types.Position(i), sl.generation), &sl.value) {
				return
			}
		}
	}
}
