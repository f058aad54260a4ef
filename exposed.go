package genvec

import (
	"github.com/pkg/errors"

	"github.com/outofforest/genvec/types"
)

// NewExposed creates arena storing values under externally allocated indices.
func NewExposed[V any](capacity uint64) *Exposed[V] {
	return &Exposed[V]{
		storage: newStorage[V](capacity),
	}
}

// Exposed is the arena storing values under indices allocated by an external alloc.Allocator.
// It never allocates nor deallocates indices, so many exposed arenas fed by the same allocator
// agree on which indices are live.
type Exposed[V any] struct {
	storage storage[V]
}

// Set stores value under index, growing storage if needed.
//
// Slot is stamped with the generation of the index. Value stored under an older generation is
// overwritten and returned. Index older than the generation already seen in the slot is stale and
// rejected.
func (e *Exposed[V]) Set(index types.Index, value V) (V, bool, error) {
	if index.Position() < types.Position(len(e.storage.slots)) {
		if generation := e.storage.slots[index.Position()].generation; generation > index.Generation() {
			var v V
			return v, false, errors.Wrapf(ErrStaleIndex, "setting value under %s, slot is on generation %d",
				index, generation)
		}
	}

	previous, replaced := e.storage.put(index, value)
	return previous, replaced, nil
}

// Get returns value stored under index.
func (e *Exposed[V]) Get(index types.Index) (V, bool) {
	return e.storage.get(index)
}

// GetPtr returns pointer to the value stored under index or nil if index is stale.
func (e *Exposed[V]) GetPtr(index types.Index) *V {
	return e.storage.getPtr(index)
}

// Remove removes value stored under index. Index must be deallocated by the caller.
func (e *Exposed[V]) Remove(index types.Index) (V, bool) {
	return e.storage.remove(index)
}

// Contains checks if index refers to the stored value.
func (e *Exposed[V]) Contains(index types.Index) bool {
	return e.storage.lookup(index) != nil
}

// Len returns number of stored values.
func (e *Exposed[V]) Len() uint64 {
	return e.storage.numOfOccupied
}

// IsEmpty returns true if there are no values.
func (e *Exposed[V]) IsEmpty() bool {
	return e.storage.numOfOccupied == 0
}

// Capacity returns number of slots available without growing backing storage.
func (e *Exposed[V]) Capacity() uint64 {
	return e.storage.capacity()
}

// Reserve reserves space for at least additional more values.
func (e *Exposed[V]) Reserve(additional uint64) {
	e.storage.reserve(additional)
}

// Clear removes all the values. Generations seen in slots are kept.
func (e *Exposed[V]) Clear() {
	e.storage.clear()
}

// Iterator iterates over stored values in slot order.
func (e *Exposed[V]) Iterator() func(func(types.Index, V) bool) {
	return e.storage.iterator()
}

// PtrIterator iterates over pointers to stored values in slot order.
func (e *Exposed[V]) PtrIterator() func(func(types.Index, *V) bool) {
	return e.storage.ptrIterator()
}
