package genvec

import "github.com/outofforest/genvec/types"

var (
	_ Arena[struct{}] = &Closed[struct{}]{}
	_ Arena[struct{}] = &Exposed[struct{}]{}
)

// Arena is the generation-checked access contract shared by closed and exposed arenas.
//
// Pointers returned by GetPtr and PtrIterator stay valid until the next operation adding or removing
// values.
type Arena[V any] interface {
	// Get returns value stored under index.
	Get(index types.Index) (V, bool)

	// GetPtr returns pointer to the value stored under index or nil if index is stale.
	GetPtr(index types.Index) *V

	// Set stores value under index and returns the replaced one.
	Set(index types.Index, value V) (V, bool, error)

	// Remove removes value stored under index.
	Remove(index types.Index) (V, bool)

	// Contains checks if index refers to the stored value.
	Contains(index types.Index) bool

	// Len returns number of stored values.
	Len() uint64

	// Iterator iterates over stored values in slot order.
	Iterator() func(func(types.Index, V) bool)
}
