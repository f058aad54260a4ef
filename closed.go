package genvec

import (
	"github.com/pkg/errors"

	"github.com/outofforest/genvec/alloc"
	"github.com/outofforest/genvec/types"
)

// ClosedConfig stores configuration of closed arena.
type ClosedConfig struct {
	// Capacity is the number of values to preallocate space for.
	Capacity uint64

	// Policy decides which vacant position is reused first.
	Policy alloc.Policy

	// MaxGeneration is the generation at which the position is retired instead of being reused.
	// Zero means types.MaxGeneration.
	MaxGeneration types.Generation
}

// NewClosed creates arena allocating its own indices.
func NewClosed[V any](config ClosedConfig) *Closed[V] {
	return &Closed[V]{
		allocator: alloc.New(alloc.Config{
			Capacity:      config.Capacity,
			Policy:        config.Policy,
			MaxGeneration: config.MaxGeneration,
		}),
		storage: newStorage[V](config.Capacity),
	}
}

// Closed is the arena owning a private index allocator.
// Indices are handed out by Insert and released by Remove.
type Closed[V any] struct {
	allocator *alloc.Allocator
	storage   storage[V]
}

// Insert stores value and returns its index.
func (c *Closed[V]) Insert(value V) types.Index {
	index := c.allocator.Allocate()
	c.storage.put(index, value)
	return index
}

// Get returns value stored under index.
func (c *Closed[V]) Get(index types.Index) (V, bool) {
	return c.storage.get(index)
}

// GetPtr returns pointer to the value stored under index or nil if index is stale.
func (c *Closed[V]) GetPtr(index types.Index) *V {
	return c.storage.getPtr(index)
}

// Set replaces value stored under live index.
func (c *Closed[V]) Set(index types.Index, value V) (V, bool, error) {
	previous, ok := c.storage.replace(index, value)
	if !ok {
		return previous, false, errors.Wrapf(ErrStaleIndex, "setting value under %s", index)
	}
	return previous, true, nil
}

// Remove removes value and deallocates its index.
func (c *Closed[V]) Remove(index types.Index) (V, bool) {
	value, ok := c.storage.remove(index)
	if ok {
		c.allocator.Deallocate(index)
	}
	return value, ok
}

// Contains checks if index refers to the stored value.
func (c *Closed[V]) Contains(index types.Index) bool {
	return c.allocator.IsLive(index)
}

// Len returns number of stored values.
func (c *Closed[V]) Len() uint64 {
	return c.storage.numOfOccupied
}

// IsEmpty returns true if there are no values.
func (c *Closed[V]) IsEmpty() bool {
	return c.storage.numOfOccupied == 0
}

// Capacity returns number of slots available without growing backing storage.
func (c *Closed[V]) Capacity() uint64 {
	return c.storage.capacity()
}

// Reserve reserves space for at least additional more values.
func (c *Closed[V]) Reserve(additional uint64) {
	c.allocator.Reserve(additional)
	c.storage.reserve(additional)
}

// Clear removes all the values. All the issued indices become stale.
func (c *Closed[V]) Clear() {
	c.allocator.DeallocateAll()
	c.storage.clear()
}

// Iterator iterates over stored values in slot order.
func (c *Closed[V]) Iterator() func(func(types.Index, V) bool) {
	return c.storage.iterator()
}

// PtrIterator iterates over pointers to stored values in slot order.
func (c *Closed[V]) PtrIterator() func(func(types.Index, *V) bool) {
	return c.storage.ptrIterator()
}
