package alloc

import (
	"slices"

	"github.com/outofforest/genvec/types"
)

// Config stores configuration of allocator.
type Config struct {
	// Capacity is the number of slots to preallocate.
	Capacity uint64

	// Policy decides which vacant position is reused first.
	Policy Policy

	// MaxGeneration is the generation at which the position is retired instead of being reused.
	// Zero means types.MaxGeneration.
	MaxGeneration types.Generation
}

type slot struct {
	generation types.Generation
	occupied   bool
	retired    bool
}

// New creates index allocator.
func New(config Config) *Allocator {
	if config.MaxGeneration == 0 {
		config.MaxGeneration = types.MaxGeneration
	}

	return &Allocator{
		config: config,
		slots:  make([]slot, 0, config.Capacity),
		free:   newFreeList[types.Position](config.Policy, config.Capacity),
	}
}

// Allocator hands out generational indices and tracks which of them are live.
//
// Generation overflow is handled by saturation: when the position already carries MaxGeneration
// and gets deallocated, it is retired and never handed out again, so no stale index may become live.
type Allocator struct {
	config Config
	slots  []slot
	free   freeList[types.Position]

	numOfLive    uint64
	numOfRetired uint64
}

// Allocate allocates new index.
func (a *Allocator) Allocate() types.Index {
	a.numOfLive++

	if position, ok := a.free.Pop(); ok {
		s := &a.slots[position]
		s.occupied = true
		return types.NewIndex(position, s.generation)
	}

	position := types.Position(len(a.slots))
	a.slots = append(a.slots, slot{occupied: true})
	return types.NewIndex(position, 0)
}

// Deallocate deallocates index. False is returned if index is not live.
func (a *Allocator) Deallocate(index types.Index) bool {
	if !a.IsLive(index) {
		return false
	}

	a.release(index.Position())
	return true
}

// DeallocateAll deallocates all the live indices.
func (a *Allocator) DeallocateAll() {
	for i := range a.slots {
		if a.slots[i].occupied {
			a.release(types.Position(i))
		}
	}
}

// IsLive checks if index is allocated and not stale.
func (a *Allocator) IsLive(index types.Index) bool {
	if index.Position() >= types.Position(len(a.slots)) {
		return false
	}
	s := a.slots[index.Position()]
	return s.occupied && s.generation == index.Generation()
}

// IsRetired checks if position has been retired due to generation overflow.
func (a *Allocator) IsRetired(position types.Position) bool {
	return position < types.Position(len(a.slots)) && a.slots[position].retired
}

// Reserve reserves space for at least additional more slots.
func (a *Allocator) Reserve(additional uint64) {
	a.slots = slices.Grow(a.slots, int(additional))
	a.free.Grow(additional)
}

// Capacity returns number of slots which may exist without growing backing storage.
func (a *Allocator) Capacity() uint64 {
	return uint64(cap(a.slots))
}

// Len returns number of slots ever created.
func (a *Allocator) Len() uint64 {
	return uint64(len(a.slots))
}

// NumOfLive returns number of live indices.
func (a *Allocator) NumOfLive() uint64 {
	return a.numOfLive
}

// NumOfFree returns number of positions waiting for reuse.
func (a *Allocator) NumOfFree() uint64 {
	return a.free.Len()
}

// NumOfRetired returns number of positions retired due to generation overflow.
func (a *Allocator) NumOfRetired() uint64 {
	return a.numOfRetired
}

// Iterator iterates over live indices in slot order.
func (a *Allocator) Iterator() func(func(types.Index) bool) {
	return func(yield func(index types.Index) bool) {
		for i, s := range a.slots {
			if !s.occupied {
				continue
			}
			if !yield(types.NewIndex(types.Position(i), s.generation)) {
				return
			}
		}
	}
}

func (a *Allocator) release(position types.Position) {
	s := &a.slots[position]
	s.occupied = false
	a.numOfLive--

	if s.generation == a.config.MaxGeneration {
		s.retired = true
		a.numOfRetired++
		return
	}

	s.generation++
	a.free.Push(position)
}
