package alloc

import "slices"

// Policy defines the order in which vacant positions are reused.
type Policy byte

const (
	// LIFO reuses the most recently freed position first.
	LIFO Policy = iota

	// FIFO reuses the least recently freed position first.
	FIFO
)

type freeList[T any] interface {
	Push(item T)
	Pop() (T, bool)
	Len() uint64
	Grow(additional uint64)
	Reset()
}

func newFreeList[T any](policy Policy, capacity uint64) freeList[T] {
	if policy == FIFO {
		return newRing[T](capacity)
	}
	return newStack[T](capacity)
}

func newStack[T any](capacity uint64) *stack[T] {
	return &stack[T]{
		items: make([]T, 0, capacity),
	}
}

type stack[T any] struct {
	items []T
}

func (s *stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

func (s *stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var t T
		return t, false
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, true
}

func (s *stack[T]) Len() uint64 {
	return uint64(len(s.items))
}

func (s *stack[T]) Grow(additional uint64) {
	s.items = slices.Grow(s.items, int(additional))
}

func (s *stack[T]) Reset() {
	s.items = s.items[:0]
}

func newRing[T any](capacity uint64) *ring[T] {
	return &ring[T]{
		items: make([]T, capacity),
	}
}

// ring is the growable circular buffer.
type ring[T any] struct {
	items []T

	head, count uint64
}

func (r *ring[T]) Push(item T) {
	if r.count == uint64(len(r.items)) {
		r.Grow(max(r.count, 1))
	}

	r.items[(r.head+r.count)%uint64(len(r.items))] = item
	r.count++
}

func (r *ring[T]) Pop() (T, bool) {
	if r.count == 0 {
		var t T
		return t, false
	}

	item := r.items[r.head]
	r.head++
	if r.head == uint64(len(r.items)) {
		r.head = 0
	}
	r.count--
	return item, true
}

func (r *ring[T]) Len() uint64 {
	return r.count
}

func (r *ring[T]) Grow(additional uint64) {
	if r.count+additional <= uint64(len(r.items)) {
		return
	}

	items := make([]T, r.count+additional)
	for i := range r.count {
		items[i] = r.items[(r.head+i)%uint64(len(r.items))]
	}
	r.items = items
	r.head = 0
}

func (r *ring[T]) Reset() {
	r.head = 0
	r.count = 0
}
