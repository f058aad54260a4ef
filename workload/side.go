package workload

import (
	"github.com/lazybeaver/xorshift"
	"github.com/pkg/errors"

	"github.com/outofforest/genvec"
	"github.com/outofforest/genvec/alloc"
	"github.com/outofforest/genvec/types"
)

func newTracker() tracker {
	return tracker{
		positions:   map[types.Index]int{},
		generations: map[types.Position]types.Generation{},
	}
}

// tracker remembers which indices are expected to be live.
type tracker struct {
	live        []types.Index
	positions   map[types.Index]int
	generations map[types.Position]types.Generation
	stale       []types.Index
}

func (t *tracker) track(index types.Index) error {
	if _, exists := t.positions[index]; exists {
		return errors.Errorf("%s has been issued twice", index)
	}

	generation, seen := t.generations[index.Position()]
	switch {
	case !seen && index.Generation() != 0:
		return errors.Errorf("%s is the first index at its position but generation is not 0", index)
	case seen && index.Generation() != generation+1:
		return errors.Errorf("%s follows generation %d", index, generation)
	}

	t.generations[index.Position()] = index.Generation()
	t.positions[index] = len(t.live)
	t.live = append(t.live, index)
	return nil
}

func (t *tracker) untrack(index types.Index) {
	i := t.positions[index]
	last := t.live[len(t.live)-1]
	t.live[i] = last
	t.positions[last] = i
	t.live = t.live[:len(t.live)-1]
	delete(t.positions, index)

	if len(t.stale) == maxStaleIndices {
		copy(t.stale, t.stale[1:])
		t.stale = t.stale[:len(t.stale)-1]
	}
	t.stale = append(t.stale, index)
}

func (t *tracker) pick(rand xorshift.XorShift) (types.Index, bool) {
	if len(t.live) == 0 {
		return types.Index{}, false
	}
	return t.live[rand.Next()%uint64(len(t.live))], true
}

func newClosedSide(policy alloc.Policy) *closedSide {
	return &closedSide{
		tracker: newTracker(),
		arena:   genvec.NewClosed[*Payload](genvec.ClosedConfig{Policy: policy}),
	}
}

type closedSide struct {
	tracker

	arena *genvec.Closed[*Payload]
}

func newExposedSide(policy alloc.Policy, numOfComponents uint64) *exposedSide {
	components := make([]*genvec.Exposed[*Payload], 0, numOfComponents)
	for range numOfComponents {
		components = append(components, genvec.NewExposed[*Payload](0))
	}

	return &exposedSide{
		tracker:    newTracker(),
		allocator:  alloc.New(alloc.Config{Policy: policy}),
		components: components,
	}
}

// exposedSide keeps the structure of arenas keyed by indices from one allocator.
type exposedSide struct {
	tracker

	allocator  *alloc.Allocator
	components []*genvec.Exposed[*Payload]
}

func (s *exposedSide) verify(index types.Index, live bool) error {
	if s.allocator.IsLive(index) != live {
		return errors.Errorf("allocator disagrees on %s, expected live: %t", index, live)
	}
	for i, c := range s.components {
		if c.Contains(index) != live {
			return errors.Errorf("component %d disagrees on %s, expected live: %t", i, index, live)
		}
		if _, exists := c.Get(index); exists != live {
			return errors.Errorf("component %d returns value for %s, expected live: %t", i, index, live)
		}
	}
	return nil
}
