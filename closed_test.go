package genvec_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/genvec"
	"github.com/outofforest/genvec/alloc"
	"github.com/outofforest/genvec/test"
	"github.com/outofforest/genvec/types"
)

func TestClosedInsert(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	requireT.True(c.IsEmpty())
	requireT.Equal(types.NewIndex(0, 0), c.Insert(3))
	requireT.Equal(types.NewIndex(1, 0), c.Insert(4))
	requireT.EqualValues(2, c.Len())
	requireT.False(c.IsEmpty())
}

func TestClosedLifecycle(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	index := c.Insert(42)
	requireT.True(c.Contains(index))

	v, exists := c.Get(index)
	requireT.True(exists)
	requireT.Equal(42, v)

	v, exists = c.Remove(index)
	requireT.True(exists)
	requireT.Equal(42, v)

	requireT.False(c.Contains(index))
	v, exists = c.Get(index)
	requireT.False(exists)
	requireT.Zero(v)
	requireT.Nil(c.GetPtr(index))
	requireT.True(c.IsEmpty())
}

func TestClosedRemoveStaleIsNoop(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[string](genvec.ClosedConfig{})

	index := c.Insert("a")
	_, exists := c.Remove(index)
	requireT.True(exists)

	v, exists := c.Remove(index)
	requireT.False(exists)
	requireT.Empty(v)

	_, exists = c.Remove(types.NewIndex(10, 0))
	requireT.False(exists)
	requireT.Zero(c.Len())
}

func TestClosedStaleIndexAfterReuse(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	index1 := c.Insert(1)
	_, exists := c.Remove(index1)
	requireT.True(exists)

	index2 := c.Insert(2)
	requireT.Equal(index1.Position(), index2.Position())
	requireT.Equal(index1.Generation()+1, index2.Generation())

	_, exists = c.Get(index1)
	requireT.False(exists)
	_, exists = c.Remove(index1)
	requireT.False(exists)

	v, exists := c.Get(index2)
	requireT.True(exists)
	requireT.Equal(2, v)
}

func TestClosedGetPtr(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	index := c.Insert(3)
	p := c.GetPtr(index)
	requireT.NotNil(p)
	*p = 1

	v, exists := c.Get(index)
	requireT.True(exists)
	requireT.Equal(1, v)
}

func TestClosedSet(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	index := c.Insert(1)
	previous, replaced, err := c.Set(index, 2)
	requireT.NoError(err)
	requireT.True(replaced)
	requireT.Equal(1, previous)

	v, _ := c.Get(index)
	requireT.Equal(2, v)

	_, exists := c.Remove(index)
	requireT.True(exists)

	previous, replaced, err = c.Set(index, 3)
	requireT.ErrorIs(err, genvec.ErrStaleIndex)
	requireT.False(replaced)
	requireT.Zero(previous)
	requireT.Zero(c.Len())
	requireT.False(c.Contains(index))

	_, _, err = c.Set(types.NewIndex(7, 0), 3)
	requireT.ErrorIs(err, genvec.ErrStaleIndex)
}

func TestClosedClear(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	c.Insert(4)
	index := c.Insert(5)
	c.Clear()

	requireT.False(c.Contains(index))
	requireT.Zero(c.Len())
	requireT.True(c.IsEmpty())
	requireT.Empty(test.CollectValues(c.Iterator()))

	index1 := c.Insert(1)
	requireT.Equal(index.Generation()+1, index1.Generation())
	requireT.True(c.Contains(index1))
	requireT.Equal([]int{1}, test.CollectValues(c.Iterator()))
}

func TestClosedCapacity(t *testing.T) {
	requireT := require.New(t)

	c := genvec.NewClosed[int](genvec.ClosedConfig{Capacity: 5})
	requireT.EqualValues(5, c.Capacity())

	c = genvec.NewClosed[int](genvec.ClosedConfig{})
	requireT.Zero(c.Capacity())
	c.Insert(13)
	c.Reserve(4)
	requireT.GreaterOrEqual(c.Capacity(), uint64(5))
	requireT.EqualValues(1, c.Len())
}

func TestClosedIterator(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	indices := lo.Times(6, func(i int) types.Index {
		return c.Insert(i * 10)
	})
	_, exists := c.Remove(indices[2])
	requireT.True(exists)
	_, exists = c.Remove(indices[4])
	requireT.True(exists)

	requireT.Equal([]int{0, 10, 30, 50}, test.CollectValues(c.Iterator()))
	requireT.Equal([]types.Index{indices[0], indices[1], indices[3], indices[5]},
		test.CollectIndices(c.Iterator()))

	for _, v := range c.PtrIterator() {
		*v++
	}
	requireT.Equal([]int{1, 11, 31, 51}, test.CollectValues(c.Iterator()))
}

func TestClosedFIFOPolicy(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{Policy: alloc.FIFO})

	index1 := c.Insert(1)
	index2 := c.Insert(2)
	c.Remove(index1)
	c.Remove(index2)

	requireT.Equal(types.NewIndex(0, 1), c.Insert(3))
	requireT.Equal(types.NewIndex(1, 1), c.Insert(4))
}

func TestClosedRetiresOverflowingPosition(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{MaxGeneration: 1})

	index := c.Insert(1)
	c.Remove(index)
	index = c.Insert(2)
	requireT.Equal(types.NewIndex(0, 1), index)
	c.Remove(index)

	index = c.Insert(3)
	requireT.Equal(types.NewIndex(1, 0), index)
	_, exists := c.Get(types.NewIndex(0, 1))
	requireT.False(exists)
}

func TestClosedValuesAreReleased(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[*int](genvec.ClosedConfig{})

	index := c.Insert(lo.ToPtr(1))
	v, exists := c.Remove(index)
	requireT.True(exists)
	requireT.Equal(1, *v)

	index = c.Insert(lo.ToPtr(2))
	v, exists = c.Get(index)
	requireT.True(exists)
	requireT.Equal(2, *v)
}

func TestClosedRoundTrip(t *testing.T) {
	requireT := require.New(t)
	c := genvec.NewClosed[int](genvec.ClosedConfig{})

	for i := range 100 {
		index := c.Insert(i)
		v, exists := c.Get(index)
		requireT.True(exists)
		requireT.Equal(i, v)

		if i%2 == 0 {
			v, exists = c.Remove(index)
			requireT.True(exists)
			requireT.Equal(i, v)

			_, exists = c.Get(index)
			requireT.False(exists)
		}
	}

	requireT.EqualValues(50, c.Len())
}
