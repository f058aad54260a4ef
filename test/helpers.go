package test

import (
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/outofforest/genvec/types"
)

// CollectValues collects values produced by arena iterator and sorts them.
func CollectValues[V constraints.Ordered](iterator func(func(types.Index, V) bool)) []V {
	values := []V{}
	for _, value := range iterator {
		values = append(values, value)
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i] < values[j]
	})
	return values
}

// CollectIndices collects indices produced by arena iterator in iteration order.
func CollectIndices[V any](iterator func(func(types.Index, V) bool)) []types.Index {
	indices := []types.Index{}
	for index := range iterator {
		indices = append(indices, index)
	}
	return indices
}
