package types

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash"

	"github.com/outofforest/photon"
)

// MaxGeneration is the highest generation a slot can reach before it is retired.
const MaxGeneration Generation = math.MaxUint64

type (
	// Position is the number of the slot in backing storage.
	Position uint64

	// Generation counts how many times the slot has been reused.
	Generation uint64
)

// NewIndex creates index from raw parts.
func NewIndex(position Position, generation Generation) Index {
	return Index{
		position:   position,
		generation: generation,
	}
}

// Index is the generational handle to a slot.
type Index struct {
	position   Position
	generation Generation
}

// Position returns slot position of the index.
func (i Index) Position() Position {
	return i.position
}

// Generation returns generation of the index.
func (i Index) Generation() Generation {
	return i.generation
}

// Hash returns hash of the index.
func (i Index) Hash() uint64 {
	return xxhash.Sum64(photon.NewFromValue(&i).B)
}

// String renders the index for logs and errors.
func (i Index) String() string {
	return fmt.Sprintf("Index(%d:%d)", i.position, i.generation)
}
