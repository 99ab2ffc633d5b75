package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrInvalidSize is returned for a non-positive capacity or dimension.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrOutOfBounds is the panic value for a region outside the arena.
	ErrOutOfBounds = errors.New("arena: region out of bounds")
)

// Arena holds all per-sort buffers of a sorter.
type Arena struct {
	capacity  int
	dimension int

	// Indices is the working index array.
	Indices []int32
	// Scratch is the position aligned split/merge scratch.
	Scratch []int32
	// Ranks holds one rank per unique point.
	Ranks []int32
	// Reindex maps an input position to its unique point identity.
	Reindex []int32
	// Columns holds the transposed unique points, Columns[axis][id].
	Columns [][]float64

	temp []float64
}

// New allocates an arena for up to capacity points of up to dimension coordinates.
func New(capacity, dimension int) (*Arena, error) {
	if capacity <= 0 || dimension <= 0 {
		return nil, fmt.Errorf("%w: capacity=%d dimension=%d", ErrInvalidSize, capacity, dimension)
	}

	a := &Arena{
		capacity:  capacity,
		dimension: dimension,
		Indices:   make([]int32, capacity),
		Scratch:   make([]int32, capacity),
		Ranks:     make([]int32, capacity),
		Reindex:   make([]int32, capacity),
		Columns:   make([][]float64, dimension),
		temp:      make([]float64, capacity),
	}

	// One backing array keeps the columns contiguous.
	backing := make([]float64, capacity*dimension)
	for d := range a.Columns {
		a.Columns[d] = backing[d*capacity : (d+1)*capacity : (d+1)*capacity]
	}

	return a, nil
}

// Footprint returns the number of bytes New allocates for the given sizes.
func Footprint(capacity, dimension int) int64 {
	if capacity <= 0 || dimension <= 0 {
		return 0
	}
	var (
		i32 = int64(unsafe.Sizeof(int32(0)))
		f64 = int64(unsafe.Sizeof(float64(0)))
		c   = int64(capacity)
	)
	return 4*c*i32 + c*f64 + c*int64(dimension)*f64
}

// Capacity returns the maximum number of points.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Dimension returns the maximum number of coordinates.
func (a *Arena) Dimension() int {
	return a.dimension
}

// Temp returns the float64 temp region [offset, offset+size).
// It panics with ErrOutOfBounds if the region does not fit.
func (a *Arena) Temp(offset, size int) []float64 {
	if offset < 0 || size < 0 || offset+size > len(a.temp) {
		panic(fmt.Errorf("%w: temp [%d, %d) of %d", ErrOutOfBounds, offset, offset+size, len(a.temp)))
	}
	return a.temp[offset : offset+size : offset+size]
}

// Reset prepares the arena for a sort over n unique points: identity indices
// and zero ranks.
func (a *Arena) Reset(n int) {
	for i := range n {
		a.Indices[i] = int32(i)
		a.Ranks[i] = 0
	}
}
