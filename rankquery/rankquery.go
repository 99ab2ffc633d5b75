// Package rankquery provides the ordered rank-query structures used by the
// sweep steps of the ranking engine.
//
// A Handle maps a one-dimensional key to the best rank stored at or below it.
// Stored pairs form a staircase: a pair is discarded as soon as a pair with a
// smaller or equal key holds a value at least as large, so keys and values
// both strictly increase along the stored sequence. All backends give
// identical answers for identical call sequences.
package rankquery

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// None is the answer of a query with no stored key at or below it.
const None = -1

// Kind identifies a backend implementation.
type Kind string

const (
	// KindFenwick is the compressed offline prefix-maximum tree.
	KindFenwick Kind = "fenwick"
	// KindTree is the online size-balanced binary search tree.
	KindTree Kind = "tree"
	// KindVanEmdeBoas is the bounded-universe integer tree.
	KindVanEmdeBoas Kind = "veb"
)

var (
	// ErrUnknownKind is returned by New for an unregistered kind.
	ErrUnknownKind = errors.New("rankquery: unknown backend kind")
	// ErrCapacity is returned for a capacity a backend cannot serve.
	ErrCapacity = errors.New("rankquery: unsupported capacity")
	// ErrConcurrentUse is the panic value when a single-threaded backend
	// is asked for a second live handle.
	ErrConcurrentUse = errors.New("rankquery: concurrent use of a single-threaded backend")
	// ErrUnknownKey is the panic value when Put receives a key outside the
	// key set the handle was created with.
	ErrUnknownKey = errors.New("rankquery: key not in handle key set")
)

// Handle is a staircase of (key, value) pairs that lives for one sweep.
type Handle interface {
	// Put records value at key unless a stored pair with a key <= key
	// already holds a value >= value. Pairs with a larger key and a value
	// <= value are removed.
	Put(key float64, value int)
	// QueryMaxAtMost returns the largest value stored at a key <= key, or None.
	QueryMaxAtMost(key float64) int
	// All yields the stored staircase in increasing key order.
	All() iter.Seq2[float64, int]
	// Release returns the handle to its backend. The handle must not be
	// used afterwards.
	Release()
}

// Backend creates handles.
type Backend interface {
	// Kind returns the backend kind.
	Kind() Kind
	// Concurrent reports whether handles may be live on several
	// goroutines at once.
	Concurrent() bool
	// Capacity returns the maximum number of keys per handle.
	Capacity() int
	// Footprint returns the bytes the backend holds with up to handles
	// handles live at once, each filled to Capacity keys.
	Footprint(handles int) int64
	// Handle returns an empty handle. keys holds every key that may be Put
	// while the handle is live; the backend may reorder it and keep using
	// it until Release. Online backends ignore it.
	Handle(keys []float64) Handle
}

// Kinds returns all supported backend kinds.
func Kinds() []Kind {
	return []Kind{KindFenwick, KindTree, KindVanEmdeBoas}
}

// New creates a backend of the given kind for up to capacity keys per handle.
func New(kind Kind, capacity int) (Backend, error) {
	switch kind {
	case KindFenwick:
		return NewFenwick(capacity)
	case KindTree:
		return NewTree(capacity)
	case KindVanEmdeBoas:
		return NewVanEmdeBoas(capacity)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Footprint estimates Backend.Footprint for a built-in kind without
// creating the backend.
func Footprint(kind Kind, capacity, handles int) (int64, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	switch kind {
	case KindFenwick:
		return fenwickFootprint(capacity, handles), nil
	case KindTree:
		return treeFootprint(capacity, handles), nil
	case KindVanEmdeBoas:
		return vebFootprint(capacity)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func checkCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	return nil
}

// compress sorts keys and removes duplicates in place.
func compress(keys []float64) []float64 {
	slices.Sort(keys)
	return slices.Compact(keys)
}

// countAtMost returns the number of sorted keys <= key.
func countAtMost(keys []float64, key float64) int {
	i, found := slices.BinarySearch(keys, key)
	if found {
		return i + 1
	}
	return i
}

// position returns the index of key in the sorted keys or panics.
func position(keys []float64, key float64) int {
	i, found := slices.BinarySearch(keys, key)
	if !found {
		panic(fmt.Errorf("%w: %v", ErrUnknownKey, key))
	}
	return i
}
