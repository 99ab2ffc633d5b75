package rankquery

import (
	"fmt"
	"iter"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/ndsort/internal/veb"
)

// VanEmdeBoas is the bounded-universe backend. Keys are rank-compressed into
// [0, capacity) and the staircase is kept in a van Emde Boas set, giving
// O(log log U) floor and successor queries.
//
// It owns a single mutable set and serves one handle at a time; asking for a
// second live handle panics with ErrConcurrentUse.
type VanEmdeBoas struct {
	capacity int
	busy     atomic.Bool
	handle   vebHandle
}

type vebHandle struct {
	owner  *VanEmdeBoas
	set    *veb.Set
	keys   []float64
	values []int32
}

// NewVanEmdeBoas creates a VanEmdeBoas backend. The set for the whole
// universe is allocated here.
func NewVanEmdeBoas(capacity int) (*VanEmdeBoas, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	set, err := veb.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacity, err)
	}

	b := &VanEmdeBoas{capacity: capacity}
	b.handle = vebHandle{owner: b, set: set, values: make([]int32, capacity)}
	return b, nil
}

// Kind implements Backend.
func (b *VanEmdeBoas) Kind() Kind { return KindVanEmdeBoas }

// Concurrent implements Backend.
func (b *VanEmdeBoas) Concurrent() bool { return false }

// Capacity implements Backend.
func (b *VanEmdeBoas) Capacity() int { return b.capacity }

// Footprint implements Backend. The backend serves one handle whatever
// handles is.
func (b *VanEmdeBoas) Footprint(int) int64 {
	n, _ := vebFootprint(b.capacity)
	return n
}

func vebFootprint(capacity int) (int64, error) {
	nodes, err := veb.Footprint(capacity)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCapacity, err)
	}
	return int64(unsafe.Sizeof(VanEmdeBoas{})) + nodes + 4*int64(capacity), nil
}

// Handle implements Backend.
func (b *VanEmdeBoas) Handle(keys []float64) Handle {
	if len(keys) > b.capacity {
		panic(ErrCapacity)
	}
	if !b.busy.CompareAndSwap(false, true) {
		panic(ErrConcurrentUse)
	}
	b.handle.keys = compress(keys)
	return &b.handle
}

func (h *vebHandle) Put(key float64, value int) {
	v := int32(value)
	k := position(h.keys, key)

	p := h.set.Floor(k)
	if p != veb.None && h.values[p] >= v {
		return
	}
	if p != k {
		h.set.Insert(k)
	}
	h.values[k] = v

	for s := h.set.Next(k); s != veb.None && h.values[s] <= v; s = h.set.Next(k) {
		h.set.Remove(s)
	}
}

func (h *vebHandle) QueryMaxAtMost(key float64) int {
	c := countAtMost(h.keys, key)
	if c == 0 {
		return None
	}
	if p := h.set.Floor(c - 1); p != veb.None {
		return int(h.values[p])
	}
	return None
}

func (h *vebHandle) All() iter.Seq2[float64, int] {
	return func(yield func(float64, int) bool) {
		for k := h.set.Min(); k != veb.None; k = h.set.Next(k) {
			if !yield(h.keys[k], int(h.values[k])) {
				return
			}
		}
	}
}

func (h *vebHandle) Release() {
	h.set.Clear()
	h.keys = nil
	h.owner.busy.Store(false)
}
