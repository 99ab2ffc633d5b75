package rankquery

import (
	"iter"
	"sync"
	"unsafe"
)

// Tree is the online backend: a size-balanced binary search tree holding
// only the current staircase, so its size is bounded by the staircase length
// rather than by the number of puts.
type Tree struct {
	capacity int
	pool     sync.Pool
}

type treeHandle struct {
	owner *Tree
	t     *sbtree
}

// initial node slots of a pooled handle; the tree grows on demand
const treeInitialSlots = 64

// NewTree creates a Tree backend.
func NewTree(capacity int) (*Tree, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}

	b := &Tree{capacity: capacity}
	b.pool.New = func() any {
		return &treeHandle{owner: b, t: newSBTree(min(capacity, treeInitialSlots))}
	}
	return b, nil
}

// Kind implements Backend.
func (b *Tree) Kind() Kind { return KindTree }

// Concurrent implements Backend.
func (b *Tree) Concurrent() bool { return true }

// Capacity implements Backend.
func (b *Tree) Capacity() int { return b.capacity }

// Footprint implements Backend. A staircase never holds more than Capacity
// pairs, which bounds every node slice.
func (b *Tree) Footprint(handles int) int64 {
	return treeFootprint(b.capacity, handles)
}

func treeFootprint(capacity, handles int) int64 {
	perHandle := int64(unsafe.Sizeof(treeHandle{})+unsafe.Sizeof(sbtree{})) +
		int64(capacity+1)*int64(unsafe.Sizeof(sbnode{}))
	return int64(max(handles, 1)) * perHandle
}

// Handle implements Backend. The key set is not needed.
func (b *Tree) Handle(_ []float64) Handle {
	h := b.pool.Get().(*treeHandle)
	h.t.reset()
	return h
}

func (h *treeHandle) Put(key float64, value int) {
	t, v := h.t, int32(value)

	p := t.floor(key)
	if p != 0 && t.nodes[p].value >= v {
		return
	}
	if p != 0 && t.nodes[p].key == key {
		t.nodes[p].value = v
	} else {
		t.root = t.insert(t.root, key, v)
	}

	for s := t.next(key); s != 0 && t.nodes[s].value <= v; s = t.next(key) {
		root, _ := t.remove(t.root, t.nodes[s].key)
		t.root = root
	}
}

func (h *treeHandle) QueryMaxAtMost(key float64) int {
	if p := h.t.floor(key); p != 0 {
		return int(h.t.nodes[p].value)
	}
	return None
}

func (h *treeHandle) All() iter.Seq2[float64, int] {
	return func(yield func(float64, int) bool) {
		h.t.ascend(func(n int32) bool {
			return yield(h.t.nodes[n].key, int(h.t.nodes[n].value))
		})
	}
}

func (h *treeHandle) Release() {
	h.owner.pool.Put(h)
}
