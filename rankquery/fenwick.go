package rankquery

import (
	"iter"
	"sync"
	"unsafe"
)

// Fenwick is the compressed offline backend. Keys are rank-compressed at
// handle creation and values live in a binary indexed prefix-maximum tree.
type Fenwick struct {
	capacity int
	pool     sync.Pool
}

type fenwickHandle struct {
	owner *Fenwick
	keys  []float64
	tree  []int32 // 1-based
}

// NewFenwick creates a Fenwick backend.
func NewFenwick(capacity int) (*Fenwick, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}

	f := &Fenwick{capacity: capacity}
	f.pool.New = func() any {
		return &fenwickHandle{owner: f, tree: make([]int32, 0, capacity+1)}
	}
	return f, nil
}

// Kind implements Backend.
func (f *Fenwick) Kind() Kind { return KindFenwick }

// Concurrent implements Backend.
func (f *Fenwick) Concurrent() bool { return true }

// Capacity implements Backend.
func (f *Fenwick) Capacity() int { return f.capacity }

// Footprint implements Backend.
func (f *Fenwick) Footprint(handles int) int64 {
	return fenwickFootprint(f.capacity, handles)
}

// fenwickFootprint counts the pooled prefix-max trees; key slices belong to
// the caller.
func fenwickFootprint(capacity, handles int) int64 {
	perHandle := int64(unsafe.Sizeof(fenwickHandle{})) + 4*int64(capacity+1)
	return int64(max(handles, 1)) * perHandle
}

// Handle implements Backend.
func (f *Fenwick) Handle(keys []float64) Handle {
	if len(keys) > f.capacity {
		panic(ErrCapacity)
	}

	h := f.pool.Get().(*fenwickHandle)
	h.keys = compress(keys)
	h.tree = h.tree[:len(h.keys)+1]
	for i := range h.tree {
		h.tree[i] = None
	}
	return h
}

func (h *fenwickHandle) Put(key float64, value int) {
	v := int32(value)
	p := position(h.keys, key) + 1
	if h.prefix(p) >= v {
		return
	}
	for i := p; i < len(h.tree); i += i & -i {
		if h.tree[i] < v {
			h.tree[i] = v
		}
	}
}

func (h *fenwickHandle) QueryMaxAtMost(key float64) int {
	return int(h.prefix(countAtMost(h.keys, key)))
}

// prefix returns the maximum over the first n compressed keys.
func (h *fenwickHandle) prefix(n int) int32 {
	r := int32(None)
	for i := n; i > 0; i -= i & -i {
		r = max(r, h.tree[i])
	}
	return r
}

func (h *fenwickHandle) All() iter.Seq2[float64, int] {
	return func(yield func(float64, int) bool) {
		last := int32(None)
		for i, k := range h.keys {
			if v := h.prefix(i + 1); v > last {
				last = v
				if !yield(k, int(v)) {
					return
				}
			}
		}
	}
}

func (h *fenwickHandle) Release() {
	h.keys = nil
	h.owner.pool.Put(h)
}
