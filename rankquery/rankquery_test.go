package rankquery

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	key   float64
	value int
}

// staircase is an ordered-map reference for the put/query contract.
type staircase struct {
	t *btree.BTreeG[pair]
}

func newStaircase() *staircase {
	return &staircase{t: btree.NewG(4, func(a, b pair) bool { return a.key < b.key })}
}

func (s *staircase) query(key float64) int {
	r := None
	s.t.DescendLessOrEqual(pair{key: key}, func(p pair) bool {
		r = p.value
		return false
	})
	return r
}

func (s *staircase) put(key float64, value int) {
	if s.query(key) >= value {
		return
	}
	s.t.ReplaceOrInsert(pair{key, value})

	var dominated []pair
	s.t.AscendGreaterOrEqual(pair{key: key}, func(p pair) bool {
		if p.key == key {
			return true
		}
		if p.value > value {
			return false
		}
		dominated = append(dominated, p)
		return true
	})
	for _, p := range dominated {
		s.t.Delete(p)
	}
}

func (s *staircase) pairs() []pair {
	var out []pair
	s.t.Ascend(func(p pair) bool {
		out = append(out, p)
		return true
	})
	return out
}

func collect(h Handle) []pair {
	var out []pair
	for k, v := range h.All() {
		out = append(out, pair{k, v})
	}
	return out
}

func newBackends(t *testing.T, capacity int) []Backend {
	t.Helper()
	var out []Backend
	for _, kind := range Kinds() {
		b, err := New(kind, capacity)
		require.NoError(t, err)
		require.Equal(t, kind, b.Kind())
		out = append(out, b)
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New("splay", 10)
	require.ErrorIs(t, err, ErrUnknownKind)

	for _, kind := range Kinds() {
		_, err := New(kind, 0)
		require.ErrorIs(t, err, ErrCapacity, kind)
	}

	_, err = NewVanEmdeBoas(1<<26 + 1)
	require.ErrorIs(t, err, ErrCapacity)
}

func TestConcurrentFlags(t *testing.T) {
	for _, b := range newBackends(t, 8) {
		assert.Equal(t, b.Kind() != KindVanEmdeBoas, b.Concurrent(), b.Kind())
		assert.Equal(t, 8, b.Capacity())
	}
}

func TestStaircasePruning(t *testing.T) {
	keys := []float64{1, 2, 3, 4, 5}
	for _, b := range newBackends(t, len(keys)) {
		t.Run(string(b.Kind()), func(t *testing.T) {
			h := b.Handle(append([]float64(nil), keys...))
			defer h.Release()

			assert.Equal(t, None, h.QueryMaxAtMost(10))

			h.Put(2, 1)
			h.Put(4, 3)
			h.Put(5, 2) // dominated by key 4
			assert.Equal(t, []pair{{2, 1}, {4, 3}}, collect(h))

			assert.Equal(t, None, h.QueryMaxAtMost(1.5))
			assert.Equal(t, 1, h.QueryMaxAtMost(2))
			assert.Equal(t, 1, h.QueryMaxAtMost(3.9))
			assert.Equal(t, 3, h.QueryMaxAtMost(100))

			h.Put(1, 3) // removes both larger keys
			assert.Equal(t, []pair{{1, 3}}, collect(h))
			assert.Equal(t, 3, h.QueryMaxAtMost(1))

			h.Put(1, 4)
			h.Put(3, 4) // no gain
			assert.Equal(t, []pair{{1, 4}}, collect(h))
		})
	}
}

func TestBackendEquivalence(t *testing.T) {
	const capacity = 300
	backends := newBackends(t, capacity)
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 40; round++ {
		n := 1 + rng.IntN(capacity)
		keys := make([]float64, n)
		for i := range keys {
			keys[i] = float64(rng.IntN(n)) / 4
		}

		handles := make([]Handle, len(backends))
		for i, b := range backends {
			handles[i] = b.Handle(append([]float64(nil), keys...))
		}
		ref := newStaircase()

		for op := 0; op < 3*n; op++ {
			if rng.IntN(2) == 0 {
				k, v := keys[rng.IntN(n)], rng.IntN(n/2+2)
				ref.put(k, v)
				for _, h := range handles {
					h.Put(k, v)
				}
				continue
			}

			q := float64(rng.IntN(n+2)-1)/4 + float64(rng.IntN(2))/8
			want := ref.query(q)
			for i, h := range handles {
				require.Equal(t, want, h.QueryMaxAtMost(q), "round %d backend %s key %v", round, backends[i].Kind(), q)
			}
		}

		want := ref.pairs()
		for i, h := range handles {
			got := collect(h)
			require.Equal(t, want, got, "round %d backend %s", round, backends[i].Kind())
			for j := 1; j < len(got); j++ {
				require.Less(t, got[j-1].key, got[j].key)
				require.Less(t, got[j-1].value, got[j].value)
			}
			h.Release()
		}
	}
}

func TestVanEmdeBoasSingleHandle(t *testing.T) {
	b, err := NewVanEmdeBoas(4)
	require.NoError(t, err)

	h := b.Handle([]float64{1, 2})
	assert.PanicsWithValue(t, ErrConcurrentUse, func() { b.Handle([]float64{3}) })

	h.Put(2, 5)
	h.Release()

	// released handles start empty
	h = b.Handle([]float64{1, 2})
	assert.Equal(t, None, h.QueryMaxAtMost(2))
	h.Release()
}

func TestPutUnknownKeyPanics(t *testing.T) {
	for _, kind := range []Kind{KindFenwick, KindVanEmdeBoas} {
		b, err := New(kind, 4)
		require.NoError(t, err)

		h := b.Handle([]float64{1, 2})
		assert.Panics(t, func() { h.Put(1.5, 1) }, kind)
		h.Release()
	}
}

func TestFootprint(t *testing.T) {
	const capacity = 1000
	for _, b := range newBackends(t, capacity) {
		for _, handles := range []int{1, 4} {
			want, err := Footprint(b.Kind(), capacity, handles)
			require.NoError(t, err)
			assert.Equal(t, want, b.Footprint(handles), "%s handles=%d", b.Kind(), handles)
			assert.Greater(t, want, int64(capacity), b.Kind())
		}
	}

	one, err := Footprint(KindTree, capacity, 1)
	require.NoError(t, err)
	four, err := Footprint(KindTree, capacity, 4)
	require.NoError(t, err)
	assert.Equal(t, 4*one, four)

	_, err = Footprint("splay", capacity, 1)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = Footprint(KindFenwick, 0, 1)
	require.ErrorIs(t, err, ErrCapacity)
	_, err = Footprint(KindVanEmdeBoas, 1<<26+1, 1)
	require.ErrorIs(t, err, ErrCapacity)
}

// fuzzCapacity bounds the key set of a fuzzed handle.
const fuzzCapacity = 256

func FuzzBackendEquivalence(f *testing.F) {
	f.Add([]byte{3, 1, 4, 1, 5, 9, 2, 6}, []byte{0, 1, 4, 3, 7, 5, 2, 6, 9, 200, 12, 0, 3, 71})
	f.Add([]byte{0}, []byte{2, 0, 1, 0, 1, 255})
	f.Add([]byte{10, 20, 30, 40}, []byte{8, 3, 6, 2, 4, 1, 2, 0, 1, 35})

	f.Fuzz(func(t *testing.T, keyBytes, ops []byte) {
		if len(keyBytes) == 0 || len(keyBytes) > fuzzCapacity {
			return
		}
		keys := make([]float64, len(keyBytes))
		for i, k := range keyBytes {
			keys[i] = float64(k%64) / 4
		}

		backends := newBackends(t, fuzzCapacity)
		handles := make([]Handle, len(backends))
		for i, b := range backends {
			handles[i] = b.Handle(append([]float64(nil), keys...))
		}
		ref := newStaircase()

		// ops come in pairs: an even opcode puts opcode/2 at a key picked by
		// the argument, an odd one queries a key derived from the argument
		for i := 0; i+1 < len(ops); i += 2 {
			op, arg := ops[i], ops[i+1]
			if op%2 == 0 {
				k, v := keys[int(arg)%len(keys)], int(op/2)
				ref.put(k, v)
				for _, h := range handles {
					h.Put(k, v)
				}
				continue
			}

			q := float64(int(arg%72)-4) / 4
			want := ref.query(q)
			for j, h := range handles {
				require.Equal(t, want, h.QueryMaxAtMost(q), "backend %s key %v", backends[j].Kind(), q)
			}
		}

		want := ref.pairs()
		for j, h := range handles {
			require.Equal(t, want, collect(h), "backend %s", backends[j].Kind())
			h.Release()
		}
	})
}

func BenchmarkPutQuery(b *testing.B) {
	for _, n := range []int{1_000, 100_000} {
		rng := rand.New(rand.NewPCG(3, 5))
		keys := make([]float64, n)
		for i := range keys {
			keys[i] = rng.Float64()
		}
		scratch := make([]float64, n)

		for _, kind := range Kinds() {
			backend, err := New(kind, n)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s/n=%d", kind, n), func(b *testing.B) {
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					copy(scratch, keys)
					h := backend.Handle(scratch)
					for _, k := range keys {
						h.Put(k, h.QueryMaxAtMost(k)+1)
					}
					h.Release()
				}
			})
		}
	}
}
