// Package veb implements a van Emde Boas set over a bounded integer universe.
//
// The tree is fully materialized at construction in a single node slice.
// A node of width w splits a key into hi = w - w/2 high bits and lo = w/2 low
// bits; its summary (width hi) and its 2^hi clusters (width lo) follow it in
// the slice. Subtree sizes depend on the width only, so children are found by
// arithmetic on the slot number and no node stores a pointer. Widths up to
// leafBits are a single 64-bit word.
//
// Predecessor, successor, insert and remove run in O(log log U).
// A Set is not safe for concurrent use.
package veb

import (
	"errors"
	"fmt"
	"math/bits"
	"unsafe"
)

// None is returned when no element satisfies a query.
const None = -1

// MaxCapacity is the largest universe New accepts.
const MaxCapacity = 1 << 26

const leafBits = 6

// ErrCapacity is returned for a universe New cannot represent.
var ErrCapacity = errors.New("veb: unsupported capacity")

type node struct {
	min, max int32
	bits     uint64
}

// Set is a set of integers in [0, Universe()).
type Set struct {
	width uint8
	count int

	// per-width layout, indexed by width
	lo, hi [32]uint8
	slots  [32]int32

	nodes []node
}

// New returns an empty set able to hold keys in [0, capacity).
func New(capacity int) (*Set, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrCapacity, capacity, MaxCapacity)
	}

	s := &Set{}
	s.layout(capacity)

	s.nodes = make([]node, s.slots[s.width])
	for i := range s.nodes {
		s.nodes[i].min, s.nodes[i].max = None, None
	}
	return s, nil
}

// Footprint returns the bytes New(capacity) allocates for its nodes.
func Footprint(capacity int) (int64, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return 0, fmt.Errorf("%w: %d (allowed 1..%d)", ErrCapacity, capacity, MaxCapacity)
	}
	var s Set
	s.layout(capacity)
	return int64(s.slots[s.width]) * int64(unsafe.Sizeof(node{})), nil
}

// layout fills the per-width tables for a universe covering capacity keys.
func (s *Set) layout(capacity int) {
	s.width = uint8(max(1, bits.Len(uint(capacity-1))))
	for w := uint8(1); w <= s.width; w++ {
		if w <= leafBits {
			s.slots[w] = 1
			continue
		}
		s.lo[w] = w / 2
		s.hi[w] = w - w/2
		s.slots[w] = 1 + s.slots[s.hi[w]] + int32(1)<<s.hi[w]*s.slots[s.lo[w]]
	}
}

// Universe returns the exclusive upper bound of storable keys.
func (s *Set) Universe() int {
	return 1 << s.width
}

// Len returns the number of stored keys.
func (s *Set) Len() int {
	return s.count
}

// Insert adds x. It reports whether x was absent.
func (s *Set) Insert(x int) bool {
	if s.Contains(x) {
		return false
	}
	s.insert(0, s.width, int32(x))
	s.count++
	return true
}

// Remove deletes x. It reports whether x was present.
func (s *Set) Remove(x int) bool {
	if !s.Contains(x) {
		return false
	}
	s.remove(0, s.width, int32(x))
	s.count--
	return true
}

// Contains reports whether x is stored.
func (s *Set) Contains(x int) bool {
	return x >= 0 && x < s.Universe() && s.floor(0, s.width, int32(x)) == int32(x)
}

// Floor returns the largest stored key <= x, or None.
func (s *Set) Floor(x int) int {
	if x < 0 {
		return None
	}
	if x >= s.Universe() {
		return s.Max()
	}
	return int(s.floor(0, s.width, int32(x)))
}

// Next returns the smallest stored key > x, or None.
func (s *Set) Next(x int) int {
	if x < 0 {
		return s.Min()
	}
	if x >= s.Universe()-1 {
		return None
	}
	return int(s.next(0, s.width, int32(x)))
}

// Min returns the smallest stored key, or None.
func (s *Set) Min() int {
	return int(s.minOf(0, s.width))
}

// Max returns the largest stored key, or None.
func (s *Set) Max() int {
	return int(s.maxOf(0, s.width))
}

// Clear removes all keys in O(Len() log log U).
func (s *Set) Clear() {
	for m := s.Min(); m != None; m = s.Min() {
		s.remove(0, s.width, int32(m))
	}
	s.count = 0
}

func (s *Set) summary(slot int32) int32 {
	return slot + 1
}

func (s *Set) cluster(slot int32, w uint8, h int32) int32 {
	return slot + 1 + s.slots[s.hi[w]] + h*s.slots[s.lo[w]]
}

func (s *Set) isEmpty(slot int32, w uint8) bool {
	if w <= leafBits {
		return s.nodes[slot].bits == 0
	}
	return s.nodes[slot].min == None
}

func (s *Set) minOf(slot int32, w uint8) int32 {
	if w <= leafBits {
		b := s.nodes[slot].bits
		if b == 0 {
			return None
		}
		return int32(bits.TrailingZeros64(b))
	}
	return s.nodes[slot].min
}

func (s *Set) maxOf(slot int32, w uint8) int32 {
	if w <= leafBits {
		b := s.nodes[slot].bits
		if b == 0 {
			return None
		}
		return int32(63 - bits.LeadingZeros64(b))
	}
	return s.nodes[slot].max
}

func (s *Set) insert(slot int32, w uint8, x int32) {
	if w <= leafBits {
		s.nodes[slot].bits |= 1 << uint(x)
		return
	}

	n := &s.nodes[slot]
	if n.min == None {
		n.min, n.max = x, x
		return
	}
	if x < n.min {
		x, n.min = n.min, x
	}
	if x > n.max {
		n.max = x
	}

	lo := s.lo[w]
	h, l := x>>lo, x&(1<<lo-1)
	c := s.cluster(slot, w, h)
	if s.isEmpty(c, lo) {
		s.insert(s.summary(slot), s.hi[w], h)
	}
	s.insert(c, lo, l)
}

func (s *Set) remove(slot int32, w uint8, x int32) {
	if w <= leafBits {
		s.nodes[slot].bits &^= 1 << uint(x)
		return
	}

	n := &s.nodes[slot]
	if n.min == n.max {
		n.min, n.max = None, None
		return
	}

	lo, hi := s.lo[w], s.hi[w]
	sum := s.summary(slot)
	if x == n.min {
		// the new minimum leaves its cluster
		first := s.minOf(sum, hi)
		x = first<<lo | s.minOf(s.cluster(slot, w, first), lo)
		n.min = x
	}

	h, l := x>>lo, x&(1<<lo-1)
	c := s.cluster(slot, w, h)
	s.remove(c, lo, l)

	switch {
	case s.isEmpty(c, lo):
		s.remove(sum, hi, h)
		if x == n.max {
			if sm := s.maxOf(sum, hi); sm == None {
				n.max = n.min
			} else {
				n.max = sm<<lo | s.maxOf(s.cluster(slot, w, sm), lo)
			}
		}
	case x == n.max:
		n.max = h<<lo | s.maxOf(c, lo)
	}
}

func (s *Set) floor(slot int32, w uint8, x int32) int32 {
	if w <= leafBits {
		m := s.nodes[slot].bits & (^uint64(0) >> (63 - uint(x)))
		if m == 0 {
			return None
		}
		return int32(63 - bits.LeadingZeros64(m))
	}

	n := &s.nodes[slot]
	if n.min == None || x < n.min {
		return None
	}
	if x >= n.max {
		return n.max
	}

	lo, hi := s.lo[w], s.hi[w]
	h, l := x>>lo, x&(1<<lo-1)
	c := s.cluster(slot, w, h)
	if cm := s.minOf(c, lo); cm != None && l >= cm {
		return h<<lo | s.floor(c, lo, l)
	}
	if h > 0 {
		if ph := s.floor(s.summary(slot), hi, h-1); ph != None {
			return ph<<lo | s.maxOf(s.cluster(slot, w, ph), lo)
		}
	}
	return n.min
}

func (s *Set) next(slot int32, w uint8, x int32) int32 {
	if w <= leafBits {
		m := s.nodes[slot].bits & (^uint64(0) << (uint(x) + 1))
		if m == 0 {
			return None
		}
		return int32(bits.TrailingZeros64(m))
	}

	n := &s.nodes[slot]
	if n.min != None && x < n.min {
		return n.min
	}
	if n.max == None || x >= n.max {
		return None
	}

	lo, hi := s.lo[w], s.hi[w]
	h, l := x>>lo, x&(1<<lo-1)
	c := s.cluster(slot, w, h)
	if cm := s.maxOf(c, lo); cm != None && l < cm {
		return h<<lo | s.next(c, lo, l)
	}
	sh := s.next(s.summary(slot), hi, h)
	if sh == None {
		return None
	}
	return sh<<lo | s.minOf(s.cluster(slot, w, sh), lo)
}
