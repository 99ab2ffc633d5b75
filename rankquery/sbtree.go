package rankquery

// sbnode is a node of the arena-backed size-balanced tree.
// Slot 0 is the nil sentinel; its size stays 0.
type sbnode struct {
	left, right, size int32
	value             int32
	key               float64
}

// sbtree is a size-balanced binary search tree over float64 keys whose nodes
// live in one slice addressed by slot. Freed slots are chained through left.
// The slice may grow on insert, so slots are never held as pointers across
// an insert.
type sbtree struct {
	root  int32
	free  int32
	nodes []sbnode
	stack []int32
}

func newSBTree(capacity int) *sbtree {
	t := &sbtree{nodes: make([]sbnode, 1, capacity+1)}
	return t
}

func (t *sbtree) reset() {
	t.root, t.free = 0, 0
	t.nodes = t.nodes[:1]
}

func (t *sbtree) len() int {
	return int(t.nodes[t.root].size)
}

func (t *sbtree) alloc(key float64, value int32) int32 {
	n := sbnode{size: 1, key: key, value: value}
	if s := t.free; s != 0 {
		t.free = t.nodes[s].left
		t.nodes[s] = n
		return s
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *sbtree) release(s int32) {
	t.nodes[s] = sbnode{left: t.free}
	t.free = s
}

func (t *sbtree) rotateLeft(n int32) int32 {
	nd := t.nodes
	r := nd[n].right
	nd[n].right = nd[r].left
	nd[r].left = n
	nd[r].size = nd[n].size
	nd[n].size = nd[nd[n].left].size + nd[nd[n].right].size + 1
	return r
}

func (t *sbtree) rotateRight(n int32) int32 {
	nd := t.nodes
	l := nd[n].left
	nd[n].left = nd[l].right
	nd[l].right = n
	nd[l].size = nd[n].size
	nd[n].size = nd[nd[n].left].size + nd[nd[n].right].size + 1
	return l
}

// maintain restores the size balance of n after its left (or right) subtree
// grew and returns the new subtree root.
func (t *sbtree) maintain(n int32, right bool) int32 {
	nd := t.nodes
	l, r := nd[n].left, nd[n].right
	if !right {
		switch {
		case nd[nd[l].left].size > nd[r].size:
			n = t.rotateRight(n)
		case nd[nd[l].right].size > nd[r].size:
			nd[n].left = t.rotateLeft(l)
			n = t.rotateRight(n)
		default:
			return n
		}
	} else {
		switch {
		case nd[nd[r].right].size > nd[l].size:
			n = t.rotateLeft(n)
		case nd[nd[r].left].size > nd[l].size:
			nd[n].right = t.rotateRight(r)
			n = t.rotateLeft(n)
		default:
			return n
		}
	}

	c := t.maintain(nd[n].left, false)
	nd[n].left = c
	c = t.maintain(nd[n].right, true)
	nd[n].right = c
	n = t.maintain(n, false)
	return t.maintain(n, true)
}

// insert adds a key that is not yet stored and returns the new subtree root.
func (t *sbtree) insert(n int32, key float64, value int32) int32 {
	if n == 0 {
		return t.alloc(key, value)
	}

	right := key >= t.nodes[n].key
	t.nodes[n].size++
	if right {
		c := t.insert(t.nodes[n].right, key, value)
		t.nodes[n].right = c
	} else {
		c := t.insert(t.nodes[n].left, key, value)
		t.nodes[n].left = c
	}
	return t.maintain(n, right)
}

// remove deletes key if stored and returns the new subtree root.
func (t *sbtree) remove(n int32, key float64) (int32, bool) {
	if n == 0 {
		return 0, false
	}

	nd := t.nodes
	var removed bool
	switch {
	case key < nd[n].key:
		var c int32
		c, removed = t.remove(nd[n].left, key)
		nd[n].left = c
	case key > nd[n].key:
		var c int32
		c, removed = t.remove(nd[n].right, key)
		nd[n].right = c
	default:
		l, r := nd[n].left, nd[n].right
		switch {
		case l == 0:
			t.release(n)
			return r, true
		case r == 0:
			t.release(n)
			return l, true
		}

		// Replace n by its in-order successor s, keeping the right
		// subtree of s attached to its parent.
		parent, s := n, r
		for nd[s].left != 0 {
			nd[s].size--
			parent, s = s, nd[s].left
		}
		nd[n].key, nd[n].value = nd[s].key, nd[s].value
		if parent == n {
			nd[n].right = nd[s].right
		} else {
			nd[parent].left = nd[s].right
		}
		t.release(s)
		removed = true
	}

	if removed {
		nd[n].size--
	}
	return n, removed
}

// floor returns the slot of the largest key <= key, or 0.
func (t *sbtree) floor(key float64) int32 {
	best := int32(0)
	for n := t.root; n != 0; {
		if t.nodes[n].key <= key {
			best, n = n, t.nodes[n].right
		} else {
			n = t.nodes[n].left
		}
	}
	return best
}

// next returns the slot of the smallest key > key, or 0.
func (t *sbtree) next(key float64) int32 {
	best := int32(0)
	for n := t.root; n != 0; {
		if key < t.nodes[n].key {
			best, n = n, t.nodes[n].left
		} else {
			n = t.nodes[n].right
		}
	}
	return best
}

// ascend calls f for every slot in key order until f returns false.
func (t *sbtree) ascend(f func(int32) bool) {
	st := t.stack[:0]
	for n := t.root; n != 0; n = t.nodes[n].left {
		st = append(st, n)
	}
	for len(st) > 0 {
		n := st[len(st)-1]
		st = st[:len(st)-1]
		if !f(n) {
			break
		}
		for c := t.nodes[n].right; c != 0; c = t.nodes[c].left {
			st = append(st, c)
		}
	}
	t.stack = st[:0]
}
