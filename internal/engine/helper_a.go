package engine

import (
	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/internal/median"
)

// helperA ranks the identities in [from, until) against each other. All
// axes above obj are equal within the range and ranks contributed from
// outside the range are already applied. It returns the end of the live
// range, which is sorted by identity.
func (e *Engine) helperA(from, until, obj int) int {
	n := until - from
	if n <= 2 {
		return e.pairA(from, until, obj)
	}

	for obj > 1 {
		if e.hybrid.HelperAHookCondition(n, obj) {
			if r := e.hybrid.HelperAHook(&e.problem, from, until, obj); r != hybrid.Decline {
				e.adoptEvicted(r, until)
				return r
			}
		}

		col := e.columns[obj]
		ids := e.indices[from:until]
		t := e.arena.Temp(from, n)
		lo, hi := col[ids[0]], col[ids[0]]
		for i, id := range ids {
			v := col[id]
			t[i] = v
			lo, hi = min(lo, v), max(hi, v)
		}
		if lo == hi {
			obj--
			continue
		}

		m := median.Destructive(t)
		lt, eq := countAround(col, ids, m)
		if eq*4 <= n {
			return e.splitA2(from, until, obj, m, inclusive(lt, eq, n-lt-eq))
		}
		return e.splitA3(from, until, obj, m)
	}
	return e.sweepA(from, until)
}

// pairA resolves ranges of at most two identities.
func (e *Engine) pairA(from, until, obj int) int {
	if until-from < 2 {
		return until
	}
	good, weak := e.indices[from], e.indices[from+1]
	if e.ranks[good] >= e.ranks[weak] && e.problem.Dominates(good, weak, obj) {
		r := e.ranks[good] + 1
		if r > e.maxRank {
			e.evict(weak)
			return from + 1
		}
		e.ranks[weak] = r
	}
	return until
}

func (e *Engine) splitA2(from, until, obj int, m float64, incl bool) int {
	mid := e.split.SplitTwo(e.columns[obj], e.indices, from, until, m, incl)

	lowUntil := e.helperA(from, mid, obj)
	highUntil := e.helperB(from, lowUntil, mid, until, obj-1, from)
	highUntil = e.helperA(mid, highUntil, obj)

	return e.split.MergeTwo(e.indices, from, lowUntil, mid, highUntil)
}

func (e *Engine) splitA3(from, until, obj int, m float64) int {
	mid, right := e.split.SplitThree(e.columns[obj], e.indices, from, until, m)

	lowUntil := e.helperA(from, mid, obj)

	midUntil := e.helperB(from, lowUntil, mid, right, obj-1, from)
	midUntil = e.helperA(mid, midUntil, obj-1)

	highUntil := e.helperB(from, lowUntil, right, until, obj-1, from)
	highUntil = e.helperB(mid, midUntil, right, highUntil, obj-1, from)
	highUntil = e.helperA(right, highUntil, obj)

	return e.split.MergeThree(e.indices, from, lowUntil, mid, midUntil, right, highUntil)
}

// countAround counts the values of ids below and equal to m.
func countAround(col []float64, ids []int32, m float64) (lt, eq int) {
	for _, id := range ids {
		switch v := col[id]; {
		case v < m:
			lt++
		case v == m:
			eq++
		}
	}
	return lt, eq
}

// inclusive reports whether the values equal to the median join the lower
// part of a two-way split. Both parts are non-empty either way the choice
// falls.
func inclusive(lt, eq, gt int) bool {
	switch {
	case lt == 0:
		return true
	case gt == 0:
		return false
	}
	return abs(lt+eq-gt) < abs(lt-eq-gt)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
