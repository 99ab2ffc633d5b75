package engine

import (
	"sort"

	"github.com/hupe1980/ndsort/hybrid"
	"github.com/hupe1980/ndsort/internal/median"
)

// helperB raises the ranks of the weak range [weakFrom, weakUntil) using the
// final ranks of the good range [goodFrom, goodUntil). Every good point is
// no worse than every weak point on the axes above obj. Both ranges are
// sorted by identity and goodUntil <= weakFrom. Good ranks and the order of
// the good range are left intact. The temp regions from tempFrom on, sized
// by the two ranges together, belong to this call.
//
// It returns the end of the live weak range, which is sorted by identity.
func (e *Engine) helperB(goodFrom, goodUntil, weakFrom, weakUntil, obj, tempFrom int) int {
	if goodFrom == goodUntil || weakFrom == weakUntil {
		return weakUntil
	}

	idx := e.indices
	// goods above the largest weak identity dominate nothing
	goodUntil = goodFrom + lowerBound(idx[goodFrom:goodUntil], idx[weakUntil-1])
	// weaks below the smallest good identity cannot be dominated; they stay live
	weakFrom += lowerBound(idx[weakFrom:weakUntil], idx[goodFrom])
	if goodFrom == goodUntil || weakFrom == weakUntil {
		return weakUntil
	}

	switch {
	case goodUntil-goodFrom == 1:
		return e.goodOne(idx[goodFrom], weakFrom, weakUntil, obj)
	case weakUntil-weakFrom == 1:
		return e.weakOne(goodFrom, goodUntil, weakFrom, obj)
	}

	goodN, weakN := goodUntil-goodFrom, weakUntil-weakFrom
	for obj > 1 {
		if e.hybrid.HelperBHookCondition(goodN, weakN, obj) {
			if r := e.hybrid.HelperBHook(&e.problem, goodFrom, goodUntil, weakFrom, weakUntil, obj); r != hybrid.Decline {
				e.adoptEvicted(r, weakUntil)
				return r
			}
		}

		col := e.columns[obj]
		goods, weaks := idx[goodFrom:goodUntil], idx[weakFrom:weakUntil]
		goodMin, goodMax := minMax(col, goods)
		weakMin, weakMax := minMax(col, weaks)
		if goodMax <= weakMin {
			obj--
			continue
		}
		if goodMin > weakMax {
			return weakUntil
		}

		t := e.arena.Temp(tempFrom, goodN+weakN)
		for i, id := range goods {
			t[i] = col[id]
		}
		for i, id := range weaks {
			t[goodN+i] = col[id]
		}
		m := median.Destructive(t)

		glt, geq := countAround(col, goods, m)
		wlt, weq := countAround(col, weaks, m)
		lt, eq := glt+wlt, geq+weq
		if n := goodN + weakN; eq*4 <= n {
			return e.splitB2(goodFrom, goodUntil, weakFrom, weakUntil, obj, tempFrom, m, inclusive(lt, eq, n-lt-eq))
		}
		return e.splitB3(goodFrom, goodUntil, weakFrom, weakUntil, obj, tempFrom, m)
	}
	return e.sweepB(goodFrom, goodUntil, weakFrom, weakUntil, tempFrom)
}

// goodOne lets a single good identity raise the weak range.
func (e *Engine) goodOne(good int32, weakFrom, weakUntil, obj int) int {
	r := e.ranks[good] + 1
	live := weakFrom
	for i := weakFrom; i < weakUntil; i++ {
		weak := e.indices[i]
		if e.ranks[weak] < r && e.problem.Dominates(good, weak, obj) {
			if r > e.maxRank {
				e.evict(weak)
				continue
			}
			e.ranks[weak] = r
		}
		e.indices[live] = weak
		live++
	}
	return live
}

// weakOne raises a single weak identity from the good range. All goods are
// smaller identities.
func (e *Engine) weakOne(goodFrom, goodUntil, weakFrom, obj int) int {
	weak := e.indices[weakFrom]
	r := e.ranks[weak]
	for _, good := range e.indices[goodFrom:goodUntil] {
		if e.ranks[good] >= r && e.problem.Dominates(good, weak, obj) {
			r = e.ranks[good] + 1
			if r > e.maxRank {
				e.evict(weak)
				return weakFrom
			}
		}
	}
	e.ranks[weak] = r
	return weakFrom + 1
}

func (e *Engine) splitB2(goodFrom, goodUntil, weakFrom, weakUntil, obj, tempFrom int, m float64, incl bool) int {
	col := e.columns[obj]
	goodMid := e.split.SplitTwo(col, e.indices, goodFrom, goodUntil, m, incl)
	weakMid := e.split.SplitTwo(col, e.indices, weakFrom, weakUntil, m, incl)

	lowUntil, highUntil := weakMid, weakUntil
	highTemp := tempFrom + (goodMid - goodFrom) + (weakMid - weakFrom)
	e.fork(goodUntil-goodFrom+weakUntil-weakFrom,
		func() { lowUntil = e.helperB(goodFrom, goodMid, weakFrom, weakMid, obj, tempFrom) },
		func() { highUntil = e.helperB(goodMid, goodUntil, weakMid, weakUntil, obj, highTemp) },
	)
	highUntil = e.helperB(goodFrom, goodMid, weakMid, highUntil, obj-1, tempFrom)

	e.split.MergeTwo(e.indices, goodFrom, goodMid, goodMid, goodUntil)
	return e.split.MergeTwo(e.indices, weakFrom, lowUntil, weakMid, highUntil)
}

func (e *Engine) splitB3(goodFrom, goodUntil, weakFrom, weakUntil, obj, tempFrom int, m float64) int {
	col := e.columns[obj]
	goodMid, goodRight := e.split.SplitThree(col, e.indices, goodFrom, goodUntil, m)
	weakMid, weakRight := e.split.SplitThree(col, e.indices, weakFrom, weakUntil, m)

	size := goodUntil - goodFrom + weakUntil - weakFrom
	lowUntil, midUntil, highUntil := weakMid, weakRight, weakUntil

	midTemp := tempFrom + (goodMid - goodFrom) + (weakMid - weakFrom)
	highTemp := midTemp + (goodRight - goodMid) + (weakRight - weakMid)
	e.fork(size,
		func() { lowUntil = e.helperB(goodFrom, goodMid, weakFrom, weakMid, obj, tempFrom) },
		func() { midUntil = e.helperB(goodMid, goodRight, weakMid, weakRight, obj-1, midTemp) },
		func() { highUntil = e.helperB(goodRight, goodUntil, weakRight, weakUntil, obj, highTemp) },
	)

	crossTemp := tempFrom + (goodMid - goodFrom) + (midUntil - weakMid)
	e.fork(size,
		func() { midUntil = e.helperB(goodFrom, goodMid, weakMid, midUntil, obj-1, tempFrom) },
		func() { highUntil = e.helperB(goodMid, goodRight, weakRight, highUntil, obj-1, crossTemp) },
	)
	highUntil = e.helperB(goodFrom, goodMid, weakRight, highUntil, obj-1, tempFrom)

	e.split.MergeThree(e.indices, goodFrom, goodMid, goodMid, goodRight, goodRight, goodUntil)
	return e.split.MergeThree(e.indices, weakFrom, lowUntil, weakMid, midUntil, weakRight, highUntil)
}

func minMax(col []float64, ids []int32) (lo, hi float64) {
	lo, hi = col[ids[0]], col[ids[0]]
	for _, id := range ids[1:] {
		v := col[id]
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}

// lowerBound returns the number of sorted ids below id.
func lowerBound(ids []int32, id int32) int {
	return sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
}
