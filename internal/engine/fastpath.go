package engine

import "sort"

// rankChain handles one axis: distinct values form a single chain.
func (e *Engine) rankChain(unique int) {
	for id := range int32(unique) {
		if id > e.maxRank {
			e.evict(id)
			continue
		}
		e.ranks[id] = id
	}
}

// rankPlane handles two axes. frontier[r] is the smallest axis-1 value among
// the rank r points seen so far; it is non-decreasing, so a point's rank is
// the number of entries not above its axis-1 value.
func (e *Engine) rankPlane(unique int) {
	key := e.columns[1]
	frontier := e.arena.Temp(0, min(unique, int(e.maxRank)+1))[:0]

	for id := range int32(unique) {
		v := key[id]
		r := sort.Search(len(frontier), func(i int) bool { return frontier[i] > v })
		if r > int(e.maxRank) {
			e.evict(id)
			continue
		}
		e.ranks[id] = int32(r)
		if r == len(frontier) {
			frontier = append(frontier, v)
		} else {
			frontier[r] = v
		}
	}
}
