package engine

// sweepA ranks [from, until) when only axes 0 and 1 discriminate. Walking in
// identity order visits every dominator first, so the best rank stored at a
// key no larger than the point's axis-1 value decides its rank.
func (e *Engine) sweepA(from, until int) int {
	key := e.columns[1]
	keys := e.arena.Temp(from, until-from)
	for i, id := range e.indices[from:until] {
		keys[i] = key[id]
	}

	h := e.backend.Handle(keys)
	defer h.Release()

	live := from
	for i := from; i < until; i++ {
		id := e.indices[i]
		r := e.ranks[id]
		if q := int32(h.QueryMaxAtMost(key[id])); q >= r {
			r = q + 1
		}
		if r > e.maxRank {
			e.evict(id)
			continue
		}
		e.ranks[id] = r
		h.Put(key[id], int(r))
		e.indices[live] = id
		live++
	}
	return live
}

// sweepB is the two-axis form of helperB. Goods enter the structure as soon
// as the weak cursor passes their identity.
func (e *Engine) sweepB(goodFrom, goodUntil, weakFrom, weakUntil, tempFrom int) int {
	key := e.columns[1]
	keys := e.arena.Temp(tempFrom, goodUntil-goodFrom)
	for i, id := range e.indices[goodFrom:goodUntil] {
		keys[i] = key[id]
	}

	h := e.backend.Handle(keys)
	defer h.Release()

	g, live := goodFrom, weakFrom
	for i := weakFrom; i < weakUntil; i++ {
		weak := e.indices[i]
		for ; g < goodUntil && e.indices[g] < weak; g++ {
			good := e.indices[g]
			h.Put(key[good], int(e.ranks[good]))
		}

		r := e.ranks[weak]
		if q := int32(h.QueryMaxAtMost(key[weak])); q >= r {
			r = q + 1
		}
		if r > e.maxRank {
			e.evict(weak)
			continue
		}
		e.ranks[weak] = r
		e.indices[live] = weak
		live++
	}
	return live
}
