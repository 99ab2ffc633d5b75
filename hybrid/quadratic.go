package hybrid

// DefaultQuadraticThreshold is the subproblem size below which Quadratic
// takes over when no threshold is configured.
const DefaultQuadraticThreshold = 32

// Quadratic solves small subproblems by comparing every pair.
//
// HelperA subproblems with at most Threshold points and HelperB subproblems
// with at most Threshold² good-weak pairs are intercepted.
type Quadratic struct {
	Threshold int
}

var _ Strategy = Quadratic{}

func (q Quadratic) threshold() int {
	if q.Threshold <= 0 {
		return DefaultQuadraticThreshold
	}
	return q.Threshold
}

// Name implements Strategy.
func (Quadratic) Name() string { return "quadratic" }

// HelperAHookCondition implements Strategy.
func (q Quadratic) HelperAHookCondition(size, _ int) bool {
	return size <= q.threshold()
}

// HelperBHookCondition implements Strategy.
func (q Quadratic) HelperBHookCondition(goodSize, weakSize, _ int) bool {
	t := q.threshold()
	return goodSize*weakSize <= t*t
}

// HelperAHook implements Strategy.
func (Quadratic) HelperAHook(p *Problem, from, until, axis int) int {
	live, evicted := from, from
	for i := from; i < until; i++ {
		weak := p.Indices[i]
		r := p.Ranks[weak]
		// live predecessors are final and sit in [from, live)
		for j := from; j < live && r <= p.MaxRank; j++ {
			good := p.Indices[j]
			if p.Ranks[good] >= r && p.Dominates(good, weak, axis) {
				r = p.Ranks[good] + 1
			}
		}
		live, evicted = settle(p, weak, r, live, evicted)
	}
	return moveEvicted(p, from, live, evicted)
}

// HelperBHook implements Strategy.
func (Quadratic) HelperBHook(p *Problem, goodFrom, goodUntil, weakFrom, weakUntil, axis int) int {
	live, evicted := weakFrom, weakFrom
	for i := weakFrom; i < weakUntil; i++ {
		weak := p.Indices[i]
		r := p.Ranks[weak]
		for j := goodFrom; j < goodUntil && r <= p.MaxRank; j++ {
			good := p.Indices[j]
			if good > weak {
				break
			}
			if p.Ranks[good] >= r && p.Dominates(good, weak, axis) {
				r = p.Ranks[good] + 1
			}
		}
		live, evicted = settle(p, weak, r, live, evicted)
	}
	return moveEvicted(p, weakFrom, live, evicted)
}

// settle stores rank r of id and either keeps id live at position live or
// parks it in the scratch at position evicted.
func settle(p *Problem, id, r int32, live, evicted int) (int, int) {
	if r > p.MaxRank {
		p.Ranks[id] = p.MaxRank + 1
		p.Scratch[evicted] = id
		return live, evicted + 1
	}
	p.Ranks[id] = r
	p.Indices[live] = id
	return live + 1, evicted
}

// moveEvicted copies the parked identities behind the live prefix and returns
// the end of the live range.
func moveEvicted(p *Problem, from, live, evicted int) int {
	copy(p.Indices[live:], p.Scratch[from:evicted])
	return live
}
