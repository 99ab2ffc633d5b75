// Package hybrid defines how the ranking engine hands small subproblems to
// other algorithms.
//
// Before each non-trivial recursive step the engine asks its Strategy whether
// it wants the subproblem. A hook that accepts must solve it completely,
// including saturation, and returns the new end of the live range; Decline
// hands the subproblem back to the engine.
package hybrid

// Decline is returned by a hook that leaves the subproblem to the engine.
const Decline = -1

// Problem is the engine state a hook operates on. Positions index Indices;
// identities index Ranks and the columns.
//
// Within a range handed to a hook the identities are sorted ascending, and a
// smaller identity is never dominated by a larger one. A hook must keep the
// live identities sorted in the prefix of the range it returns and move every
// saturated identity, with its rank set to MaxRank+1, behind that prefix.
type Problem struct {
	// Indices is the working index array.
	Indices []int32
	// Ranks holds the current rank of every identity.
	Ranks []int32
	// Columns holds the coordinates, Columns[axis][identity].
	Columns [][]float64
	// Scratch is position aligned: a hook may use Scratch[i] for every
	// position i of its ranges.
	Scratch []int32
	// MaxRank is the largest rank that is not saturated.
	MaxRank int32
}

// Dominates reports whether good dominates weak given that only axes
// 0..axis still discriminate and good < weak as identities.
func (p *Problem) Dominates(good, weak int32, axis int) bool {
	for a := axis; a >= 0; a-- {
		if p.Columns[a][good] > p.Columns[a][weak] {
			return false
		}
	}
	return true
}

// Strategy intercepts subproblems of the engine's two recursions.
//
// HelperA ranks the range [from, until) against itself. HelperB raises the
// ranks of the weak range using the final ranks of the good range. Both may
// run concurrently on disjoint ranges.
type Strategy interface {
	// Name identifies the strategy in configuration names.
	Name() string
	HelperAHookCondition(size, axis int) bool
	HelperAHook(p *Problem, from, until, axis int) int
	HelperBHookCondition(goodSize, weakSize, axis int) bool
	HelperBHook(p *Problem, goodFrom, goodUntil, weakFrom, weakUntil, axis int) int
}

// None never intercepts.
type None struct{}

var _ Strategy = None{}

// Name implements Strategy.
func (None) Name() string { return "none" }

// HelperAHookCondition implements Strategy.
func (None) HelperAHookCondition(int, int) bool { return false }

// HelperAHook implements Strategy.
func (None) HelperAHook(*Problem, int, int, int) int { return Decline }

// HelperBHookCondition implements Strategy.
func (None) HelperBHookCondition(int, int, int) bool { return false }

// HelperBHook implements Strategy.
func (None) HelperBHook(*Problem, int, int, int, int, int) int { return Decline }
