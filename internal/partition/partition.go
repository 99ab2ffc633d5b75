// Package partition splits and re-merges ranges of the working index array.
//
// All operations are stable and use the caller-provided scratch at the same
// positions as the range they operate on, so calls on disjoint ranges may run
// concurrently on a shared Helper.
package partition

// Helper performs splits and merges using position-aligned scratch.
type Helper struct {
	scratch []int32
}

// New returns a Helper over scratch, which must be at least as long as every
// index array it is used with.
func New(scratch []int32) *Helper {
	return &Helper{scratch: scratch}
}

// SplitTwo stably moves the identities in indices[from:until] whose value is
// below threshold (or equal to it if inclusive) in front of the others.
// It returns the start of the second part.
func (h *Helper) SplitTwo(values []float64, indices []int32, from, until int, threshold float64, inclusive bool) int {
	s := h.scratch
	left, right := from, from
	for i := from; i < until; i++ {
		id := indices[i]
		v := values[id]
		if v < threshold || (inclusive && v == threshold) {
			indices[left] = id
			left++
		} else {
			s[right] = id
			right++
		}
	}
	copy(indices[left:until], s[from:right])
	return left
}

// SplitThree stably reorders indices[from:until] into identities whose value
// is below, equal to and above median. It returns the start of the equal
// part and the start of the greater part.
func (h *Helper) SplitThree(values []float64, indices []int32, from, until int, median float64) (mid, right int) {
	s := h.scratch
	l, m, r := from, from, until
	for i := from; i < until; i++ {
		id := indices[i]
		switch v := values[id]; {
		case v < median:
			indices[l] = id
			l++
		case v == median:
			s[m] = id
			m++
		default:
			r--
			s[r] = id
		}
	}

	mid = l
	right = l + copy(indices[l:], s[from:m])

	// greater part was collected back to front
	for i, j := right, until-1; j >= r; i, j = i+1, j-1 {
		indices[i] = s[j]
	}
	return mid, right
}

// MergeTwo merges the identity-sorted ranges indices[aFrom:aUntil] and
// indices[bFrom:bUntil], where aUntil <= bFrom, into a sorted run starting at
// aFrom. It returns the end of the merged run.
func (h *Helper) MergeTwo(indices []int32, aFrom, aUntil, bFrom, bUntil int) int {
	switch {
	case aFrom == aUntil:
		return aFrom + copy(indices[aFrom:], indices[bFrom:bUntil])
	case bFrom == bUntil:
		return aUntil
	case aUntil == bFrom && indices[aUntil-1] < indices[bFrom]:
		return bUntil
	}

	s := h.scratch
	copy(s[aFrom:aUntil], indices[aFrom:aUntil])

	i, j, w := aFrom, bFrom, aFrom
	for i < aUntil && j < bUntil {
		if s[i] < indices[j] {
			indices[w] = s[i]
			i++
		} else {
			indices[w] = indices[j]
			j++
		}
		w++
	}
	w += copy(indices[w:], s[i:aUntil])
	w += copy(indices[w:], indices[j:bUntil])
	return w
}

// MergeThree merges three identity-sorted ranges in increasing position order
// into a sorted run starting at aFrom and returns its end.
func (h *Helper) MergeThree(indices []int32, aFrom, aUntil, bFrom, bUntil, cFrom, cUntil int) int {
	ab := h.MergeTwo(indices, aFrom, aUntil, bFrom, bUntil)
	return h.MergeTwo(indices, aFrom, ab, cFrom, cUntil)
}
