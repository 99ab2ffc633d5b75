// Package median selects order statistics of float64 slices in place.
package median

// insertionThreshold is the range length below which selection falls back to
// insertion sort.
const insertionThreshold = 16

// Destructive returns the median of values and reorders values in the process.
// For an even length the upper of the two middle elements is returned.
// values must be non-empty and must not contain NaN.
func Destructive(values []float64) float64 {
	return Select(values, len(values)/2)
}

// Select returns the k-th smallest element (0-based) of values, reordering
// values so that values[k] holds it, everything before is <= and everything
// after is >=.
func Select(values []float64, k int) float64 {
	lo, hi := 0, len(values)-1
	for hi-lo >= insertionThreshold {
		pivot := medianOfThree(values[lo], values[lo+(hi-lo)/2], values[hi])

		i, j := lo, hi
		for i <= j {
			for values[i] < pivot {
				i++
			}
			for values[j] > pivot {
				j--
			}
			if i <= j {
				values[i], values[j] = values[j], values[i]
				i++
				j--
			}
		}

		// [lo, j] <= pivot, (j, i) == pivot, [i, hi] >= pivot
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return values[k]
		}
	}

	insertionSort(values[lo : hi+1])
	return values[k]
}

func medianOfThree(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}

func insertionSort(values []float64) {
	for i := 1; i < len(values); i++ {
		v := values[i]
		j := i - 1
		for j >= 0 && values[j] > v {
			values[j+1] = values[j]
			j--
		}
		values[j+1] = v
	}
}
