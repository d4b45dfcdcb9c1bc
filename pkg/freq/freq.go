// Package freq ranks observed values by how often they occur.
package freq

import "sort"

// TopK returns the k most frequent distinct non-zero values. Ties keep the
// order in which values were first seen, so the result is reproducible for
// a given input order. k <= 0 returns nil.
func TopK[T comparable](values []T, k int) []T {
	if k <= 0 {
		return nil
	}

	var zero T
	counts := make(map[T]int, len(values))
	order := make([]T, 0, len(values))
	for _, v := range values {
		if v == zero {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > k {
		order = order[:k]
	}
	return order
}

// MostCommon returns the single most frequent non-zero value.
func MostCommon[T comparable](values []T) (T, bool) {
	top := TopK(values, 1)
	if len(top) == 0 {
		var zero T
		return zero, false
	}
	return top[0], true
}

// FirstMatching returns the first value, in input order, for which match is true.
func FirstMatching[T any](values []T, match func(T) bool) (T, bool) {
	for _, v := range values {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Without returns values minus any entry equal to one of drop. Order is kept.
func Without[T comparable](values []T, drop ...T) []T {
	out := make([]T, 0, len(values))
next:
	for _, v := range values {
		for _, d := range drop {
			if v == d {
				continue next
			}
		}
		out = append(out, v)
	}
	return out
}
