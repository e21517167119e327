package stdimg

import "cmp"

// SortFunc sorts s in place in ascending order according to less, using
// insertion sort. It is stable and runs in O(n^2), which is fine for the
// 8-element neighborhood samples it is meant for.
func SortFunc[T any](s []T, less func(a, b T) bool) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i
		// shift strictly greater elements right; equal ones keep their order
		for j > 0 && less(v, s[j-1]) {
			s[j] = s[j-1]
			j--
		}
		s[j] = v
	}
}

// Sort sorts s in place in ascending order.
func Sort[T cmp.Ordered](s []T) {
	SortFunc(s, cmp.Less[T])
}
