package common

import "slices"

// Coalesce picks the first of values that is not the zero value of T. The layout
// dump uses it to put a placeholder in place of an unnamed block.
//
// Parameters:
//   - values: candidates in order of preference
//
// Returns:
//   - T: the first non-zero candidate, or the zero value when there is none
func Coalesce[T comparable](values ...T) T {
	var zero T
	if i := slices.IndexFunc(values, func(v T) bool { return v != zero }); i >= 0 {
		return values[i]
	}
	return zero
}
