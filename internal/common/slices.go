package common

import "strings"

// FilterEmpty returns the non-zero values of items in order.
func FilterEmpty[T comparable](items ...T) []T {
	result := make([]T, 0, len(items))
	var zero T
	for _, item := range items {
		if item != zero {
			result = append(result, item)
		}
	}
	return result
}

// SplitList splits comma separated values as accepted by query strings and
// CLI flags, dropping blanks.
func SplitList(values ...string) []string {
	var parts []string
	for _, value := range values {
		for part := range strings.SplitSeq(value, ",") {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return FilterEmpty(parts...)
}
