package loader

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps the items whose field contains term, ignoring case.
// An empty term keeps everything. Items with an empty field never match a
// non-empty term. Pagination state is untouched.
func Filter[T any](items []T, term string, field func(T) string) []T {
	if term == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		value := field(item)
		if value == "" {
			continue
		}
		if strings.Contains(fold.String(value), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Distinct returns the non-empty field values in the order they first appear.
func Distinct[T any](items []T, field func(T) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		value := field(item)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
