// Package pagination slices result sequences into limit/offset pages.
package pagination

import "iter"

// Page collects the items of seq at positions [offset, offset+limit) and
// counts every item in seq. A limit of zero or less means no limit.
func Page[T any](seq iter.Seq[T], limit, offset int) ([]T, int) {
	if offset < 0 {
		offset = 0
	}
	items := make([]T, 0)
	total := 0
	for item := range seq {
		if total >= offset && (limit <= 0 || len(items) < limit) {
			items = append(items, item)
		}
		total++
	}
	return items, total
}
