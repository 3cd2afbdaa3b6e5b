// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "sort"

// SortDir is the tri-state column sort used by the admin list views:
// none -> ascending -> descending. Each view owns its own sort state; this
// is deliberately not part of the Organize pipeline.
type SortDir int

// Sort directions.
const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// ParseSortDir maps a query-string value to a direction. Anything but
// "asc" or "desc" means unsorted.
func ParseSortDir(s string) SortDir {
	switch s {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	}
	return SortNone
}

// Next returns the direction a header click cycles to.
func (d SortDir) Next() SortDir {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// String returns the query-string form of the direction.
func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return ""
}

// SortBy returns a copy of items ordered by the given direction using less
// as the ascending comparison. SortNone returns the input order unchanged.
// The sort is stable and the input slice is never mutated.
func SortBy[T any](items []T, dir SortDir, less func(a, b T) bool) []T {
	if dir == SortNone || len(items) < 2 {
		return items
	}
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
