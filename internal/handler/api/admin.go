// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
)

// sortKeys are the sortable columns of an admin list row.
type sortKeys struct {
	Title     string
	SortOrder int64
	CreatedAt time.Time
}

// sortAdminList applies the ?sort=&dir= query parameters to an admin list.
// Each list endpoint sorts independently; without parameters the stored
// order is kept.
func sortAdminList[T any](r *http.Request, items []T, keys func(T) sortKeys) []T {
	col := r.URL.Query().Get("sort")
	dir := content.ParseSortDir(r.URL.Query().Get("dir"))
	if col == "" || dir == content.SortNone {
		return items
	}

	var less func(a, b T) bool
	switch col {
	case "title":
		less = func(a, b T) bool {
			return strings.ToLower(keys(a).Title) < strings.ToLower(keys(b).Title)
		}
	case "sort_order":
		less = func(a, b T) bool { return keys(a).SortOrder < keys(b).SortOrder }
	case "created_at":
		less = func(a, b T) bool { return keys(a).CreatedAt.Before(keys(b).CreatedAt) }
	default:
		return items
	}
	return content.SortBy(items, dir, less)
}

// parseInt64Query parses an optional positive integer query parameter.
func parseInt64Query(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// invalidateCatalog drops the cached public certificate catalog after a
// taxonomy or certificate mutation.
func (h *Handler) invalidateCatalog(ctx context.Context) {
	if h.catalog != nil {
		h.catalog.Invalidate(ctx)
	}
}
