// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides shared request parsing helpers for the HTTP
// layer.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Pagination defaults for admin list endpoints.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ErrInvalidID means the {id} URL parameter is missing or not a positive
// integer.
var ErrInvalidID = errors.New("invalid id parameter")

// ParseIDParam parses the {id} chi URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParsePageParam parses the ?page= query parameter, defaulting to 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePerPageParam parses the ?per_page= query parameter, clamped to
// [1, max].
func ParsePerPageParam(r *http.Request, def, max int) int {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		return def
	}
	if perPage > max {
		return max
	}
	return perPage
}
