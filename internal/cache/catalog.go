// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
)

// catalogKeyPrefix namespaces the organized certificate tree entries.
const catalogKeyPrefix = "catalog:"

// CatalogCache caches the organized certificate tree per language. The tree
// touches three tables and is rebuilt on every public catalog request, so
// the assembled result is kept until a certificate, subcategory, or
// category write invalidates it.
type CatalogCache struct {
	typed *TypedCache[[]content.OrganizedCategory]
}

// NewCatalogCache creates a catalog cache on top of the given backend.
func NewCatalogCache(backend Cacher, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		typed: NewTypedCache[[]content.OrganizedCategory](backend, ttl),
	}
}

// Get returns the cached tree for the language, or computes and stores it.
func (c *CatalogCache) Get(ctx context.Context, lang content.LanguageCode, build func() ([]content.OrganizedCategory, error)) ([]content.OrganizedCategory, error) {
	result, err := c.typed.GetOrSet(ctx, catalogKeyPrefix+string(lang), func() (*[]content.OrganizedCategory, error) {
		tree, err := build()
		if err != nil {
			return nil, err
		}
		return &tree, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// Invalidate drops the cached tree for every supported language.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	for _, lang := range content.SupportedLanguages {
		_ = c.typed.Delete(ctx, catalogKeyPrefix+string(lang))
	}
}
