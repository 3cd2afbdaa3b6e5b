// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"

	"github.com/pipeplast/pipecms/internal/store"
)

// LanguageCache keeps the language table in memory. Languages change rarely
// and are consulted on every request, so the whole set is loaded once and
// invalidated explicitly on writes.
type LanguageCache struct {
	queries *store.Queries

	mu          sync.RWMutex
	languages   []store.Language
	active      []store.Language
	byCode      map[string]store.Language
	defaultLang *store.Language
	loaded      bool
}

// NewLanguageCache creates a language cache over the store.
func NewLanguageCache(queries *store.Queries) *LanguageCache {
	return &LanguageCache{
		queries: queries,
		byCode:  make(map[string]store.Language),
	}
}

// GetAll returns all languages.
func (c *LanguageCache) GetAll(ctx context.Context) ([]store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]store.Language, len(c.languages))
	copy(result, c.languages)
	return result, nil
}

// GetActive returns active languages only.
func (c *LanguageCache) GetActive(ctx context.Context) ([]store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]store.Language, len(c.active))
	copy(result, c.active)
	return result, nil
}

// GetByCode returns the language with the given code, or nil if unknown.
func (c *LanguageCache) GetByCode(ctx context.Context, code string) (*store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.byCode[code]; ok {
		return &lang, nil
	}
	return nil, nil
}

// GetDefault returns the default language, or nil if none is flagged.
func (c *LanguageCache) GetDefault(ctx context.Context) (*store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.defaultLang == nil {
		return nil, nil
	}
	lang := *c.defaultLang
	return &lang, nil
}

// IsActive reports whether the code names an active language.
func (c *LanguageCache) IsActive(ctx context.Context, code string) (bool, error) {
	lang, err := c.GetByCode(ctx, code)
	if err != nil {
		return false, err
	}
	return lang != nil && lang.IsActive, nil
}

// Invalidate drops the cached set; the next read reloads from the store.
func (c *LanguageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.languages = nil
	c.active = nil
	c.byCode = make(map[string]store.Language)
	c.defaultLang = nil
}

func (c *LanguageCache) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	all, err := c.queries.ListLanguages(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.languages = all
	c.active = c.active[:0]
	c.byCode = make(map[string]store.Language, len(all))
	c.defaultLang = nil
	for _, l := range all {
		c.byCode[l.Code] = l
		if l.IsActive {
			c.active = append(c.active, l)
		}
		if l.IsDefault {
			lang := l
			c.defaultLang = &lang
		}
	}
	c.loaded = true
	return nil
}
