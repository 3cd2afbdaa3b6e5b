// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"
)

// Options selects and configures the cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty; otherwise the
	// in-memory backend is used.
	RedisURL string

	// Prefix is the key prefix for the Redis backend.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize bounds the in-memory backend (0 = unlimited).
	MaxSize int

	// CleanupInterval is the expired-entry sweep interval for the
	// in-memory backend.
	CleanupInterval time.Duration
}

// DefaultOptions returns the default cache configuration.
func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache backend from the options.
func New(opts Options) (Cacher, error) {
	if opts.RedisURL != "" {
		return NewRedisCacheFromURL(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxSize:         opts.MaxSize,
		CleanupInterval: opts.CleanupInterval,
	}), nil
}
