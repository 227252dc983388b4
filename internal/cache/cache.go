// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer in front of the content
// repository. Two backends implement the same interface: an in-process
// memory cache and Redis for multi-instance deployments.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Cache is implemented by all backends. Values are []byte so the same
// interface serves both the memory and the Redis backend. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key, or ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMiss indicates the key was not found or has expired.
	ErrMiss Error = "cache miss"

	// ErrClosed indicates the cache has been closed.
	ErrClosed Error = "cache closed"
)

// Options selects and configures a backend.
type Options struct {
	// RedisURL enables the Redis backend when non-empty
	// (e.g. redis://localhost:6379/0). Empty selects the memory backend.
	RedisURL string

	// Prefix is prepended to every key on shared backends.
	Prefix string

	// DefaultTTL is used when Set is called with a zero ttl.
	DefaultTTL time.Duration
}

// New creates the cache backend selected by opts.
func New(opts Options, logger *slog.Logger) (Cache, error) {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = time.Hour
	}

	if opts.RedisURL == "" {
		logger.Info("using in-memory cache")
		return NewMemory(opts.DefaultTTL), nil
	}

	c, err := NewRedis(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Info("using redis cache", "prefix", opts.Prefix)
	return c, nil
}
