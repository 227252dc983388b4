// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/model"
)

const siteContentKey = "site:content"

// SiteLoader produces the authoritative site payload on a cache miss.
type SiteLoader func(ctx context.Context) (model.SiteContent, error)

// Site caches the assembled public page payload and invalidates it on
// change-bus traffic, so the landing page does not hit the database on
// every request.
type Site struct {
	cache  Cache
	load   SiteLoader
	ttl    time.Duration
	logger *slog.Logger

	sub *bus.Subscription
}

// NewSite creates the typed site cache.
func NewSite(c Cache, load SiteLoader, ttl time.Duration, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	return &Site{cache: c, load: load, ttl: ttl, logger: logger}
}

// Get returns the site payload, serving from cache when possible. A cache
// failure falls through to the loader: the cache can only make requests
// cheaper, never fail them.
func (s *Site) Get(ctx context.Context) (model.SiteContent, error) {
	if raw, err := s.cache.Get(ctx, siteContentKey); err == nil {
		var site model.SiteContent
		if err := json.Unmarshal(raw, &site); err == nil {
			return site, nil
		}
		s.logger.Warn("discarding undecodable cached site content")
		_ = s.cache.Delete(ctx, siteContentKey)
	}

	site, err := s.load(ctx)
	if err != nil {
		return model.SiteContent{}, fmt.Errorf("loading site content: %w", err)
	}

	if raw, err := json.Marshal(site); err == nil {
		if err := s.cache.Set(ctx, siteContentKey, raw, s.ttl); err != nil {
			s.logger.Warn("caching site content failed", "error", err)
		}
	}
	return site, nil
}

// Invalidate drops the cached payload.
func (s *Site) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, siteContentKey); err != nil {
		s.logger.Warn("invalidating site content failed", "error", err)
	}
}

// Watch subscribes to b and invalidates the cache on every content, list or
// brand change until the subscription is closed. It returns immediately.
func (s *Site) Watch(b *bus.Bus) {
	s.sub = b.Subscribe(16,
		bus.TopicSectionUpdated, bus.TopicListChanged, bus.TopicBrandUpdated)
	go func() {
		for range s.sub.C() {
			s.Invalidate(context.Background())
		}
	}()
}

// Stop detaches the bus subscription started by Watch.
func (s *Site) Stop() {
	if s.sub != nil {
		s.sub.Close()
	}
}
