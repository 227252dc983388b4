// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/cache"
	"github.com/space-exhibitions/spacecms/internal/render"
)

// FrontendHandler serves the public landing page, the SSE change stream and
// the health endpoint.
type FrontendHandler struct {
	site     *cache.Site
	changes  *bus.Bus
	renderer *render.Renderer
	version  string
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(site *cache.Site, changes *bus.Bus, renderer *render.Renderer, version string) *FrontendHandler {
	return &FrontendHandler{site: site, changes: changes, renderer: renderer, version: version}
}

// Home renders the public landing page from the cached site content.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteRoot {
		http.NotFound(w, r)
		return
	}

	site, err := h.site.Get(r.Context())
	if err != nil {
		logAndInternalError(w, "loading site content", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "public/index", render.TemplateData{
		Title: site.Hero.Headline,
		Data:  site,
	}); err != nil {
		logAndInternalError(w, "rendering landing page", "error", err)
	}
}

// Stream is the SSE endpoint. Each content change is written as one
// "change" event carrying the bus message as JSON; connected pages use it
// to refresh without polling. Events published before a client connects are
// never replayed.
func (h *FrontendHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := h.changes.Subscribe(16,
		bus.TopicSectionUpdated, bus.TopicListChanged, bus.TopicBrandUpdated)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// Health reports liveness for load balancers and uptime checks.
func (h *FrontendHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
