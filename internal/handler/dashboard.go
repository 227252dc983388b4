// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
)

// AdminHandler serves the dashboard and the audit log.
type AdminHandler struct {
	content  *service.ContentService
	events   *service.EventService
	renderer *render.Renderer
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(content *service.ContentService, events *service.EventService, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{content: content, events: events, renderer: renderer}
}

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Sections     []string
	Lists        []string
	ServiceCount int
	CaseCount    int
	RecentEvents []model.Event
}

// Dashboard shows section shortcuts, list sizes and recent activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := h.content.ListItems(ctx, model.ListServices, false)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteLogin, err, "loading dashboard")
		return
	}
	cases, err := h.content.ListItems(ctx, model.ListCaseStudies, false)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteLogin, err, "loading dashboard")
		return
	}
	recent, err := h.events.List(ctx, 10, 0)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteLogin, err, "loading dashboard")
		return
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title:    "Dashboard",
		Operator: middleware.GetOperator(r),
		Data: dashboardData{
			Sections:     model.SectionNames,
			Lists:        model.ListNames,
			ServiceCount: len(services),
			CaseCount:    len(cases),
			RecentEvents: recent,
		},
	}); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// auditPageSize is the number of audit entries per page.
const auditPageSize = 50

// auditData feeds the audit log template.
type auditData struct {
	Events  []model.Event
	Page    int
	Pages   int
	Total   int64
	HasPrev bool
	HasNext bool
}

// AuditLog lists audit events, newest first, with page-based navigation.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	total, err := h.events.Count(r.Context())
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "counting events")
		return
	}
	events, err := h.events.List(r.Context(), auditPageSize, int64(page-1)*auditPageSize)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "listing events")
		return
	}

	pages := int((total + auditPageSize - 1) / auditPageSize)
	if pages < 1 {
		pages = 1
	}

	if err := h.renderer.Render(w, r, "admin/audit", render.TemplateData{
		Title:    "Audit log",
		Operator: middleware.GetOperator(r),
		Data: auditData{
			Events:  events,
			Page:    page,
			Pages:   pages,
			Total:   total,
			HasPrev: page > 1,
			HasNext: page < pages,
		},
	}); err != nil {
		logAndInternalError(w, "rendering audit log", "error", err)
	}
}
