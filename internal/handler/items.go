// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
)

// ItemHandler manages the ordered content lists (services, case studies).
type ItemHandler struct {
	content  *service.ContentService
	renderer *render.Renderer
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(content *service.ContentService, renderer *render.Renderer) *ItemHandler {
	return &ItemHandler{content: content, renderer: renderer}
}

// itemListData feeds the admin list template.
type itemListData struct {
	List      string
	ListLabel string
	Items     []model.ListItem
	Lists     []string
}

var listLabels = map[string]string{
	model.ListServices:    "Services",
	model.ListCaseStudies: "Case studies",
}

// List shows every item of the named list, disabled ones included.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")

	items, err := h.content.ListItems(r.Context(), list, false)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "listing items")
		return
	}

	if err := h.renderer.Render(w, r, "admin/items", render.TemplateData{
		Title:    listLabels[list],
		Operator: middleware.GetOperator(r),
		Data: itemListData{
			List:      list,
			ListLabel: listLabels[list],
			Items:     items,
			Lists:     model.ListNames,
		},
	}); err != nil {
		logAndInternalError(w, "rendering item list", "error", err, "list", list)
	}
}

// Create appends a new item from the submitted form.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	listURL := RouteLists + "/" + list

	if !parseFormOrRedirect(w, r, h.renderer, listURL) {
		return
	}
	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if _, err := h.content.AddItem(r.Context(), *op, list, itemFields(r)); err != nil {
		flashServiceError(w, r, h.renderer, listURL, err, "adding item")
		return
	}
	flashSuccess(w, r, h.renderer, listURL, "Item added")
}

// Update rewrites an item's fields in place.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	id := chi.URLParam(r, "id")
	listURL := RouteLists + "/" + list

	if !parseFormOrRedirect(w, r, h.renderer, listURL) {
		return
	}
	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if _, err := h.content.UpdateItem(r.Context(), *op, list, id, itemFields(r)); err != nil {
		flashServiceError(w, r, h.renderer, listURL, err, "updating item")
		return
	}
	flashSuccess(w, r, h.renderer, listURL, "Item updated")
}

// Toggle flips an item's public visibility.
func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	id := chi.URLParam(r, "id")
	listURL := RouteLists + "/" + list

	if !parseFormOrRedirect(w, r, h.renderer, listURL) {
		return
	}
	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	active := r.FormValue("active") == "true"
	if err := h.content.SetItemActive(r.Context(), *op, list, id, active); err != nil {
		flashServiceError(w, r, h.renderer, listURL, err, "toggling item")
		return
	}
	if active {
		flashSuccess(w, r, h.renderer, listURL, "Item enabled")
		return
	}
	flashSuccess(w, r, h.renderer, listURL, "Item disabled")
}

// Delete removes an item. Remaining items keep their order.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	id := chi.URLParam(r, "id")
	listURL := RouteLists + "/" + list

	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if err := h.content.RemoveItem(r.Context(), *op, list, id); err != nil {
		flashServiceError(w, r, h.renderer, listURL, err, "deleting item")
		return
	}
	flashSuccess(w, r, h.renderer, listURL, "Item deleted")
}

// itemFields extracts the editable item fields present in the form.
func itemFields(r *http.Request) map[string]string {
	fields := make(map[string]string)
	for _, name := range []string{"title", "subtitle", "body", "metric"} {
		if r.Form.Has(name) {
			fields[name] = r.FormValue(name)
		}
	}
	return fields
}
