// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
)

// SectionHandler serves the singleton section edit pages, including the
// brand settings page.
type SectionHandler struct {
	content  *service.ContentService
	renderer *render.Renderer
}

// NewSectionHandler creates a SectionHandler.
func NewSectionHandler(content *service.ContentService, renderer *render.Renderer) *SectionHandler {
	return &SectionHandler{content: content, renderer: renderer}
}

// sectionField is one editable field for the form template.
type sectionField struct {
	Name     string
	Value    string
	Textarea bool
}

// sectionFormData feeds the section edit template.
type sectionFormData struct {
	Section  string
	Fields   []sectionField
	Meta     model.SectionMeta
	SaveURL  string
	Sections []string
}

// textareaFields render as multi-line inputs in the edit form.
var textareaFields = map[string]bool{
	"body": true, "description": true, "subheading": true, "locations": true,
}

// Edit renders the edit form for the named section.
func (h *SectionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	section, err := h.content.GetSection(r.Context(), name)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "loading section")
		return
	}

	if err := h.renderer.Render(w, r, "admin/section", render.TemplateData{
		Title:    "Edit " + name,
		Operator: middleware.GetOperator(r),
		Data:     h.formData(name, section),
	}); err != nil {
		logAndInternalError(w, "rendering section form", "error", err, "section", name)
	}
}

// Save applies the submitted fields as a shallow merge and redirects back
// to the form.
func (h *SectionHandler) Save(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	formURL := RouteSections + "/" + name

	if !parseFormOrRedirect(w, r, h.renderer, formURL) {
		return
	}

	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	// Only known section fields make it into the patch; everything else in
	// the form (CSRF token and friends) is ignored.
	current, err := h.content.GetSection(r.Context(), name)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "loading section")
		return
	}
	patch := make(map[string]string)
	for field := range current.Fields() {
		if r.Form.Has(field) {
			patch[field] = r.FormValue(field)
		}
	}

	if _, err := h.content.UpdateSection(r.Context(), *op, name, patch); err != nil {
		flashServiceError(w, r, h.renderer, formURL, err, "saving section")
		return
	}

	flashSuccess(w, r, h.renderer, formURL, "Section saved")
}

// EditBrand renders the brand settings page.
func (h *SectionHandler) EditBrand(w http.ResponseWriter, r *http.Request) {
	section, err := h.content.GetSection(r.Context(), model.SectionBrand)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "loading brand settings")
		return
	}

	if err := h.renderer.Render(w, r, "admin/brand", render.TemplateData{
		Title:    "Brand settings",
		Operator: middleware.GetOperator(r),
		Data:     h.formData(model.SectionBrand, section),
	}); err != nil {
		logAndInternalError(w, "rendering brand settings", "error", err)
	}
}

// SaveBrand persists the brand settings form.
func (h *SectionHandler) SaveBrand(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteBrand) {
		return
	}

	op := middleware.GetOperator(r)
	if op == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	brand := &model.Brand{}
	patch := make(map[string]string)
	for field := range brand.Fields() {
		if r.Form.Has(field) {
			patch[field] = r.FormValue(field)
		}
	}

	if _, err := h.content.UpdateSection(r.Context(), *op, model.SectionBrand, patch); err != nil {
		flashServiceError(w, r, h.renderer, RouteBrand, err, "saving brand settings")
		return
	}

	flashSuccess(w, r, h.renderer, RouteBrand, "Brand settings saved")
}

func (h *SectionHandler) formData(name string, section model.Section) sectionFormData {
	fields := section.Fields()
	names := make([]string, 0, len(fields))
	for field := range fields {
		names = append(names, field)
	}
	sort.Strings(names)

	data := sectionFormData{
		Section:  name,
		Meta:     *section.Meta(),
		SaveURL:  RouteSections + "/" + name,
		Sections: model.SectionNames,
	}
	if name == model.SectionBrand {
		data.SaveURL = RouteBrand
	}
	for _, field := range names {
		data.Fields = append(data.Fields, sectionField{
			Name:     field,
			Value:    *fields[field],
			Textarea: textareaFields[field],
		})
	}
	return data
}
