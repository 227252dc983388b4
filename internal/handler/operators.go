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

// OperatorHandler manages operator accounts. All routes require the admin
// role; the router enforces that.
type OperatorHandler struct {
	accounts *service.AccountService
	renderer *render.Renderer
}

// NewOperatorHandler creates an OperatorHandler.
func NewOperatorHandler(accounts *service.AccountService, renderer *render.Renderer) *OperatorHandler {
	return &OperatorHandler{accounts: accounts, renderer: renderer}
}

// operatorFormData feeds the account create/edit template.
type operatorFormData struct {
	Account model.Operator
	IsNew   bool
	Roles   []string
	SaveURL string
}

// List shows all operator accounts.
func (h *OperatorHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteAdmin, err, "listing operators")
		return
	}

	if err := h.renderer.Render(w, r, "admin/operators", render.TemplateData{
		Title:    "Operators",
		Operator: middleware.GetOperator(r),
		Data:     accounts,
	}); err != nil {
		logAndInternalError(w, "rendering operator list", "error", err)
	}
}

// NewForm renders the blank account form.
func (h *OperatorHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/operator_form", render.TemplateData{
		Title:    "New operator",
		Operator: middleware.GetOperator(r),
		Data: operatorFormData{
			Account: model.Operator{Role: model.RoleEditor},
			IsNew:   true,
			Roles:   model.ValidRoles,
			SaveURL: RouteOperators,
		},
	}); err != nil {
		logAndInternalError(w, "rendering operator form", "error", err)
	}
}

// Create adds a new operator account.
func (h *OperatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteOperators) {
		return
	}
	actor := middleware.GetOperator(r)
	if actor == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	_, err := h.accounts.Create(r.Context(), actor.ID, service.CreateAccountInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	})
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteOperators+"/new", err, "creating operator")
		return
	}
	flashSuccess(w, r, h.renderer, RouteOperators, "Operator created")
}

// EditForm renders the account form pre-filled with an existing account.
func (h *OperatorHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		flashServiceError(w, r, h.renderer, RouteOperators, err, "loading operator")
		return
	}

	if err := h.renderer.Render(w, r, "admin/operator_form", render.TemplateData{
		Title:    "Edit " + account.Username,
		Operator: middleware.GetOperator(r),
		Data: operatorFormData{
			Account: account,
			Roles:   model.ValidRoles,
			SaveURL: RouteOperators + "/" + account.ID,
		},
	}); err != nil {
		logAndInternalError(w, "rendering operator form", "error", err, "id", id)
	}
}

// Update rewrites an operator's profile. Leaving the password field empty
// keeps the current password.
func (h *OperatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	formURL := RouteOperators + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, formURL) {
		return
	}
	actor := middleware.GetOperator(r)
	if actor == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	_, err := h.accounts.Update(r.Context(), actor.ID, id, service.UpdateAccountInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Role:     r.FormValue("role"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		flashServiceError(w, r, h.renderer, formURL, err, "updating operator")
		return
	}
	flashSuccess(w, r, h.renderer, RouteOperators, "Operator updated")
}

// Toggle enables or disables an account without touching its data.
func (h *OperatorHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !parseFormOrRedirect(w, r, h.renderer, RouteOperators) {
		return
	}
	actor := middleware.GetOperator(r)
	if actor == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	active := r.FormValue("active") == "true"
	if err := h.accounts.SetActive(r.Context(), actor.ID, id, active); err != nil {
		flashServiceError(w, r, h.renderer, RouteOperators, err, "toggling operator")
		return
	}
	if active {
		flashSuccess(w, r, h.renderer, RouteOperators, "Operator enabled")
		return
	}
	flashSuccess(w, r, h.renderer, RouteOperators, "Operator disabled")
}

// Delete removes an account. Operators cannot delete themselves.
func (h *OperatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	actor := middleware.GetOperator(r)
	if actor == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if err := h.accounts.Delete(r.Context(), actor.ID, id); err != nil {
		flashServiceError(w, r, h.renderer, RouteOperators, err, "deleting operator")
		return
	}
	flashSuccess(w, r, h.renderer, RouteOperators, "Operator deleted")
}
