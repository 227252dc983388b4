// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers: the admin panel, the public
// landing page and the SSE change stream.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
	"github.com/space-exhibitions/spacecms/internal/session"
)

// AuthHandler serves the login and logout routes.
type AuthHandler struct {
	accounts        *service.AccountService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts *service.AccountService, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		accounts:        accounts,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Signed-in operators land on the
// dashboard instead.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetString(r.Context(), session.KeyOperatorID) != "" {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Sign in",
	}); err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the login form submission. Username or email both work as
// the identifier.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	login := r.FormValue("login")
	password := r.FormValue("password")
	if login == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Username and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsLocked(login); locked {
		flashError(w, r, h.renderer, RouteLogin,
			fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining.Round(time.Second)))
		return
	}

	op, err := h.accounts.Authenticate(r.Context(), login, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if locked, duration := h.loginProtection.RecordFailure(login); locked {
				flashError(w, r, h.renderer, RouteLogin,
					fmt.Sprintf("Too many failed attempts. Account locked for %s.", duration))
				return
			}
		}
		flashServiceError(w, r, h.renderer, RouteLogin, err, "authenticating operator")
		return
	}

	h.loginProtection.RecordSuccess(login)

	// Rotate the session token on privilege change.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "renewing session token", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyOperatorID, op.ID)

	http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "destroying session", "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, RouteLogin, "Signed out")
}
