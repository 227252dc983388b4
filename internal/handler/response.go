// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
)

// flashAndRedirect sets a flash message and redirects with 303 See Other.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form, flashing and redirecting on
// failure. Returns true when parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// serviceErrorMessage maps a service-layer error to operator-facing text.
// The boolean reports whether the error is a domain rejection that should
// flash rather than 500.
func serviceErrorMessage(err error) (string, bool) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password", true
	case errors.Is(err, service.ErrAccountDisabled):
		return "This account is disabled", true
	case errors.Is(err, service.ErrDuplicateIdentifier):
		return "Username or email is already in use", true
	case errors.Is(err, service.ErrSelfDeletionForbidden):
		return "You cannot delete your own account", true
	case errors.Is(err, service.ErrNotFound):
		return "Not found", true
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error(), true
	default:
		return "", false
	}
}

// flashServiceError flashes a domain rejection or 500s on infrastructure
// trouble.
func flashServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string, err error, logMsg string) {
	if msg, ok := serviceErrorMessage(err); ok {
		flashError(w, r, renderer, redirectURL, msg)
		return
	}
	logAndInternalError(w, logMsg, "error", err)
}
