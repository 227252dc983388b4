// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware: session-backed
// authentication, role checks, login protection, CSRF and request
// timeouts.
package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/session"
	"github.com/space-exhibitions/spacecms/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyOperator holds the signed-in operator in the request context.
const ContextKeyOperator ContextKey = "operator"

// Auth requires an authenticated session and redirects to the login page
// otherwise.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), session.KeyOperatorID) == "" {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadOperator resolves the session's operator id against the directory and
// puts the operator in the request context. A stale id (deleted account) or
// a disabled account destroys the session and sends the visitor back to the
// login page; the session silently degrades to anonymous rather than
// erroring.
func LoadOperator(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sm.GetString(r.Context(), session.KeyOperatorID)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			op, err := queries.GetOperator(r.Context(), id)
			if err != nil || !op.IsActive {
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyOperator, op)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperator retrieves the operator from the request context, or nil when
// the request is anonymous.
func GetOperator(r *http.Request) *model.Operator {
	op, ok := r.Context().Value(ContextKeyOperator).(model.Operator)
	if !ok {
		return nil
	}
	return &op
}

// roleLevel maps roles onto a strict hierarchy for threshold checks.
func roleLevel(role string) int {
	switch role {
	case model.RoleAdmin:
		return 3
	case model.RoleEditor:
		return 2
	case model.RoleViewer:
		return 1
	default:
		return 0
	}
}

// RequireRole passes requests whose operator holds at least the given role
// in the hierarchy admin > editor > viewer. Must run after LoadOperator.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := GetOperator(r)
			if op == nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}
			if roleLevel(op.Role) < minLevel {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
