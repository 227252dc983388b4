// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/session"
	"github.com/space-exhibitions/spacecms/internal/store"
	"github.com/space-exhibitions/spacecms/internal/testutil"
)

func createOperator(t *testing.T, db *sql.DB, role string, active bool) model.Operator {
	t.Helper()
	op := model.Operator{
		ID:           uuid.NewString(),
		Username:     "op-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@space-exhibitions.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.New(db).CreateOperator(context.Background(), op))
	return op
}

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}), called
}

func TestAuthRedirectsAnonymous(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := session.New(db, true)
	next, called := okHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	sm.LoadAndSave(Auth(sm)(next)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.False(t, *called)
}

func TestLoadOperatorPutsOperatorInContext(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	op := createOperator(t, db, model.RoleEditor, true)
	sm := session.New(db, true)

	var got *model.Operator
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetOperator(r)
	})

	setup := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), session.KeyOperatorID, op.ID)
		LoadOperator(sm, db)(inner).ServeHTTP(w, r)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	sm.LoadAndSave(setup).ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, op.ID, got.ID)
	assert.Equal(t, model.RoleEditor, got.Role)
}

// A session pointing at a deleted or disabled account degrades to
// anonymous: the session is destroyed and the visitor lands on the login
// page instead of an error.
func TestLoadOperatorStaleSession(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	disabled := createOperator(t, db, model.RoleEditor, false)
	sm := session.New(db, true)

	for _, id := range []string{"deleted-operator-id", disabled.ID} {
		next, called := okHandler()
		setup := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sm.Put(r.Context(), session.KeyOperatorID, id)
			LoadOperator(sm, db)(next).ServeHTTP(w, r)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		sm.LoadAndSave(setup).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, id)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), id)
		assert.False(t, *called, id)
	}
}

func TestRequireRoleHierarchy(t *testing.T) {
	tests := []struct {
		role    string
		minRole string
		want    int
	}{
		{model.RoleAdmin, model.RoleAdmin, http.StatusOK},
		{model.RoleAdmin, model.RoleViewer, http.StatusOK},
		{model.RoleEditor, model.RoleEditor, http.StatusOK},
		{model.RoleEditor, model.RoleAdmin, http.StatusForbidden},
		{model.RoleViewer, model.RoleEditor, http.StatusForbidden},
		{model.RoleViewer, model.RoleViewer, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.role+"->"+tt.minRole, func(t *testing.T) {
			next, _ := okHandler()
			handler := RequireRole(tt.minRole)(next)

			op := model.Operator{ID: "x", Role: tt.role}
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req = req.WithContext(context.WithValue(req.Context(), ContextKeyOperator, op))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoleAnonymous(t *testing.T) {
	next, _ := okHandler()
	handler := RequireRole(model.RoleViewer)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuthAllowsSignedIn(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	op := createOperator(t, db, model.RoleAdmin, true)
	sm := session.New(db, true)

	next, called := okHandler()
	setup := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), session.KeyOperatorID, op.ID)
		Auth(sm)(next).ServeHTTP(w, r)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	sm.LoadAndSave(setup).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}
