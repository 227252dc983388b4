// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application: operator accounts, content sections, list items and audit
// events.
package model

import (
	"database/sql"
	"time"
)

// Operator roles, from most to least privileged.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRoles contains all valid operator roles.
var ValidRoles = []string{RoleAdmin, RoleEditor, RoleViewer}

// Operator represents a staff account with access to the admin panel.
type Operator struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	LastLogin    sql.NullTime `json:"last_login,omitempty"`
}

// IsAdmin returns true if the operator has the admin role.
func (o *Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}

// CanEdit returns true if the operator may mutate site content.
func (o *Operator) CanEdit() bool {
	return o.Role == RoleAdmin || o.Role == RoleEditor
}

// IsValidRole checks whether role is one of the known operator roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
