// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryAccount = "account"
	EventCategoryBrand   = "brand"
	EventCategorySystem  = "system"
	EventCategoryCache   = "cache"
)

// Event represents an audit log entry.
type Event struct {
	ID         int64
	Level      string
	Category   string
	Message    string
	OperatorID sql.NullString
	Metadata   string // JSON string
	CreatedAt  time.Time
}
