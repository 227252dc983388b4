// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business logic between handlers and the
// store: the account directory, the content repository and the audit event
// log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/store"
)

// EventService records and lists audit events.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// Log records an audit event. operatorID may be empty for system events.
// Logging is best-effort: callers treat a failure as non-fatal.
func (s *EventService) Log(ctx context.Context, level, category, message, operatorID string, metadata map[string]any) error {
	var opID sql.NullString
	if operatorID != "" {
		opID = sql.NullString{String: operatorID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	return s.queries.InsertEvent(ctx, model.Event{
		Level:      level,
		Category:   category,
		Message:    message,
		OperatorID: opID,
		Metadata:   metadataJSON,
		CreatedAt:  time.Now().UTC(),
	})
}

// LogInfo records an info-level audit event.
func (s *EventService) LogInfo(ctx context.Context, category, message, operatorID string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelInfo, category, message, operatorID, metadata)
}

// LogWarning records a warning-level audit event.
func (s *EventService) LogWarning(ctx context.Context, category, message, operatorID string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelWarning, category, message, operatorID, metadata)
}

// LogError records an error-level audit event.
func (s *EventService) LogError(ctx context.Context, category, message, operatorID string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelError, category, message, operatorID, metadata)
}

// List returns audit events newest first.
func (s *EventService) List(ctx context.Context, limit, offset int64) ([]model.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := s.queries.ListEvents(ctx, limit, offset)
	if err != nil {
		return nil, storeErr("listing events", err)
	}
	return events, nil
}

// Count returns the total number of audit events.
func (s *EventService) Count(ctx context.Context) (int64, error) {
	n, err := s.queries.CountEvents(ctx)
	if err != nil {
		return 0, storeErr("counting events", err)
	}
	return n, nil
}

// PurgeOlderThan removes audit events past the retention window.
func (s *EventService) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.queries.PurgeEventsBefore(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return 0, storeErr("purging events", err)
	}
	return n, nil
}
