// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/testutil"
)

func TestLogRecordsEvent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	err := svc.LogInfo(ctx, model.EventCategoryContent, "section updated", "op-1", map[string]any{
		"fields": []string{"headline"},
	})
	require.NoError(t, err)

	events, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, model.EventLevelInfo, ev.Level)
	assert.Equal(t, model.EventCategoryContent, ev.Category)
	assert.Equal(t, "section updated", ev.Message)
	require.True(t, ev.OperatorID.Valid)
	assert.Equal(t, "op-1", ev.OperatorID.String)
	assert.Contains(t, ev.Metadata, `"headline"`)
}

func TestLogWithoutOperator(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogWarning(ctx, model.EventCategorySystem, "maintenance started", "", nil))

	events, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].OperatorID.Valid)
	assert.Equal(t, "{}", events[0].Metadata)
}

func TestLogLevels(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategoryAuth, "signed in", "", nil))
	require.NoError(t, svc.LogWarning(ctx, model.EventCategoryAuth, "failed login", "", nil))
	require.NoError(t, svc.LogError(ctx, model.EventCategorySystem, "cache backend down", "", nil))

	events, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, model.EventLevelError, events[0].Level)
	assert.Equal(t, model.EventLevelWarning, events[1].Level)
	assert.Equal(t, model.EventLevelInfo, events[2].Level)
}

func TestListPagination(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.LogInfo(ctx, model.EventCategoryContent, "event", "", nil))
	}

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	page, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := svc.List(ctx, 10, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestPurgeOlderThan(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO events (level, category, message, metadata, created_at)
		VALUES ('info', 'system', 'old event', '{}', datetime('now', '-91 days'))
	`)
	require.NoError(t, err)
	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "recent event", "", nil))

	purged, err := svc.PurgeOlderThan(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
