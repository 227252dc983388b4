// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/space-exhibitions/spacecms/internal/model"
)

// InsertEvent appends an audit event.
func (q *Queries) InsertEvent(ctx context.Context, e model.Event) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, operator_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Level, e.Category, e.Message, e.OperatorID, e.Metadata, e.CreatedAt)
	return err
}

// ListEvents returns audit events newest first.
func (q *Queries) ListEvents(ctx context.Context, limit, offset int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, operator_id, metadata, created_at
		FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message,
			&e.OperatorID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEvents returns the total number of audit events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// PurgeEventsBefore deletes audit events older than cutoff and returns the
// number removed.
func (q *Queries) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeExpiredSessions removes session rows whose expiry has passed. scs
// stores expiry as a Julian day number, so the comparison has to happen in
// the same representation.
func (q *Queries) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expiry < julianday('now')`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
