// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/space-exhibitions/spacecms/internal/model"
)

// listTable validates the list name against the known tables. Table names
// are never interpolated from user input without passing through here.
func listTable(list string) (string, error) {
	if !model.IsValidList(list) {
		return "", fmt.Errorf("unknown list %q", list)
	}
	return list, nil
}

const itemColumns = `id, title, subtitle, body, metric, display_order, is_active, updated_at, updated_by`

func scanItem(row interface{ Scan(...any) error }) (model.ListItem, error) {
	var it model.ListItem
	err := row.Scan(&it.ID, &it.Title, &it.Subtitle, &it.Body, &it.Metric,
		&it.DisplayOrder, &it.IsActive, &it.UpdatedAt, &it.UpdatedBy)
	return it, err
}

// ListItems returns all items of the named list ordered by display_order.
// When activeOnly is set, disabled items are filtered out.
func (q *Queries) ListItems(ctx context.Context, list string, activeOnly bool) ([]model.ListItem, error) {
	table, err := listTable(list)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, itemColumns, table)
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ListItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetItem fetches a single list item by id.
func (q *Queries) GetItem(ctx context.Context, list, id string) (model.ListItem, error) {
	table, err := listTable(list)
	if err != nil {
		return model.ListItem{}, err
	}
	row := q.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, itemColumns, table), id)
	return scanItem(row)
}

// InsertItem appends it to the named list. The display order is assigned
// inside the statement as one past the current maximum, so concurrent
// inserts cannot race to the same slot.
func (q *Queries) InsertItem(ctx context.Context, list string, it model.ListItem) error {
	table, err := listTable(list)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, title, subtitle, body, metric, display_order, is_active, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM %s), ?, ?, ?)`,
		table, table),
		it.ID, it.Title, it.Subtitle, it.Body, it.Metric, it.IsActive, it.UpdatedAt, it.UpdatedBy)
	return err
}

// UpdateItem rewrites the editable fields of an existing item. The display
// order is left untouched.
func (q *Queries) UpdateItem(ctx context.Context, list string, it model.ListItem) error {
	table, err := listTable(list)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET title = ?, subtitle = ?, body = ?, metric = ?,
			is_active = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`, table),
		it.Title, it.Subtitle, it.Body, it.Metric, it.IsActive, it.UpdatedAt, it.UpdatedBy, it.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteItem removes an item from the named list. Remaining items keep
// their display_order values; order stays strictly increasing.
func (q *Queries) DeleteItem(ctx context.Context, list, id string) error {
	table, err := listTable(list)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MaxDisplayOrder returns the highest display_order in the list, or zero
// for an empty list.
func (q *Queries) MaxDisplayOrder(ctx context.Context, list string) (int64, error) {
	table, err := listTable(list)
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(MAX(display_order), 0) FROM %s`, table)).Scan(&n)
	return n, err
}
