// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/space-exhibitions/spacecms/internal/model"
)

const operatorColumns = `id, username, email, password_hash, role, is_active, created_at, last_login`

func scanOperator(row interface{ Scan(...any) error }) (model.Operator, error) {
	var o model.Operator
	err := row.Scan(&o.ID, &o.Username, &o.Email, &o.PasswordHash, &o.Role,
		&o.IsActive, &o.CreatedAt, &o.LastLogin)
	return o, err
}

// CreateOperator inserts a new operator account.
func (q *Queries) CreateOperator(ctx context.Context, o model.Operator) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO operators (id, username, email, password_hash, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Username, o.Email, o.PasswordHash, o.Role, o.IsActive, o.CreatedAt)
	return err
}

// GetOperator fetches an operator by id.
func (q *Queries) GetOperator(ctx context.Context, id string) (model.Operator, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE id = ?`, id)
	return scanOperator(row)
}

// GetOperatorByLogin fetches an operator whose username or email equals
// login. Matching is case-sensitive.
func (q *Queries) GetOperatorByLogin(ctx context.Context, login string) (model.Operator, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE username = ? OR email = ?`,
		login, login)
	return scanOperator(row)
}

// ListOperators returns all operator accounts ordered by creation time.
func (q *Queries) ListOperators(ctx context.Context) ([]model.Operator, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+operatorColumns+` FROM operators ORDER BY created_at, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Operator
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// OperatorIdentifierTaken reports whether any operator other than excludeID
// already uses the given username or email. All rows count, active or not.
func (q *Queries) OperatorIdentifierTaken(ctx context.Context, username, email, excludeID string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM operators
		WHERE (username = ? OR email = ?) AND id != ?`,
		username, email, excludeID).Scan(&n)
	return n > 0, err
}

// UpdateOperatorProfile updates an operator's identifiers and role.
func (q *Queries) UpdateOperatorProfile(ctx context.Context, id, username, email, role string) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE operators SET username = ?, email = ?, role = ? WHERE id = ?`,
		username, email, role, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateOperatorPassword replaces an operator's credential hash.
func (q *Queries) UpdateOperatorPassword(ctx context.Context, id, passwordHash string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE operators SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetOperatorActive enables or disables an operator account.
func (q *Queries) SetOperatorActive(ctx context.Context, id string, active bool) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE operators SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// TouchOperatorLastLogin records a successful authentication time.
func (q *Queries) TouchOperatorLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE operators SET last_login = ? WHERE id = ?`, at, id)
	return err
}

// DeleteOperator removes an operator account.
func (q *Queries) DeleteOperator(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM operators WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountOperators returns the total number of operator accounts.
func (q *Queries) CountOperators(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&n)
	return n, err
}

// requireRow converts a zero-rows-affected update into sql.ErrNoRows so
// callers can map it onto their not-found error.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
