// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/space-exhibitions/spacecms/internal/auth"
	"github.com/space-exhibitions/spacecms/internal/model"
)

const seededBy = "system"

// DemoAccount describes an operator installed by Seed on a fresh database.
type DemoAccount struct {
	Username string
	Email    string
	Password string
	Role     string
}

// DemoAccounts are the accounts the demo environment ships with.
var DemoAccounts = []DemoAccount{
	{Username: "admin", Email: "admin@space-exhibitions.com", Password: "space2024admin", Role: model.RoleAdmin},
	{Username: "editor", Email: "editor@space-exhibitions.com", Password: "editor2024", Role: model.RoleEditor},
}

// Seed installs the demo operator accounts, the default section content and
// the default services list. It is idempotent: a database that already has
// operators is left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	q := New(db)

	n, err := q.CountOperators(ctx)
	if err != nil {
		return fmt.Errorf("counting operators: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()

	for _, acc := range DemoAccounts {
		hash, err := auth.Hash(acc.Password)
		if err != nil {
			return fmt.Errorf("hashing %s credential: %w", acc.Username, err)
		}
		op := model.Operator{
			ID:           uuid.NewString(),
			Username:     acc.Username,
			Email:        acc.Email,
			PasswordHash: hash,
			Role:         acc.Role,
			IsActive:     true,
			CreatedAt:    now,
		}
		if err := q.CreateOperator(ctx, op); err != nil {
			return fmt.Errorf("creating operator %s: %w", acc.Username, err)
		}
	}

	for _, name := range model.SectionNames {
		section, err := model.DefaultSection(name)
		if err != nil {
			return fmt.Errorf("default section %s: %w", name, err)
		}
		section.Meta().IsActive = true
		if err := q.UpsertSection(ctx, section, seededBy, now); err != nil {
			return fmt.Errorf("seeding section %s: %w", name, err)
		}
	}

	for _, svc := range model.DefaultServices() {
		svc.ID = uuid.NewString()
		svc.IsActive = true
		svc.UpdatedAt = now
		svc.UpdatedBy = seededBy
		if err := q.InsertItem(ctx, model.ListServices, svc); err != nil {
			return fmt.Errorf("seeding service %q: %w", svc.Title, err)
		}
	}

	return nil
}
