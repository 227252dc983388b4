// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/space-exhibitions/spacecms/internal/model"
)

// sectionTables maps section names to their backing tables. Every section
// table is a singleton row (id = 1) sharing the audit columns, so one query
// builder serves all of them.
var sectionTables = map[string]string{
	model.SectionHero:      "hero_content",
	model.SectionAbout:     "about_content",
	model.SectionGreenLife: "green_life_content",
	model.SectionFinalCTA:  "final_cta_content",
	model.SectionContact:   "contact_info",
	model.SectionBrand:     "brand_settings",
}

// sectionColumns returns the section's editable column names in a stable
// order alongside pointers to the matching struct fields.
func sectionColumns(s model.Section) ([]string, []*string) {
	fields := s.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ptrs := make([]*string, len(names))
	for i, name := range names {
		ptrs[i] = fields[name]
	}
	return names, ptrs
}

// GetSection loads the persisted record for s into s. It returns false with
// a nil error when no record has been stored yet.
func (q *Queries) GetSection(ctx context.Context, s model.Section) (bool, error) {
	table, ok := sectionTables[s.Name()]
	if !ok {
		return false, fmt.Errorf("unknown section %q", s.Name())
	}

	names, ptrs := sectionColumns(s)
	query := fmt.Sprintf(`SELECT %s, is_active, updated_at, updated_by FROM %s WHERE id = 1`,
		strings.Join(names, ", "), table)

	meta := s.Meta()
	dest := make([]any, 0, len(ptrs)+3)
	for _, p := range ptrs {
		dest = append(dest, p)
	}
	dest = append(dest, &meta.IsActive, &meta.UpdatedAt, &meta.UpdatedBy)

	err := q.db.QueryRowContext(ctx, query).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpsertSection writes s as the singleton record of its table, stamping
// updated_at and updated_by.
func (q *Queries) UpsertSection(ctx context.Context, s model.Section, updatedBy string, at time.Time) error {
	table, ok := sectionTables[s.Name()]
	if !ok {
		return fmt.Errorf("unknown section %q", s.Name())
	}

	names, ptrs := sectionColumns(s)
	meta := s.Meta()
	meta.UpdatedAt = at
	meta.UpdatedBy = updatedBy

	cols := append(append([]string{}, names...), "is_active", "updated_at", "updated_by")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	var sets []string
	for _, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s) VALUES (1, %s)
		ON CONFLICT (id) DO UPDATE SET %s`,
		table, strings.Join(cols, ", "), placeholders, strings.Join(sets, ", "))

	args := make([]any, 0, len(cols))
	for _, p := range ptrs {
		args = append(args, *p)
	}
	args = append(args, meta.IsActive, meta.UpdatedAt, meta.UpdatedBy)

	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}
