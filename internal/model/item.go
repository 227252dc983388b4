// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Ordered list names.
const (
	ListServices    = "services"
	ListCaseStudies = "case_studies"
)

// ListNames lists all ordered content lists.
var ListNames = []string{ListServices, ListCaseStudies}

// ListItem is an entry in one of the ordered content lists. Services and
// case studies share the same shape: services leave Subtitle empty, case
// studies use it for the client name.
type ListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Body         string    `json:"body"`
	Metric       string    `json:"metric"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
	UpdatedBy    string    `json:"updated_by"`
}

// Fields exposes the editable string fields by name for generic patching.
func (i *ListItem) Fields() map[string]*string {
	return map[string]*string{
		"title":    &i.Title,
		"subtitle": &i.Subtitle,
		"body":     &i.Body,
		"metric":   &i.Metric,
	}
}

// Patch merges patch into the item's named fields, rejecting unknown names.
func (i *ListItem) Patch(patch map[string]string) error {
	fields := i.Fields()
	for name, value := range patch {
		ptr, ok := fields[name]
		if !ok {
			return fmt.Errorf("list item has no field %q", name)
		}
		*ptr = value
	}
	return nil
}

// IsValidList checks whether name is a known list name.
func IsValidList(name string) bool {
	return name == ListServices || name == ListCaseStudies
}
