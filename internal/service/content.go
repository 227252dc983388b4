// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/store"
)

// ContentService is the content repository: singleton page sections, the
// ordered lists (services, case studies) and the brand settings. Every
// successful mutation is stamped with the acting operator and announced on
// the change bus.
type ContentService struct {
	queries *store.Queries
	events  *EventService
	changes *bus.Bus
	logger  *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(db *sql.DB, events *EventService, changes *bus.Bus, logger *slog.Logger) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentService{
		queries: store.New(db),
		events:  events,
		changes: changes,
		logger:  logger,
	}
}

// GetSection returns the named section. When no active record exists the
// built-in default copy is returned, so the public page always has
// something to render.
func (s *ContentService) GetSection(ctx context.Context, name string) (model.Section, error) {
	section, err := model.NewSection(name)
	if err != nil {
		return nil, ErrNotFound
	}

	found, err := s.queries.GetSection(ctx, section)
	if err != nil {
		return nil, storeErr("loading section", err)
	}
	if found && section.Meta().IsActive {
		return section, nil
	}

	def, err := model.DefaultSection(name)
	if err != nil {
		return nil, ErrNotFound
	}
	def.Meta().IsActive = true
	return def, nil
}

// UpdateSection applies patch to the named section as a shallow field
// merge: patched fields are replaced, everything else keeps its current
// value (stored or default). Unknown field names are rejected. The merged
// record is persisted with fresh audit stamps and announced on the bus.
func (s *ContentService) UpdateSection(ctx context.Context, actor model.Operator, name string, patch map[string]string) (model.Section, error) {
	section, err := s.GetSection(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := model.ApplyPatch(section, patch); err != nil {
		return nil, &ValidationError{Field: "section", Reason: err.Error()}
	}

	if brand, ok := section.(*model.Brand); ok {
		if err := validateBrand(brand); err != nil {
			return nil, err
		}
	}

	section.Meta().IsActive = true
	if err := s.queries.UpsertSection(ctx, section, actor.Username, time.Now().UTC()); err != nil {
		return nil, storeErr("saving section", err)
	}

	topic := bus.TopicSectionUpdated
	category := model.EventCategoryContent
	if name == model.SectionBrand {
		topic = bus.TopicBrandUpdated
		category = model.EventCategoryBrand
	}
	_ = s.events.LogInfo(ctx, category,
		fmt.Sprintf("section %q updated", name), actor.ID, map[string]any{"fields": patchKeys(patch)})
	s.publish(topic, name, actor.Username)

	return section, nil
}

// GetSite assembles the full public page payload: all singleton sections
// plus the active entries of both lists.
func (s *ContentService) GetSite(ctx context.Context) (model.SiteContent, error) {
	var site model.SiteContent

	for name, dst := range map[string]model.Section{
		model.SectionHero:      &site.Hero,
		model.SectionAbout:     &site.About,
		model.SectionGreenLife: &site.GreenLife,
		model.SectionFinalCTA:  &site.FinalCTA,
		model.SectionContact:   &site.Contact,
		model.SectionBrand:     &site.Brand,
	} {
		section, err := s.GetSection(ctx, name)
		if err != nil {
			return model.SiteContent{}, err
		}
		if err := model.ApplyPatch(dst, flatten(section)); err != nil {
			return model.SiteContent{}, fmt.Errorf("assembling %s: %w", name, err)
		}
		*dst.Meta() = *section.Meta()
	}

	var err error
	if site.Services, err = s.ListItems(ctx, model.ListServices, true); err != nil {
		return model.SiteContent{}, err
	}
	if site.CaseStudies, err = s.ListItems(ctx, model.ListCaseStudies, true); err != nil {
		return model.SiteContent{}, err
	}
	return site, nil
}

func flatten(s model.Section) map[string]string {
	out := make(map[string]string)
	for name, ptr := range s.Fields() {
		out[name] = *ptr
	}
	return out
}

// ListItems returns the items of the named list in display order. With
// activeOnly set, disabled items are filtered out (the public view); the
// admin view lists everything.
func (s *ContentService) ListItems(ctx context.Context, list string, activeOnly bool) ([]model.ListItem, error) {
	if !model.IsValidList(list) {
		return nil, ErrNotFound
	}
	items, err := s.queries.ListItems(ctx, list, activeOnly)
	if err != nil {
		return nil, storeErr("listing items", err)
	}
	return items, nil
}

// AddItem appends a new item to the named list. The item is placed after
// the current last item; existing order never shifts.
func (s *ContentService) AddItem(ctx context.Context, actor model.Operator, list string, fields map[string]string) (model.ListItem, error) {
	if !model.IsValidList(list) {
		return model.ListItem{}, ErrNotFound
	}

	item := model.ListItem{
		ID:        uuid.NewString(),
		IsActive:  true,
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: actor.Username,
	}
	if err := item.Patch(fields); err != nil {
		return model.ListItem{}, &ValidationError{Field: "item", Reason: err.Error()}
	}
	if strings.TrimSpace(item.Title) == "" {
		return model.ListItem{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if err := s.queries.InsertItem(ctx, list, item); err != nil {
		return model.ListItem{}, storeErr("inserting item", err)
	}

	// Read back for the display order assigned by the insert.
	item, err := s.queries.GetItem(ctx, list, item.ID)
	if err != nil {
		return model.ListItem{}, storeErr("reloading item", err)
	}

	_ = s.events.LogInfo(ctx, model.EventCategoryContent,
		fmt.Sprintf("item %q added to %s", item.Title, list), actor.ID, nil)
	s.publish(bus.TopicListChanged, list, actor.Username)
	return item, nil
}

// UpdateItem applies patch to an existing list item, keeping its position.
func (s *ContentService) UpdateItem(ctx context.Context, actor model.Operator, list, id string, patch map[string]string) (model.ListItem, error) {
	item, err := s.getItem(ctx, list, id)
	if err != nil {
		return model.ListItem{}, err
	}

	if err := item.Patch(patch); err != nil {
		return model.ListItem{}, &ValidationError{Field: "item", Reason: err.Error()}
	}
	if strings.TrimSpace(item.Title) == "" {
		return model.ListItem{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	item.UpdatedAt = time.Now().UTC()
	item.UpdatedBy = actor.Username
	if err := s.queries.UpdateItem(ctx, list, item); err != nil {
		return model.ListItem{}, storeErr("updating item", err)
	}

	_ = s.events.LogInfo(ctx, model.EventCategoryContent,
		fmt.Sprintf("item %q updated in %s", item.Title, list), actor.ID, nil)
	s.publish(bus.TopicListChanged, list, actor.Username)
	return item, nil
}

// SetItemActive toggles an item's visibility on the public page without
// removing it from the list.
func (s *ContentService) SetItemActive(ctx context.Context, actor model.Operator, list, id string, active bool) error {
	item, err := s.getItem(ctx, list, id)
	if err != nil {
		return err
	}

	item.IsActive = active
	item.UpdatedAt = time.Now().UTC()
	item.UpdatedBy = actor.Username
	if err := s.queries.UpdateItem(ctx, list, item); err != nil {
		return storeErr("toggling item", err)
	}

	s.publish(bus.TopicListChanged, list, actor.Username)
	return nil
}

// RemoveItem deletes an item. Remaining items keep their positions and
// relative order.
func (s *ContentService) RemoveItem(ctx context.Context, actor model.Operator, list, id string) error {
	if !model.IsValidList(list) {
		return ErrNotFound
	}

	err := s.queries.DeleteItem(ctx, list, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("deleting item", err)
	}

	_ = s.events.LogInfo(ctx, model.EventCategoryContent,
		fmt.Sprintf("item %s removed from %s", id, list), actor.ID, nil)
	s.publish(bus.TopicListChanged, list, actor.Username)
	return nil
}

func (s *ContentService) getItem(ctx context.Context, list, id string) (model.ListItem, error) {
	if !model.IsValidList(list) {
		return model.ListItem{}, ErrNotFound
	}
	item, err := s.queries.GetItem(ctx, list, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListItem{}, ErrNotFound
	}
	if err != nil {
		return model.ListItem{}, storeErr("loading item", err)
	}
	return item, nil
}

func (s *ContentService) publish(topic bus.Topic, name, updatedBy string) {
	if s.changes != nil {
		s.changes.Publish(bus.Message{Topic: topic, Name: name, UpdatedBy: updatedBy})
	}
}

// validateBrand enforces the brand invariant: four well-formed HSL colors
// and two logo paths, all present, before the brand can go live.
func validateBrand(b *model.Brand) error {
	if !b.Complete() {
		return &ValidationError{Field: "brand", Reason: "all colors and logos must be set"}
	}
	for field, value := range map[string]string{
		"color_primary":    b.ColorPrimary,
		"color_background": b.ColorBackground,
		"color_foreground": b.ColorForeground,
		"color_accent":     b.ColorAccent,
	} {
		if !model.ValidHSL(value) {
			return &ValidationError{Field: field, Reason: `must be an HSL triple like "195 100% 50%"`}
		}
	}
	return nil
}

func patchKeys(patch map[string]string) []string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	return keys
}
