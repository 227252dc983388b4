// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"
)

// Singleton section names. Each name maps to exactly one active record.
const (
	SectionHero      = "hero"
	SectionAbout     = "about"
	SectionGreenLife = "green_life"
	SectionFinalCTA  = "final_cta"
	SectionContact   = "contact"
	SectionBrand     = "brand"
)

// SectionNames lists all singleton sections in page order.
var SectionNames = []string{
	SectionHero,
	SectionAbout,
	SectionGreenLife,
	SectionFinalCTA,
	SectionContact,
	SectionBrand,
}

// Section is implemented by every singleton content record. Fields exposes
// the editable string fields by name so that patches can be merged
// generically instead of duplicating merge code per section.
type Section interface {
	Name() string
	Fields() map[string]*string
	Meta() *SectionMeta
}

// SectionMeta carries the audit columns shared by all section tables.
type SectionMeta struct {
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

// Meta returns the audit columns; embedding SectionMeta satisfies the
// Section interface's Meta method for every section type.
func (m *SectionMeta) Meta() *SectionMeta { return m }

// ApplyPatch merges patch into the section's named fields. Unknown field
// names are rejected so that a mistyped form name surfaces as an error
// instead of a silent no-op.
func ApplyPatch(s Section, patch map[string]string) error {
	fields := s.Fields()
	for name, value := range patch {
		ptr, ok := fields[name]
		if !ok {
			return fmt.Errorf("section %s has no field %q", s.Name(), name)
		}
		*ptr = value
	}
	return nil
}

// Hero is the landing page hero section.
type Hero struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	CTAText     string `json:"cta_text"`
	SectionMeta
}

// Name implements Section.
func (*Hero) Name() string { return SectionHero }

// Fields implements Section.
func (h *Hero) Fields() map[string]*string {
	return map[string]*string{
		"headline":    &h.Headline,
		"description": &h.Description,
		"cta_text":    &h.CTAText,
	}
}

// About is the company introduction section. Body holds Markdown with one
// paragraph per block.
type About struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	SectionMeta
}

func (*About) Name() string { return SectionAbout }

func (a *About) Fields() map[string]*string {
	return map[string]*string{
		"title": &a.Title,
		"body":  &a.Body,
	}
}

// GreenLife is the Green Life Expo flagship event section.
type GreenLife struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	CTAText  string `json:"cta_text"`
	SectionMeta
}

func (*GreenLife) Name() string { return SectionGreenLife }

func (g *GreenLife) Fields() map[string]*string {
	return map[string]*string{
		"title":    &g.Title,
		"subtitle": &g.Subtitle,
		"body":     &g.Body,
		"cta_text": &g.CTAText,
	}
}

// FinalCTA is the closing call-to-action band.
type FinalCTA struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	CTAText    string `json:"cta_text"`
	SectionMeta
}

func (*FinalCTA) Name() string { return SectionFinalCTA }

func (f *FinalCTA) Fields() map[string]*string {
	return map[string]*string{
		"heading":    &f.Heading,
		"subheading": &f.Subheading,
		"cta_text":   &f.CTAText,
	}
}

// Contact holds the public contact details.
type Contact struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Locations string `json:"locations"`
	SectionMeta
}

func (*Contact) Name() string { return SectionContact }

func (c *Contact) Fields() map[string]*string {
	return map[string]*string{
		"email":     &c.Email,
		"phone":     &c.Phone,
		"locations": &c.Locations,
	}
}

// Brand holds the site-wide brand settings: four HSL color triples and two
// logo asset paths. All six values must be non-empty before the brand is
// applied to the live view.
type Brand struct {
	ColorPrimary    string `json:"color_primary"`
	ColorBackground string `json:"color_background"`
	ColorForeground string `json:"color_foreground"`
	ColorAccent     string `json:"color_accent"`
	LogoMain        string `json:"logo_main"`
	LogoWhite       string `json:"logo_white"`
	SectionMeta
}

func (*Brand) Name() string { return SectionBrand }

func (b *Brand) Fields() map[string]*string {
	return map[string]*string{
		"color_primary":    &b.ColorPrimary,
		"color_background": &b.ColorBackground,
		"color_foreground": &b.ColorForeground,
		"color_accent":     &b.ColorAccent,
		"logo_main":        &b.LogoMain,
		"logo_white":       &b.LogoWhite,
	}
}

// Complete reports whether every color and logo field is non-empty.
func (b *Brand) Complete() bool {
	for _, ptr := range b.Fields() {
		if strings.TrimSpace(*ptr) == "" {
			return false
		}
	}
	return true
}

// ValidHSL checks that s looks like an HSL triple of the form
// "195 100% 50%" (hue, saturation%, lightness%).
func ValidHSL(s string) bool {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 3 {
		return false
	}
	if strings.HasSuffix(parts[0], "%") {
		return false
	}
	return strings.HasSuffix(parts[1], "%") && strings.HasSuffix(parts[2], "%")
}

// NewSection returns a fresh zero-value record for the named section.
func NewSection(name string) (Section, error) {
	switch name {
	case SectionHero:
		return &Hero{}, nil
	case SectionAbout:
		return &About{}, nil
	case SectionGreenLife:
		return &GreenLife{}, nil
	case SectionFinalCTA:
		return &FinalCTA{}, nil
	case SectionContact:
		return &Contact{}, nil
	case SectionBrand:
		return &Brand{}, nil
	default:
		return nil, fmt.Errorf("unknown section %q", name)
	}
}
