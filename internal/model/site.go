// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SiteContent is the full payload the public landing page renders from:
// every singleton section plus the active entries of both ordered lists.
type SiteContent struct {
	Hero        Hero       `json:"hero"`
	About       About      `json:"about"`
	GreenLife   GreenLife  `json:"green_life"`
	FinalCTA    FinalCTA   `json:"final_cta"`
	Contact     Contact    `json:"contact"`
	Brand       Brand      `json:"brand"`
	Services    []ListItem `json:"services"`
	CaseStudies []ListItem `json:"case_studies"`
}
