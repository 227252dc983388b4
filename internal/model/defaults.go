// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// DefaultSection returns the built-in content for the named section. The
// content repository falls back to these records when no row has been
// persisted yet, so a fresh install renders a complete landing page.
func DefaultSection(name string) (Section, error) {
	switch name {
	case SectionHero:
		return &Hero{
			Headline:    "We Create the Space for Impact",
			Description: "Exhibitions built with precision. Conferences designed for connection. Every event crafted to deliver measurable impact and lasting impressions.",
			CTAText:     "Contact Us",
		}, nil
	case SectionAbout:
		return &About{
			Title: "About SPACE",
			Body: "SPACE transforms visions into reality through meticulous planning and flawless execution. We orchestrate exhibitions and conferences that command attention, drive engagement, and deliver results.\n\n" +
				"Our approach combines strategic thinking with operational precision, ensuring every detail serves the larger purpose of creating meaningful connections and measurable impact.\n\n" +
				"From intimate corporate gatherings to large-scale international exhibitions, we bring the expertise and dedication that turns ambitious ideas into successful realities.",
		}, nil
	case SectionGreenLife:
		return &GreenLife{
			Title:    "Green Life Expo",
			Subtitle: "Go Green & Healthy Living Expo",
			Body: "Our flagship sustainability platform bringing together environmental innovators, health advocates, and conscious consumers in a transformative exhibition experience.\n\n" +
				"More than an event, Green Life Expo is a strategic platform for the future of sustainable living, featuring cutting-edge green technologies, wellness solutions, and actionable insights for a healthier planet.\n\n" +
				"Join industry leaders, sustainability experts, and forward-thinking organizations as we shape the conversation around environmental responsibility and healthy living.",
			CTAText: "Explore Green Life Expo",
		}, nil
	case SectionFinalCTA:
		return &FinalCTA{
			Heading:    "Ready to Create Impact?",
			Subheading: "Tell us about your next exhibition or conference and we will build the space it deserves.",
			CTAText:    "Start a Conversation",
		}, nil
	case SectionContact:
		return &Contact{
			Email:     "info@space-exhibitions.com",
			Phone:     "+1 (555) 123-4567",
			Locations: "New York | London | Singapore",
		}, nil
	case SectionBrand:
		return &Brand{
			ColorPrimary:    "195 100% 50%",
			ColorBackground: "0 0% 100%",
			ColorForeground: "220 9% 25%",
			ColorAccent:     "195 100% 50%",
			LogoMain:        "/static/images/space_logo.png",
			LogoWhite:       "/static/images/space_logo_white.png",
		}, nil
	default:
		return NewSection(name)
	}
}

// DefaultServices returns the built-in services list used to seed a fresh
// database.
func DefaultServices() []ListItem {
	return []ListItem{
		{Title: "Exhibition Organizing", Body: "End-to-end exhibition management from concept to completion, ensuring maximum impact and visitor engagement.", Metric: "200+ exhibitions delivered"},
		{Title: "Conference Management", Body: "Strategic conference planning and execution that facilitates meaningful connections and knowledge exchange.", Metric: "50k+ delegates hosted"},
		{Title: "Sponsorship Planning", Body: "Comprehensive sponsorship strategies that create value for partners while enhancing event experiences.", Metric: "95% partner retention"},
		{Title: "Venue & Layout Design", Body: "Innovative space design that optimizes flow, engagement, and brand visibility for maximum impact.", Metric: "1M+ sqm designed"},
		{Title: "On-ground Execution", Body: "Flawless event delivery with dedicated teams ensuring every detail meets our exacting standards.", Metric: "Zero-incident record"},
		{Title: "Strategic Consulting", Body: "Expert guidance on event strategy, audience development, and ROI optimization for lasting success.", Metric: "3x average ROI"},
	}
}
