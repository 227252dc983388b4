// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded templates and renders pages. Markdown
// section bodies are converted with goldmark and sanitized with bluemonday
// before they reach the browser.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/space-exhibitions/spacecms/internal/model"
)

// Renderer holds the parsed template set.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	markdown       goldmark.Markdown
	sanitizer      *bluemonday.Policy
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
}

// New creates a Renderer with all templates parsed.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		markdown:       goldmark.New(),
		sanitizer:      bluemonday.UGCPolicy(),
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates builds one template set per page. Admin pages stack the
// admin layout on the base layout; auth and public pages use the base
// layout alone.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	groups := []struct {
		dir    string
		layout []string
	}{
		{"admin", []string{"layouts/base.html", "layouts/admin.html"}},
		{"auth", []string{"layouts/base.html"}},
		{"public", []string{"layouts/base.html"}},
	}

	for _, g := range groups {
		pages, err := r.templateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}
		for _, page := range pages {
			name := g.dir + "/" + strings.TrimSuffix(filepath.Base(page), ".html")

			files := append([]string{}, g.layout...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

func (r *Renderer) templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Missing directory just means the group has no pages.
		return files, nil
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		// markdown renders a section body to sanitized HTML.
		"markdown": r.Markdown,
		// hsl turns a stored triple like "195 100% 50%" into a CSS value.
		"hsl": func(triple string) template.CSS {
			return template.CSS("hsl(" + triple + ")")
		},
		"roleLabel": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleEditor:
				return "Editor"
			case model.RoleViewer:
				return "Viewer"
			default:
				return role
			}
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// Markdown converts md to sanitized HTML.
func (r *Renderer) Markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(md), &buf); err != nil {
		// Fall back to the raw text; template escaping still applies.
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(r.sanitizer.Sanitize(buf.String()))
}

// TemplateData is the payload every template receives.
type TemplateData struct {
	Title       string
	Data        any
	Operator    *model.Operator
	Flash       string
	FlashType   string
	CurrentYear int
}

// Render writes the named template. The page is rendered to a buffer first
// so a template error yields an error return instead of a half-written
// response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), "flash"); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), "flash_type")
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a flash message in the session for the next render.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), "flash", message)
		r.sessionManager.Put(req.Context(), "flash_type", flashType)
	}
}
