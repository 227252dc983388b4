// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"public/index.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{markdown .Data}}{{end}}`),
		},
	}
}

func TestRenderPage(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	err = r.Render(rec, req, "public/index", TemplateData{
		Title: "SPACE",
		Data:  "First paragraph.\n\nSecond paragraph.",
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>SPACE</h1>")
	assert.Contains(t, body, "<p>First paragraph.</p>")
	assert.Contains(t, body, "<p>Second paragraph.</p>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	err = r.Render(rec, req, "public/missing", TemplateData{})
	assert.Error(t, err)
}

func TestMarkdownSanitizesScript(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	out := string(r.Markdown("hello <script>alert(1)</script> world"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestMarkdownRendersEmphasis(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	out := string(r.Markdown("**bold** move"))
	assert.True(t, strings.Contains(out, "<strong>bold</strong>"), out)
}
