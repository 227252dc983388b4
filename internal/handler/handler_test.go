// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bufio"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/cache"
	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/service"
	"github.com/space-exhibitions/spacecms/internal/store"
	"github.com/space-exhibitions/spacecms/internal/testutil"
)

// testTemplates is a minimal template set exercising every page the
// handlers render.
func testTemplates() fstest.MapFS {
	page := func(def string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(def)}
	}
	return fstest.MapFS{
		"layouts/base.html": page(
			`{{define "base"}}[{{.Flash}}|{{.FlashType}}]{{template "content" .}}{{end}}`),
		"layouts/admin.html": page(
			`{{define "content"}}admin:{{template "admin-content" .}}{{end}}`),
		"auth/login.html": page(
			`{{define "content"}}login-page{{end}}`),
		"public/index.html": page(
			`{{define "content"}}home:{{.Data.Hero.Headline}}{{end}}`),
		"admin/dashboard.html": page(
			`{{define "admin-content"}}dashboard:{{.Data.ServiceCount}}{{end}}`),
		"admin/section.html": page(
			`{{define "admin-content"}}section:{{.Data.Section}}{{range .Data.Fields}}{{.Name}}={{.Value}};{{end}}{{end}}`),
		"admin/brand.html": page(
			`{{define "admin-content"}}brand{{end}}`),
		"admin/items.html": page(
			`{{define "admin-content"}}items:{{len .Data.Items}}{{end}}`),
		"admin/operators.html": page(
			`{{define "admin-content"}}operators:{{len .Data}}{{end}}`),
		"admin/operator_form.html": page(
			`{{define "admin-content"}}operator-form{{end}}`),
		"admin/audit.html": page(
			`{{define "admin-content"}}audit:{{.Data.Total}}{{end}}`),
	}
}

type testApp struct {
	router   chi.Router
	db       *sql.DB
	accounts *service.AccountService
	content  *service.ContentService
	changes  *bus.Bus
}

// newTestApp wires the full handler stack against a temporary database,
// seeded with the demo accounts and default content.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := testutil.TestLogger()
	require.NoError(t, store.Seed(context.Background(), db))

	sm := scs.New()
	sm.Cookie.Secure = false

	changes := bus.New(logger)
	t.Cleanup(changes.Close)

	events := service.NewEventService(db)
	accounts := service.NewAccountService(db, events, changes, logger)
	content := service.NewContentService(db, events, changes, logger)

	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplates(),
		SessionManager: sm,
		IsDev:          true,
	})
	require.NoError(t, err)

	mem := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	site := cache.NewSite(mem, content.GetSite, time.Minute, logger)

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authH := NewAuthHandler(accounts, renderer, sm, lp)
	adminH := NewAdminHandler(content, events, renderer)
	sectionH := NewSectionHandler(content, renderer)
	itemH := NewItemHandler(content, renderer)
	operatorH := NewOperatorHandler(accounts, renderer)
	frontH := NewFrontendHandler(site, changes, renderer, "test")

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(RouteRoot, frontH.Home)
	r.Get(RouteHealth, frontH.Health)
	r.Get(RouteEvents, frontH.Stream)

	r.Get(RouteLogin, authH.LoginForm)
	r.Post(RouteLogin, authH.Login)
	r.Post(RouteLogout, authH.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm), middleware.LoadOperator(sm, db))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleViewer))
			r.Get(RouteAdmin, adminH.Dashboard)
			r.Get(RouteSectionName, sectionH.Edit)
			r.Get(RouteBrand, sectionH.EditBrand)
			r.Get(RouteListName, itemH.List)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleEditor))
			r.Post(RouteSectionName, sectionH.Save)
			r.Post(RouteBrand, sectionH.SaveBrand)
			r.Post(RouteListName, itemH.Create)
			r.Post(RouteListItem, itemH.Update)
			r.Post(RouteListItem+"/toggle", itemH.Toggle)
			r.Post(RouteListItem+"/delete", itemH.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get(RouteOperators, operatorH.List)
			r.Get(RouteOperators+"/new", operatorH.NewForm)
			r.Post(RouteOperators, operatorH.Create)
			r.Get(RouteOperatorID, operatorH.EditForm)
			r.Post(RouteOperatorID, operatorH.Update)
			r.Post(RouteOperatorID+"/toggle", operatorH.Toggle)
			r.Post(RouteOperatorID+"/delete", operatorH.Delete)
			r.Get(RouteAuditLog, adminH.AuditLog)
		})
	})

	return &testApp{router: r, db: db, accounts: accounts, content: content, changes: changes}
}

// client returns an HTTP client with a cookie jar pointed at a test server
// running the app's router.
func (app *testApp) server(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	client := srv.Client()
	jar := newCookieJar()
	client.Jar = jar
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return srv, client
}

func (app *testApp) login(t *testing.T, srv *httptest.Server, client *http.Client, username, password string) {
	t.Helper()
	resp, err := client.PostForm(srv.URL+RouteLogin, url.Values{
		"login":    {username},
		"password": {password},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, RouteAdmin, resp.Header.Get("Location"))
}

func TestLoginAndDashboard(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	app.login(t, srv, client, "admin", "space2024admin")

	resp, err := client.Get(srv.URL + RouteAdmin)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "dashboard:")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	resp, err := client.PostForm(srv.URL+RouteLogin, url.Values{
		"login":    {"admin"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteLogin, resp.Header.Get("Location"))

	// The flash shows on the login page, and the dashboard stays locked.
	resp, err = client.Get(srv.URL + RouteLogin)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Invalid username or password")

	resp, err = client.Get(srv.URL + RouteAdmin)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteLogin, resp.Header.Get("Location"))
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	for _, path := range []string{RouteAdmin, RouteSections + "/hero", RouteOperators} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, RouteLogin, resp.Header.Get("Location"), path)
	}
}

func TestEditorCannotManageOperators(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	app.login(t, srv, client, "editor", "editor2024")

	resp, err := client.Get(srv.URL + RouteOperators)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Content editing still works.
	resp, err = client.Get(srv.URL + RouteSections + "/hero")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestViewerReadsButCannotMutate(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	admin, err := app.accounts.Authenticate(context.Background(), "admin", "space2024admin")
	require.NoError(t, err)
	_, err = app.accounts.Create(context.Background(), admin.ID, service.CreateAccountInput{
		Username: "observer",
		Email:    "observer@space-exhibitions.com",
		Password: "observer2024",
		Role:     model.RoleViewer,
	})
	require.NoError(t, err)

	app.login(t, srv, client, "observer", "observer2024")

	resp, err := client.Get(srv.URL + RouteSections + "/hero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+RouteSections+"/hero", url.Values{
		"headline": {"should not land"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSectionSaveMergesFields(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	app.login(t, srv, client, "editor", "editor2024")

	resp, err := client.PostForm(srv.URL+RouteSections+"/hero", url.Values{
		"headline": {"New headline"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	section, err := app.content.GetSection(context.Background(), model.SectionHero)
	require.NoError(t, err)
	hero := section.(*model.Hero)
	assert.Equal(t, "New headline", hero.Headline)
	// Unpatched fields keep the default copy.
	assert.NotEmpty(t, hero.Description)
	assert.Equal(t, "editor", hero.UpdatedBy)
}

func TestItemCreateAndDelete(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	app.login(t, srv, client, "editor", "editor2024")
	listURL := srv.URL + RouteLists + "/services"

	resp, err := client.PostForm(listURL, url.Values{
		"title": {"Hybrid Events"},
		"body":  {"On-site and online, one experience."},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	items, err := app.content.ListItems(context.Background(), model.ListServices, false)
	require.NoError(t, err)
	added := items[len(items)-1]
	assert.Equal(t, "Hybrid Events", added.Title)

	resp, err = client.PostForm(listURL+"/"+added.ID+"/delete", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	after, err := app.content.ListItems(context.Background(), model.ListServices, false)
	require.NoError(t, err)
	assert.Len(t, after, len(items)-1)
}

func TestOperatorSelfDeletionFlashes(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	app.login(t, srv, client, "admin", "space2024admin")

	admin, err := app.accounts.Authenticate(context.Background(), "admin", "space2024admin")
	require.NoError(t, err)

	resp, err := client.PostForm(srv.URL+RouteOperators+"/"+admin.ID+"/delete", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(srv.URL + RouteOperators)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "You cannot delete your own account")

	// Still there.
	_, err = app.accounts.Get(context.Background(), admin.ID)
	assert.NoError(t, err)
}

func TestHomeRendersDefaults(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	resp, err := client.Get(srv.URL + RouteRoot)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "We Create the Space for Impact")
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	srv, client := app.server(t)

	resp, err := client.Get(srv.URL + RouteHealth)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestStreamDeliversChanges(t *testing.T) {
	app := newTestApp(t)
	srv, _ := app.server(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+RouteEvents, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	// Comment line confirms the subscription is live before publishing.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, ":"))

	app.changes.Publish(bus.Message{Topic: bus.TopicSectionUpdated, Name: "hero", UpdatedBy: "admin"})

	var event, data string
	for event == "" || data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, "change", event)
	assert.Contains(t, data, `"name":"hero"`)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

// newCookieJar is a minimal in-memory jar; good enough for a single test
// server host.
type cookieJar struct {
	cookies map[string][]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{cookies: make(map[string][]*http.Cookie)}
}

func (j *cookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, c := range cookies {
		replaced := false
		for i, existing := range j.cookies[u.Host] {
			if existing.Name == c.Name {
				j.cookies[u.Host][i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			j.cookies[u.Host] = append(j.cookies[u.Host], c)
		}
	}
}

func (j *cookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.cookies[u.Host]
}
