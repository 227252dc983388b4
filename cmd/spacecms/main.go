// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/space-exhibitions/spacecms/internal/bus"
	"github.com/space-exhibitions/spacecms/internal/cache"
	"github.com/space-exhibitions/spacecms/internal/config"
	"github.com/space-exhibitions/spacecms/internal/handler"
	"github.com/space-exhibitions/spacecms/internal/logging"
	"github.com/space-exhibitions/spacecms/internal/middleware"
	"github.com/space-exhibitions/spacecms/internal/model"
	"github.com/space-exhibitions/spacecms/internal/render"
	"github.com/space-exhibitions/spacecms/internal/scheduler"
	"github.com/space-exhibitions/spacecms/internal/service"
	"github.com/space-exhibitions/spacecms/internal/session"
	"github.com/space-exhibitions/spacecms/internal/store"
	"github.com/space-exhibitions/spacecms/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "spacecms - SPACE Exhibitions site and CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_DB_PATH           SQLite database path (default: ./data/spacecms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SPACE_DO_SEED           Seed demo accounts and content (default: true)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("spacecms %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also mirror WARN and ERROR logs into the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed demo accounts and default content on first run
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Change bus: services publish, the site cache and SSE clients subscribe
	changes := bus.New(logger)
	defer changes.Close()

	// Services
	eventService := service.NewEventService(db)
	accountService := service.NewAccountService(db, eventService, changes, logger)
	contentService := service.NewContentService(db, eventService, changes, logger)

	// Cache backend: Redis when configured, in-process memory otherwise
	backend, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.RedisURL != "" {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Site content cache, invalidated by change bus announcements
	siteCache := cache.NewSite(backend, contentService.GetSite, cfg.CacheTTLDuration(), logger)
	siteCache.Watch(changes)
	defer siteCache.Stop()

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Nightly maintenance: audit log retention and expired session sweep
	sched := scheduler.New(db, logger, cfg.EventRetention())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// CSRF protection for all admin form routes
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Login protection: per-IP rate limit plus per-account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	// Handlers
	authHandler := handler.NewAuthHandler(accountService, renderer, sessionManager, loginProtection)
	adminHandler := handler.NewAdminHandler(contentService, eventService, renderer)
	sectionHandler := handler.NewSectionHandler(contentService, renderer)
	itemHandler := handler.NewItemHandler(contentService, renderer)
	operatorHandler := handler.NewOperatorHandler(accountService, renderer)
	frontendHandler := handler.NewFrontendHandler(siteCache, changes, renderer, appVersion)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	r.Get(handler.RouteHealth, frontendHandler.Health)

	// SSE change stream sits outside the timeout and session middleware:
	// the connection is long-lived and carries no per-user state.
	r.Get(handler.RouteEvents, frontendHandler.Stream)

	// Everything else gets the request timeout and the session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(sessionManager.LoadAndSave)

		// Public landing page
		r.Get(handler.RouteRoot, frontendHandler.Home)

		// Auth routes
		r.Group(func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.Get(handler.RouteLogin, authHandler.LoginForm)
			r.With(loginProtection.Protect).Post(handler.RouteLogin, authHandler.Login)
			r.Post(handler.RouteLogout, authHandler.Logout)
		})

		// Admin routes
		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadOperator(sessionManager, db))

			// Read-only views: any signed-in operator, viewers included
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleViewer))

				r.Get("/", adminHandler.Dashboard)
				r.Get("/sections/{name}", sectionHandler.Edit)
				r.Get("/brand", sectionHandler.EditBrand)
				r.Get("/lists/{list}", itemHandler.List)
			})

			// Content mutations: editor and admin
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleEditor))

				r.Post("/sections/{name}", sectionHandler.Save)
				r.Post("/brand", sectionHandler.SaveBrand)
				r.Post("/lists/{list}", itemHandler.Create)
				r.Post("/lists/{list}/{id}", itemHandler.Update)
				r.Post("/lists/{list}/{id}/toggle", itemHandler.Toggle)
				r.Post("/lists/{list}/{id}/delete", itemHandler.Delete)
			})

			// Account management and audit log: admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleAdmin))

				r.Get("/operators", operatorHandler.List)
				r.Get("/operators/new", operatorHandler.NewForm)
				r.Post("/operators", operatorHandler.Create)
				r.Get("/operators/{id}", operatorHandler.EditForm)
				r.Post("/operators/{id}", operatorHandler.Update)
				r.Post("/operators/{id}/toggle", operatorHandler.Toggle)
				r.Post("/operators/{id}/delete", operatorHandler.Delete)

				r.Get("/audit", adminHandler.AuditLog)
			})
		})
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Server. No WriteTimeout: the SSE stream at /events stays open for as
	// long as the client listens.
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
