// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
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

	"github.com/pipeplast/pipecms/internal/cache"
	"github.com/pipeplast/pipecms/internal/config"
	"github.com/pipeplast/pipecms/internal/handler/api"
	"github.com/pipeplast/pipecms/internal/i18n"
	"github.com/pipeplast/pipecms/internal/logging"
	"github.com/pipeplast/pipecms/internal/mailer"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/scheduler"
	"github.com/pipeplast/pipecms/internal/session"
	"github.com/pipeplast/pipecms/internal/store"
	"github.com/pipeplast/pipecms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	seedDemo := flag.Bool("seed-demo", false, "Seed demo catalog content and exit on failure")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "PipeCMS - Pipe manufacturer site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_DB_PATH           SQLite database path (default: ./data/pipecms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_SMTP_HOST         SMTP relay for form notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PIPECMS_DO_SEED           Seed demo catalog content on startup (default: false)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("pipecms %s\n", info)
		os.Exit(0)
	}

	if err := run(*seedDemo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(seedDemo bool) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Create version info from build-time injected values
	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
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

	// Initialize i18n system for localized validation messages
	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

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
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the Event Log database
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed languages, email settings row and the initial admin account
	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Seed demo catalog content when requested via flag or env
	if seedDemo || cfg.DoSeed {
		if err := store.SeedDemo(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
		slog.Info("demo content seeded")
	}

	queries := store.New(db)

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize cache backend (memory or Redis, from config)
	cacheOpts := cache.DefaultOptions()
	cacheOpts.RedisURL = cfg.RedisURL
	cacheOpts.Prefix = cfg.CachePrefix
	cacheOpts.DefaultTTL = time.Duration(cfg.CacheTTL) * time.Second
	cacheOpts.MaxSize = cfg.CacheMaxSize

	cacheBackend, err := cache.New(cacheOpts)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	if cfg.UseRedisCache() {
		slog.Info("cache backend initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache backend initialized", "backend", "memory")
	}

	languageCache := cache.NewLanguageCache(queries)
	catalogCache := cache.NewCatalogCache(cacheBackend, cacheOpts.DefaultTTL)

	// Warm the language cache so the first request does not pay for it
	if _, err := languageCache.GetAll(ctx); err != nil {
		slog.Warn("failed to preload language cache", "error", err)
	}

	// Outbound mail for contact/job notifications
	mail := mailer.New(queries, cfg, logger)
	if cfg.SMTPEnabled() {
		slog.Info("mailer initialized", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		slog.Info("mailer disabled, notifications will be logged only")
	}

	// Scheduled publishing of news articles
	sched := scheduler.New(db, logger, func() {
		catalogCache.Invalidate(context.Background())
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	// Rate limiter for the public form endpoints
	formRateLimiter := middleware.NewIPRateLimiter(1.0, 5)

	apiHandler := api.NewHandler(api.Options{
		DB:        db,
		Languages: languageCache,
		Catalog:   catalogCache,
		Mailer:    mail,
		Sessions:  sessionManager,
		Logger:    logger,
		LoginGate: loginProtection,
		SiteURL:   cfg.SiteURL,
	})

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	// Security headers middleware (CSP, HSTS, X-Frame-Options, etc.)
	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	// CSRF protection. The public form endpoints are exempt: they are
	// token-less JSON posts guarded by the rate limiter instead.
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	r.Use(middleware.SkipCSRF("/api/contact", "/api/jobs"))
	r.Use(middleware.CSRF(csrfConfig))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Crawler surface for the public site
	r.Get("/sitemap.xml", apiHandler.Sitemap)
	r.Get("/robots.txt", apiHandler.RobotsTxt)

	// Public API (language negotiated per request)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Language(languageCache))

		r.Get("/status", apiHandler.Status)
		r.Get("/certificates/organized", apiHandler.OrganizedCertificates)
		r.Get("/categories", apiHandler.PublicCategories)
		r.Get("/news", apiHandler.PublicNews)
		r.Get("/news/{slug}", apiHandler.PublicNewsDetail)
		r.Get("/gallery", apiHandler.PublicGallery)
		r.Get("/brochures", apiHandler.PublicBrochures)
		r.Get("/languages", apiHandler.PublicLanguages)

		r.Group(func(r chi.Router) {
			r.Use(formRateLimiter.Middleware())
			r.Post("/contact", apiHandler.SubmitContact)
			r.Post("/jobs", apiHandler.SubmitJob)
		})

		r.With(loginProtection.Middleware()).Post("/auth/login", apiHandler.Login)
		r.Post("/auth/logout", apiHandler.Logout)

		// Admin API (session authenticated)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))
			r.Use(middleware.RequireAdmin)

			r.Get("/me", apiHandler.Me)

			r.Get("/categories", apiHandler.ListAdminCategories)
			r.Post("/categories", apiHandler.CreateAdminCategory)
			r.Get("/categories/{id}", apiHandler.GetAdminCategory)
			r.Put("/categories/{id}", apiHandler.UpdateAdminCategory)
			r.Delete("/categories/{id}", apiHandler.DeleteAdminCategory)

			r.Get("/subcategories", apiHandler.ListAdminSubcategories)
			r.Post("/subcategories", apiHandler.CreateAdminSubcategory)
			r.Get("/subcategories/{id}", apiHandler.GetAdminSubcategory)
			r.Put("/subcategories/{id}", apiHandler.UpdateAdminSubcategory)
			r.Delete("/subcategories/{id}", apiHandler.DeleteAdminSubcategory)

			r.Get("/certificates", apiHandler.ListAdminCertificates)
			r.Post("/certificates", apiHandler.CreateAdminCertificate)
			r.Get("/certificates/{id}", apiHandler.GetAdminCertificate)
			r.Put("/certificates/{id}", apiHandler.UpdateAdminCertificate)
			r.Delete("/certificates/{id}", apiHandler.DeleteAdminCertificate)

			r.Get("/news", apiHandler.ListAdminNews)
			r.Post("/news", apiHandler.CreateAdminNews)
			r.Get("/news/{id}", apiHandler.GetAdminNews)
			r.Put("/news/{id}", apiHandler.UpdateAdminNews)
			r.Delete("/news/{id}", apiHandler.DeleteAdminNews)
			r.Post("/news/{id}/publish", apiHandler.PublishAdminNews)

			r.Get("/gallery", apiHandler.ListAdminGallery)
			r.Post("/gallery", apiHandler.CreateAdminGalleryItem)
			r.Get("/gallery/{id}", apiHandler.GetAdminGalleryItem)
			r.Put("/gallery/{id}", apiHandler.UpdateAdminGalleryItem)
			r.Delete("/gallery/{id}", apiHandler.DeleteAdminGalleryItem)

			r.Get("/brochures", apiHandler.ListAdminBrochures)
			r.Post("/brochures", apiHandler.CreateAdminBrochure)
			r.Get("/brochures/{id}", apiHandler.GetAdminBrochure)
			r.Put("/brochures/{id}", apiHandler.UpdateAdminBrochure)
			r.Delete("/brochures/{id}", apiHandler.DeleteAdminBrochure)

			r.Get("/messages", apiHandler.ListContactMessages)
			r.Get("/messages/{id}", apiHandler.GetContactMessage)
			r.Post("/messages/{id}/read", apiHandler.MarkContactMessageRead)
			r.Delete("/messages/{id}", apiHandler.DeleteContactMessage)

			r.Get("/applications", apiHandler.ListJobApplications)
			r.Get("/applications/{id}", apiHandler.GetJobApplication)
			r.Post("/applications/{id}/read", apiHandler.MarkJobApplicationRead)
			r.Delete("/applications/{id}", apiHandler.DeleteJobApplication)

			r.Get("/submissions/unread", apiHandler.GetUnreadCounts)

			r.Get("/settings/email", apiHandler.GetEmailSettings)
			r.Put("/settings/email", apiHandler.UpdateEmailSettings)
			r.Delete("/settings/email/api-key", apiHandler.DeleteEmailAPIKey)

			r.Get("/languages", apiHandler.ListAdminLanguages)
			r.Put("/languages/{id}", apiHandler.UpdateAdminLanguage)
			r.Post("/languages/{id}/default", apiHandler.SetDefaultAdminLanguage)

			r.Get("/events", apiHandler.ListAdminEvents)
		})
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", versionInfo.Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
