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

	"github.com/joho/godotenv"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/cache"
	"github.com/olegiv/ofolio/internal/config"
	"github.com/olegiv/ofolio/internal/logging"
	"github.com/olegiv/ofolio/internal/middleware"
	"github.com/olegiv/ofolio/internal/scheduler"
	"github.com/olegiv/ofolio/internal/service"
	"github.com/olegiv/ofolio/internal/session"
	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/transfer"
	"github.com/olegiv/ofolio/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// maxTrackedClients bounds the per-IP limiter map of the public API.
const maxTrackedClients = 10000

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oFolio - personal portfolio CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_DB_PATH           SQLite database path (default: ./data/ofolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_REDIS_URL         Redis URL for the public listing cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OFOLIO_SEED_FILE         YAML or JSON portfolio loaded into an empty database\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("ofolio %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logger := logging.New(cfg.SlogLevel())
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

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

	ctx := context.Background()
	if cfg.DoSeed {
		admin := store.AdminSeed{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if err := store.Seed(ctx, db, admin); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	listingCache, err := newCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = listingCache.Close() }()

	svc := service.New(db, logger, service.WithInvalidator(cache.NewListings(listingCache, logger)))

	if cfg.SeedFile != "" {
		if err := seedDocument(ctx, svc, cfg.SeedFile); err != nil {
			return err
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()
	publicRateLimiter := middleware.NewGlobalRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	slog.Info("rate limiting initialized", "rate", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)

	sched := scheduler.New(logger)
	if cfg.SchedulerEnabled {
		if err := sched.Add(scheduler.PublishDueJob(svc.Posts, logger)); err != nil {
			return fmt.Errorf("registering publish job: %w", err)
		}
	}
	if err := sched.Add(scheduler.Job{
		Name:     "prune_rate_limiters",
		Schedule: "@every 10m",
		Run: func(ctx context.Context) error {
			if publicRateLimiter.Prune(maxTrackedClients) {
				logger.InfoContext(ctx, "public rate limiters pruned")
			}
			return nil
		},
	}); err != nil {
		return fmt.Errorf("registering prune job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := newRouter(routerDeps{
		DB:              db,
		Service:         svc,
		Cache:           listingCache,
		CacheTTL:        cfg.CacheTTLDuration(),
		Sessions:        sessionManager,
		LoginProtection: loginProtection,
		RateLimiter:     publicRateLimiter,
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()),
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		RequestTimeout:  cfg.RequestTimeout,
		Version:         versionInfo,
		Logger:          logger,

		SiteURL:          cfg.SiteURL,
		PostsPath:        cfg.PostsPath,
		DisallowCrawlers: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
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

// newCache connects the configured listing cache. An unreachable Redis
// falls back to memory.
func newCache(cfg *config.Config) (cache.Cache, error) {
	cacheConfig := cache.Config{
		Type:            cache.TypeMemory,
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = cache.TypeRedis
	}

	c, err := cache.New(cacheConfig)
	if err == nil {
		slog.Info("cache initialized", "backend", cacheConfig.Type)
		return c, nil
	}
	if cacheConfig.Type != cache.TypeRedis {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	slog.Warn("cache initialized", "backend", cache.TypeMemory, "note", "Redis unavailable, using fallback", "error", err)
	cacheConfig.Type = cache.TypeMemory
	return cache.New(cacheConfig)
}

// seedDocument imports the portfolio file into an empty database.
func seedDocument(ctx context.Context, svc *service.Service, path string) error {
	doc, err := transfer.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading seed file: %w", err)
	}
	seeded, err := svc.SeedDocument(auth.WithActor(ctx, auth.SystemActor("seed")), doc)
	if err != nil {
		return fmt.Errorf("seeding portfolio: %w", err)
	}
	if seeded {
		slog.Info("portfolio seeded", "file", path, "records", doc.Count())
	} else {
		slog.Info("portfolio seed skipped, database is not empty", "file", path)
	}
	return nil
}
