// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ofolio/internal/cache"
	"github.com/olegiv/ofolio/internal/handler"
	"github.com/olegiv/ofolio/internal/handler/api"
	"github.com/olegiv/ofolio/internal/logging"
	"github.com/olegiv/ofolio/internal/markup"
	"github.com/olegiv/ofolio/internal/middleware"
	"github.com/olegiv/ofolio/internal/service"
	"github.com/olegiv/ofolio/internal/version"
)

// Route prefixes.
const (
	RouteHealth = "/health"
	RouteAuth   = "/api/v1/auth"
	RouteAdmin  = "/api/v1/admin"
	RoutePublic = "/api/v1/public"
)

// routerDeps holds everything the router wires together.
type routerDeps struct {
	DB              *sql.DB
	Service         *service.Service
	Cache           cache.Cache
	CacheTTL        time.Duration
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	RateLimiter     *middleware.GlobalRateLimiter
	CSRF            middleware.CSRFConfig
	Security        middleware.SecurityHeadersConfig
	RequestTimeout  time.Duration
	Version         version.Info
	Logger          *slog.Logger

	SiteURL          string
	PostsPath        string
	DisallowCrawlers bool
}

// newRouter builds the application router.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.SecurityHeaders(d.Security))

	healthHandler := handler.NewHealthHandler(d.DB, d.Cache, d.Version)
	authHandler := handler.NewAuthHandler(d.DB, d.Sessions, d.LoginProtection)
	apiHandler := api.NewHandler(d.Service, markup.NewRenderer(),
		api.WithCache(d.Cache, d.CacheTTL),
		api.WithLogger(d.Logger),
	)

	seoHandler := handler.NewSEOHandler(d.Service, d.SiteURL, d.PostsPath, d.DisallowCrawlers)

	csrf := middleware.CSRF(d.CSRF)
	loadUser := middleware.LoadUser(d.Sessions, d.DB)

	// Health checks. Details are shown to signed-in admins only.
	r.Route(RouteHealth, func(r chi.Router) {
		r.Use(d.Sessions.LoadAndSave)
		r.Use(loadUser)
		r.Get("/", healthHandler.Health)
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Route(RouteAuth, func(r chi.Router) {
		r.Use(d.Sessions.LoadAndSave)
		r.Use(loadUser)
		r.Use(csrf)
		r.With(d.LoginProtection.Middleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(d.Sessions.LoadAndSave)
		r.Use(loadUser)
		r.Use(csrf)
		r.Use(middleware.RequireAdmin())
		r.Mount("/", apiHandler.AdminRoutes())
	})

	r.Route(RoutePublic, func(r chi.Router) {
		r.Use(d.RateLimiter.Middleware())
		r.Mount("/", apiHandler.PublicRoutes())
	})

	r.Group(func(r chi.Router) {
		r.Use(d.RateLimiter.Middleware())
		r.Get("/sitemap.xml", seoHandler.Sitemap)
		r.Get("/robots.txt", seoHandler.Robots)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "not_found", "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")
	})

	return r
}
