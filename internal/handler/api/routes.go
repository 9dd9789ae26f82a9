// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"
)

// Collection path segments, shared by the admin and public routes.
const (
	PathPosts         = "/posts"
	PathExperiences   = "/experiences"
	PathWebApps       = "/web-apps"
	PathWorkSamples   = "/work-samples"
	PathSkills        = "/skills"
	PathTools         = "/tools"
	PathPromoSections = "/promo-sections"
)

// AdminRoutes returns the admin API router. Authentication, role and CSRF
// checks are applied by the caller.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Route(PathPosts, func(r chi.Router) {
		r.Post("/import", h.ImportPosts)
		r.Post("/{id}/status", h.SetPostStatus)
		mountCollection(r, h.svc.Posts.Collection)
	})
	r.Route(PathExperiences, func(r chi.Router) { mountCollection(r, h.svc.Experiences) })
	r.Route(PathWebApps, func(r chi.Router) { mountCollection(r, h.svc.WebApps) })
	r.Route(PathWorkSamples, func(r chi.Router) { mountCollection(r, h.svc.WorkSamples) })
	r.Route(PathSkills, func(r chi.Router) { mountCollection(r, h.svc.Skills) })
	r.Route(PathTools, func(r chi.Router) { mountCollection(r, h.svc.Tools) })
	r.Route(PathPromoSections, func(r chi.Router) { mountCollection(r, h.svc.PromoSections) })

	r.Get("/audit", h.AuditLog)
	r.Get("/audit/entity-types", h.AuditEntityTypes)

	r.Get("/export", h.Export)
	r.Post("/import", h.ImportDocument)

	return r
}

// PublicRoutes returns the read-only public API router.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get(PathPosts, h.PublicPosts)
	r.Get(PathPosts+"/{slug}", h.PublicPost)
	r.Get(PathExperiences, h.PublicExperiences)
	r.Get(PathWebApps, h.PublicWebApps)
	r.Get(PathWorkSamples, h.PublicWorkSamples)
	r.Get(PathSkills, h.PublicSkills)
	r.Get(PathTools, h.PublicTools)
	r.Get(PathPromoSections, h.PublicPromoSections)
	r.Get("/overview", h.PublicOverview)

	return r
}
