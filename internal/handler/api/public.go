// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ofolio/internal/cache"
	"github.com/olegiv/ofolio/internal/handler"
	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/service"
	"github.com/olegiv/ofolio/internal/util"
)

// PublicPosts handles GET /posts.
func (h *Handler) PublicPosts(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityPost), h.svc.Public().Posts)
}

// PublicPost handles GET /posts/{slug}.
func (h *Handler) PublicPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		handler.WriteError(w, http.StatusNotFound, "not_found", "Post not found")
		return
	}
	servePublic(h, w, r, cache.ListingKey(model.EntityPost, "slug", slug), func(ctx context.Context) (PublicPost, error) {
		post, err := h.svc.Public().Post(ctx, slug)
		if err != nil {
			return PublicPost{}, err
		}
		return newPublicPost(h.renderer, post)
	})
}

// PublicExperiences handles GET /experiences.
func (h *Handler) PublicExperiences(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityExperience), h.svc.Public().Experiences)
}

// PublicWebApps handles GET /web-apps.
func (h *Handler) PublicWebApps(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityWebApp), h.svc.Public().WebApps)
}

// PublicWorkSamples handles GET /work-samples.
func (h *Handler) PublicWorkSamples(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityWorkSample), h.svc.Public().WorkSamples)
}

// PublicSkills handles GET /skills.
func (h *Handler) PublicSkills(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntitySkill), h.svc.Public().Skills)
}

// PublicTools handles GET /tools.
func (h *Handler) PublicTools(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityTool), h.svc.Public().Tools)
}

// PublicPromoSections handles GET /promo-sections.
func (h *Handler) PublicPromoSections(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.ListingKey(model.EntityPromoSection), h.svc.Public().PromoSections)
}

// PublicOverview handles GET /overview.
func (h *Handler) PublicOverview(w http.ResponseWriter, r *http.Request) {
	servePublic(h, w, r, cache.OverviewKey, h.svc.Public().Overview)
}

// servePublic answers from the listing cache, loading and storing on a
// miss. Failures are never cached, nor are loads that overlapped an
// invalidation.
func servePublic[T any](h *Handler, w http.ResponseWriter, r *http.Request, key string, load func(context.Context) (T, error)) {
	var (
		data T
		hit  bool
		err  error
	)
	if h.cache != nil {
		data, hit, err = cache.NewTyped[T](h.cache, h.cacheTTL).GetOrSetGuarded(r.Context(), key, cache.GenerationKey, load)
	} else {
		data, err = load(r.Context())
	}
	if err != nil {
		writePublicError(h, w, r, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	handler.WriteJSON(w, http.StatusOK, ok(data))
}

// writePublicError distinguishes an unconfigured datastore from a failed
// query.
func writePublicError(h *Handler, w http.ResponseWriter, r *http.Request, err error) {
	var e *service.Error
	if !errors.As(err, &e) {
		h.logger.ErrorContext(r.Context(), "public request failed", "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
		return
	}
	switch e.Kind {
	case service.KindConfiguration:
		handler.WriteError(w, http.StatusServiceUnavailable, "datastore_unconfigured", e.Message)
	case service.KindNotFound:
		handler.WriteError(w, http.StatusNotFound, "not_found", e.Message)
	default:
		handler.WriteError(w, http.StatusInternalServerError, "query_failed", "Failed to load content")
	}
}
