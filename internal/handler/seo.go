// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/ofolio/internal/seo"
	"github.com/olegiv/ofolio/internal/service"
)

// SEOHandler serves the crawler files of the public site.
type SEOHandler struct {
	svc         *service.Service
	siteURL     string
	postsPath   string
	disallowAll bool
}

// NewSEOHandler creates an SEOHandler. disallowAll blocks every crawler,
// as on staging sites.
func NewSEOHandler(svc *service.Service, siteURL, postsPath string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		svc:         svc,
		siteURL:     siteURL,
		postsPath:   postsPath,
		disallowAll: disallowAll,
	}
}

// Sitemap handles GET /sitemap.xml: the homepage and every published post.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Public().Posts(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		var e *service.Error
		if errors.As(err, &e) {
			status = e.Kind.HTTPStatus()
		}
		slog.ErrorContext(r.Context(), "failed to build sitemap", "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	entries := make([]seo.SitemapPost, 0, len(posts))
	for _, p := range posts {
		updated := p.UpdatedAt
		if p.PublishedAt != nil && p.PublishedAt.After(updated) {
			updated = *p.PublishedAt
		}
		entries = append(entries, seo.SitemapPost{Slug: p.Slug, UpdatedAt: updated})
	}

	out, err := seo.GenerateSitemap(h.siteURL, h.postsPath, entries)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to encode sitemap", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(seo.GenerateRobots(h.siteURL, h.disallowAll)))
}
