// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers of the admin and public APIs.
package api

import (
	"log/slog"
	"time"

	"github.com/olegiv/ofolio/internal/cache"
	"github.com/olegiv/ofolio/internal/markup"
	"github.com/olegiv/ofolio/internal/service"
)

// Upload limits.
const (
	MaxImportBytes   = 5 << 20
	MaxDocumentBytes = 10 << 20
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc      *service.Service
	renderer *markup.Renderer
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithCache caches public listings in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(h *Handler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Service, renderer *markup.Renderer, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		renderer: renderer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		h.renderer = markup.NewRenderer()
	}
	return h
}
