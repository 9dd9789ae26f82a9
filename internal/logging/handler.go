// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that enriches records with the
// request and actor carried by the context.
package logging

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ofolio/internal/auth"
)

// ContextHandler is a slog.Handler that wraps another handler and adds
// request_id, method, path and actor attributes found in the context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler creates a ContextHandler that wraps the given handler.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// New returns a text logger at level writing to stderr through a ContextHandler.
func New(level slog.Level) *slog.Logger {
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(NewContextHandler(inner))
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := middleware.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if req, ok := ctx.Value(requestKey{}).(requestInfo); ok {
			r.AddAttrs(slog.String("method", req.method), slog.String("path", req.path))
		}
		if actor, ok := auth.ActorFromContext(ctx); ok {
			r.AddAttrs(slog.String("actor", actor.Email))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

type requestKey struct{}

type requestInfo struct {
	method string
	path   string
}

// WithRequest returns a copy of ctx whose log records carry method and path.
func WithRequest(ctx context.Context, method, path string) context.Context {
	return context.WithValue(ctx, requestKey{}, requestInfo{method: method, path: path})
}

// Middleware tags the request context so log records written while serving
// it carry the method and path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), r.Method, r.URL.Path)))
	})
}
