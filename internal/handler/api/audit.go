// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/ofolio/internal/handler"
	"github.com/olegiv/ofolio/internal/service"
)

// AuditLog handles GET /audit?action=&entityType=&q=.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := h.svc.Audit().Query(r.Context(), service.AuditQuery{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		Q:          q.Get("q"),
	})
	handler.WriteResult(w, res, http.StatusOK)
}

// AuditEntityTypes handles GET /audit/entity-types.
func (h *Handler) AuditEntityTypes(w http.ResponseWriter, r *http.Request) {
	handler.WriteResult(w, h.svc.Audit().EntityTypes(r.Context()), http.StatusOK)
}
