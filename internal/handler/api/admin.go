// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ofolio/internal/handler"
	"github.com/olegiv/ofolio/internal/service"
)

// collectionHandlers serves the admin routes of one content type.
type collectionHandlers[V, In any] struct {
	c *service.Collection[V, In]
}

// mountCollection registers the CRUD and bulk routes of c on r.
// Routes: GET /, POST /, GET /{id}, PUT /{id}, DELETE /{id},
// POST /{id}/duplicate, POST /bulk-delete, POST /bulk-publish, POST /bulk-unpublish
func mountCollection[V, In any](r chi.Router, c *service.Collection[V, In]) {
	h := collectionHandlers[V, In]{c: c}
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Post("/bulk-publish", h.BulkPublish)
	r.Post("/bulk-unpublish", h.BulkUnpublish)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/duplicate", h.Duplicate)
}

func (h collectionHandlers[V, In]) List(w http.ResponseWriter, r *http.Request) {
	handler.WriteResult(w, h.c.List(r.Context()), http.StatusOK)
}

func (h collectionHandlers[V, In]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.Get(r.Context(), id), http.StatusOK)
}

func (h collectionHandlers[V, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}
	handler.WriteResult(w, h.c.Create(r.Context(), in), http.StatusCreated)
}

func (h collectionHandlers[V, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in In
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}
	handler.WriteResult(w, h.c.Update(r.Context(), id, in), http.StatusOK)
}

func (h collectionHandlers[V, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.Delete(r.Context(), id), http.StatusOK)
}

func (h collectionHandlers[V, In]) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.Duplicate(r.Context(), id), http.StatusCreated)
}

func (h collectionHandlers[V, In]) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.BulkDelete(r.Context(), ids), http.StatusOK)
}

func (h collectionHandlers[V, In]) BulkPublish(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.BulkPublish(r.Context(), ids), http.StatusOK)
}

func (h collectionHandlers[V, In]) BulkUnpublish(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	handler.WriteResult(w, h.c.BulkUnpublish(r.Context(), ids), http.StatusOK)
}

// requireID parses the {id} parameter, writing a 400 when it is invalid.
func requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		handler.WriteBadRequest(w, "Invalid ID")
		return 0, false
	}
	return id, true
}

func decodeIDs(w http.ResponseWriter, r *http.Request) ([]int64, bool) {
	var req idsRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return nil, false
	}
	return req.IDs, true
}
