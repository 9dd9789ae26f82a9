// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/olegiv/ofolio/internal/handler"
)

// SetPostStatus handles POST /posts/{id}/status.
func (h *Handler) SetPostStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}
	handler.WriteResult(w, h.svc.Posts.SetStatus(r.Context(), id, req.Target), http.StatusOK)
}

// ImportPosts handles POST /posts/import. The CSV arrives either as the
// multipart field "file" or as the raw request body.
func (h *Handler) ImportPosts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)

	src, cleanup, err := importSource(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Import file is too large")
			return
		}
		handler.WriteBadRequest(w, err.Error())
		return
	}
	defer cleanup()

	handler.WriteResult(w, h.svc.Posts.Import(r.Context(), src), http.StatusOK)
}

// importSource returns the CSV reader of an import request.
func importSource(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(MaxImportBytes); err != nil {
		return nil, nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		return nil, nil, errors.New("multipart field \"file\" is required")
	}
	return file, func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}, nil
}
