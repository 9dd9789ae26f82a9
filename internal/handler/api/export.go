// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/ofolio/internal/handler"
	"github.com/olegiv/ofolio/internal/transfer"
)

// Export handles GET /export. ?format=yaml or ?format=json returns the
// document as a file download; otherwise it is wrapped in the usual JSON
// result.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Export(r.Context())
	format := r.URL.Query().Get("format")
	if !res.OK || (format != "yaml" && format != "json") {
		handler.WriteResult(w, res, http.StatusOK)
		return
	}

	var buf bytes.Buffer
	encode, contentType := res.Data.EncodeYAML, "application/yaml"
	if format == "json" {
		encode, contentType = res.Data.EncodeJSON, "application/json"
	}
	if err := encode(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode export", "format", format, "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to encode export")
		return
	}

	filename := "ofolio-export-" + time.Now().UTC().Format("20060102-150405") + "." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ImportDocument handles POST /import: a portfolio document in YAML or JSON
// is imported as a whole or not at all.
func (h *Handler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxDocumentBytes)

	doc, err := transfer.DecodeYAML(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Document is too large")
			return
		}
		handler.WriteBadRequest(w, err.Error())
		return
	}
	handler.WriteResult(w, h.svc.ImportDocument(r.Context(), doc), http.StatusOK)
}
