// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers shared by every route group:
// response helpers, health checks and admin sign-in.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ofolio/internal/middleware"
	"github.com/olegiv/ofolio/internal/service"
)

// MaxJSONBody bounds the size of a decoded JSON request body.
const MaxJSONBody = 1 << 20

// ErrInvalidID is returned by ParseIDParam for a missing or malformed id.
var ErrInvalidID = errors.New("invalid id")

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteResult writes an action result as {ok, data|message}. Success uses
// okStatus; failures take the status of their kind.
func WriteResult[T any](w http.ResponseWriter, res service.Result[T], okStatus int) {
	if res.OK {
		WriteJSON(w, okStatus, res)
		return
	}
	WriteJSON(w, res.Kind.HTTPStatus(), res)
}

// WriteError writes {ok:false, code, message}.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	middleware.WriteAPIError(w, statusCode, code, message)
}

// WriteBadRequest writes a 400 with the given message.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// DecodeJSON decodes a size-limited JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// ParseIDParam parses the {id} URL parameter as a positive int64.
func ParseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
