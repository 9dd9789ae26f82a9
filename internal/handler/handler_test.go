// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ofolio/internal/service"
)

// requestWithURLParams attaches chi URL parameters to r.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.value})
			got, err := ParseIDParam(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIDParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteResult(rr, service.Result[int]{OK: true, Data: 7}, http.StatusCreated)

		assertStatus(t, rr.Code, http.StatusCreated)
		body := decodeBody(t, rr)
		if body["ok"] != true || body["data"] != float64(7) {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["message"]; ok {
			t.Error("success body must not carry a message")
		}
	})

	tests := []struct {
		kind service.Kind
		want int
	}{
		{service.KindUnauthorized, http.StatusUnauthorized},
		{service.KindValidation, http.StatusUnprocessableEntity},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindPersistence, http.StatusInternalServerError},
		{service.KindConfiguration, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteResult(rr, service.Result[int]{Message: "boom", Kind: tt.kind}, http.StatusOK)

			assertStatus(t, rr.Code, tt.want)
			body := decodeBody(t, rr)
			if body["ok"] != false || body["message"] != "boom" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := DecodeJSON(rr, req, &dst); err != nil || dst.Name != "x" {
		t.Fatalf("DecodeJSON() = %v, name %q", err, dst.Name)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(rr, req, &dst); err == nil || err.Error() != "request body is empty" {
		t.Errorf("empty body error = %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(rr, req, &dst); err == nil || !strings.HasPrefix(err.Error(), "malformed JSON body") {
		t.Errorf("malformed body error = %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
