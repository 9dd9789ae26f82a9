// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/ofolio/internal/service"
	"github.com/olegiv/ofolio/internal/testutil"
)

func TestSitemapListsPublishedPosts(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	svc := service.New(db, testutil.TestLoggerSilent())
	ctx := testutil.AdminContext()

	if res := svc.Posts.Create(ctx, service.PostInput{Title: "Live", Status: "published"}); !res.OK {
		t.Fatalf("create live: %s", res.Message)
	}
	if res := svc.Posts.Create(ctx, service.PostInput{Title: "Hidden"}); !res.OK {
		t.Fatalf("create draft: %s", res.Message)
	}

	h := NewSEOHandler(svc, "https://example.com", "/blog", false)
	rr := httptest.NewRecorder()
	h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assertStatus(t, rr.Code, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<loc>https://example.com/blog/live</loc>") {
		t.Errorf("sitemap should list the published post:\n%s", body)
	}
	if strings.Contains(body, "hidden") {
		t.Errorf("sitemap should not list drafts:\n%s", body)
	}
}

func TestSitemapWithoutDatastore(t *testing.T) {
	h := NewSEOHandler(service.New(nil, testutil.TestLoggerSilent()), "https://example.com", "", false)
	rr := httptest.NewRecorder()
	h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assertStatus(t, rr.Code, http.StatusServiceUnavailable)
}

func TestRobots(t *testing.T) {
	h := NewSEOHandler(nil, "https://example.com", "", false)
	rr := httptest.NewRecorder()
	h.Robots(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assertStatus(t, rr.Code, http.StatusOK)
	if !strings.Contains(rr.Body.String(), "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", rr.Body.String())
	}

	h = NewSEOHandler(nil, "https://example.com", "", true)
	rr = httptest.NewRecorder()
	h.Robots(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if rr.Body.String() != "User-agent: *\nDisallow: /\n" {
		t.Errorf("staging robots.txt = %q", rr.Body.String())
	}
}
