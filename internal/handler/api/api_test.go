// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/cache"
	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/service"
	"github.com/olegiv/ofolio/internal/testutil"
)

type apiFixture struct {
	db     *sql.DB
	cache  *cache.MemoryCache
	admin  http.Handler
	public http.Handler
	anon   http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.TestMemoryDB(t)
	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	logger := testutil.TestLoggerSilent()
	svc := service.New(db, logger, service.WithInvalidator(cache.NewListings(mem, logger)))
	h := NewHandler(svc, nil, WithCache(mem, time.Minute), WithLogger(logger))

	admin := h.AdminRoutes()
	return &apiFixture{
		db:     db,
		cache:  mem,
		admin:  asAdmin(admin),
		public: h.PublicRoutes(),
		anon:   admin,
	}
}

// asAdmin runs every request as the default administrator.
func asAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithActor(r.Context(), auth.Actor{ID: 1, Email: testutil.AdminEmail, Role: model.RoleAdmin})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type result struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func serve(t *testing.T, h http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, result) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var res result
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res), "body: %s", rr.Body.String())
	}
	return rr, res
}

func serveJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, result) {
	t.Helper()
	return serve(t, h, method, target, strings.NewReader(body))
}

func decodeData[T any](t *testing.T, res result) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(res.Data, &v), "data: %s", res.Data)
	return v
}

func TestAdminCreateAndGet(t *testing.T) {
	f := newAPIFixture(t)

	rr, res := serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Hello World","content":"Body"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.True(t, res.OK)
	post := decodeData[service.PostView](t, res)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, string(model.PostStatusDraft), post.Status)

	rr, res = serve(t, f.admin, http.MethodGet, "/posts/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, post.ID, decodeData[service.PostView](t, res).ID)

	rr, res = serve(t, f.admin, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]service.PostView](t, res), 1)
}

func TestAdminErrorStatuses(t *testing.T) {
	f := newAPIFixture(t)

	rr, res := serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.False(t, res.OK)
	assert.Equal(t, "Name is required", res.Message)

	rr, res = serve(t, f.admin, http.MethodGet, "/skills/99", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Skill not found", res.Message)

	rr, _ = serve(t, f.admin, http.MethodGet, "/skills/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, res = serve(t, f.anon, http.MethodGet, "/skills", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", res.Message)
}

func TestAdminUpdateDeleteDuplicate(t *testing.T) {
	f := newAPIFixture(t)

	_, res := serveJSON(t, f.admin, http.MethodPost, "/tools", `{"name":"Vim","published":true}`)
	tool := decodeData[service.ToolView](t, res)

	rr, res := serveJSON(t, f.admin, http.MethodPut, "/tools/1", `{"name":"Neovim","published":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Neovim", decodeData[service.ToolView](t, res).Name)

	rr, res = serve(t, f.admin, http.MethodPost, "/tools/1/duplicate", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	dup := decodeData[service.ToolView](t, res)
	assert.Equal(t, "Neovim (Copy)", dup.Name)
	assert.False(t, dup.Published)

	rr, res = serve(t, f.admin, http.MethodDelete, "/tools/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tool.ID, decodeData[service.DeleteResult](t, res).ID)

	rr, _ = serve(t, f.admin, http.MethodGet, "/tools/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminBulkActions(t *testing.T) {
	f := newAPIFixture(t)

	for _, name := range []string{"Go", "Rust", "Zig"} {
		serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":"`+name+`","level":50}`)
	}

	rr, res := serveJSON(t, f.admin, http.MethodPost, "/skills/bulk-publish", `{"ids":[1,2]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 2, decodeData[service.BulkResult](t, res).Count)

	// Already published rows are not changed again.
	_, res = serveJSON(t, f.admin, http.MethodPost, "/skills/bulk-publish", `{"ids":[1,2,3]}`)
	assert.Equal(t, 1, decodeData[service.BulkResult](t, res).Count)

	_, res = serveJSON(t, f.admin, http.MethodPost, "/skills/bulk-unpublish", `{"ids":[3]}`)
	assert.Equal(t, 1, decodeData[service.BulkResult](t, res).Count)

	_, res = serveJSON(t, f.admin, http.MethodPost, "/skills/bulk-delete", `{"ids":[1,3]}`)
	assert.Equal(t, 2, decodeData[service.BulkResult](t, res).Count)

	rr, res = serveJSON(t, f.admin, http.MethodPost, "/skills/bulk-delete", `{"ids":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Select at least one item", res.Message)
}

func TestAdminPostStatus(t *testing.T) {
	f := newAPIFixture(t)
	serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Hello"}`)

	rr, res := serveJSON(t, f.admin, http.MethodPost, "/posts/1/status", `{"target":"published"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	post := decodeData[service.PostView](t, res)
	assert.Equal(t, string(model.PostStatusPublished), post.Status)
	assert.True(t, post.Published)
	require.NotNil(t, post.StatusChangedBy)
	assert.Equal(t, testutil.AdminEmail, *post.StatusChangedBy)

	rr, res = serveJSON(t, f.admin, http.MethodPost, "/posts/1/status", `{"target":"archived"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Target must be published or draft", res.Message)
}

const importCSV = "title,slug,status\nFirst,first,published\nBroken\nSecond,second,\n"

func TestAdminImportRawBody(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/posts/import", strings.NewReader(importCSV))
	req.Header.Set("Content-Type", "text/csv")
	rr := httptest.NewRecorder()
	f.admin.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res struct {
		OK   bool                 `json:"ok"`
		Data service.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Data.Imported)
	assert.Equal(t, 1, res.Data.Skipped)
	assert.Equal(t, []string{"row 3: expected 3 columns, got 1"}, res.Data.Warnings)
	assert.NotEmpty(t, res.Data.BatchID)
}

func TestAdminImportMultipart(t *testing.T) {
	f := newAPIFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "posts.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(importCSV))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	f.admin.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"imported":2`)

	// A multipart request without the file field is rejected.
	body.Reset()
	mw = multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/posts/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr = httptest.NewRecorder()
	f.admin.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminAudit(t *testing.T) {
	f := newAPIFixture(t)
	serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Hello"}`)
	serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":"Go"}`)
	serveJSON(t, f.admin, http.MethodPut, "/skills/1", `{"name":"Golang"}`)

	rr, res := serve(t, f.admin, http.MethodGet, "/audit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decodeData[[]service.AuditEntryView](t, res)
	require.Len(t, entries, 3)
	assert.Equal(t, "UPDATE", entries[0].Action)

	_, res = serve(t, f.admin, http.MethodGet, "/audit?action=create&entityType=Skill", nil)
	entries = decodeData[[]service.AuditEntryView](t, res)
	require.Len(t, entries, 1)
	assert.Equal(t, "Skill", entries[0].EntityType)

	rr, _ = serve(t, f.admin, http.MethodGet, "/audit?action=purge", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	_, res = serve(t, f.admin, http.MethodGet, "/audit/entity-types", nil)
	assert.ElementsMatch(t, []string{"Post", "Skill"}, decodeData[[]string](t, res))
}

const documentYAML = `version: "1"
skills:
  - name: Go
    level: 90
    published: true
tools:
  - name: Vim
    published: true
`

func TestAdminDocumentImportExport(t *testing.T) {
	f := newAPIFixture(t)

	rr, res := serveJSON(t, f.admin, http.MethodPost, "/import", documentYAML)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 2, decodeData[service.ImportResult](t, res).Imported)

	rr, _ = serveJSON(t, f.admin, http.MethodPost, "/import", "unknownKey: 1\n")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, res = serve(t, f.admin, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, res.OK)
	assert.Contains(t, string(res.Data), `"skills"`)

	rr, _ = serve(t, f.admin, http.MethodGet, "/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".yaml")
	assert.Contains(t, rr.Body.String(), "name: Vim")

	rr, _ = serve(t, f.anon, http.MethodGet, "/export?format=yaml", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPublicListsOnlyPublished(t *testing.T) {
	f := newAPIFixture(t)
	serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Live","status":"published","content":"# Hi\n\n<script>alert(1)</script>"}`)
	serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Draft"}`)
	serveJSON(t, f.admin, http.MethodPost, "/web-apps", `{"name":"App","published":true}`)

	rr, res := serve(t, f.public, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	posts := decodeData[[]service.PublicPostView](t, res)
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)

	rr, res = serve(t, f.public, http.MethodGet, "/posts/live", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	post := decodeData[PublicPost](t, res)
	assert.Contains(t, post.HTML, "<h1")
	assert.NotContains(t, post.HTML, "<script>")

	rr, res = serve(t, f.public, http.MethodGet, "/posts/draft", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", res.Code)

	rr, res = serve(t, f.public, http.MethodGet, "/web-apps", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]service.WebAppView](t, res), 1)

	rr, res = serve(t, f.public, http.MethodGet, "/overview", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	overview := decodeData[service.Overview](t, res)
	assert.Len(t, overview.Posts, 1)
	assert.Len(t, overview.WebApps, 1)
	assert.Empty(t, overview.Skills)
}

func TestPublicPostsHideStatusBookkeeping(t *testing.T) {
	f := newAPIFixture(t)
	rr, res := serveJSON(t, f.admin, http.MethodPost, "/posts", `{"title":"Hello","status":"published"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeData[service.PostView](t, res)
	require.NotNil(t, created.StatusChangedBy)
	require.Equal(t, testutil.AdminEmail, *created.StatusChangedBy)

	for _, target := range []string{"/posts", "/posts/hello", "/overview"} {
		rr, _ := serve(t, f.public, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rr.Code, target)
		body := rr.Body.String()
		assert.NotContains(t, body, testutil.AdminEmail, target)
		assert.NotContains(t, body, "statusChangedBy", target)
		assert.NotContains(t, body, "statusChangedAt", target)
		assert.Contains(t, body, "publishedAt", target)
	}
}

func TestPublicCacheInvalidatedByMutation(t *testing.T) {
	f := newAPIFixture(t)
	serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":"Go","published":true}`)

	rr, _ := serve(t, f.public, http.MethodGet, "/skills", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	rr, _ = serve(t, f.public, http.MethodGet, "/skills", nil)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))
	serve(t, f.public, http.MethodGet, "/overview", nil)

	serveJSON(t, f.admin, http.MethodPost, "/skills", `{"name":"Rust","published":true}`)

	rr, res := serve(t, f.public, http.MethodGet, "/skills", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	assert.Len(t, decodeData[[]service.SkillView](t, res), 2)

	rr, _ = serve(t, f.public, http.MethodGet, "/overview", nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
}

func TestPublicDatastoreErrors(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		h := NewHandler(service.New(nil, testutil.TestLoggerSilent()), nil)

		rr, res := serve(t, h.PublicRoutes(), http.MethodGet, "/skills", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "datastore_unconfigured", res.Code)

		rr, res = serve(t, h.PublicRoutes(), http.MethodGet, "/overview", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "datastore_unconfigured", res.Code)
	})

	t.Run("query failed", func(t *testing.T) {
		f := newAPIFixture(t)
		require.NoError(t, f.db.Close())

		rr, res := serve(t, f.public, http.MethodGet, "/tools", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "query_failed", res.Code)
		assert.False(t, res.OK)
	})
}
