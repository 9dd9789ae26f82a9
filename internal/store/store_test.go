// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// testDB creates a temporary migrated database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "ofolio-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func TestDSN(t *testing.T) {
	got := DSN("/data/ofolio.db")
	want := "/data/ofolio.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-64000)&_pragma=foreign_keys(1)&_pragma=temp_store(MEMORY)"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	if got := DSN("file:ofolio.db?mode=rwc"); got[:len("file:ofolio.db?mode=rwc&_pragma=")] != "file:ofolio.db?mode=rwc&_pragma=" {
		t.Errorf("DSN with query = %q", got)
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	// Hold several connections at once so the pool has to open new ones.
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		c, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn %d: %v", i, err)
		}
		defer func() { _ = c.Close() }()
		conns[i] = c
	}

	for i, c := range conns {
		var timeout, fk int
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if timeout != 5000 {
			t.Errorf("conn %d busy_timeout = %d, want 5000", i, timeout)
		}
		if fk != 1 {
			t.Errorf("conn %d foreign_keys = %d, want 1", i, fk)
		}
	}
}

func draftPost(title, slug string) PostParams {
	return PostParams{
		Title:   title,
		Slug:    slug,
		Content: "Body of " + title,
		Status:  "DRAFT",
	}
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now().UTC()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		Role:         "editor",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Role != "editor" {
		t.Errorf("Role = %q, want %q", user.Role, "editor")
	}

	got, err := q.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %d, want %d", got.ID, user.ID)
	}

	if _, err := q.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetUserByEmail(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestPostCRUD(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	post, err := q.CreatePost(ctx, draftPost("Hello", "hello"), now)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Status != "DRAFT" || post.Published {
		t.Errorf("new post status = %q published = %v", post.Status, post.Published)
	}
	if !post.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, now)
	}

	exists, err := q.PostSlugExists(ctx, "hello")
	if err != nil {
		t.Fatalf("PostSlugExists: %v", err)
	}
	if !exists {
		t.Error("PostSlugExists(hello) = false, want true")
	}

	publishedAt := now.Add(time.Hour)
	updated, err := q.UpdatePostStatus(ctx, UpdatePostStatusParams{
		ID:              post.ID,
		Status:          "PUBLISHED",
		Published:       true,
		PublishedAt:     sql.NullTime{Time: publishedAt, Valid: true},
		StatusChangedAt: sql.NullTime{Time: publishedAt, Valid: true},
		StatusChangedBy: sql.NullString{String: "admin@example.com", Valid: true},
		UpdatedAt:       publishedAt,
	})
	if err != nil {
		t.Fatalf("UpdatePostStatus: %v", err)
	}
	if !updated.PublishedAt.Valid || !updated.PublishedAt.Time.Equal(publishedAt) {
		t.Errorf("PublishedAt = %v, want %v", updated.PublishedAt, publishedAt)
	}

	published, err := q.ListPublishedPosts(ctx)
	if err != nil {
		t.Fatalf("ListPublishedPosts: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("len(published) = %d, want 1", len(published))
	}

	if err := q.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if err := q.DeletePost(ctx, post.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second DeletePost error = %v, want sql.ErrNoRows", err)
	}
}

func TestPostSlugUnique(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	if _, err := q.CreatePost(ctx, draftPost("One", "same"), now); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := q.CreatePost(ctx, draftPost("Two", "same"), now); err == nil {
		t.Error("expected unique constraint violation for duplicate slug")
	}
}

func TestListPostsByIDs(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	var ids []int64
	for _, slug := range []string{"a", "b", "c"} {
		p, err := q.CreatePost(ctx, draftPost(slug, slug), now)
		if err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
		ids = append(ids, p.ID)
	}

	got, err := q.ListPostsByIDs(ctx, []int64{ids[2], ids[0], 9999})
	if err != nil {
		t.Fatalf("ListPostsByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != ids[0] || got[1].ID != ids[2] {
		t.Errorf("ids = [%d %d], want [%d %d]", got[0].ID, got[1].ID, ids[0], ids[2])
	}

	empty, err := q.ListPostsByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListPostsByIDs(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len = %d, want 0", len(empty))
	}
}

func TestListDuePosts(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	schedule := func(slug string, at time.Time) {
		t.Helper()
		p := draftPost(slug, slug)
		p.Status = "SCHEDULED"
		p.ScheduledAt = sql.NullTime{Time: at, Valid: true}
		if _, err := q.CreatePost(ctx, p, now); err != nil {
			t.Fatalf("CreatePost(%s): %v", slug, err)
		}
	}
	schedule("past", now.Add(-time.Minute))
	schedule("exact", now)
	schedule("future", now.Add(time.Minute))

	due, err := q.ListDuePosts(ctx, now)
	if err != nil {
		t.Fatalf("ListDuePosts: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2", len(due))
	}
	if due[0].Slug != "past" || due[1].Slug != "exact" {
		t.Errorf("due = [%s %s], want [past exact]", due[0].Slug, due[1].Slug)
	}
}

func TestSetPublishedFlags(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	skill, err := q.CreateSkill(ctx, SkillParams{Name: "Go", Level: 90}, now)
	if err != nil {
		t.Fatalf("CreateSkill: %v", err)
	}
	skill, err = q.SetSkillPublished(ctx, skill.ID, true, now)
	if err != nil {
		t.Fatalf("SetSkillPublished: %v", err)
	}
	if !skill.Published {
		t.Error("skill should be published")
	}

	if _, err := q.SetToolPublished(ctx, 42, true, now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("SetToolPublished(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestAuditEntries(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	now := time.Now().UTC()

	for i, et := range []string{"Post", "Skill", "Post"} {
		if _, err := q.CreateAuditEntry(ctx, CreateAuditEntryParams{
			ActorEmail: "admin@example.com",
			EntityType: et,
			EntityID:   int64(i + 1),
			Action:     "CREATE",
			Diff:       `{"before":null,"after":{}}`,
			CreatedAt:  now,
		}); err != nil {
			t.Fatalf("CreateAuditEntry: %v", err)
		}
	}

	types, err := q.ListAuditEntityTypes(ctx)
	if err != nil {
		t.Fatalf("ListAuditEntityTypes: %v", err)
	}
	if len(types) != 2 || types[0] != "Post" || types[1] != "Skill" {
		t.Errorf("types = %v, want [Post Skill]", types)
	}

	entries, err := q.QueryAuditEntries(ctx, sq.Select(AuditEntryColumns).
		From("audit_entries").
		Where(sq.Eq{"entity_type": "Post"}).
		OrderBy("id DESC"))
	if err != nil {
		t.Fatalf("QueryAuditEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].EntityID != 3 {
		t.Errorf("first EntityID = %d, want 3", entries[0].EntityID)
	}
}

func TestInTxRollsBack(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	boom := errors.New("boom")

	err := InTx(ctx, db, func(q *Queries) error {
		if _, err := q.CreatePost(ctx, draftPost("Tx", "tx"), time.Now().UTC()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}

	exists, err := New(db).PostSlugExists(ctx, "tx")
	if err != nil {
		t.Fatalf("PostSlugExists: %v", err)
	}
	if exists {
		t.Error("post written inside a rolled back transaction is visible")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	admin := AdminSeed{Email: "owner@example.com", Password: "correct-horse-battery"}

	if err := Seed(ctx, db, admin); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db, admin); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	user, err := New(db).GetUserByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("Role = %q, want admin", user.Role)
	}
}
