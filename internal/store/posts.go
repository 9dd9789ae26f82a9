// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const postColumns = `id, title, slug, content, meta_description, featured_banner, status, published,
	scheduled_at, published_at, status_changed_at, status_changed_by, created_at, updated_at`

func scanPost(row rowScanner) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.MetaDescription,
		&i.FeaturedBanner,
		&i.Status,
		&i.Published,
		&i.ScheduledAt,
		&i.PublishedAt,
		&i.StatusChangedAt,
		&i.StatusChangedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// PostParams carries every writable post column.
type PostParams struct {
	Title           string
	Slug            string
	Content         string
	MetaDescription sql.NullString
	FeaturedBanner  sql.NullString
	Status          string
	Published       bool
	ScheduledAt     sql.NullTime
	PublishedAt     sql.NullTime
	StatusChangedAt sql.NullTime
	StatusChangedBy sql.NullString
}

const createPost = `INSERT INTO posts (
	title, slug, content, meta_description, featured_banner, status, published,
	scheduled_at, published_at, status_changed_at, status_changed_by, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreatePost(ctx context.Context, arg PostParams, now time.Time) (Post, error) {
	res, err := q.db.ExecContext(ctx, createPost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.MetaDescription,
		arg.FeaturedBanner,
		arg.Status,
		arg.Published,
		arg.ScheduledAt,
		arg.PublishedAt,
		arg.StatusChangedAt,
		arg.StatusChangedBy,
		now,
		now,
	)
	if err != nil {
		return Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	return q.GetPost(ctx, id)
}

const updatePost = `UPDATE posts SET
	title = ?, slug = ?, content = ?, meta_description = ?, featured_banner = ?, status = ?, published = ?,
	scheduled_at = ?, published_at = ?, status_changed_at = ?, status_changed_by = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdatePost(ctx context.Context, id int64, arg PostParams, now time.Time) (Post, error) {
	if err := execAffectingOne(ctx, q.db, updatePost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.MetaDescription,
		arg.FeaturedBanner,
		arg.Status,
		arg.Published,
		arg.ScheduledAt,
		arg.PublishedAt,
		arg.StatusChangedAt,
		arg.StatusChangedBy,
		now,
		id,
	); err != nil {
		return Post{}, err
	}
	return q.GetPost(ctx, id)
}

// UpdatePostStatusParams is the publication-only subset written by status toggles.
type UpdatePostStatusParams struct {
	ID              int64
	Status          string
	Published       bool
	ScheduledAt     sql.NullTime
	PublishedAt     sql.NullTime
	StatusChangedAt sql.NullTime
	StatusChangedBy sql.NullString
	UpdatedAt       time.Time
}

const updatePostStatus = `UPDATE posts SET
	status = ?, published = ?, scheduled_at = ?, published_at = ?,
	status_changed_at = ?, status_changed_by = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdatePostStatus(ctx context.Context, arg UpdatePostStatusParams) (Post, error) {
	if err := execAffectingOne(ctx, q.db, updatePostStatus,
		arg.Status,
		arg.Published,
		arg.ScheduledAt,
		arg.PublishedAt,
		arg.StatusChangedAt,
		arg.StatusChangedBy,
		arg.UpdatedAt,
		arg.ID,
	); err != nil {
		return Post{}, err
	}
	return q.GetPost(ctx, arg.ID)
}

const getPost = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPost, id))
}

const getPostBySlug = `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`

func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const postSlugExists = `SELECT COUNT(*) FROM posts WHERE slug = ?`

// PostSlugExists reports whether any post already uses slug.
func (q *Queries) PostSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := q.db.QueryRowContext(ctx, postSlugExists, slug).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

const listPosts = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

const listPublishedPosts = `SELECT ` + postColumns + ` FROM posts
WHERE status = 'PUBLISHED' AND published = 1
ORDER BY published_at DESC, id DESC`

func (q *Queries) ListPublishedPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPosts)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

const listDuePosts = `SELECT ` + postColumns + ` FROM posts
WHERE status = 'SCHEDULED' AND scheduled_at IS NOT NULL AND scheduled_at <= ?
ORDER BY scheduled_at ASC, id ASC`

// ListDuePosts returns scheduled posts whose publish time is at or before now.
func (q *Queries) ListDuePosts(ctx context.Context, now time.Time) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listDuePosts, now.UTC())
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

// ListPostsByIDs loads the posts whose ids are in ids. Missing ids are ignored.
func (q *Queries) ListPostsByIDs(ctx context.Context, ids []int64) ([]Post, error) {
	rows, err := q.selectByIDs(ctx, "posts", postColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deletePost, id)
}

// selectByIDs runs SELECT columns FROM table WHERE id IN (ids) ORDER BY id.
// It returns nil rows for an empty id list.
func (q *Queries) selectByIDs(ctx context.Context, table, columns string, ids []int64) (*sql.Rows, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sq.Select(columns).
		From(table).
		Where(sq.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return q.db.QueryContext(ctx, query, args...)
}

// execAffectingOne runs a statement and maps "no rows touched" to sql.ErrNoRows.
func execAffectingOne(ctx context.Context, db DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
