// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const webAppColumns = `id, name, description, url, repo_url, image_url, tech_stack, published, sort_order, created_at, updated_at`

func scanWebApp(row rowScanner) (WebApp, error) {
	var i WebApp
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Url,
		&i.RepoUrl,
		&i.ImageUrl,
		&i.TechStack,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type WebAppParams struct {
	Name        string
	Description sql.NullString
	Url         sql.NullString
	RepoUrl     sql.NullString
	ImageUrl    sql.NullString
	TechStack   string
	Published   bool
	SortOrder   int64
}

const createWebApp = `INSERT INTO web_apps (
	name, description, url, repo_url, image_url, tech_stack, published, sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateWebApp(ctx context.Context, arg WebAppParams, now time.Time) (WebApp, error) {
	res, err := q.db.ExecContext(ctx, createWebApp,
		arg.Name,
		arg.Description,
		arg.Url,
		arg.RepoUrl,
		arg.ImageUrl,
		arg.TechStack,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return WebApp{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return WebApp{}, err
	}
	return q.GetWebApp(ctx, id)
}

const updateWebApp = `UPDATE web_apps SET
	name = ?, description = ?, url = ?, repo_url = ?, image_url = ?, tech_stack = ?,
	published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateWebApp(ctx context.Context, id int64, arg WebAppParams, now time.Time) (WebApp, error) {
	if err := execAffectingOne(ctx, q.db, updateWebApp,
		arg.Name,
		arg.Description,
		arg.Url,
		arg.RepoUrl,
		arg.ImageUrl,
		arg.TechStack,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return WebApp{}, err
	}
	return q.GetWebApp(ctx, id)
}

const setWebAppPublished = `UPDATE web_apps SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetWebAppPublished(ctx context.Context, id int64, published bool, now time.Time) (WebApp, error) {
	if err := execAffectingOne(ctx, q.db, setWebAppPublished, published, now, id); err != nil {
		return WebApp{}, err
	}
	return q.GetWebApp(ctx, id)
}

const getWebApp = `SELECT ` + webAppColumns + ` FROM web_apps WHERE id = ?`

func (q *Queries) GetWebApp(ctx context.Context, id int64) (WebApp, error) {
	return scanWebApp(q.db.QueryRowContext(ctx, getWebApp, id))
}

const listWebApps = `SELECT ` + webAppColumns + ` FROM web_apps ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListWebApps(ctx context.Context) ([]WebApp, error) {
	rows, err := q.db.QueryContext(ctx, listWebApps)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWebApp)
}

const listPublishedWebApps = `SELECT ` + webAppColumns + ` FROM web_apps WHERE published = 1 ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListPublishedWebApps(ctx context.Context) ([]WebApp, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedWebApps)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWebApp)
}

func (q *Queries) ListWebAppsByIDs(ctx context.Context, ids []int64) ([]WebApp, error) {
	rows, err := q.selectByIDs(ctx, "web_apps", webAppColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanWebApp)
}

const deleteWebApp = `DELETE FROM web_apps WHERE id = ?`

func (q *Queries) DeleteWebApp(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deleteWebApp, id)
}
