// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const workSampleColumns = `id, title, description, url, image_url, category, tags, published, sort_order, created_at, updated_at`

func scanWorkSample(row rowScanner) (WorkSample, error) {
	var i WorkSample
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Url,
		&i.ImageUrl,
		&i.Category,
		&i.Tags,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type WorkSampleParams struct {
	Title       string
	Description sql.NullString
	Url         sql.NullString
	ImageUrl    sql.NullString
	Category    sql.NullString
	Tags        string
	Published   bool
	SortOrder   int64
}

const createWorkSample = `INSERT INTO work_samples (
	title, description, url, image_url, category, tags, published, sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateWorkSample(ctx context.Context, arg WorkSampleParams, now time.Time) (WorkSample, error) {
	res, err := q.db.ExecContext(ctx, createWorkSample,
		arg.Title,
		arg.Description,
		arg.Url,
		arg.ImageUrl,
		arg.Category,
		arg.Tags,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return WorkSample{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return WorkSample{}, err
	}
	return q.GetWorkSample(ctx, id)
}

const updateWorkSample = `UPDATE work_samples SET
	title = ?, description = ?, url = ?, image_url = ?, category = ?, tags = ?,
	published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateWorkSample(ctx context.Context, id int64, arg WorkSampleParams, now time.Time) (WorkSample, error) {
	if err := execAffectingOne(ctx, q.db, updateWorkSample,
		arg.Title,
		arg.Description,
		arg.Url,
		arg.ImageUrl,
		arg.Category,
		arg.Tags,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return WorkSample{}, err
	}
	return q.GetWorkSample(ctx, id)
}

const setWorkSamplePublished = `UPDATE work_samples SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetWorkSamplePublished(ctx context.Context, id int64, published bool, now time.Time) (WorkSample, error) {
	if err := execAffectingOne(ctx, q.db, setWorkSamplePublished, published, now, id); err != nil {
		return WorkSample{}, err
	}
	return q.GetWorkSample(ctx, id)
}

const getWorkSample = `SELECT ` + workSampleColumns + ` FROM work_samples WHERE id = ?`

func (q *Queries) GetWorkSample(ctx context.Context, id int64) (WorkSample, error) {
	return scanWorkSample(q.db.QueryRowContext(ctx, getWorkSample, id))
}

const listWorkSamples = `SELECT ` + workSampleColumns + ` FROM work_samples ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListWorkSamples(ctx context.Context) ([]WorkSample, error) {
	rows, err := q.db.QueryContext(ctx, listWorkSamples)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWorkSample)
}

const listPublishedWorkSamples = `SELECT ` + workSampleColumns + ` FROM work_samples WHERE published = 1 ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListPublishedWorkSamples(ctx context.Context) ([]WorkSample, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedWorkSamples)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWorkSample)
}

func (q *Queries) ListWorkSamplesByIDs(ctx context.Context, ids []int64) ([]WorkSample, error) {
	rows, err := q.selectByIDs(ctx, "work_samples", workSampleColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanWorkSample)
}

const deleteWorkSample = `DELETE FROM work_samples WHERE id = ?`

func (q *Queries) DeleteWorkSample(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deleteWorkSample, id)
}
