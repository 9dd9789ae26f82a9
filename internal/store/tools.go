// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const toolColumns = `id, name, category, url, icon, published, sort_order, created_at, updated_at`

func scanTool(row rowScanner) (Tool, error) {
	var i Tool
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Url,
		&i.Icon,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type ToolParams struct {
	Name      string
	Category  sql.NullString
	Url       sql.NullString
	Icon      sql.NullString
	Published bool
	SortOrder int64
}

const createTool = `INSERT INTO tools (name, category, url, icon, published, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTool(ctx context.Context, arg ToolParams, now time.Time) (Tool, error) {
	res, err := q.db.ExecContext(ctx, createTool,
		arg.Name,
		arg.Category,
		arg.Url,
		arg.Icon,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return Tool{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tool{}, err
	}
	return q.GetTool(ctx, id)
}

const updateTool = `UPDATE tools SET name = ?, category = ?, url = ?, icon = ?, published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateTool(ctx context.Context, id int64, arg ToolParams, now time.Time) (Tool, error) {
	if err := execAffectingOne(ctx, q.db, updateTool,
		arg.Name,
		arg.Category,
		arg.Url,
		arg.Icon,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return Tool{}, err
	}
	return q.GetTool(ctx, id)
}

const setToolPublished = `UPDATE tools SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetToolPublished(ctx context.Context, id int64, published bool, now time.Time) (Tool, error) {
	if err := execAffectingOne(ctx, q.db, setToolPublished, published, now, id); err != nil {
		return Tool{}, err
	}
	return q.GetTool(ctx, id)
}

const getTool = `SELECT ` + toolColumns + ` FROM tools WHERE id = ?`

func (q *Queries) GetTool(ctx context.Context, id int64) (Tool, error) {
	return scanTool(q.db.QueryRowContext(ctx, getTool, id))
}

const listTools = `SELECT ` + toolColumns + ` FROM tools ORDER BY sort_order ASC, name ASC, id ASC`

func (q *Queries) ListTools(ctx context.Context) ([]Tool, error) {
	rows, err := q.db.QueryContext(ctx, listTools)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTool)
}

const listPublishedTools = `SELECT ` + toolColumns + ` FROM tools WHERE published = 1 ORDER BY sort_order ASC, name ASC, id ASC`

func (q *Queries) ListPublishedTools(ctx context.Context) ([]Tool, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedTools)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTool)
}

func (q *Queries) ListToolsByIDs(ctx context.Context, ids []int64) ([]Tool, error) {
	rows, err := q.selectByIDs(ctx, "tools", toolColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanTool)
}

const deleteTool = `DELETE FROM tools WHERE id = ?`

func (q *Queries) DeleteTool(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deleteTool, id)
}
