// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const skillColumns = `id, name, category, level, published, sort_order, created_at, updated_at`

func scanSkill(row rowScanner) (Skill, error) {
	var i Skill
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Level,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type SkillParams struct {
	Name      string
	Category  sql.NullString
	Level     int64
	Published bool
	SortOrder int64
}

const createSkill = `INSERT INTO skills (name, category, level, published, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateSkill(ctx context.Context, arg SkillParams, now time.Time) (Skill, error) {
	res, err := q.db.ExecContext(ctx, createSkill,
		arg.Name,
		arg.Category,
		arg.Level,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return Skill{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Skill{}, err
	}
	return q.GetSkill(ctx, id)
}

const updateSkill = `UPDATE skills SET name = ?, category = ?, level = ?, published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateSkill(ctx context.Context, id int64, arg SkillParams, now time.Time) (Skill, error) {
	if err := execAffectingOne(ctx, q.db, updateSkill,
		arg.Name,
		arg.Category,
		arg.Level,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return Skill{}, err
	}
	return q.GetSkill(ctx, id)
}

const setSkillPublished = `UPDATE skills SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetSkillPublished(ctx context.Context, id int64, published bool, now time.Time) (Skill, error) {
	if err := execAffectingOne(ctx, q.db, setSkillPublished, published, now, id); err != nil {
		return Skill{}, err
	}
	return q.GetSkill(ctx, id)
}

const getSkill = `SELECT ` + skillColumns + ` FROM skills WHERE id = ?`

func (q *Queries) GetSkill(ctx context.Context, id int64) (Skill, error) {
	return scanSkill(q.db.QueryRowContext(ctx, getSkill, id))
}

const listSkills = `SELECT ` + skillColumns + ` FROM skills ORDER BY sort_order ASC, name ASC, id ASC`

func (q *Queries) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listSkills)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSkill)
}

const listPublishedSkills = `SELECT ` + skillColumns + ` FROM skills WHERE published = 1 ORDER BY sort_order ASC, name ASC, id ASC`

func (q *Queries) ListPublishedSkills(ctx context.Context) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedSkills)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSkill)
}

func (q *Queries) ListSkillsByIDs(ctx context.Context, ids []int64) ([]Skill, error) {
	rows, err := q.selectByIDs(ctx, "skills", skillColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanSkill)
}

const deleteSkill = `DELETE FROM skills WHERE id = ?`

func (q *Queries) DeleteSkill(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deleteSkill, id)
}
