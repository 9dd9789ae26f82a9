// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const experienceColumns = `id, company, role, location, start_date, end_date, summary,
	achievements, skills, career_progression, published, sort_order, created_at, updated_at`

func scanExperience(row rowScanner) (Experience, error) {
	var i Experience
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Role,
		&i.Location,
		&i.StartDate,
		&i.EndDate,
		&i.Summary,
		&i.Achievements,
		&i.Skills,
		&i.CareerProgression,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// ExperienceParams carries every writable experience column.
// Achievements, Skills and CareerProgression hold compact JSON arrays.
type ExperienceParams struct {
	Company           string
	Role              string
	Location          sql.NullString
	StartDate         string
	EndDate           sql.NullString
	Summary           sql.NullString
	Achievements      string
	Skills            string
	CareerProgression string
	Published         bool
	SortOrder         int64
}

const createExperience = `INSERT INTO experiences (
	company, role, location, start_date, end_date, summary,
	achievements, skills, career_progression, published, sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateExperience(ctx context.Context, arg ExperienceParams, now time.Time) (Experience, error) {
	res, err := q.db.ExecContext(ctx, createExperience,
		arg.Company,
		arg.Role,
		arg.Location,
		arg.StartDate,
		arg.EndDate,
		arg.Summary,
		arg.Achievements,
		arg.Skills,
		arg.CareerProgression,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return Experience{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Experience{}, err
	}
	return q.GetExperience(ctx, id)
}

const updateExperience = `UPDATE experiences SET
	company = ?, role = ?, location = ?, start_date = ?, end_date = ?, summary = ?,
	achievements = ?, skills = ?, career_progression = ?, published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateExperience(ctx context.Context, id int64, arg ExperienceParams, now time.Time) (Experience, error) {
	if err := execAffectingOne(ctx, q.db, updateExperience,
		arg.Company,
		arg.Role,
		arg.Location,
		arg.StartDate,
		arg.EndDate,
		arg.Summary,
		arg.Achievements,
		arg.Skills,
		arg.CareerProgression,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return Experience{}, err
	}
	return q.GetExperience(ctx, id)
}

const setExperiencePublished = `UPDATE experiences SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetExperiencePublished(ctx context.Context, id int64, published bool, now time.Time) (Experience, error) {
	if err := execAffectingOne(ctx, q.db, setExperiencePublished, published, now, id); err != nil {
		return Experience{}, err
	}
	return q.GetExperience(ctx, id)
}

const getExperience = `SELECT ` + experienceColumns + ` FROM experiences WHERE id = ?`

func (q *Queries) GetExperience(ctx context.Context, id int64) (Experience, error) {
	return scanExperience(q.db.QueryRowContext(ctx, getExperience, id))
}

const listExperiences = `SELECT ` + experienceColumns + ` FROM experiences ORDER BY sort_order ASC, start_date DESC, id ASC`

func (q *Queries) ListExperiences(ctx context.Context) ([]Experience, error) {
	rows, err := q.db.QueryContext(ctx, listExperiences)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanExperience)
}

const listPublishedExperiences = `SELECT ` + experienceColumns + ` FROM experiences
WHERE published = 1 ORDER BY sort_order ASC, start_date DESC, id ASC`

func (q *Queries) ListPublishedExperiences(ctx context.Context) ([]Experience, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedExperiences)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanExperience)
}

func (q *Queries) ListExperiencesByIDs(ctx context.Context, ids []int64) ([]Experience, error) {
	rows, err := q.selectByIDs(ctx, "experiences", experienceColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanExperience)
}

const deleteExperience = `DELETE FROM experiences WHERE id = ?`

func (q *Queries) DeleteExperience(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deleteExperience, id)
}
