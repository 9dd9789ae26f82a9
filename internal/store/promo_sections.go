// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const promoSectionColumns = `id, title, subtitle, body, cta_label, cta_url, published, sort_order, created_at, updated_at`

func scanPromoSection(row rowScanner) (PromoSection, error) {
	var i PromoSection
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Subtitle,
		&i.Body,
		&i.CtaLabel,
		&i.CtaUrl,
		&i.Published,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type PromoSectionParams struct {
	Title     string
	Subtitle  sql.NullString
	Body      sql.NullString
	CtaLabel  sql.NullString
	CtaUrl    sql.NullString
	Published bool
	SortOrder int64
}

const createPromoSection = `INSERT INTO promo_sections (
	title, subtitle, body, cta_label, cta_url, published, sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreatePromoSection(ctx context.Context, arg PromoSectionParams, now time.Time) (PromoSection, error) {
	res, err := q.db.ExecContext(ctx, createPromoSection,
		arg.Title,
		arg.Subtitle,
		arg.Body,
		arg.CtaLabel,
		arg.CtaUrl,
		arg.Published,
		arg.SortOrder,
		now,
		now,
	)
	if err != nil {
		return PromoSection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return PromoSection{}, err
	}
	return q.GetPromoSection(ctx, id)
}

const updatePromoSection = `UPDATE promo_sections SET
	title = ?, subtitle = ?, body = ?, cta_label = ?, cta_url = ?, published = ?, sort_order = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdatePromoSection(ctx context.Context, id int64, arg PromoSectionParams, now time.Time) (PromoSection, error) {
	if err := execAffectingOne(ctx, q.db, updatePromoSection,
		arg.Title,
		arg.Subtitle,
		arg.Body,
		arg.CtaLabel,
		arg.CtaUrl,
		arg.Published,
		arg.SortOrder,
		now,
		id,
	); err != nil {
		return PromoSection{}, err
	}
	return q.GetPromoSection(ctx, id)
}

const setPromoSectionPublished = `UPDATE promo_sections SET published = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetPromoSectionPublished(ctx context.Context, id int64, published bool, now time.Time) (PromoSection, error) {
	if err := execAffectingOne(ctx, q.db, setPromoSectionPublished, published, now, id); err != nil {
		return PromoSection{}, err
	}
	return q.GetPromoSection(ctx, id)
}

const getPromoSection = `SELECT ` + promoSectionColumns + ` FROM promo_sections WHERE id = ?`

func (q *Queries) GetPromoSection(ctx context.Context, id int64) (PromoSection, error) {
	return scanPromoSection(q.db.QueryRowContext(ctx, getPromoSection, id))
}

const listPromoSections = `SELECT ` + promoSectionColumns + ` FROM promo_sections ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListPromoSections(ctx context.Context) ([]PromoSection, error) {
	rows, err := q.db.QueryContext(ctx, listPromoSections)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPromoSection)
}

const listPublishedPromoSections = `SELECT ` + promoSectionColumns + ` FROM promo_sections WHERE published = 1 ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListPublishedPromoSections(ctx context.Context) ([]PromoSection, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPromoSections)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPromoSection)
}

func (q *Queries) ListPromoSectionsByIDs(ctx context.Context, ids []int64) ([]PromoSection, error) {
	rows, err := q.selectByIDs(ctx, "promo_sections", promoSectionColumns, ids)
	if err != nil || rows == nil {
		return nil, err
	}
	return collect(rows, scanPromoSection)
}

const deletePromoSection = `DELETE FROM promo_sections WHERE id = ?`

func (q *Queries) DeletePromoSection(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, q.db, deletePromoSection, id)
}
