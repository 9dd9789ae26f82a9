// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"time"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/util"
)

// PromoSectionInput is the create/edit form of a promo section. Body is
// Markdown.
type PromoSectionInput struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Body      string `json:"body"`
	CtaLabel  string `json:"ctaLabel"`
	CtaURL    string `json:"ctaUrl"`
	Published bool   `json:"published"`
	SortOrder int64  `json:"sortOrder"`
}

func validatePromoSection(in PromoSectionInput) (PromoSectionInput, error) {
	trimAll(&in.Title, &in.Subtitle, &in.Body, &in.CtaLabel, &in.CtaURL)

	var c checker
	c.required("Title", in.Title)
	c.maxLen("Title", in.Title, MaxTitleLength)
	c.maxLen("Subtitle", in.Subtitle, MaxShortTextLength)
	c.maxLen("Body", in.Body, MaxLongTextLength)
	c.maxLen("Call-to-action label", in.CtaLabel, MaxListItemLength)
	c.link("Call-to-action URL", in.CtaURL, true)
	if (in.CtaLabel == "") != (in.CtaURL == "") {
		c.fail("Call-to-action label and URL must be set together")
	}
	c.sortOrder(in.SortOrder)
	return in, c.result()
}

func promoSectionParams(in PromoSectionInput) store.PromoSectionParams {
	return store.PromoSectionParams{
		Title:     in.Title,
		Subtitle:  util.NullStringFromValue(in.Subtitle),
		Body:      util.NullStringFromValue(in.Body),
		CtaLabel:  util.NullStringFromValue(in.CtaLabel),
		CtaUrl:    util.NullStringFromValue(in.CtaURL),
		Published: in.Published,
		SortOrder: in.SortOrder,
	}
}

func promoSectionOps() ops[PromoSectionView, PromoSectionInput] {
	id := func(v PromoSectionView) int64 { return v.ID }
	published := func(v PromoSectionView) bool { return v.Published }

	return ops[PromoSectionView, PromoSectionInput]{
		entity:   model.EntityPromoSection,
		id:       id,
		validate: validatePromoSection,
		get: func(ctx context.Context, q *store.Queries, id int64) (PromoSectionView, error) {
			p, err := q.GetPromoSection(ctx, id)
			return NewPromoSectionView(p), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]PromoSectionView, error) {
			rows, err := q.ListPromoSections(ctx)
			return mapViews(rows, NewPromoSectionView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]PromoSectionView, error) {
			rows, err := q.ListPromoSectionsByIDs(ctx, ids)
			return mapViews(rows, NewPromoSectionView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeletePromoSection(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in PromoSectionInput) (PromoSectionView, error) {
			p, err := m.q.CreatePromoSection(ctx, promoSectionParams(in), m.now)
			return NewPromoSectionView(p), err
		},
		update: func(ctx context.Context, m *mutation, before PromoSectionView, in PromoSectionInput) (PromoSectionView, error) {
			p, err := m.q.UpdatePromoSection(ctx, before.ID, promoSectionParams(in), m.now)
			return NewPromoSectionView(p), err
		},
		duplicate: func(ctx context.Context, m *mutation, src PromoSectionView) (PromoSectionView, error) {
			p, err := m.q.CreatePromoSection(ctx, store.PromoSectionParams{
				Title:     copyTitle(src.Title),
				Subtitle:  util.NullStringFromPtr(src.Subtitle),
				Body:      util.NullStringFromPtr(src.Body),
				CtaLabel:  util.NullStringFromPtr(src.CtaLabel),
				CtaUrl:    util.NullStringFromPtr(src.CtaURL),
				Published: false,
				SortOrder: src.SortOrder,
			}, m.now)
			return NewPromoSectionView(p), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (PromoSectionView, error) {
				p, err := q.SetPromoSectionPublished(ctx, id, published, now)
				return NewPromoSectionView(p), err
			}),
	}
}
