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

// SkillInput is the create/edit form of a skill. Level is a 0..100 rating.
type SkillInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Level     int64  `json:"level"`
	Published bool   `json:"published"`
	SortOrder int64  `json:"sortOrder"`
}

func validateSkill(in SkillInput) (SkillInput, error) {
	trimAll(&in.Name, &in.Category)

	var c checker
	c.required("Name", in.Name)
	c.maxLen("Name", in.Name, MaxListItemLength)
	c.maxLen("Category", in.Category, MaxListItemLength)
	if in.Level < 0 || in.Level > 100 {
		c.fail("Level must be between 0 and 100")
	}
	c.sortOrder(in.SortOrder)
	return in, c.result()
}

func skillParams(in SkillInput) store.SkillParams {
	return store.SkillParams{
		Name:      in.Name,
		Category:  util.NullStringFromValue(in.Category),
		Level:     in.Level,
		Published: in.Published,
		SortOrder: in.SortOrder,
	}
}

func skillOps() ops[SkillView, SkillInput] {
	id := func(v SkillView) int64 { return v.ID }
	published := func(v SkillView) bool { return v.Published }

	return ops[SkillView, SkillInput]{
		entity:   model.EntitySkill,
		id:       id,
		validate: validateSkill,
		get: func(ctx context.Context, q *store.Queries, id int64) (SkillView, error) {
			s, err := q.GetSkill(ctx, id)
			return NewSkillView(s), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]SkillView, error) {
			rows, err := q.ListSkills(ctx)
			return mapViews(rows, NewSkillView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]SkillView, error) {
			rows, err := q.ListSkillsByIDs(ctx, ids)
			return mapViews(rows, NewSkillView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeleteSkill(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in SkillInput) (SkillView, error) {
			s, err := m.q.CreateSkill(ctx, skillParams(in), m.now)
			return NewSkillView(s), err
		},
		update: func(ctx context.Context, m *mutation, before SkillView, in SkillInput) (SkillView, error) {
			s, err := m.q.UpdateSkill(ctx, before.ID, skillParams(in), m.now)
			return NewSkillView(s), err
		},
		duplicate: func(ctx context.Context, m *mutation, src SkillView) (SkillView, error) {
			s, err := m.q.CreateSkill(ctx, store.SkillParams{
				Name:      copyTitle(src.Name),
				Category:  util.NullStringFromPtr(src.Category),
				Level:     src.Level,
				Published: false,
				SortOrder: src.SortOrder,
			}, m.now)
			return NewSkillView(s), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (SkillView, error) {
				s, err := q.SetSkillPublished(ctx, id, published, now)
				return NewSkillView(s), err
			}),
	}
}
