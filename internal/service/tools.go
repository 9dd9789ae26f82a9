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

// ToolInput is the create/edit form of a tool. Icon is an icon name or an
// image link.
type ToolInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	URL       string `json:"url"`
	Icon      string `json:"icon"`
	Published bool   `json:"published"`
	SortOrder int64  `json:"sortOrder"`
}

func validateTool(in ToolInput) (ToolInput, error) {
	trimAll(&in.Name, &in.Category, &in.URL, &in.Icon)

	var c checker
	c.required("Name", in.Name)
	c.maxLen("Name", in.Name, MaxListItemLength)
	c.maxLen("Category", in.Category, MaxListItemLength)
	c.maxLen("Icon", in.Icon, MaxShortTextLength)
	c.link("URL", in.URL, false)
	c.sortOrder(in.SortOrder)
	return in, c.result()
}

func toolParams(in ToolInput) store.ToolParams {
	return store.ToolParams{
		Name:      in.Name,
		Category:  util.NullStringFromValue(in.Category),
		Url:       util.NullStringFromValue(in.URL),
		Icon:      util.NullStringFromValue(in.Icon),
		Published: in.Published,
		SortOrder: in.SortOrder,
	}
}

func toolOps() ops[ToolView, ToolInput] {
	id := func(v ToolView) int64 { return v.ID }
	published := func(v ToolView) bool { return v.Published }

	return ops[ToolView, ToolInput]{
		entity:   model.EntityTool,
		id:       id,
		validate: validateTool,
		get: func(ctx context.Context, q *store.Queries, id int64) (ToolView, error) {
			t, err := q.GetTool(ctx, id)
			return NewToolView(t), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]ToolView, error) {
			rows, err := q.ListTools(ctx)
			return mapViews(rows, NewToolView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]ToolView, error) {
			rows, err := q.ListToolsByIDs(ctx, ids)
			return mapViews(rows, NewToolView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeleteTool(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in ToolInput) (ToolView, error) {
			t, err := m.q.CreateTool(ctx, toolParams(in), m.now)
			return NewToolView(t), err
		},
		update: func(ctx context.Context, m *mutation, before ToolView, in ToolInput) (ToolView, error) {
			t, err := m.q.UpdateTool(ctx, before.ID, toolParams(in), m.now)
			return NewToolView(t), err
		},
		duplicate: func(ctx context.Context, m *mutation, src ToolView) (ToolView, error) {
			t, err := m.q.CreateTool(ctx, store.ToolParams{
				Name:      copyTitle(src.Name),
				Category:  util.NullStringFromPtr(src.Category),
				Url:       util.NullStringFromPtr(src.URL),
				Icon:      util.NullStringFromPtr(src.Icon),
				Published: false,
				SortOrder: src.SortOrder,
			}, m.now)
			return NewToolView(t), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (ToolView, error) {
				t, err := q.SetToolPublished(ctx, id, published, now)
				return NewToolView(t), err
			}),
	}
}
