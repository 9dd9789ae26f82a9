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

// WorkSampleInput is the create/edit form of a work sample.
type WorkSampleInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
	SortOrder   int64    `json:"sortOrder"`
}

func validateWorkSample(in WorkSampleInput) (WorkSampleInput, error) {
	trimAll(&in.Title, &in.Description, &in.URL, &in.ImageURL, &in.Category)

	var c checker
	c.required("Title", in.Title)
	c.maxLen("Title", in.Title, MaxTitleLength)
	c.maxLen("Description", in.Description, MaxLongTextLength)
	c.maxLen("Category", in.Category, MaxListItemLength)
	c.link("URL", in.URL, false)
	c.link("Image URL", in.ImageURL, true)
	c.sortOrder(in.SortOrder)
	in.Tags = cleanList(&c, "Tags", in.Tags, MaxListItemLength)
	return in, c.result()
}

func workSampleParams(in WorkSampleInput) store.WorkSampleParams {
	return store.WorkSampleParams{
		Title:       in.Title,
		Description: util.NullStringFromValue(in.Description),
		Url:         util.NullStringFromValue(in.URL),
		ImageUrl:    util.NullStringFromValue(in.ImageURL),
		Category:    util.NullStringFromValue(in.Category),
		Tags:        encodeList(in.Tags),
		Published:   in.Published,
		SortOrder:   in.SortOrder,
	}
}

func workSampleOps() ops[WorkSampleView, WorkSampleInput] {
	id := func(v WorkSampleView) int64 { return v.ID }
	published := func(v WorkSampleView) bool { return v.Published }

	return ops[WorkSampleView, WorkSampleInput]{
		entity:   model.EntityWorkSample,
		id:       id,
		validate: validateWorkSample,
		get: func(ctx context.Context, q *store.Queries, id int64) (WorkSampleView, error) {
			w, err := q.GetWorkSample(ctx, id)
			return NewWorkSampleView(w), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]WorkSampleView, error) {
			rows, err := q.ListWorkSamples(ctx)
			return mapViews(rows, NewWorkSampleView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]WorkSampleView, error) {
			rows, err := q.ListWorkSamplesByIDs(ctx, ids)
			return mapViews(rows, NewWorkSampleView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeleteWorkSample(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in WorkSampleInput) (WorkSampleView, error) {
			w, err := m.q.CreateWorkSample(ctx, workSampleParams(in), m.now)
			return NewWorkSampleView(w), err
		},
		update: func(ctx context.Context, m *mutation, before WorkSampleView, in WorkSampleInput) (WorkSampleView, error) {
			w, err := m.q.UpdateWorkSample(ctx, before.ID, workSampleParams(in), m.now)
			return NewWorkSampleView(w), err
		},
		// Work samples reset to unpublished like every other type.
		duplicate: func(ctx context.Context, m *mutation, src WorkSampleView) (WorkSampleView, error) {
			w, err := m.q.CreateWorkSample(ctx, store.WorkSampleParams{
				Title:       copyTitle(src.Title),
				Description: util.NullStringFromPtr(src.Description),
				Url:         util.NullStringFromPtr(src.URL),
				ImageUrl:    util.NullStringFromPtr(src.ImageURL),
				Category:    util.NullStringFromPtr(src.Category),
				Tags:        encodeList(src.Tags),
				Published:   false,
				SortOrder:   src.SortOrder,
			}, m.now)
			return NewWorkSampleView(w), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (WorkSampleView, error) {
				w, err := q.SetWorkSamplePublished(ctx, id, published, now)
				return NewWorkSampleView(w), err
			}),
	}
}
