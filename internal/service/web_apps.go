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

// WebAppInput is the create/edit form of a web app.
type WebAppInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	RepoURL     string   `json:"repoUrl"`
	ImageURL    string   `json:"imageUrl"`
	TechStack   []string `json:"techStack"`
	Published   bool     `json:"published"`
	SortOrder   int64    `json:"sortOrder"`
}

func validateWebApp(in WebAppInput) (WebAppInput, error) {
	trimAll(&in.Name, &in.Description, &in.URL, &in.RepoURL, &in.ImageURL)

	var c checker
	c.required("Name", in.Name)
	c.maxLen("Name", in.Name, MaxTitleLength)
	c.maxLen("Description", in.Description, MaxLongTextLength)
	c.link("URL", in.URL, false)
	c.link("Repository URL", in.RepoURL, false)
	c.link("Image URL", in.ImageURL, true)
	c.sortOrder(in.SortOrder)
	in.TechStack = cleanList(&c, "Tech stack", in.TechStack, MaxListItemLength)
	return in, c.result()
}

func webAppParams(in WebAppInput) store.WebAppParams {
	return store.WebAppParams{
		Name:        in.Name,
		Description: util.NullStringFromValue(in.Description),
		Url:         util.NullStringFromValue(in.URL),
		RepoUrl:     util.NullStringFromValue(in.RepoURL),
		ImageUrl:    util.NullStringFromValue(in.ImageURL),
		TechStack:   encodeList(in.TechStack),
		Published:   in.Published,
		SortOrder:   in.SortOrder,
	}
}

func webAppOps() ops[WebAppView, WebAppInput] {
	id := func(v WebAppView) int64 { return v.ID }
	published := func(v WebAppView) bool { return v.Published }

	return ops[WebAppView, WebAppInput]{
		entity:   model.EntityWebApp,
		id:       id,
		validate: validateWebApp,
		get: func(ctx context.Context, q *store.Queries, id int64) (WebAppView, error) {
			a, err := q.GetWebApp(ctx, id)
			return NewWebAppView(a), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]WebAppView, error) {
			rows, err := q.ListWebApps(ctx)
			return mapViews(rows, NewWebAppView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]WebAppView, error) {
			rows, err := q.ListWebAppsByIDs(ctx, ids)
			return mapViews(rows, NewWebAppView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeleteWebApp(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in WebAppInput) (WebAppView, error) {
			a, err := m.q.CreateWebApp(ctx, webAppParams(in), m.now)
			return NewWebAppView(a), err
		},
		update: func(ctx context.Context, m *mutation, before WebAppView, in WebAppInput) (WebAppView, error) {
			a, err := m.q.UpdateWebApp(ctx, before.ID, webAppParams(in), m.now)
			return NewWebAppView(a), err
		},
		duplicate: func(ctx context.Context, m *mutation, src WebAppView) (WebAppView, error) {
			a, err := m.q.CreateWebApp(ctx, store.WebAppParams{
				Name:        copyTitle(src.Name),
				Description: util.NullStringFromPtr(src.Description),
				Url:         util.NullStringFromPtr(src.URL),
				RepoUrl:     util.NullStringFromPtr(src.RepoURL),
				ImageUrl:    util.NullStringFromPtr(src.ImageURL),
				TechStack:   encodeList(src.TechStack),
				Published:   false,
				SortOrder:   src.SortOrder,
			}, m.now)
			return NewWebAppView(a), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (WebAppView, error) {
				a, err := q.SetWebAppPublished(ctx, id, published, now)
				return NewWebAppView(a), err
			}),
	}
}
