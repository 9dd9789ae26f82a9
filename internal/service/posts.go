// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/poststatus"
	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/util"
)

// maxCopySuffix bounds the "-copy-N" search of Duplicate.
const maxCopySuffix = 1000

// PostInput is the create/edit form of a post. Status is draft, scheduled
// or published in any case; dates are RFC 3339 with an explicit offset.
type PostInput struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	MetaDescription string `json:"metaDescription"`
	FeaturedBanner  string `json:"featuredBanner"`
	Status          string `json:"status"`
	ScheduledAt     string `json:"scheduledAt"`
	PublishedAt     string `json:"publishedAt"`
}

func validatePost(in PostInput) (PostInput, error) {
	trimAll(&in.Title, &in.Slug, &in.Content, &in.MetaDescription, &in.FeaturedBanner,
		&in.Status, &in.ScheduledAt, &in.PublishedAt)

	var c checker
	c.required("Title", in.Title)
	c.maxLen("Title", in.Title, MaxTitleLength)

	if in.Slug == "" {
		in.Slug = in.Title
	}
	in.Slug = util.Slugify(in.Slug)
	c.required("Slug", in.Slug)

	c.maxLen("Content", in.Content, MaxContentLength)
	c.maxLen("Meta description", in.MetaDescription, MaxShortTextLength)
	c.link("Featured banner", in.FeaturedBanner, true)

	if in.Status != "" {
		if _, ok := model.ParsePostStatus(in.Status); !ok {
			c.fail("Status must be one of draft, scheduled, published")
		}
	}
	return in, c.result()
}

func statusInput(in PostInput) poststatus.Input {
	return poststatus.Input{
		Status:      in.Status,
		ScheduledAt: in.ScheduledAt,
		PublishedAt: in.PublishedAt,
	}
}

// postState extracts the publication snapshot of a post.
func postState(v PostView) poststatus.State {
	return poststatus.State{
		Status:          model.PostStatus(v.Status),
		Published:       v.Published,
		ScheduledAt:     v.ScheduledAt,
		PublishedAt:     v.PublishedAt,
		StatusChangedAt: v.StatusChangedAt,
		StatusChangedBy: v.StatusChangedBy,
	}
}

// postParams builds the stored columns. When res reports no status change
// the change-tracking fields of before are kept.
func postParams(in PostInput, res poststatus.Resolution, before *PostView) store.PostParams {
	p := store.PostParams{
		Title:           in.Title,
		Slug:            in.Slug,
		Content:         in.Content,
		MetaDescription: util.NullStringFromValue(in.MetaDescription),
		FeaturedBanner:  util.NullStringFromValue(in.FeaturedBanner),
		Status:          string(res.Status),
		Published:       res.Published,
		ScheduledAt:     util.NullTimeFromPtr(res.ScheduledAt),
		PublishedAt:     util.NullTimeFromPtr(res.PublishedAt),
		StatusChangedAt: util.NullTimeFromPtr(res.StatusChangedAt),
		StatusChangedBy: util.NullStringFromPtr(res.StatusChangedBy),
	}
	if !res.StatusChanged && before != nil {
		p.StatusChangedAt = util.NullTimeFromPtr(before.StatusChangedAt)
		p.StatusChangedBy = util.NullStringFromPtr(before.StatusChangedBy)
	}
	return p
}

// ensureSlugFree fails when slug belongs to a post other than selfID.
func ensureSlugFree(ctx context.Context, q *store.Queries, slug string, selfID int64) error {
	p, err := q.GetPostBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.ID != selfID {
		return invalid("Slug %q is already in use", slug)
	}
	return nil
}

// copySlug returns the first free slug of the form <slug>-copy,
// <slug>-copy-1, <slug>-copy-2, ...
func copySlug(ctx context.Context, q *store.Queries, slug string) (string, error) {
	base := slug + "-copy"
	candidate := base
	for i := 1; i <= maxCopySuffix; i++ {
		exists, err := q.PostSlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", invalid("No free copy slug for %q", slug)
}

func copyTitle(title string) string {
	return truncateRunes(title, MaxTitleLength-len(copySuffix)) + copySuffix
}

const copySuffix = " (Copy)"

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func toggleParams(id int64, patch *poststatus.Patch, m *mutation) store.UpdatePostStatusParams {
	changedAt := patch.StatusChangedAt
	return store.UpdatePostStatusParams{
		ID:              id,
		Status:          string(patch.Status),
		Published:       patch.Published,
		ScheduledAt:     util.NullTimeFromPtr(patch.ScheduledAt),
		PublishedAt:     util.NullTimeFromPtr(patch.PublishedAt),
		StatusChangedAt: util.NullTimeFromPtr(&changedAt),
		StatusChangedBy: util.NullStringFromPtr(patch.StatusChangedBy),
		UpdatedAt:       m.now,
	}
}

func postOps() ops[PostView, PostInput] {
	get := func(ctx context.Context, q *store.Queries, id int64) (PostView, error) {
		p, err := q.GetPost(ctx, id)
		return NewPostView(p), err
	}

	return ops[PostView, PostInput]{
		entity:   model.EntityPost,
		id:       func(v PostView) int64 { return v.ID },
		validate: validatePost,
		get:      get,
		list: func(ctx context.Context, q *store.Queries) ([]PostView, error) {
			rows, err := q.ListPosts(ctx)
			return mapViews(rows, NewPostView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]PostView, error) {
			rows, err := q.ListPostsByIDs(ctx, ids)
			return mapViews(rows, NewPostView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeletePost(ctx, id)
		},

		create: func(ctx context.Context, m *mutation, in PostInput) (PostView, error) {
			res, err := poststatus.Normalize(statusInput(in), nil, m.actor.Email, m.now)
			if err != nil {
				return PostView{}, err
			}
			if err := ensureSlugFree(ctx, m.q, in.Slug, 0); err != nil {
				return PostView{}, err
			}
			p, err := m.q.CreatePost(ctx, postParams(in, res, nil), m.now)
			if err != nil {
				return PostView{}, err
			}
			return NewPostView(p), nil
		},

		update: func(ctx context.Context, m *mutation, before PostView, in PostInput) (PostView, error) {
			state := postState(before)
			res, err := poststatus.Normalize(statusInput(in), &state, m.actor.Email, m.now)
			if err != nil {
				return PostView{}, err
			}
			if in.Slug != before.Slug {
				if err := ensureSlugFree(ctx, m.q, in.Slug, before.ID); err != nil {
					return PostView{}, err
				}
			}
			p, err := m.q.UpdatePost(ctx, before.ID, postParams(in, res, &before), m.now)
			if err != nil {
				return PostView{}, err
			}
			return NewPostView(p), nil
		},

		duplicate: func(ctx context.Context, m *mutation, src PostView) (PostView, error) {
			slug, err := copySlug(ctx, m.q, src.Slug)
			if err != nil {
				return PostView{}, err
			}
			changedAt := m.now
			p, err := m.q.CreatePost(ctx, store.PostParams{
				Title:           copyTitle(src.Title),
				Slug:            slug,
				Content:         src.Content,
				MetaDescription: util.NullStringFromPtr(src.MetaDescription),
				FeaturedBanner:  util.NullStringFromPtr(src.FeaturedBanner),
				Status:          string(model.PostStatusDraft),
				Published:       false,
				StatusChangedAt: util.NullTimeFromPtr(&changedAt),
				StatusChangedBy: util.NullStringFromValue(m.actor.Email),
			}, m.now)
			if err != nil {
				return PostView{}, err
			}
			return NewPostView(p), nil
		},

		setVisibility: func(ctx context.Context, m *mutation, v PostView, target model.StatusTarget) (PostView, bool, error) {
			patch := poststatus.Toggle(postState(v), target, m.actor.Email, m.now)
			if patch == nil {
				return v, false, nil
			}
			p, err := m.q.UpdatePostStatus(ctx, toggleParams(v.ID, patch, m))
			if err != nil {
				return v, false, err
			}
			return NewPostView(p), true, nil
		},
	}
}

// PostCollection adds status toggles, scheduled publishing and CSV import
// to the generic post actions.
type PostCollection struct {
	*Collection[PostView, PostInput]
}

func newPostCollection(s *Service) *PostCollection {
	return &PostCollection{Collection: newCollection(s, postOps())}
}

// SetStatus toggles post id to target ("published" or "draft"). A post
// already in the target state is returned unchanged and not audited.
func (c *PostCollection) SetStatus(ctx context.Context, id int64, target string) Result[PostView] {
	var out PostView
	err := c.svc.mutate(ctx, func(m *mutation) error {
		t, ok := model.ParseStatusTarget(target)
		if !ok {
			return invalid("Target must be published or draft")
		}
		before, err := c.ops.get(ctx, m.q, id)
		if err != nil {
			return err
		}
		after, changed, err := c.ops.setVisibility(ctx, m, before, t)
		if err != nil {
			return err
		}
		out = after
		if !changed {
			return nil
		}
		return m.record(ctx, model.EntityPost, id, model.AuditUpdate, before, after)
	})
	return finish(ctx, c.svc, "set_status", model.EntityPost, out, err)
}

// PublishDue publishes every scheduled post whose time has come. Each post
// is published in its own transaction; one that fails is logged, reported
// in Failed and retried on the next run.
func (c *PostCollection) PublishDue(ctx context.Context) Result[BulkResult] {
	res := BulkResult{IDs: []int64{}}
	var due []store.Post
	err := c.svc.read(ctx, func(q *store.Queries) error {
		var err error
		due, err = q.ListDuePosts(ctx, c.svc.now().UTC())
		return err
	})
	if err != nil {
		return finish(ctx, c.svc, "publish_due", model.EntityPost, res, err)
	}

	for _, p := range due {
		published, err := c.publishDue(ctx, p.ID)
		if err != nil {
			c.svc.logger.ErrorContext(ctx, "failed to publish scheduled post", "post_id", p.ID, "error", err)
			res.Failed = append(res.Failed, p.ID)
			continue
		}
		if published {
			res.IDs = append(res.IDs, p.ID)
		}
	}
	res.Count = len(res.IDs)
	return success(res)
}

// publishDue publishes post id if it is still scheduled and due. A
// scheduled post is not live, so its published flag is disregarded.
func (c *PostCollection) publishDue(ctx context.Context, id int64) (bool, error) {
	published := false
	err := c.svc.mutate(ctx, func(m *mutation) error {
		before, err := c.ops.get(ctx, m.q, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if before.Status != string(model.PostStatusScheduled) || before.ScheduledAt == nil || before.ScheduledAt.After(m.now) {
			return nil
		}
		state := postState(before)
		state.Published = false
		patch := poststatus.Toggle(state, model.TargetPublished, m.actor.Email, m.now)
		if patch == nil {
			return nil
		}
		p, err := m.q.UpdatePostStatus(ctx, toggleParams(id, patch, m))
		if err != nil {
			return err
		}
		published = true
		return m.record(ctx, model.EntityPost, id, model.AuditUpdate, before, NewPostView(p))
	})
	return published, err
}
