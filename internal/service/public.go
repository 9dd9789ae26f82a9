// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// Overview is every published section of the portfolio in one payload.
type Overview struct {
	Posts         []PublicPostView   `json:"posts"`
	Experiences   []ExperienceView   `json:"experiences"`
	WebApps       []WebAppView       `json:"webApps"`
	WorkSamples   []WorkSampleView   `json:"workSamples"`
	Skills        []SkillView        `json:"skills"`
	Tools         []ToolView         `json:"tools"`
	PromoSections []PromoSectionView `json:"promoSections"`
}

// Public is the unauthenticated read side. It only ever returns published
// records and reports failures as *Error.
type Public struct {
	svc *Service
}

// Public returns the public read surface.
func (s *Service) Public() *Public {
	return &Public{svc: s}
}

// Posts returns published posts, newest first.
func (p *Public) Posts(ctx context.Context) ([]PublicPostView, error) {
	return publicList(ctx, p, model.EntityPost, (*store.Queries).ListPublishedPosts, NewPublicPostView)
}

// Post returns the published post with slug. Drafts and scheduled posts
// are reported as not found.
func (p *Public) Post(ctx context.Context, slug string) (PublicPostView, error) {
	q, err := p.svc.queries()
	if err != nil {
		return PublicPostView{}, err
	}
	post, err := q.GetPostBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !(post.Published && post.Status == string(model.PostStatusPublished))) {
		return PublicPostView{}, notFound(model.EntityPost)
	}
	if err != nil {
		return PublicPostView{}, classify(model.EntityPost, err)
	}
	return NewPublicPostView(post), nil
}

// Experiences returns published experiences in sort order.
func (p *Public) Experiences(ctx context.Context) ([]ExperienceView, error) {
	return publicList(ctx, p, model.EntityExperience, (*store.Queries).ListPublishedExperiences, NewExperienceView)
}

// WebApps returns published web apps in sort order.
func (p *Public) WebApps(ctx context.Context) ([]WebAppView, error) {
	return publicList(ctx, p, model.EntityWebApp, (*store.Queries).ListPublishedWebApps, NewWebAppView)
}

// WorkSamples returns published work samples in sort order.
func (p *Public) WorkSamples(ctx context.Context) ([]WorkSampleView, error) {
	return publicList(ctx, p, model.EntityWorkSample, (*store.Queries).ListPublishedWorkSamples, NewWorkSampleView)
}

// Skills returns published skills in sort order.
func (p *Public) Skills(ctx context.Context) ([]SkillView, error) {
	return publicList(ctx, p, model.EntitySkill, (*store.Queries).ListPublishedSkills, NewSkillView)
}

// Tools returns published tools in sort order.
func (p *Public) Tools(ctx context.Context) ([]ToolView, error) {
	return publicList(ctx, p, model.EntityTool, (*store.Queries).ListPublishedTools, NewToolView)
}

// PromoSections returns published promo sections in sort order.
func (p *Public) PromoSections(ctx context.Context) ([]PromoSectionView, error) {
	return publicList(ctx, p, model.EntityPromoSection, (*store.Queries).ListPublishedPromoSections, NewPromoSectionView)
}

// Overview loads every section concurrently. The first failure cancels
// the remaining loads.
func (p *Public) Overview(ctx context.Context) (Overview, error) {
	if _, err := p.svc.queries(); err != nil {
		return Overview{}, err
	}

	var o Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { o.Posts, err = p.Posts(gctx); return })
	g.Go(func() (err error) { o.Experiences, err = p.Experiences(gctx); return })
	g.Go(func() (err error) { o.WebApps, err = p.WebApps(gctx); return })
	g.Go(func() (err error) { o.WorkSamples, err = p.WorkSamples(gctx); return })
	g.Go(func() (err error) { o.Skills, err = p.Skills(gctx); return })
	g.Go(func() (err error) { o.Tools, err = p.Tools(gctx); return })
	g.Go(func() (err error) { o.PromoSections, err = p.PromoSections(gctx); return })
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return o, nil
}

func publicList[R, V any](ctx context.Context, p *Public, entity model.EntityType, list func(*store.Queries, context.Context) ([]R, error), conv func(R) V) ([]V, error) {
	q, err := p.svc.queries()
	if err != nil {
		return nil, err
	}
	rows, err := list(q, ctx)
	if err != nil {
		e := classify(entity, err)
		p.svc.logger.ErrorContext(ctx, "public read failed", "entity_type", entity, "error", err)
		return nil, e
	}
	return mapViews(rows, conv), nil
}
