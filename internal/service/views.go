// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"time"

	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/util"
)

// The view types are the wire shapes of stored records. They are what the
// API returns and what audit diffs snapshot. Times marshal as RFC 3339.

// PostView is the wire shape of a post.
type PostView struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	MetaDescription *string    `json:"metaDescription"`
	FeaturedBanner  *string    `json:"featuredBanner"`
	Status          string     `json:"status"`
	Published       bool       `json:"published"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	PublishedAt     *time.Time `json:"publishedAt"`
	StatusChangedAt *time.Time `json:"statusChangedAt"`
	StatusChangedBy *string    `json:"statusChangedBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewPostView converts a stored post.
func NewPostView(p store.Post) PostView {
	return PostView{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		MetaDescription: util.StringPtr(p.MetaDescription),
		FeaturedBanner:  util.StringPtr(p.FeaturedBanner),
		Status:          p.Status,
		Published:       p.Published,
		ScheduledAt:     util.TimePtr(p.ScheduledAt),
		PublishedAt:     util.TimePtr(p.PublishedAt),
		StatusChangedAt: util.TimePtr(p.StatusChangedAt),
		StatusChangedBy: util.StringPtr(p.StatusChangedBy),
		CreatedAt:       p.CreatedAt.UTC(),
		UpdatedAt:       p.UpdatedAt.UTC(),
	}
}

// PublicPostView is the shape of a published post on the public API. It
// leaves out the status bookkeeping, which names admin accounts.
type PublicPostView struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	MetaDescription *string    `json:"metaDescription"`
	FeaturedBanner  *string    `json:"featuredBanner"`
	PublishedAt     *time.Time `json:"publishedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewPublicPostView converts a stored post for anonymous readers.
func NewPublicPostView(p store.Post) PublicPostView {
	return PublicPostView{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		MetaDescription: util.StringPtr(p.MetaDescription),
		FeaturedBanner:  util.StringPtr(p.FeaturedBanner),
		PublishedAt:     util.TimePtr(p.PublishedAt),
		CreatedAt:       p.CreatedAt.UTC(),
		UpdatedAt:       p.UpdatedAt.UTC(),
	}
}

// CareerStep is one role held within an experience.
type CareerStep struct {
	Title     string  `json:"title"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// ExperienceView is the wire shape of an experience.
type ExperienceView struct {
	ID                int64        `json:"id"`
	Company           string       `json:"company"`
	Role              string       `json:"role"`
	Location          *string      `json:"location"`
	StartDate         string       `json:"startDate"`
	EndDate           *string      `json:"endDate"`
	Summary           *string      `json:"summary"`
	Achievements      []string     `json:"achievements"`
	Skills            []string     `json:"skills"`
	CareerProgression []CareerStep `json:"careerProgression"`
	Published         bool         `json:"published"`
	SortOrder         int64        `json:"sortOrder"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// NewExperienceView converts a stored experience. Malformed JSON columns
// decode as empty lists.
func NewExperienceView(e store.Experience) ExperienceView {
	return ExperienceView{
		ID:                e.ID,
		Company:           e.Company,
		Role:              e.Role,
		Location:          util.StringPtr(e.Location),
		StartDate:         e.StartDate,
		EndDate:           util.StringPtr(e.EndDate),
		Summary:           util.StringPtr(e.Summary),
		Achievements:      decodeList[string](e.Achievements),
		Skills:            decodeList[string](e.Skills),
		CareerProgression: decodeList[CareerStep](e.CareerProgression),
		Published:         e.Published,
		SortOrder:         e.SortOrder,
		CreatedAt:         e.CreatedAt.UTC(),
		UpdatedAt:         e.UpdatedAt.UTC(),
	}
}

// WebAppView is the wire shape of a web app.
type WebAppView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	RepoURL     *string   `json:"repoUrl"`
	ImageURL    *string   `json:"imageUrl"`
	TechStack   []string  `json:"techStack"`
	Published   bool      `json:"published"`
	SortOrder   int64     `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewWebAppView converts a stored web app.
func NewWebAppView(a store.WebApp) WebAppView {
	return WebAppView{
		ID:          a.ID,
		Name:        a.Name,
		Description: util.StringPtr(a.Description),
		URL:         util.StringPtr(a.Url),
		RepoURL:     util.StringPtr(a.RepoUrl),
		ImageURL:    util.StringPtr(a.ImageUrl),
		TechStack:   decodeList[string](a.TechStack),
		Published:   a.Published,
		SortOrder:   a.SortOrder,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

// WorkSampleView is the wire shape of a work sample.
type WorkSampleView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	ImageURL    *string   `json:"imageUrl"`
	Category    *string   `json:"category"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"published"`
	SortOrder   int64     `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewWorkSampleView converts a stored work sample.
func NewWorkSampleView(w store.WorkSample) WorkSampleView {
	return WorkSampleView{
		ID:          w.ID,
		Title:       w.Title,
		Description: util.StringPtr(w.Description),
		URL:         util.StringPtr(w.Url),
		ImageURL:    util.StringPtr(w.ImageUrl),
		Category:    util.StringPtr(w.Category),
		Tags:        decodeList[string](w.Tags),
		Published:   w.Published,
		SortOrder:   w.SortOrder,
		CreatedAt:   w.CreatedAt.UTC(),
		UpdatedAt:   w.UpdatedAt.UTC(),
	}
}

// SkillView is the wire shape of a skill.
type SkillView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Level     int64     `json:"level"`
	Published bool      `json:"published"`
	SortOrder int64     `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSkillView converts a stored skill.
func NewSkillView(s store.Skill) SkillView {
	return SkillView{
		ID:        s.ID,
		Name:      s.Name,
		Category:  util.StringPtr(s.Category),
		Level:     s.Level,
		Published: s.Published,
		SortOrder: s.SortOrder,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

// ToolView is the wire shape of a tool.
type ToolView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	URL       *string   `json:"url"`
	Icon      *string   `json:"icon"`
	Published bool      `json:"published"`
	SortOrder int64     `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewToolView converts a stored tool.
func NewToolView(t store.Tool) ToolView {
	return ToolView{
		ID:        t.ID,
		Name:      t.Name,
		Category:  util.StringPtr(t.Category),
		URL:       util.StringPtr(t.Url),
		Icon:      util.StringPtr(t.Icon),
		Published: t.Published,
		SortOrder: t.SortOrder,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

// PromoSectionView is the wire shape of a promo section.
type PromoSectionView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subtitle  *string   `json:"subtitle"`
	Body      *string   `json:"body"`
	CtaLabel  *string   `json:"ctaLabel"`
	CtaURL    *string   `json:"ctaUrl"`
	Published bool      `json:"published"`
	SortOrder int64     `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPromoSectionView converts a stored promo section.
func NewPromoSectionView(p store.PromoSection) PromoSectionView {
	return PromoSectionView{
		ID:        p.ID,
		Title:     p.Title,
		Subtitle:  util.StringPtr(p.Subtitle),
		Body:      util.StringPtr(p.Body),
		CtaLabel:  util.StringPtr(p.CtaLabel),
		CtaURL:    util.StringPtr(p.CtaUrl),
		Published: p.Published,
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

// decodeList decodes a stored JSON array, never returning nil.
func decodeList[T any](s string) []T {
	var out []T
	if s != "" {
		_ = json.Unmarshal([]byte(s), &out)
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// encodeList stores a list as a compact JSON array.
func encodeList[T any](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func mapViews[R, V any](rows []R, conv func(R) V) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, conv(r))
	}
	return out
}
