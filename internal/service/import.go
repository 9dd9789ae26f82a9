// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/transfer"
)

// ImportResult summarizes a post CSV or portfolio document import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Dropped  int      `json:"dropped"`
	Warnings []string `json:"warnings"`
	BatchID  string   `json:"batchId"`
}

// Import creates one post per usable CSV row. Malformed rows, rows that
// fail validation and rows whose slug is taken are skipped with a warning
// while the rest are imported. Every created post is audited with the
// batch id of the import.
func (c *PostCollection) Import(ctx context.Context, r io.Reader) Result[ImportResult] {
	res := ImportResult{Warnings: []string{}, BatchID: uuid.NewString()}
	err := c.svc.mutate(ctx, func(m *mutation) error {
		parsed, err := transfer.ParsePostsCSV(r)
		if err != nil {
			return invalid("%s", err.Error())
		}
		res.Warnings = append(res.Warnings, parsed.Warnings...)
		res.Skipped = len(parsed.Warnings)
		res.Dropped = parsed.Dropped

		m.metadata = map[string]string{"batchId": res.BatchID}
		seen := make(map[string]int, len(parsed.Rows))
		for _, row := range parsed.Rows {
			in, err := c.ops.validate(postInputFromRow(row))
			if err == nil {
				if first, dup := seen[in.Slug]; dup {
					err = invalid("Slug %q already used by row %d", in.Slug, first)
				}
			}
			var created PostView
			if err == nil {
				created, err = c.ops.create(ctx, m, in)
			}
			if err != nil {
				if e := classify(model.EntityPost, err); e.Kind == KindValidation {
					res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: %s", row.Line, e.Message))
					res.Skipped++
					continue
				}
				return err
			}

			seen[in.Slug] = row.Line
			if err := m.record(ctx, model.EntityPost, created.ID, model.AuditCreate, nil, created); err != nil {
				return err
			}
			res.Imported++
		}
		return nil
	})
	return finish(ctx, c.svc, "import", model.EntityPost, res, err)
}

func postInputFromRow(row transfer.PostRow) PostInput {
	return PostInput{
		Title:           row.Title,
		Slug:            row.Slug,
		Content:         row.Content,
		MetaDescription: row.MetaDescription,
		FeaturedBanner:  row.FeaturedBanner,
		Status:          row.Status,
		ScheduledAt:     row.ScheduledAt,
		PublishedAt:     row.PublishedAt,
	}
}

// ImportDocument creates every item of doc in one transaction. Unlike the
// CSV import it is all or nothing: the first invalid item aborts it.
func (s *Service) ImportDocument(ctx context.Context, doc *transfer.Document) Result[ImportResult] {
	res := ImportResult{Warnings: []string{}, BatchID: uuid.NewString()}
	err := s.mutate(ctx, func(m *mutation) error {
		m.metadata = map[string]string{"batchId": res.BatchID}
		n, err := s.importDocument(ctx, m, doc)
		res.Imported = n
		return err
	})
	if err != nil {
		res.Imported = 0
	}
	return finish(ctx, s, "import_document", "", res, err)
}

func (s *Service) importDocument(ctx context.Context, m *mutation, doc *transfer.Document) (int, error) {
	if doc == nil {
		return 0, invalid("Document is empty")
	}
	var n int
	steps := []func() error{
		func() error { return importSection(ctx, m, s.Posts.Collection, doc.Posts, postInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.Experiences, doc.Experiences, experienceInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.WebApps, doc.WebApps, webAppInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.WorkSamples, doc.WorkSamples, workSampleInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.Skills, doc.Skills, skillInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.Tools, doc.Tools, toolInputFromDoc, &n) },
		func() error { return importSection(ctx, m, s.PromoSections, doc.PromoSections, promoSectionInputFromDoc, &n) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// importSection inserts items through c, prefixing validation failures
// with the item position.
func importSection[V, In, D any](ctx context.Context, m *mutation, c *Collection[V, In], items []D, conv func(D) (In, error), n *int) error {
	for i, item := range items {
		in, err := conv(item)
		if err == nil {
			_, err = c.insert(ctx, m, in)
		}
		if err != nil {
			if e := classify(c.ops.entity, err); e.Kind == KindValidation {
				return invalid("%s %d: %s", displayName(c.ops.entity), i+1, e.Message)
			}
			return err
		}
		*n++
	}
	return nil
}

func postInputFromDoc(p transfer.Post) (PostInput, error) {
	return PostInput(p), nil
}

func experienceInputFromDoc(e transfer.Experience) (ExperienceInput, error) {
	career := make([]CareerStep, 0, len(e.CareerProgression))
	for _, step := range e.CareerProgression {
		cs := CareerStep{Title: step.Title, StartDate: step.StartDate}
		if step.EndDate != "" {
			end := step.EndDate
			cs.EndDate = &end
		}
		career = append(career, cs)
	}

	achievements, err := json.Marshal(nonNil(e.Achievements))
	if err != nil {
		return ExperienceInput{}, err
	}
	skills, err := json.Marshal(nonNil(e.Skills))
	if err != nil {
		return ExperienceInput{}, err
	}
	steps, err := json.Marshal(career)
	if err != nil {
		return ExperienceInput{}, err
	}
	return ExperienceInput{
		Company:           e.Company,
		Role:              e.Role,
		Location:          e.Location,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		Summary:           e.Summary,
		Achievements:      achievements,
		Skills:            skills,
		CareerProgression: steps,
		Published:         e.Published,
		SortOrder:         e.SortOrder,
	}, nil
}

func webAppInputFromDoc(a transfer.WebApp) (WebAppInput, error) {
	return WebAppInput(a), nil
}

func workSampleInputFromDoc(w transfer.WorkSample) (WorkSampleInput, error) {
	return WorkSampleInput(w), nil
}

func skillInputFromDoc(s transfer.Skill) (SkillInput, error) {
	return SkillInput(s), nil
}

func toolInputFromDoc(t transfer.Tool) (ToolInput, error) {
	return ToolInput(t), nil
}

func promoSectionInputFromDoc(p transfer.PromoSection) (PromoSectionInput, error) {
	return PromoSectionInput(p), nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// SeedDocument imports doc when the datastore holds no content yet. It
// reports whether anything was imported.
func (s *Service) SeedDocument(ctx context.Context, doc *transfer.Document) (bool, error) {
	q, err := s.queries()
	if err != nil {
		return false, err
	}
	n, err := q.CountContent(ctx)
	if err != nil {
		return false, fmt.Errorf("counting content: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "content already present, skipping document seed", "items", n)
		return false, nil
	}

	res := s.ImportDocument(ctx, doc)
	if !res.OK {
		return false, errors.New(res.Message)
	}
	s.logger.InfoContext(ctx, "seeded content", "items", res.Data.Imported, "batch_id", res.Data.BatchID)
	return res.Data.Imported > 0, nil
}

// Export returns every record as a portfolio document.
func (s *Service) Export(ctx context.Context) Result[*transfer.Document] {
	doc := &transfer.Document{Version: transfer.DocumentVersion}
	err := s.read(ctx, func(q *store.Queries) error {
		exportedAt := s.now().UTC()
		doc.ExportedAt = &exportedAt

		posts, err := s.Posts.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, p := range posts {
			doc.Posts = append(doc.Posts, transfer.Post{
				Title:           p.Title,
				Slug:            p.Slug,
				Content:         p.Content,
				MetaDescription: derefString(p.MetaDescription),
				FeaturedBanner:  derefString(p.FeaturedBanner),
				Status:          p.Status,
				ScheduledAt:     formatTime(p.ScheduledAt),
				PublishedAt:     formatTime(p.PublishedAt),
			})
		}

		experiences, err := s.Experiences.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, e := range experiences {
			steps := make([]transfer.CareerStep, 0, len(e.CareerProgression))
			for _, step := range e.CareerProgression {
				steps = append(steps, transfer.CareerStep{
					Title:     step.Title,
					StartDate: step.StartDate,
					EndDate:   derefString(step.EndDate),
				})
			}
			doc.Experiences = append(doc.Experiences, transfer.Experience{
				Company:           e.Company,
				Role:              e.Role,
				Location:          derefString(e.Location),
				StartDate:         e.StartDate,
				EndDate:           derefString(e.EndDate),
				Summary:           derefString(e.Summary),
				Achievements:      e.Achievements,
				Skills:            e.Skills,
				CareerProgression: steps,
				Published:         e.Published,
				SortOrder:         e.SortOrder,
			})
		}

		apps, err := s.WebApps.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, a := range apps {
			doc.WebApps = append(doc.WebApps, transfer.WebApp{
				Name:        a.Name,
				Description: derefString(a.Description),
				URL:         derefString(a.URL),
				RepoURL:     derefString(a.RepoURL),
				ImageURL:    derefString(a.ImageURL),
				TechStack:   a.TechStack,
				Published:   a.Published,
				SortOrder:   a.SortOrder,
			})
		}

		samples, err := s.WorkSamples.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, w := range samples {
			doc.WorkSamples = append(doc.WorkSamples, transfer.WorkSample{
				Title:       w.Title,
				Description: derefString(w.Description),
				URL:         derefString(w.URL),
				ImageURL:    derefString(w.ImageURL),
				Category:    derefString(w.Category),
				Tags:        w.Tags,
				Published:   w.Published,
				SortOrder:   w.SortOrder,
			})
		}

		skills, err := s.Skills.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, sk := range skills {
			doc.Skills = append(doc.Skills, transfer.Skill{
				Name:      sk.Name,
				Category:  derefString(sk.Category),
				Level:     sk.Level,
				Published: sk.Published,
				SortOrder: sk.SortOrder,
			})
		}

		tools, err := s.Tools.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, t := range tools {
			doc.Tools = append(doc.Tools, transfer.Tool{
				Name:      t.Name,
				Category:  derefString(t.Category),
				URL:       derefString(t.URL),
				Icon:      derefString(t.Icon),
				Published: t.Published,
				SortOrder: t.SortOrder,
			})
		}

		sections, err := s.PromoSections.ops.list(ctx, q)
		if err != nil {
			return err
		}
		for _, p := range sections {
			doc.PromoSections = append(doc.PromoSections, transfer.PromoSection{
				Title:     p.Title,
				Subtitle:  derefString(p.Subtitle),
				Body:      derefString(p.Body),
				CtaLabel:  derefString(p.CtaLabel),
				CtaURL:    derefString(p.CtaURL),
				Published: p.Published,
				SortOrder: p.SortOrder,
			})
		}
		return nil
	})
	return finish(ctx, s, "export", "", doc, err)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
