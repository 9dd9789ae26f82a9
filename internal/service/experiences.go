// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
	"github.com/olegiv/ofolio/internal/util"
)

// ExperienceInput is the create/edit form of an experience. The list
// fields accept a JSON array or a string holding one.
type ExperienceInput struct {
	Company           string          `json:"company"`
	Role              string          `json:"role"`
	Location          string          `json:"location"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	Summary           string          `json:"summary"`
	Achievements      json.RawMessage `json:"achievements"`
	Skills            json.RawMessage `json:"skills"`
	CareerProgression json.RawMessage `json:"careerProgression"`
	Published         bool            `json:"published"`
	SortOrder         int64           `json:"sortOrder"`

	achievements []string
	skills       []string
	career       []CareerStep
}

func validateExperience(in ExperienceInput) (ExperienceInput, error) {
	trimAll(&in.Company, &in.Role, &in.Location, &in.StartDate, &in.EndDate, &in.Summary)

	var c checker
	c.required("Company", in.Company)
	c.maxLen("Company", in.Company, MaxTitleLength)
	c.required("Role", in.Role)
	c.maxLen("Role", in.Role, MaxTitleLength)
	c.maxLen("Location", in.Location, MaxTitleLength)
	c.maxLen("Summary", in.Summary, MaxLongTextLength)
	c.sortOrder(in.SortOrder)

	c.required("Start date", in.StartDate)
	start := c.calendarDate("Start date", in.StartDate)
	end := c.calendarDate("End date", in.EndDate)
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		c.fail("End date must not be before start date")
	}

	var achievements, skills []string
	if err := decodeJSONField(in.Achievements, &achievements); err != nil {
		c.fail("Achievements must be a JSON array of strings")
	}
	if err := decodeJSONField(in.Skills, &skills); err != nil {
		c.fail("Skills must be a JSON array of strings")
	}
	in.achievements = cleanList(&c, "Achievements", achievements, MaxShortTextLength)
	in.skills = cleanList(&c, "Skills", skills, MaxListItemLength)

	var career []CareerStep
	if err := decodeJSONField(in.CareerProgression, &career); err != nil {
		c.fail("Career progression must be a JSON array of {title, startDate, endDate}")
	}
	in.career = cleanCareer(&c, career)

	return in, c.result()
}

func cleanCareer(c *checker, steps []CareerStep) []CareerStep {
	if len(steps) > MaxCareerSteps {
		c.fail("Career progression may hold at most %d steps", MaxCareerSteps)
	}
	out := make([]CareerStep, 0, len(steps))
	for i, step := range steps {
		label := fmt.Sprintf("Career step %d", i+1)
		trimAll(&step.Title, &step.StartDate)
		c.required(label+" title", step.Title)
		c.maxLen(label+" title", step.Title, MaxTitleLength)
		c.required(label+" start date", step.StartDate)
		start := c.calendarDate(label+" start date", step.StartDate)

		if step.EndDate != nil {
			trimAll(step.EndDate)
			if *step.EndDate == "" {
				step.EndDate = nil
			} else if end := c.calendarDate(label+" end date", *step.EndDate); !start.IsZero() && !end.IsZero() && end.Before(start) {
				c.fail("%s end date must not be before its start date", label)
			}
		}
		out = append(out, step)
	}
	return out
}

func experienceParams(in ExperienceInput) store.ExperienceParams {
	return store.ExperienceParams{
		Company:           in.Company,
		Role:              in.Role,
		Location:          util.NullStringFromValue(in.Location),
		StartDate:         in.StartDate,
		EndDate:           util.NullStringFromValue(in.EndDate),
		Summary:           util.NullStringFromValue(in.Summary),
		Achievements:      encodeList(in.achievements),
		Skills:            encodeList(in.skills),
		CareerProgression: encodeList(in.career),
		Published:         in.Published,
		SortOrder:         in.SortOrder,
	}
}

func experienceOps() ops[ExperienceView, ExperienceInput] {
	id := func(v ExperienceView) int64 { return v.ID }
	published := func(v ExperienceView) bool { return v.Published }

	return ops[ExperienceView, ExperienceInput]{
		entity:   model.EntityExperience,
		id:       id,
		validate: validateExperience,
		get: func(ctx context.Context, q *store.Queries, id int64) (ExperienceView, error) {
			e, err := q.GetExperience(ctx, id)
			return NewExperienceView(e), err
		},
		list: func(ctx context.Context, q *store.Queries) ([]ExperienceView, error) {
			rows, err := q.ListExperiences(ctx)
			return mapViews(rows, NewExperienceView), err
		},
		byIDs: func(ctx context.Context, q *store.Queries, ids []int64) ([]ExperienceView, error) {
			rows, err := q.ListExperiencesByIDs(ctx, ids)
			return mapViews(rows, NewExperienceView), err
		},
		remove: func(ctx context.Context, q *store.Queries, id int64) error {
			return q.DeleteExperience(ctx, id)
		},
		create: func(ctx context.Context, m *mutation, in ExperienceInput) (ExperienceView, error) {
			e, err := m.q.CreateExperience(ctx, experienceParams(in), m.now)
			return NewExperienceView(e), err
		},
		update: func(ctx context.Context, m *mutation, before ExperienceView, in ExperienceInput) (ExperienceView, error) {
			e, err := m.q.UpdateExperience(ctx, before.ID, experienceParams(in), m.now)
			return NewExperienceView(e), err
		},
		duplicate: func(ctx context.Context, m *mutation, src ExperienceView) (ExperienceView, error) {
			e, err := m.q.CreateExperience(ctx, store.ExperienceParams{
				Company:           copyTitle(src.Company),
				Role:              src.Role,
				Location:          util.NullStringFromPtr(src.Location),
				StartDate:         src.StartDate,
				EndDate:           util.NullStringFromPtr(src.EndDate),
				Summary:           util.NullStringFromPtr(src.Summary),
				Achievements:      encodeList(src.Achievements),
				Skills:            encodeList(src.Skills),
				CareerProgression: encodeList(src.CareerProgression),
				Published:         false,
				SortOrder:         src.SortOrder,
			}, m.now)
			return NewExperienceView(e), err
		},
		setVisibility: flagVisibility(published, id,
			func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (ExperienceView, error) {
				e, err := q.SetExperiencePublished(ctx, id, published, now)
				return NewExperienceView(e), err
			}),
	}
}
