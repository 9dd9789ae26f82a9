// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package poststatus computes post publication transitions.
//
// Toggle handles publish/unpublish requests and Normalize resolves the
// three-way draft/scheduled/published input of the create and edit paths.
// Both are pure: callers persist the result and record the audit entry.
package poststatus

import (
	"time"

	"github.com/olegiv/ofolio/internal/model"
)

// State is the publication snapshot of a post.
type State struct {
	Status          model.PostStatus
	Published       bool
	ScheduledAt     *time.Time
	PublishedAt     *time.Time
	StatusChangedAt *time.Time
	StatusChangedBy *string
}

// Patch is the full set of publication fields to write for a toggle.
type Patch struct {
	Status          model.PostStatus
	Published       bool
	ScheduledAt     *time.Time
	PublishedAt     *time.Time
	StatusChangedAt time.Time
	StatusChangedBy *string
}

// Toggle returns the patch that moves current to target, or nil when current
// already satisfies target. A zero now means the wall clock; an empty actor
// leaves StatusChangedBy nil.
func Toggle(current State, target model.StatusTarget, actor string, now time.Time) *Patch {
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	switch target {
	case model.TargetPublished:
		// Either field alone counts; they can drift apart in older rows.
		if current.Status == model.PostStatusPublished || current.Published {
			return nil
		}
		publishedAt := now
		if current.PublishedAt != nil {
			publishedAt = *current.PublishedAt
		}
		return &Patch{
			Status:          model.PostStatusPublished,
			Published:       true,
			PublishedAt:     &publishedAt,
			StatusChangedAt: now,
			StatusChangedBy: actorPtr(actor),
		}

	case model.TargetDraft:
		if current.Status == model.PostStatusDraft && !current.Published {
			return nil
		}
		return &Patch{
			Status:          model.PostStatusDraft,
			Published:       false,
			StatusChangedAt: now,
			StatusChangedBy: actorPtr(actor),
		}
	}

	return nil
}

// Apply returns the state that results from writing p.
func (p *Patch) Apply() State {
	changedAt := p.StatusChangedAt
	return State{
		Status:          p.Status,
		Published:       p.Published,
		ScheduledAt:     p.ScheduledAt,
		PublishedAt:     p.PublishedAt,
		StatusChangedAt: &changedAt,
		StatusChangedBy: p.StatusChangedBy,
	}
}

func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
