// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package poststatus

import (
	"errors"
	"strings"
	"time"

	"github.com/olegiv/ofolio/internal/model"
)

// Input errors.
var (
	ErrInvalidStatus    = errors.New("status must be one of draft, scheduled, published")
	ErrScheduleRequired = errors.New("a publish date is required for scheduled posts")
	ErrMissingTimezone  = errors.New("date must include a timezone offset")
	ErrInvalidDate      = errors.New("date is not a valid RFC 3339 timestamp")
)

// FieldError ties an input error to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Input is the raw publication part of a post form.
type Input struct {
	Status      string
	ScheduledAt string
	PublishedAt string
}

// Resolution is the publication state to persist for a create or edit.
// StatusChangedAt and StatusChangedBy are only meaningful when StatusChanged
// is true; otherwise the stored values must be kept.
type Resolution struct {
	Status          model.PostStatus
	Published       bool
	ScheduledAt     *time.Time
	PublishedAt     *time.Time
	StatusChanged   bool
	StatusChangedAt *time.Time
	StatusChangedBy *string
}

// zoneless layouts are accepted by browsers' datetime-local inputs but are
// ambiguous between the author's and the server's locale.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an RFC 3339 timestamp and returns it in UTC.
// A timestamp without an explicit offset yields ErrMissingTimezone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return time.Time{}, ErrMissingTimezone
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Normalize resolves in against the existing state (nil on create).
func Normalize(in Input, existing *State, actor string, now time.Time) (Resolution, error) {
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	status := model.PostStatusDraft
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := model.ParsePostStatus(in.Status)
		if !ok {
			return Resolution{}, &FieldError{Field: "status", Err: ErrInvalidStatus}
		}
		status = parsed
	}

	res := Resolution{Status: status}

	switch status {
	case model.PostStatusPublished:
		res.Published = true
		switch {
		case strings.TrimSpace(in.PublishedAt) != "":
			t, err := ParseDate(in.PublishedAt)
			if err != nil {
				return Resolution{}, &FieldError{Field: "publishedAt", Err: err}
			}
			res.PublishedAt = &t
		case existing != nil && existing.Status == model.PostStatusPublished && existing.PublishedAt != nil:
			t := existing.PublishedAt.UTC()
			res.PublishedAt = &t
		default:
			t := now
			res.PublishedAt = &t
		}

	case model.PostStatusScheduled:
		if strings.TrimSpace(in.ScheduledAt) == "" {
			return Resolution{}, &FieldError{Field: "scheduledAt", Err: ErrScheduleRequired}
		}
		t, err := ParseDate(in.ScheduledAt)
		if err != nil {
			return Resolution{}, &FieldError{Field: "scheduledAt", Err: err}
		}
		res.ScheduledAt = &t
	}

	res.StatusChanged = statusChanged(res, existing)
	if res.StatusChanged {
		changedAt := now
		res.StatusChangedAt = &changedAt
		res.StatusChangedBy = actorPtr(actor)
	}

	return res, nil
}

func statusChanged(res Resolution, existing *State) bool {
	if existing == nil || existing.Status != res.Status {
		return true
	}
	switch res.Status {
	case model.PostStatusScheduled:
		return !sameTime(existing.ScheduledAt, res.ScheduledAt)
	case model.PostStatusPublished:
		return !sameTime(existing.PublishedAt, res.PublishedAt)
	}
	return false
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
