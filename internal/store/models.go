// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Post struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	MetaDescription sql.NullString
	FeaturedBanner  sql.NullString
	Status          string
	Published       bool
	ScheduledAt     sql.NullTime
	PublishedAt     sql.NullTime
	StatusChangedAt sql.NullTime
	StatusChangedBy sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Experience struct {
	ID                int64
	Company           string
	Role              string
	Location          sql.NullString
	StartDate         string
	EndDate           sql.NullString
	Summary           sql.NullString
	Achievements      string
	Skills            string
	CareerProgression string
	Published         bool
	SortOrder         int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type WebApp struct {
	ID          int64
	Name        string
	Description sql.NullString
	Url         sql.NullString
	RepoUrl     sql.NullString
	ImageUrl    sql.NullString
	TechStack   string
	Published   bool
	SortOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WorkSample struct {
	ID          int64
	Title       string
	Description sql.NullString
	Url         sql.NullString
	ImageUrl    sql.NullString
	Category    sql.NullString
	Tags        string
	Published   bool
	SortOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID        int64
	Name      string
	Category  sql.NullString
	Level     int64
	Published bool
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tool struct {
	ID        int64
	Name      string
	Category  sql.NullString
	Url       sql.NullString
	Icon      sql.NullString
	Published bool
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PromoSection struct {
	ID        int64
	Title     string
	Subtitle  sql.NullString
	Body      sql.NullString
	CtaLabel  sql.NullString
	CtaUrl    sql.NullString
	Published bool
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuditEntry struct {
	ID         int64
	ActorEmail string
	EntityType string
	EntityID   int64
	Action     string
	Diff       string
	CreatedAt  time.Time
}
