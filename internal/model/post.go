// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// PostStatus is the stored publication state of a post.
type PostStatus string

// Post statuses.
const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusScheduled PostStatus = "SCHEDULED"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// ParsePostStatus accepts draft/scheduled/published in any letter case.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PostStatusDraft:
		return PostStatusDraft, true
	case PostStatusScheduled:
		return PostStatusScheduled, true
	case PostStatusPublished:
		return PostStatusPublished, true
	}
	return "", false
}

// StatusTarget is the requested end state of a publish/unpublish toggle.
type StatusTarget string

// Toggle targets.
const (
	TargetPublished StatusTarget = "published"
	TargetDraft     StatusTarget = "draft"
)

// ParseStatusTarget accepts "published" or "draft" in any letter case.
func ParseStatusTarget(s string) (StatusTarget, bool) {
	switch StatusTarget(strings.ToLower(strings.TrimSpace(s))) {
	case TargetPublished:
		return TargetPublished, true
	case TargetDraft:
		return TargetDraft, true
	}
	return "", false
}
