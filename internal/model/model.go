// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the shared vocabulary of portfolio content:
// entity types, post statuses, audit actions and user roles.
package model

// EntityType names a kind of portfolio content.
type EntityType string

// Content entity types.
const (
	EntityPost         EntityType = "Post"
	EntityExperience   EntityType = "Experience"
	EntityWebApp       EntityType = "WebApp"
	EntityWorkSample   EntityType = "WorkSample"
	EntitySkill        EntityType = "Skill"
	EntityTool         EntityType = "Tool"
	EntityPromoSection EntityType = "PromoSection"
)

// EntityTypes lists every content entity type.
var EntityTypes = []EntityType{
	EntityPost,
	EntityExperience,
	EntityWebApp,
	EntityWorkSample,
	EntitySkill,
	EntityTool,
	EntityPromoSection,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// Valid reports whether e is a known entity type.
func (e EntityType) Valid() bool {
	for _, t := range EntityTypes {
		if t == e {
			return true
		}
	}
	return false
}

// User roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)
