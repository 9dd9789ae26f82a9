// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olegiv/ofolio/internal/model"
)

const listingPrefix = "listing:"

// OverviewKey caches the combined public overview, which depends on every
// entity type.
const OverviewKey = listingPrefix + "overview"

// GenerationKey holds a token that changes on every invalidation. A listing
// loaded across a change must not be stored.
const GenerationKey = "listing-generation"

// ListingKey returns the key of a public listing of entity. Parts narrow
// it, e.g. to one post slug.
func ListingKey(entity model.EntityType, parts ...string) string {
	key := listingPrefix + entity.String()
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Listings invalidates public listings after committed mutations.
type Listings struct {
	cache  Cache
	logger *slog.Logger
}

// NewListings creates the invalidation hook over c.
func NewListings(c Cache, logger *slog.Logger) *Listings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listings{cache: c, logger: logger}
}

// Cache returns the underlying cache.
func (l *Listings) Cache() Cache {
	return l.cache
}

// Invalidate drops every listing of entity and the overview. Failures are
// logged; entries then expire by TTL.
func (l *Listings) Invalidate(ctx context.Context, entity model.EntityType) {
	if err := l.cache.Set(ctx, GenerationKey, []byte(uuid.NewString()), 0); err != nil {
		l.logger.WarnContext(ctx, "listing generation bump failed", "error", err)
	}
	if err := l.cache.DeleteByPrefix(ctx, ListingKey(entity)); err != nil {
		l.logger.WarnContext(ctx, "listing invalidation failed", "entity_type", entity, "error", err)
	}
	if err := l.cache.Delete(ctx, OverviewKey); err != nil {
		l.logger.WarnContext(ctx, "overview invalidation failed", "error", err)
	}
}
