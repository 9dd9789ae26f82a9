// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package audit

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// QueryLimit caps the entries returned by Query.
const QueryLimit = 100

// Filter narrows an audit query. Zero fields match everything.
type Filter struct {
	Action     model.AuditAction
	EntityType string
	Q          string
}

// Reader is the read side of the audit store.
type Reader interface {
	QueryAuditEntries(ctx context.Context, b sq.Sqlizer) ([]store.AuditEntry, error)
	ListAuditEntityTypes(ctx context.Context) ([]string, error)
}

// QueryBuilder returns the SELECT for f, newest first.
func QueryBuilder(f Filter) sq.SelectBuilder {
	b := sq.Select(store.AuditEntryColumns).
		From("audit_entries").
		OrderBy("created_at DESC", "id DESC").
		Limit(QueryLimit)

	if f.Action != "" {
		b = b.Where(sq.Eq{"action": string(f.Action)})
	}
	if et := strings.TrimSpace(f.EntityType); et != "" {
		b = b.Where(sq.Eq{"entity_type": et})
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		b = b.Where(sq.Or{
			sq.Expr(`LOWER(actor_email) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(entity_type) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`CAST(entity_id AS TEXT) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(action) LIKE ? ESCAPE '\'`, pattern),
		})
	}
	return b
}

// Query returns at most QueryLimit entries matching f.
func Query(ctx context.Context, r Reader, f Filter) ([]store.AuditEntry, error) {
	return r.QueryAuditEntries(ctx, QueryBuilder(f))
}

// EntityTypes returns the distinct entity types present in the trail.
func EntityTypes(ctx context.Context, r Reader) ([]string, error) {
	types, err := r.ListAuditEntityTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
