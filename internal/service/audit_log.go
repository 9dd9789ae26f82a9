// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/olegiv/ofolio/internal/audit"
	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// AuditQuery is the filter of the audit trail screen. Empty fields match
// everything; Action is CREATE, UPDATE or DELETE in any case.
type AuditQuery struct {
	Action     string
	EntityType string
	Q          string
}

// AuditEntryView is the wire shape of an audit entry with its diff expanded.
type AuditEntryView struct {
	ID         int64             `json:"id"`
	ActorEmail string            `json:"actorEmail"`
	EntityType string            `json:"entityType"`
	EntityID   int64             `json:"entityId"`
	Action     string            `json:"action"`
	Before     json.RawMessage   `json:"before"`
	After      json.RawMessage   `json:"after"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewAuditEntryView converts a stored entry. An unreadable diff is shown
// as null snapshots.
func NewAuditEntryView(e store.AuditEntry) AuditEntryView {
	v := AuditEntryView{
		ID:         e.ID,
		ActorEmail: e.ActorEmail,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Before:     json.RawMessage("null"),
		After:      json.RawMessage("null"),
		CreatedAt:  e.CreatedAt.UTC(),
	}
	if d, err := audit.ParseDiff(e.Diff); err == nil {
		if len(d.Before) > 0 {
			v.Before = d.Before
		}
		if len(d.After) > 0 {
			v.After = d.After
		}
		v.Metadata = d.Metadata
	}
	return v
}

// AuditLog is the read side of the audit trail.
type AuditLog struct {
	svc *Service
}

// Query returns the most recent entries matching f, newest first.
func (a *AuditLog) Query(ctx context.Context, f AuditQuery) Result[[]AuditEntryView] {
	entries := []AuditEntryView{}
	err := a.svc.read(ctx, func(q *store.Queries) error {
		filter := audit.Filter{EntityType: f.EntityType, Q: f.Q}
		if strings.TrimSpace(f.Action) != "" {
			action, ok := model.ParseAuditAction(f.Action)
			if !ok {
				return invalid("Action must be one of CREATE, UPDATE, DELETE")
			}
			filter.Action = action
		}
		rows, err := audit.Query(ctx, q, filter)
		if err != nil {
			return err
		}
		entries = mapViews(rows, NewAuditEntryView)
		return nil
	})
	return finish(ctx, a.svc, "audit_query", "", entries, err)
}

// EntityTypes returns the distinct entity types present in the trail.
func (a *AuditLog) EntityTypes(ctx context.Context) Result[[]string] {
	var types []string
	err := a.svc.read(ctx, func(q *store.Queries) error {
		var err error
		types, err = audit.EntityTypes(ctx, q)
		return err
	})
	if types == nil {
		types = []string{}
	}
	return finish(ctx, a.svc, "audit_entity_types", "", types, err)
}
