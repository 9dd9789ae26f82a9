// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// Writer persists audit entries. *store.Queries satisfies it, bound to
// either a transaction or a plain connection.
type Writer interface {
	CreateAuditEntry(ctx context.Context, arg store.CreateAuditEntryParams) (store.AuditEntry, error)
}

// Entry describes one mutation to record.
type Entry struct {
	ActorEmail string
	EntityType model.EntityType
	EntityID   int64
	Action     model.AuditAction
	Diff       Diff
}

// Recorder validates and appends entries.
type Recorder struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder. A nil clock means time.Now.
func NewRecorder(logger *slog.Logger, now func() time.Time) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{logger: logger, now: now}
}

// Record appends e through w. Errors are returned to the caller so the
// surrounding transaction rolls back with them.
func (r *Recorder) Record(ctx context.Context, w Writer, e Entry) (store.AuditEntry, error) {
	if e.ActorEmail == "" {
		return store.AuditEntry{}, errors.New("audit entry without actor")
	}
	if !e.EntityType.Valid() {
		return store.AuditEntry{}, fmt.Errorf("audit entry with unknown entity type %q", e.EntityType)
	}
	if _, ok := model.ParseAuditAction(string(e.Action)); !ok {
		return store.AuditEntry{}, fmt.Errorf("audit entry with unknown action %q", e.Action)
	}

	diff, err := e.Diff.Encode()
	if err != nil {
		return store.AuditEntry{}, fmt.Errorf("encoding audit diff: %w", err)
	}

	entry, err := w.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		ActorEmail: e.ActorEmail,
		EntityType: e.EntityType.String(),
		EntityID:   e.EntityID,
		Action:     string(e.Action),
		Diff:       diff,
		CreatedAt:  r.now().UTC(),
	})
	if err != nil {
		return store.AuditEntry{}, fmt.Errorf("writing audit entry: %w", err)
	}

	r.logger.Debug("audit entry recorded",
		"entity_type", e.EntityType,
		"entity_id", e.EntityID,
		"action", e.Action,
		"actor", e.ActorEmail)
	return entry, nil
}

// RecordChange is Record with the diff built from before and after.
// metadata may be nil.
func (r *Recorder) RecordChange(ctx context.Context, w Writer, actor string, entity model.EntityType, id int64, action model.AuditAction, before, after any, metadata map[string]string) error {
	diff, err := BuildDiff(before, after)
	if err != nil {
		return err
	}
	for k, v := range metadata {
		diff = diff.WithMetadata(k, v)
	}
	_, err = r.Record(ctx, w, Entry{
		ActorEmail: actor,
		EntityType: entity,
		EntityID:   id,
		Action:     action,
		Diff:       diff,
	})
	return err
}
