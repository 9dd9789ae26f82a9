// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// AuditEntryColumns lists audit_entries columns in scan order.
const AuditEntryColumns = `id, actor_email, entity_type, entity_id, action, diff, created_at`

func scanAuditEntry(row rowScanner) (AuditEntry, error) {
	var i AuditEntry
	err := row.Scan(
		&i.ID,
		&i.ActorEmail,
		&i.EntityType,
		&i.EntityID,
		&i.Action,
		&i.Diff,
		&i.CreatedAt,
	)
	return i, err
}

type CreateAuditEntryParams struct {
	ActorEmail string
	EntityType string
	EntityID   int64
	Action     string
	Diff       string
	CreatedAt  time.Time
}

const createAuditEntry = `INSERT INTO audit_entries (actor_email, entity_type, entity_id, action, diff, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) (AuditEntry, error) {
	res, err := q.db.ExecContext(ctx, createAuditEntry,
		arg.ActorEmail,
		arg.EntityType,
		arg.EntityID,
		arg.Action,
		arg.Diff,
		arg.CreatedAt,
	)
	if err != nil {
		return AuditEntry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return AuditEntry{}, err
	}
	return q.getAuditEntry(ctx, id)
}

const getAuditEntry = `SELECT ` + AuditEntryColumns + ` FROM audit_entries WHERE id = ?`

func (q *Queries) getAuditEntry(ctx context.Context, id int64) (AuditEntry, error) {
	return scanAuditEntry(q.db.QueryRowContext(ctx, getAuditEntry, id))
}

// QueryAuditEntries runs a builder that selects AuditEntryColumns from audit_entries.
func (q *Queries) QueryAuditEntries(ctx context.Context, b sq.Sqlizer) ([]AuditEntry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAuditEntry)
}

const listAuditEntityTypes = `SELECT DISTINCT entity_type FROM audit_entries ORDER BY entity_type ASC`

func (q *Queries) ListAuditEntityTypes(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listAuditEntityTypes)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row rowScanner) (string, error) {
		var s string
		err := row.Scan(&s)
		return s, err
	})
}

const countAuditEntries = `SELECT COUNT(*) FROM audit_entries WHERE entity_type = ? AND entity_id = ?`

// CountAuditEntriesForEntity counts the trail of a single entity.
func (q *Queries) CountAuditEntriesForEntity(ctx context.Context, entityType string, entityID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAuditEntries, entityType, entityID).Scan(&n)
	return n, err
}
