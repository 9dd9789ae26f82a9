// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New returns a Queries bound to the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds the typed data access methods for every table.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q that runs every query inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

// DB exposes the underlying connection for ad-hoc builders such as audit queries.
func (q *Queries) DB() DBTX {
	return q.db
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect drains rows into a slice using scan for each row.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countContent = `SELECT
	(SELECT COUNT(*) FROM posts) +
	(SELECT COUNT(*) FROM experiences) +
	(SELECT COUNT(*) FROM web_apps) +
	(SELECT COUNT(*) FROM work_samples) +
	(SELECT COUNT(*) FROM skills) +
	(SELECT COUNT(*) FROM tools) +
	(SELECT COUNT(*) FROM promo_sections)`

// CountContent returns the number of content records across all tables.
func (q *Queries) CountContent(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countContent).Scan(&n)
	return n, err
}
