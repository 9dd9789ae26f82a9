// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/store"
)

// MaxBulkIDs bounds the id list of a bulk action.
const MaxBulkIDs = 500

// DeleteResult is the payload of a single delete.
type DeleteResult struct {
	ID int64 `json:"id"`
}

// BulkResult is the payload of a bulk action: the number of rows changed.
type BulkResult struct {
	Count  int     `json:"count"`
	IDs    []int64 `json:"ids"`
	Failed []int64 `json:"failed,omitempty"`
}

// ops binds the generic pipeline to one entity type.
type ops[V, In any] struct {
	entity model.EntityType
	id     func(V) int64

	// validate trims and checks the input, returning the normalized copy.
	validate func(in In) (In, error)

	list   func(ctx context.Context, q *store.Queries) ([]V, error)
	get    func(ctx context.Context, q *store.Queries, id int64) (V, error)
	byIDs  func(ctx context.Context, q *store.Queries, ids []int64) ([]V, error)
	remove func(ctx context.Context, q *store.Queries, id int64) error

	create    func(ctx context.Context, m *mutation, in In) (V, error)
	update    func(ctx context.Context, m *mutation, before V, in In) (V, error)
	duplicate func(ctx context.Context, m *mutation, src V) (V, error)

	// setVisibility moves v to target. It reports false when v already
	// satisfies target and nothing was written.
	setVisibility func(ctx context.Context, m *mutation, v V, target model.StatusTarget) (V, bool, error)
}

// Collection exposes the admin actions of one content type.
type Collection[V, In any] struct {
	svc *Service
	ops ops[V, In]
}

func newCollection[V, In any](s *Service, o ops[V, In]) *Collection[V, In] {
	return &Collection[V, In]{svc: s, ops: o}
}

// List returns every record, visible or not.
func (c *Collection[V, In]) List(ctx context.Context) Result[[]V] {
	var items []V
	err := c.svc.read(ctx, func(q *store.Queries) error {
		var err error
		items, err = c.ops.list(ctx, q)
		return err
	})
	if items == nil {
		items = []V{}
	}
	return finish(ctx, c.svc, "list", c.ops.entity, items, err)
}

// Get returns one record.
func (c *Collection[V, In]) Get(ctx context.Context, id int64) Result[V] {
	var item V
	err := c.svc.read(ctx, func(q *store.Queries) error {
		var err error
		item, err = c.ops.get(ctx, q, id)
		return err
	})
	return finish(ctx, c.svc, "get", c.ops.entity, item, err)
}

// Create validates in, inserts the record and audits a CREATE.
func (c *Collection[V, In]) Create(ctx context.Context, in In) Result[V] {
	var created V
	err := c.svc.mutate(ctx, func(m *mutation) error {
		var err error
		created, err = c.insert(ctx, m, in)
		return err
	})
	return finish(ctx, c.svc, "create", c.ops.entity, created, err)
}

// insert validates in, creates the record and audits a CREATE within m.
func (c *Collection[V, In]) insert(ctx context.Context, m *mutation, in In) (V, error) {
	var zero V
	normalized, err := c.ops.validate(in)
	if err != nil {
		return zero, err
	}
	created, err := c.ops.create(ctx, m, normalized)
	if err != nil {
		return zero, err
	}
	if err := m.record(ctx, c.ops.entity, c.ops.id(created), model.AuditCreate, nil, created); err != nil {
		return zero, err
	}
	return created, nil
}

// Update validates in, rewrites record id and audits an UPDATE.
func (c *Collection[V, In]) Update(ctx context.Context, id int64, in In) Result[V] {
	var updated V
	err := c.svc.mutate(ctx, func(m *mutation) error {
		normalized, err := c.ops.validate(in)
		if err != nil {
			return err
		}
		before, err := c.ops.get(ctx, m.q, id)
		if err != nil {
			return err
		}
		updated, err = c.ops.update(ctx, m, before, normalized)
		if err != nil {
			return err
		}
		return m.record(ctx, c.ops.entity, id, model.AuditUpdate, before, updated)
	})
	return finish(ctx, c.svc, "update", c.ops.entity, updated, err)
}

// Delete removes record id and audits a DELETE.
func (c *Collection[V, In]) Delete(ctx context.Context, id int64) Result[DeleteResult] {
	err := c.svc.mutate(ctx, func(m *mutation) error {
		before, err := c.ops.get(ctx, m.q, id)
		if err != nil {
			return err
		}
		if err := c.ops.remove(ctx, m.q, id); err != nil {
			return err
		}
		return m.record(ctx, c.ops.entity, id, model.AuditDelete, before, nil)
	})
	return finish(ctx, c.svc, "delete", c.ops.entity, DeleteResult{ID: id}, err)
}

// Duplicate copies record id into a new, least-visible record with
// " (Copy)" appended to its display field.
func (c *Collection[V, In]) Duplicate(ctx context.Context, id int64) Result[V] {
	var dup V
	err := c.svc.mutate(ctx, func(m *mutation) error {
		src, err := c.ops.get(ctx, m.q, id)
		if err != nil {
			return err
		}
		dup, err = c.ops.duplicate(ctx, m, src)
		if err != nil {
			return err
		}
		m.metadata = map[string]string{"duplicateOf": strconv.FormatInt(id, 10)}
		return m.record(ctx, c.ops.entity, c.ops.id(dup), model.AuditCreate, nil, dup)
	})
	return finish(ctx, c.svc, "duplicate", c.ops.entity, dup, err)
}

// BulkDelete removes every existing record in ids. Unknown ids are ignored.
func (c *Collection[V, In]) BulkDelete(ctx context.Context, ids []int64) Result[BulkResult] {
	res := BulkResult{IDs: []int64{}}
	err := c.bulk(ctx, ids, func(m *mutation, rows []V) error {
		for _, row := range rows {
			id := c.ops.id(row)
			if err := c.ops.remove(ctx, m.q, id); err != nil {
				return err
			}
			if err := m.record(ctx, c.ops.entity, id, model.AuditDelete, row, nil); err != nil {
				return err
			}
			res.IDs = append(res.IDs, id)
		}
		return nil
	})
	res.Count = len(res.IDs)
	return finish(ctx, c.svc, "bulk_delete", c.ops.entity, res, err)
}

// BulkPublish makes every record in ids visible. Records already visible
// are neither written nor audited.
func (c *Collection[V, In]) BulkPublish(ctx context.Context, ids []int64) Result[BulkResult] {
	return c.bulkVisibility(ctx, "bulk_publish", ids, model.TargetPublished)
}

// BulkUnpublish hides every record in ids.
func (c *Collection[V, In]) BulkUnpublish(ctx context.Context, ids []int64) Result[BulkResult] {
	return c.bulkVisibility(ctx, "bulk_unpublish", ids, model.TargetDraft)
}

func (c *Collection[V, In]) bulkVisibility(ctx context.Context, op string, ids []int64, target model.StatusTarget) Result[BulkResult] {
	res := BulkResult{IDs: []int64{}}
	err := c.bulk(ctx, ids, func(m *mutation, rows []V) error {
		for _, row := range rows {
			after, changed, err := c.ops.setVisibility(ctx, m, row, target)
			if err != nil {
				return err
			}
			if !changed {
				continue
			}
			id := c.ops.id(row)
			if err := m.record(ctx, c.ops.entity, id, model.AuditUpdate, row, after); err != nil {
				return err
			}
			res.IDs = append(res.IDs, id)
		}
		return nil
	})
	res.Count = len(res.IDs)
	return finish(ctx, c.svc, op, c.ops.entity, res, err)
}

// bulk validates ids, loads the matching rows inside the transaction and
// hands them to fn.
func (c *Collection[V, In]) bulk(ctx context.Context, ids []int64, fn func(m *mutation, rows []V) error) error {
	return c.svc.mutate(ctx, func(m *mutation) error {
		clean, err := normalizeIDs(ids)
		if err != nil {
			return err
		}
		rows, err := c.ops.byIDs(ctx, m.q, clean)
		if err != nil {
			return err
		}
		return fn(m, rows)
	})
}

// normalizeIDs drops duplicates and rejects empty, oversized or
// non-positive id lists.
func normalizeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, invalid("Select at least one item")
	}
	if len(ids) > MaxBulkIDs {
		return nil, invalid("At most %d items can be changed at once", MaxBulkIDs)
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, invalid("Invalid id %d", id)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// flagVisibility implements setVisibility for entities that only carry a
// published flag.
func flagVisibility[V any](published func(V) bool, id func(V) int64, set func(ctx context.Context, q *store.Queries, id int64, published bool, now time.Time) (V, error)) func(context.Context, *mutation, V, model.StatusTarget) (V, bool, error) {
	return func(ctx context.Context, m *mutation, v V, target model.StatusTarget) (V, bool, error) {
		want := target == model.TargetPublished
		if published(v) == want {
			return v, false, nil
		}
		after, err := set(ctx, m.q, id(v), want, m.now)
		if err != nil {
			return v, false, err
		}
		return after, true, nil
	}
}
