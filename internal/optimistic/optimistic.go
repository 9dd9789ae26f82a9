// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package optimistic keeps a client-side list consistent with the server
// while actions are in flight.
//
// A mutation is applied to the list immediately and tracked by a Txn. When
// the server answers, the Txn is committed with the authoritative value or
// rolled back to the exact snapshot taken before the mutation.
package optimistic

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// State is the lifecycle position of a Txn.
type State int

// Txn states. Applying is the only state that can transition.
const (
	Applying State = iota
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Applying:
		return "applying"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// ErrFinished is returned when a committed or rolled back Txn is finished again.
var ErrFinished = errors.New("optimistic: transaction already finished")

// List is an ordered collection of items keyed by an int64 id.
type List[T any] struct {
	mu       sync.Mutex
	key      func(T) int64
	items    []T
	lastTemp int64
}

// NewList creates a list holding a copy of items.
func NewList[T any](key func(T) int64, items []T) *List[T] {
	return &List[T]{key: key, items: slices.Clone(items)}
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Get returns the item with id.
func (l *List[T]) Get(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Reset replaces the items, typically after a full reload from the server.
func (l *List[T]) Reset(items []T) {
	l.mu.Lock()
	l.items = slices.Clone(items)
	l.mu.Unlock()
}

// TempID returns the next temporary id: -1, -2, ...
func (l *List[T]) TempID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextTemp()
}

func (l *List[T]) nextTemp() int64 {
	l.lastTemp--
	return l.lastTemp
}

func (l *List[T]) index(id int64) int {
	return slices.IndexFunc(l.items, func(v T) bool { return l.key(v) == id })
}

// Txn is one optimistic mutation of a List.
type Txn[T any] struct {
	list     *List[T]
	state    State
	snapshot []T
	err      error
}

// Begin snapshots the list and applies mutate to a copy of its items, both
// under the list lock. mutate must not call back into the list.
func (l *List[T]) Begin(mutate func(items []T) []T) *Txn[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := &Txn[T]{list: l, state: Applying, snapshot: slices.Clone(l.items)}
	if mutate != nil {
		l.items = mutate(slices.Clone(l.items))
	}
	return t
}

// State returns the current state of t.
func (t *Txn[T]) State() State {
	t.list.mu.Lock()
	defer t.list.mu.Unlock()
	return t.state
}

// Snapshot returns a copy of the items as they were before the mutation.
func (t *Txn[T]) Snapshot() []T {
	t.list.mu.Lock()
	defer t.list.mu.Unlock()
	return slices.Clone(t.snapshot)
}

// Err returns the error t was rolled back with.
func (t *Txn[T]) Err() error {
	t.list.mu.Lock()
	defer t.list.mu.Unlock()
	return t.err
}

// Commit accepts the server outcome. reconcile, when set, rewrites the
// current items, for example to swap a placeholder for the stored record.
func (t *Txn[T]) Commit(reconcile func(items []T) []T) error {
	l := t.list
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.state != Applying {
		return ErrFinished
	}
	if reconcile != nil {
		l.items = reconcile(slices.Clone(l.items))
	}
	t.state = Committed
	t.snapshot = nil
	return nil
}

// Rollback restores the snapshot taken by Begin and records err.
func (t *Txn[T]) Rollback(err error) error {
	l := t.list
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.state != Applying {
		return ErrFinished
	}
	l.items = t.snapshot
	t.snapshot = nil
	t.state = RolledBack
	t.err = err
	return nil
}

// Run applies mutate, performs action and then commits with the reconcile
// built from its result, or rolls back when action fails or ctx ends first.
// reconcile may be nil.
func Run[T, R any](ctx context.Context, l *List[T], mutate func([]T) []T, action func(context.Context) (R, error), reconcile func(R) func([]T) []T) (R, error) {
	txn := l.Begin(mutate)

	res, err := action(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = txn.Rollback(err)
		var zero R
		return zero, err
	}

	var fn func([]T) []T
	if reconcile != nil {
		fn = reconcile(res)
	}
	if err := txn.Commit(fn); err != nil {
		return res, err
	}
	return res, nil
}
