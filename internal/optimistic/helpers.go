// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package optimistic

import "slices"

// Create prepends a placeholder built around a fresh temporary id. Commit
// the returned Txn with Created to swap in the stored record.
func (l *List[T]) Create(placeholder func(tempID int64) T) (*Txn[T], int64) {
	l.mu.Lock()
	tempID := l.nextTemp()
	l.mu.Unlock()

	txn := l.Begin(func(items []T) []T {
		return slices.Insert(items, 0, placeholder(tempID))
	})
	return txn, tempID
}

// Created returns the reconcile that drops the placeholder tempID and
// prepends the server record.
func (l *List[T]) Created(tempID int64, server T) func([]T) []T {
	return func(items []T) []T {
		items = slices.DeleteFunc(items, func(v T) bool { return l.key(v) == tempID })
		return slices.Insert(items, 0, server)
	}
}

// Update replaces the item with v's id by v.
func (l *List[T]) Update(v T) *Txn[T] {
	return l.Begin(l.Replaced(v))
}

// Toggle replaces the item with id by flip applied to it. Unknown ids
// leave the list unchanged.
func (l *List[T]) Toggle(id int64, flip func(T) T) *Txn[T] {
	return l.Begin(func(items []T) []T {
		for i, v := range items {
			if l.key(v) == id {
				items[i] = flip(v)
			}
		}
		return items
	})
}

// Remove drops every item whose id is in ids.
func (l *List[T]) Remove(ids ...int64) *Txn[T] {
	return l.Begin(l.Removed(ids...))
}

// Replaced returns the reconcile that swaps in v by id. Items are never
// added by it.
func (l *List[T]) Replaced(v T) func([]T) []T {
	id := l.key(v)
	return func(items []T) []T {
		for i, cur := range items {
			if l.key(cur) == id {
				items[i] = v
			}
		}
		return items
	}
}

// ReplacedAll is Replaced for several server records.
func (l *List[T]) ReplacedAll(vs []T) func([]T) []T {
	return func(items []T) []T {
		for _, v := range vs {
			items = l.Replaced(v)(items)
		}
		return items
	}
}

// Removed returns the reconcile that drops ids.
func (l *List[T]) Removed(ids ...int64) func([]T) []T {
	return func(items []T) []T {
		return slices.DeleteFunc(items, func(v T) bool { return slices.Contains(ids, l.key(v)) })
	}
}
