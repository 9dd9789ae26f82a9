// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// Typed stores values of T as JSON in a Cache.
type Typed[T any] struct {
	cache Cache
	ttl   time.Duration
}

// NewTyped wraps c. A zero ttl uses the backend default.
func NewTyped[T any](c Cache, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, ttl: ttl}
}

// Get returns the value under key. Undecodable entries count as misses.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := t.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set stores value under key.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, data, t.ttl)
}

// GetOrSet returns the cached value or computes, stores and returns it.
// A failed store is ignored; the computed value is still returned.
func (t *Typed[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, true, nil
	}
	value, err := fn(ctx)
	if err != nil {
		return value, false, err
	}
	_ = t.Set(ctx, key, value)
	return value, false, nil
}

// GetOrSetGuarded is GetOrSet that only stores the computed value when the
// entry under guardKey is the same before and after fn runs.
func (t *Typed[T]) GetOrSetGuarded(ctx context.Context, key, guardKey string, fn func(context.Context) (T, error)) (T, bool, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, true, nil
	}
	before, _ := t.cache.Get(ctx, guardKey)
	value, err := fn(ctx)
	if err != nil {
		return value, false, err
	}
	after, _ := t.cache.Get(ctx, guardKey)
	if bytes.Equal(before, after) {
		_ = t.Set(ctx, key, value)
	}
	return value, false, nil
}
