// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package audit records and queries the append-only trail of content
// mutations. Entries are written through the Writer the caller hands in,
// so they share the caller's transaction.
package audit

import (
	"encoding/json"
	"fmt"
)

// Diff is the stored before/after pair of a mutation. Before is null on
// create and After is null on delete.
type Diff struct {
	Before   json.RawMessage   `json:"before"`
	After    json.RawMessage   `json:"after"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

var jsonNull = json.RawMessage("null")

// BuildDiff snapshots both endpoints of a mutation. A nil endpoint is
// stored as JSON null.
func BuildDiff(before, after any) (Diff, error) {
	b, err := snapshot(before)
	if err != nil {
		return Diff{}, fmt.Errorf("encoding before: %w", err)
	}
	a, err := snapshot(after)
	if err != nil {
		return Diff{}, fmt.Errorf("encoding after: %w", err)
	}
	return Diff{Before: b, After: a}, nil
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return jsonNull, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WithMetadata returns a copy of d carrying key=value in its metadata.
func (d Diff) WithMetadata(key, value string) Diff {
	meta := make(map[string]string, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		meta[k] = v
	}
	meta[key] = value
	d.Metadata = meta
	return d
}

// Encode returns the compact JSON form stored in audit_entries.diff.
func (d Diff) Encode() (string, error) {
	if d.Before == nil {
		d.Before = jsonNull
	}
	if d.After == nil {
		d.After = jsonNull
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseDiff decodes a stored diff.
func ParseDiff(s string) (Diff, error) {
	var d Diff
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return Diff{}, fmt.Errorf("decoding diff: %w", err)
	}
	return d, nil
}

// Decode unmarshals the before and after snapshots into the given targets.
// A null endpoint leaves its target untouched and reports false.
func (d Diff) Decode(before, after any) (hasBefore, hasAfter bool, err error) {
	if hasBefore = !isNull(d.Before); hasBefore && before != nil {
		if err = json.Unmarshal(d.Before, before); err != nil {
			return false, false, fmt.Errorf("decoding before: %w", err)
		}
	}
	if hasAfter = !isNull(d.After); hasAfter && after != nil {
		if err = json.Unmarshal(d.After, after); err != nil {
			return false, false, fmt.Errorf("decoding after: %w", err)
		}
	}
	return hasBefore, hasAfter, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
