// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullStringFromValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected sql.NullString
	}{
		{"empty", "", sql.NullString{}},
		{"whitespace only", "   ", sql.NullString{}},
		{"trimmed", "  hello ", sql.NullString{String: "hello", Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NullStringFromValue(tt.input); got != tt.expected {
				t.Errorf("NullStringFromValue(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNullStringFromPtr(t *testing.T) {
	if got := NullStringFromPtr(nil); got.Valid {
		t.Errorf("nil pointer should be invalid, got %v", got)
	}
	empty := ""
	if got := NullStringFromPtr(&empty); !got.Valid {
		t.Errorf("empty string pointer should be valid, got %v", got)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 1, 1, 2, 0, 0, 0, loc)

	nt := NullTimeFromPtr(&in)
	if !nt.Valid || nt.Time.Location() != time.UTC {
		t.Fatalf("NullTimeFromPtr = %v", nt)
	}

	out := TimePtr(nt)
	if out == nil || !out.Equal(in) {
		t.Fatalf("TimePtr = %v, want %v", out, in)
	}

	if TimePtr(sql.NullTime{}) != nil {
		t.Error("invalid NullTime should map to nil")
	}
	if StringPtr(sql.NullString{}) != nil {
		t.Error("invalid NullString should map to nil")
	}
}
