// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParsePostStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   PostStatus
		wantOK bool
	}{
		{"draft", PostStatusDraft, true},
		{"Scheduled", PostStatusScheduled, true},
		{" PUBLISHED ", PostStatusPublished, true},
		{"archived", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePostStatus(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePostStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseStatusTarget(t *testing.T) {
	if got, ok := ParseStatusTarget("Published"); !ok || got != TargetPublished {
		t.Errorf("ParseStatusTarget(Published) = (%q, %v)", got, ok)
	}
	if _, ok := ParseStatusTarget("scheduled"); ok {
		t.Error("scheduled is not a toggle target")
	}
}

func TestParseAuditAction(t *testing.T) {
	if got, ok := ParseAuditAction("delete"); !ok || got != AuditDelete {
		t.Errorf("ParseAuditAction(delete) = (%q, %v)", got, ok)
	}
	if _, ok := ParseAuditAction("PUBLISH"); ok {
		t.Error("PUBLISH is not an audit action")
	}
}

func TestEntityTypeValid(t *testing.T) {
	for _, et := range EntityTypes {
		if !et.Valid() {
			t.Errorf("%s should be valid", et)
		}
	}
	if EntityType("Page").Valid() {
		t.Error("Page should not be valid")
	}
}
