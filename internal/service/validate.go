// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/ofolio/internal/util"
)

// Field limits.
const (
	MaxTitleLength     = 200
	MaxShortTextLength = 300
	MaxLongTextLength  = 10000
	MaxContentLength   = 200000
	MaxListItems       = 50
	MaxListItemLength  = 100
	MaxCareerSteps     = 20
	MaxSortOrder       = 1_000_000
)

// checker keeps the first validation failure; later checks are no-ops.
type checker struct {
	err *Error
}

func (c *checker) fail(format string, args ...any) {
	if c.err == nil {
		c.err = invalid(format, args...)
	}
}

func (c *checker) required(label, value string) {
	if value == "" {
		c.fail("%s is required", label)
	}
}

func (c *checker) maxLen(label, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		c.fail("%s must be at most %d characters", label, n)
	}
}

func (c *checker) link(label, value string, allowRelative bool) {
	if value == "" {
		return
	}
	if err := util.ValidateLinkURL(value, allowRelative); err != nil {
		c.fail("%s: %v", label, err)
	}
}

func (c *checker) sortOrder(v int64) {
	if v < 0 || v > MaxSortOrder {
		c.fail("Sort order must be between 0 and %d", MaxSortOrder)
	}
}

func (c *checker) result() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// trimAll trims every string field pointer in place.
func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// cleanList trims items, drops blanks and case-insensitive repeats, and
// enforces the item count and per-item length limits.
func cleanList(c *checker, label string, items []string, maxItemLen int) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[strings.ToLower(item)] {
			continue
		}
		seen[strings.ToLower(item)] = true
		c.maxLen(label+" item", item, maxItemLen)
		out = append(out, item)
	}
	if len(out) > MaxListItems {
		c.fail("%s may hold at most %d items", label, MaxListItems)
	}
	return out
}

// decodeJSONField accepts a JSON value either directly or wrapped in a
// JSON string, as form posts send it. An absent, null or blank value
// decodes to the zero value.
func decodeJSONField(raw json.RawMessage, dst any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil
		}
		trimmed = inner
	}
	return json.Unmarshal([]byte(trimmed), dst)
}

// monthLayouts are the accepted calendar date forms of experiences.
var monthLayouts = []string{"2006-01-02", "2006-01"}

// parseCalendarDate accepts YYYY-MM or YYYY-MM-DD.
func parseCalendarDate(s string) (time.Time, error) {
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a YYYY-MM or YYYY-MM-DD date", s)
}

func (c *checker) calendarDate(label, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := parseCalendarDate(value)
	if err != nil {
		c.fail("%s: %v", label, err)
	}
	return t
}
