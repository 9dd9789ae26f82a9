// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the maximum allowed length for stored links.
const MaxURLLength = 2048

// ValidateLinkURL checks that raw is an absolute http(s) URL with a host.
// Root-relative paths such as "/uploads/banner.png" are accepted when
// allowRelative is set.
func ValidateLinkURL(raw string, allowRelative bool) error {
	if len(raw) > MaxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}

	if allowRelative && strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	return nil
}
