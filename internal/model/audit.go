// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// AuditAction is the kind of mutation recorded in the audit trail.
type AuditAction string

// Audit actions.
const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// ParseAuditAction accepts CREATE/UPDATE/DELETE in any letter case.
func ParseAuditAction(s string) (AuditAction, bool) {
	switch a := AuditAction(strings.ToUpper(strings.TrimSpace(s))); a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return a, true
	}
	return "", false
}
