// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "context"

// RoleSystem marks background jobs acting without a user session.
const RoleSystem = "system"

// Actor is the identity a mutation is attributed to.
type Actor struct {
	ID    int64
	Email string
	Role  string
}

// IsZero reports whether no identity is present.
func (a Actor) IsZero() bool {
	return a.Email == ""
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor stored in ctx, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.IsZero() {
		return Actor{}, false
	}
	return a, true
}

// SystemActor identifies background jobs in the audit trail, e.g.
// "system:scheduler".
func SystemActor(name string) Actor {
	return Actor{Email: "system:" + name, Role: RoleSystem}
}
