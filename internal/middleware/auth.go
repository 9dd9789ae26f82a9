// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/model"
	"github.com/olegiv/ofolio/internal/session"
	"github.com/olegiv/ofolio/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the signed-in store.User.
const ContextKeyUser ContextKey = "user"

// LoadUser creates middleware that loads the signed-in user into the request
// context, both as a store.User and as the auth.Actor mutations are
// attributed to. A session whose user no longer exists is destroyed and the
// request continues anonymously.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 || db == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.New(db).GetUserByID(r.Context(), userID)
			if err != nil {
				slog.WarnContext(r.Context(), "dropping session of unknown user", "user_id", userID, "error", err)
				_ = session.SignOut(r.Context(), sm)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user and its actor.
func WithUser(ctx context.Context, user store.User) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return auth.WithActor(ctx, auth.Actor{ID: user.ID, Email: user.Email, Role: user.Role})
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// roleLevel returns a numeric level for role hierarchy.
// Higher level = more permissions. Unknown roles have level 0.
func roleLevel(role string) int {
	switch role {
	case model.RoleAdmin:
		return 2
	case model.RoleEditor:
		return 1
	default:
		return 0
	}
}

// RequireRole creates middleware that requires a minimum user role.
// Anonymous requests get a JSON 401, insufficient roles a JSON 403.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			if roleLevel(user.Role) < minLevel {
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
					"remote_addr", r.RemoteAddr,
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Forbidden: insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}
