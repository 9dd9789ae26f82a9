// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/middleware"
	"github.com/olegiv/ofolio/internal/session"
	"github.com/olegiv/ofolio/internal/store"
)

const msgInvalidCredentials = "Invalid email or password"

// AuthHandler handles admin sign-in and sign-out.
type AuthHandler struct {
	db              *sql.DB
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	now             func() time.Time
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		db:              db,
		sessionManager:  sm,
		loginProtection: lp,
		now:             time.Now,
	}
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public shape of a signed-in user.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func newUserResponse(u store.User) UserResponse {
	resp := UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time.UTC()
		resp.LastLoginAt = &t
	}
	return resp
}

type userEnvelope struct {
	OK   bool         `json:"ok"`
	Data UserResponse `json:"data"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		WriteError(w, http.StatusServiceUnavailable, "datastore_unconfigured", "Datastore is not configured")
		return
	}

	var req LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "email", email, "ip", middleware.GetClientIP(r))
			h.writeLocked(w, remaining)
			return
		}
	}

	queries := store.New(h.db)
	user, err := queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.DebugContext(r.Context(), "login attempt for non-existent user", "email", email)
		} else {
			slog.ErrorContext(r.Context(), "database error during login", "error", err)
		}
		// Unknown accounts count too, so lockout does not reveal which emails exist.
		h.loginFailed(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(r.Context(), "password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		slog.DebugContext(r.Context(), "invalid password attempt", "email", email)
		h.loginFailed(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	now := h.now().UTC()
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    now,
				ID:           user.ID,
			}); err != nil {
				slog.ErrorContext(r.Context(), "failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.InfoContext(r.Context(), "password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:   now,
		ID:          user.ID,
	}); err != nil {
		slog.ErrorContext(r.Context(), "failed to update last login time", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	}

	if err := session.SignIn(r.Context(), h.sessionManager, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "session renewal error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "email", user.Email)
	WriteJSON(w, http.StatusOK, userEnvelope{OK: true, Data: newUserResponse(user)})
}

// loginFailed records the failure and answers with the matching error.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.WarnContext(r.Context(), "account locked due to failed attempts", "email", email, "duration", lockDuration.String())
			h.writeLocked(w, lockDuration)
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 3 && remaining > 0 {
			WriteError(w, http.StatusUnauthorized, "invalid_credentials",
				fmt.Sprintf("%s. %d attempts remaining before lockout", msgInvalidCredentials, remaining))
			return
		}
	}
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials)
}

func (h *AuthHandler) writeLocked(w http.ResponseWriter, d time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(d.Seconds())+1))
	WriteError(w, http.StatusTooManyRequests, "account_locked",
		"Too many failed attempts. Try again in "+formatDuration(d))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessionManager)

	if err := session.SignOut(r.Context(), h.sessionManager); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}

	slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	WriteJSON(w, http.StatusOK, userEnvelope{OK: true, Data: newUserResponse(*user)})
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
