// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/model"
)

// Default admin credentials used when none are configured.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme1234"
	DefaultAdminName     = "Administrator"
)

// AdminSeed describes the administrator account created on first start.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// Seed creates the administrator account if it does not exist yet.
func Seed(ctx context.Context, db *sql.DB, admin AdminSeed) error {
	if admin.Email == "" {
		admin.Email = DefaultAdminEmail
	}
	if admin.Password == "" {
		admin.Password = DefaultAdminPassword
	}
	if admin.Name == "" {
		admin.Name = DefaultAdminName
	}

	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, admin.Email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        admin.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         admin.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}
