// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pipeplast/pipecms/internal/auth"
	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the initial data the site cannot run without: the language
// set and an admin account. Safe to call on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now().UTC()

	if err := seedLanguages(ctx, queries, now); err != nil {
		return err
	}

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}

func seedLanguages(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.ListLanguages(ctx)
	if err != nil {
		return fmt.Errorf("listing languages: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i, l := range model.SiteLanguages {
		_, err := queries.CreateLanguage(ctx, CreateLanguageParams{
			Code:       l.Code,
			Name:       l.Name,
			NativeName: l.NativeName,
			IsDefault:  l.Code == string(content.DefaultLanguage),
			IsActive:   true,
			Direction:  l.Direction,
			Position:   int64(i),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("creating language %s: %w", l.Code, err)
		}
	}
	slog.Info("seeded site languages", "count", len(model.SiteLanguages))
	return nil
}

// SeedDemo fills the catalog with sample content for development setups.
// It does nothing when any category already exists.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now().UTC()

	existing, err := queries.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("categories already present, skipping demo seed")
		return nil
	}

	type demoCategory struct {
		slug  string
		title string
		mk    string
		de    string
	}
	demo := []demoCategory{
		{slug: "pe-pipes", title: "PE Pipes", mk: "ПЕ Цевки", de: "PE-Rohre"},
		{slug: "pvc-pipes", title: "PVC Pipes", mk: "ПВЦ Цевки", de: "PVC-Rohre"},
		{slug: "fittings", title: "Fittings", mk: "Фитинзи", de: "Formstücke"},
	}

	for i, d := range demo {
		translations := content.TranslationMap{
			content.LangMK: {Title: d.mk},
			content.LangDE: {Title: d.de},
		}
		_, err := queries.CreateCategory(ctx, CreateCategoryParams{
			Slug:            d.slug,
			Title:           d.title,
			Translations:    translations,
			DefaultLanguage: string(content.DefaultLanguage),
			SortOrder:       int64(i),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("creating demo category %s: %w", d.slug, err)
		}
	}

	slog.Info("seeded demo catalog", "categories", len(demo))
	return nil
}
