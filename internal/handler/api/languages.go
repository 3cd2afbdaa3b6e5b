// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pipeplast/pipecms/internal/store"
)

// AdminLanguageResponse is a language row in admin API responses.
type AdminLanguageResponse struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	NativeName string    `json:"native_name"`
	IsDefault  bool      `json:"is_default"`
	IsActive   bool      `json:"is_active"`
	Direction  string    `json:"direction"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func adminLanguageResponse(l store.Language) AdminLanguageResponse {
	return AdminLanguageResponse{
		ID:         l.ID,
		Code:       l.Code,
		Name:       l.Name,
		NativeName: l.NativeName,
		IsDefault:  l.IsDefault,
		IsActive:   l.IsActive,
		Direction:  l.Direction,
		Position:   l.Position,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// UpdateLanguageRequest is the admin language update payload. The code is
// fixed at seed time; only presentation fields are mutable.
type UpdateLanguageRequest struct {
	Name       *string `json:"name"`
	NativeName *string `json:"native_name"`
	IsActive   *bool   `json:"is_active"`
	Direction  *string `json:"direction"`
	Position   *int64  `json:"position"`
}

// ListAdminLanguages handles GET /api/admin/languages, including inactive
// rows the public endpoint hides.
func (h *Handler) ListAdminLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.languages.GetAll(r.Context())
	if err != nil {
		h.logger.Error("listing languages", "error", err)
		WriteInternalError(w, "Failed to list languages")
		return
	}

	responses := make([]AdminLanguageResponse, 0, len(langs))
	for _, l := range langs {
		responses = append(responses, adminLanguageResponse(l))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// UpdateAdminLanguage handles PUT /api/admin/languages/{id}.
func (h *Handler) UpdateAdminLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "language", func(id int64) (store.Language, error) {
		return h.queries.GetLanguageByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	params := store.UpdateLanguageParams{
		ID:         existing.ID,
		Name:       existing.Name,
		NativeName: existing.NativeName,
		IsActive:   existing.IsActive,
		Direction:  existing.Direction,
		Position:   existing.Position,
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.NativeName != nil {
		params.NativeName = *req.NativeName
	}
	if req.IsActive != nil {
		if !*req.IsActive && existing.IsDefault {
			WriteValidationError(w, map[string]string{"is_active": "The default language cannot be deactivated"})
			return
		}
		params.IsActive = *req.IsActive
	}
	if req.Direction != nil {
		if *req.Direction != "ltr" && *req.Direction != "rtl" {
			WriteValidationError(w, map[string]string{"direction": "Direction must be ltr or rtl"})
			return
		}
		params.Direction = *req.Direction
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	language, err := h.queries.UpdateLanguage(ctx, params)
	if err != nil {
		h.logger.Error("updating language", "id", existing.ID, "error", err)
		WriteInternalError(w, "Failed to update language")
		return
	}

	h.languages.Invalidate()
	h.invalidateCatalog(ctx)
	WriteSuccess(w, adminLanguageResponse(language), nil)
}

// SetDefaultAdminLanguage handles POST /api/admin/languages/{id}/default.
// The new default is activated if it was inactive.
func (h *Handler) SetDefaultAdminLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	language, ok := requireEntityByID(h, w, r, "language", func(id int64) (store.Language, error) {
		return h.queries.GetLanguageByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.SetDefaultLanguage(ctx, language.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
			return
		}
		h.logger.Error("setting default language", "id", language.ID, "error", err)
		WriteInternalError(w, "Failed to set default language")
		return
	}

	updated, err := h.queries.GetLanguageByID(ctx, language.ID)
	if err != nil {
		h.logger.Error("reloading language", "id", language.ID, "error", err)
		WriteInternalError(w, "Failed to set default language")
		return
	}

	h.logger.Info("default language changed", "category", "settings", "code", updated.Code)
	h.languages.Invalidate()
	h.invalidateCatalog(ctx)
	WriteSuccess(w, adminLanguageResponse(updated), nil)
}
