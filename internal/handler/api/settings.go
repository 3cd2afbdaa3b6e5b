// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pipeplast/pipecms/internal/model"
	"github.com/pipeplast/pipecms/internal/store"
)

// UpdateEmailSettingsRequest is the admin email settings payload. An empty
// APIKey keeps the stored key; DeleteEmailAPIKey clears it.
type UpdateEmailSettingsRequest struct {
	Provider    string `json:"provider" validate:"required,oneof=brevo smtp"`
	APIKey      string `json:"api_key"`
	SenderEmail string `json:"sender_email" validate:"omitempty,email"`
	SenderName  string `json:"sender_name" validate:"max=200"`
	NotifyTo    string `json:"notify_to" validate:"omitempty,email"`
}

func emailSettingsView(s store.EmailSettings) model.EmailSettingsView {
	return model.EmailSettings{
		ID:          s.ID,
		Provider:    s.Provider,
		APIKey:      s.APIKey,
		SenderEmail: s.SenderEmail,
		SenderName:  s.SenderName,
		NotifyTo:    s.NotifyTo,
		UpdatedAt:   s.UpdatedAt,
	}.View()
}

// GetEmailSettings handles GET /api/admin/settings/email. The stored API
// key is never returned; the view carries a presence flag instead.
func (h *Handler) GetEmailSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.GetEmailSettings(r.Context())
	if err != nil {
		h.logger.Error("loading email settings", "error", err)
		WriteInternalError(w, "Failed to load settings")
		return
	}
	WriteSuccess(w, emailSettingsView(settings), nil)
}

// UpdateEmailSettings handles PUT /api/admin/settings/email.
func (h *Handler) UpdateEmailSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateEmailSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(req); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	params := store.UpdateEmailSettingsParams{
		Provider:    req.Provider,
		APIKey:      apiKey,
		KeepAPIKey:  apiKey == "",
		SenderEmail: strings.TrimSpace(req.SenderEmail),
		SenderName:  strings.TrimSpace(req.SenderName),
		NotifyTo:    strings.TrimSpace(req.NotifyTo),
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	settings, err := h.queries.UpdateEmailSettings(ctx, params)
	if err != nil {
		h.logger.Error("updating email settings", "error", err)
		WriteInternalError(w, "Failed to update settings")
		return
	}
	h.logger.Info("email settings updated", "category", "settings", "provider", settings.Provider)
	WriteSuccess(w, emailSettingsView(settings), nil)
}

// DeleteEmailAPIKey handles DELETE /api/admin/settings/email/api-key.
func (h *Handler) DeleteEmailAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.queries.ClearEmailAPIKey(ctx, time.Now().UTC().Truncate(time.Second)); err != nil {
		h.logger.Error("clearing email API key", "error", err)
		WriteInternalError(w, "Failed to update settings")
		return
	}

	settings, err := h.queries.GetEmailSettings(ctx)
	if err != nil {
		h.logger.Error("loading email settings", "error", err)
		WriteInternalError(w, "Failed to load settings")
		return
	}
	h.logger.Info("email API key cleared", "category", "settings")
	WriteSuccess(w, emailSettingsView(settings), nil)
}
