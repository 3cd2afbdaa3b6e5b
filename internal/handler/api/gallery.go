// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// AdminGalleryResponse is a gallery item in admin API responses.
type AdminGalleryResponse struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Translations content.TranslationMap `json:"translations,omitempty"`
	FormState    FormPayload            `json:"form_state"`
	ImageURL     string                 `json:"image_url"`
	SortOrder    int64                  `json:"sort_order"`
	IsActive     bool                   `json:"is_active"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func adminGalleryResponse(g store.GalleryItem) AdminGalleryResponse {
	return AdminGalleryResponse{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		Translations: g.Translations,
		FormState:    formStateResponse(g.Content()),
		ImageURL:     g.ImageURL,
		SortOrder:    g.SortOrder,
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// CreateGalleryRequest is the admin gallery create payload.
type CreateGalleryRequest struct {
	Form      FormPayload `json:"form"`
	ImageURL  string      `json:"image_url"`
	SortOrder int64       `json:"sort_order"`
	IsActive  *bool       `json:"is_active"`
}

// UpdateGalleryRequest is the admin gallery update payload.
type UpdateGalleryRequest struct {
	Form      FormPayload `json:"form"`
	ImageURL  *string     `json:"image_url"`
	SortOrder *int64      `json:"sort_order"`
	IsActive  *bool       `json:"is_active"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ListAdminGallery handles GET /api/admin/gallery.
func (h *Handler) ListAdminGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListGalleryItems(r.Context())
	if err != nil {
		h.logger.Error("listing gallery", "error", err)
		WriteInternalError(w, "Failed to list gallery items")
		return
	}

	lang := middleware.GetLanguageCode(r)
	items = sortAdminList(r, items, func(g store.GalleryItem) sortKeys {
		return sortKeys{
			Title:     content.ResolveTitle(g.Content(), lang),
			SortOrder: g.SortOrder,
			CreatedAt: g.CreatedAt,
		}
	})

	responses := make([]AdminGalleryResponse, 0, len(items))
	for _, g := range items {
		responses = append(responses, adminGalleryResponse(g))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// GetAdminGalleryItem handles GET /api/admin/gallery/{id}.
func (h *Handler) GetAdminGalleryItem(w http.ResponseWriter, r *http.Request) {
	item, ok := requireEntityByID(h, w, r, "gallery item", func(id int64) (store.GalleryItem, error) {
		return h.queries.GetGalleryItemByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminGalleryResponse(item), nil)
}

// CreateAdminGalleryItem handles POST /api/admin/gallery.
func (h *Handler) CreateAdminGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateGalleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}
	if req.ImageURL == "" {
		WriteValidationError(w, map[string]string{"image_url": "Image URL is required"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC().Truncate(time.Second)
	item, err := h.queries.CreateGalleryItem(ctx, store.CreateGalleryItemParams{
		Title:           shape.Title,
		Description:     shape.Description,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		ImageURL:        req.ImageURL,
		SortOrder:       req.SortOrder,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.logger.Error("creating gallery item", "error", err)
		WriteInternalError(w, "Failed to create gallery item")
		return
	}
	WriteCreated(w, adminGalleryResponse(item))
}

// UpdateAdminGalleryItem handles PUT /api/admin/gallery/{id}.
func (h *Handler) UpdateAdminGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "gallery item", func(id int64) (store.GalleryItem, error) {
		return h.queries.GetGalleryItemByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateGalleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.UpdatedAt.IsZero() {
		WriteValidationError(w, map[string]string{"updated_at": "Concurrency token is required"})
		return
	}

	shape, fieldErrors := applyFormPayload(existing.Content(), req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	params := store.UpdateGalleryItemParams{
		ID:                existing.ID,
		Title:             shape.Title,
		Description:       shape.Description,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		ImageURL:          existing.ImageURL,
		SortOrder:         existing.SortOrder,
		IsActive:          existing.IsActive,
		UpdatedAt:         time.Now().UTC().Truncate(time.Second),
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	if req.ImageURL != nil {
		params.ImageURL = *req.ImageURL
	}
	if req.SortOrder != nil {
		params.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	item, err := h.queries.UpdateGalleryItem(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "gallery item", err)
		return
	}
	WriteSuccess(w, adminGalleryResponse(item), nil)
}

// DeleteAdminGalleryItem handles DELETE /api/admin/gallery/{id}.
func (h *Handler) DeleteAdminGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, ok := requireEntityByID(h, w, r, "gallery item", func(id int64) (store.GalleryItem, error) {
		return h.queries.GetGalleryItemByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteGalleryItem(ctx, item.ID); err != nil {
		h.logger.Error("deleting gallery item", "id", item.ID, "error", err)
		WriteInternalError(w, "Failed to delete gallery item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
