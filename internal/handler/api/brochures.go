// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// AdminBrochureResponse is a brochure in admin API responses.
type AdminBrochureResponse struct {
	ID           int64                  `json:"id"`
	CategoryID   *int64                 `json:"category_id,omitempty"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Translations content.TranslationMap `json:"translations,omitempty"`
	FormState    FormPayload            `json:"form_state"`
	PDFURL       string                 `json:"pdf_url"`
	SortOrder    int64                  `json:"sort_order"`
	IsActive     bool                   `json:"is_active"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func adminBrochureResponse(b store.Brochure) AdminBrochureResponse {
	resp := AdminBrochureResponse{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		Translations: b.Translations,
		FormState:    formStateResponse(b.Content()),
		PDFURL:       b.PDFURL,
		SortOrder:    b.SortOrder,
		IsActive:     b.IsActive,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.CategoryID.Valid {
		catID := b.CategoryID.Int64
		resp.CategoryID = &catID
	}
	return resp
}

// CreateBrochureRequest is the admin brochure create payload. CategoryID is
// optional: a brochure without one is a general-purpose download.
type CreateBrochureRequest struct {
	CategoryID *int64      `json:"category_id"`
	Form       FormPayload `json:"form"`
	PDFURL     string      `json:"pdf_url"`
	SortOrder  int64       `json:"sort_order"`
	IsActive   *bool       `json:"is_active"`
}

// UpdateBrochureRequest is the admin brochure update payload.
type UpdateBrochureRequest struct {
	CategoryID    *int64      `json:"category_id"`
	ClearCategory bool        `json:"clear_category"`
	Form          FormPayload `json:"form"`
	PDFURL        *string     `json:"pdf_url"`
	SortOrder     *int64      `json:"sort_order"`
	IsActive      *bool       `json:"is_active"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (h *Handler) validateBrochureCategory(w http.ResponseWriter, r *http.Request, categoryID sql.NullInt64) bool {
	if !categoryID.Valid {
		return true
	}
	if _, err := h.queries.GetCategoryByID(r.Context(), categoryID.Int64); err != nil {
		WriteValidationError(w, map[string]string{"category_id": "Category does not exist"})
		return false
	}
	return true
}

// ListAdminBrochures handles GET /api/admin/brochures.
func (h *Handler) ListAdminBrochures(w http.ResponseWriter, r *http.Request) {
	brochures, err := h.queries.ListBrochures(r.Context())
	if err != nil {
		h.logger.Error("listing brochures", "error", err)
		WriteInternalError(w, "Failed to list brochures")
		return
	}

	lang := middleware.GetLanguageCode(r)
	brochures = sortAdminList(r, brochures, func(b store.Brochure) sortKeys {
		return sortKeys{
			Title:     content.ResolveTitle(b.Content(), lang),
			SortOrder: b.SortOrder,
			CreatedAt: b.CreatedAt,
		}
	})

	responses := make([]AdminBrochureResponse, 0, len(brochures))
	for _, b := range brochures {
		responses = append(responses, adminBrochureResponse(b))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// GetAdminBrochure handles GET /api/admin/brochures/{id}.
func (h *Handler) GetAdminBrochure(w http.ResponseWriter, r *http.Request) {
	brochure, ok := requireEntityByID(h, w, r, "brochure", func(id int64) (store.Brochure, error) {
		return h.queries.GetBrochureByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminBrochureResponse(brochure), nil)
}

// CreateAdminBrochure handles POST /api/admin/brochures.
func (h *Handler) CreateAdminBrochure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateBrochureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}
	if req.PDFURL == "" {
		WriteValidationError(w, map[string]string{"pdf_url": "PDF URL is required"})
		return
	}

	var categoryID sql.NullInt64
	if req.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *req.CategoryID, Valid: true}
	}
	if !h.validateBrochureCategory(w, r, categoryID) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC().Truncate(time.Second)
	brochure, err := h.queries.CreateBrochure(ctx, store.CreateBrochureParams{
		CategoryID:      categoryID,
		Title:           shape.Title,
		Description:     shape.Description,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		PDFURL:          req.PDFURL,
		SortOrder:       req.SortOrder,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.logger.Error("creating brochure", "error", err)
		WriteInternalError(w, "Failed to create brochure")
		return
	}
	WriteCreated(w, adminBrochureResponse(brochure))
}

// UpdateAdminBrochure handles PUT /api/admin/brochures/{id}.
func (h *Handler) UpdateAdminBrochure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "brochure", func(id int64) (store.Brochure, error) {
		return h.queries.GetBrochureByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateBrochureRequest
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

	params := store.UpdateBrochureParams{
		ID:                existing.ID,
		CategoryID:        existing.CategoryID,
		Title:             shape.Title,
		Description:       shape.Description,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		PDFURL:            existing.PDFURL,
		SortOrder:         existing.SortOrder,
		IsActive:          existing.IsActive,
		UpdatedAt:         time.Now().UTC().Truncate(time.Second),
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	switch {
	case req.ClearCategory:
		params.CategoryID = sql.NullInt64{}
	case req.CategoryID != nil:
		params.CategoryID = sql.NullInt64{Int64: *req.CategoryID, Valid: true}
	}
	if !h.validateBrochureCategory(w, r, params.CategoryID) {
		return
	}
	if req.PDFURL != nil {
		params.PDFURL = *req.PDFURL
	}
	if req.SortOrder != nil {
		params.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	brochure, err := h.queries.UpdateBrochure(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "brochure", err)
		return
	}
	WriteSuccess(w, adminBrochureResponse(brochure), nil)
}

// DeleteAdminBrochure handles DELETE /api/admin/brochures/{id}.
func (h *Handler) DeleteAdminBrochure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	brochure, ok := requireEntityByID(h, w, r, "brochure", func(id int64) (store.Brochure, error) {
		return h.queries.GetBrochureByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteBrochure(ctx, brochure.ID); err != nil {
		h.logger.Error("deleting brochure", "id", brochure.ID, "error", err)
		WriteInternalError(w, "Failed to delete brochure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
