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

// AdminCertificateResponse is a certificate in admin API responses.
type AdminCertificateResponse struct {
	ID            int64                  `json:"id"`
	CategoryID    int64                  `json:"category_id"`
	SubcategoryID *int64                 `json:"subcategory_id,omitempty"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	Translations  content.TranslationMap `json:"translations,omitempty"`
	FormState     FormPayload            `json:"form_state"`
	PDFURL        string                 `json:"pdf_url,omitempty"`
	ImageURL      string                 `json:"image_url,omitempty"`
	SortOrder     int64                  `json:"sort_order"`
	IsActive      bool                   `json:"is_active"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func adminCertificateResponse(c store.Certificate) AdminCertificateResponse {
	resp := AdminCertificateResponse{
		ID:           c.ID,
		CategoryID:   c.CategoryID,
		Title:        c.Title,
		Description:  c.Description,
		Translations: c.Translations,
		FormState:    formStateResponse(c.Content()),
		PDFURL:       c.PDFURL,
		ImageURL:     c.ImageURL,
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.SubcategoryID.Valid {
		subID := c.SubcategoryID.Int64
		resp.SubcategoryID = &subID
	}
	return resp
}

// CreateCertificateRequest is the admin certificate create payload.
type CreateCertificateRequest struct {
	CategoryID    int64       `json:"category_id"`
	SubcategoryID *int64      `json:"subcategory_id"`
	Form          FormPayload `json:"form"`
	PDFURL        string      `json:"pdf_url"`
	ImageURL      string      `json:"image_url"`
	SortOrder     int64       `json:"sort_order"`
	IsActive      *bool       `json:"is_active"`
}

// UpdateCertificateRequest is the admin certificate update payload.
// ClearSubcategory detaches the certificate from its subcategory;
// SubcategoryID untouched keeps the stored value.
type UpdateCertificateRequest struct {
	CategoryID       *int64      `json:"category_id"`
	SubcategoryID    *int64      `json:"subcategory_id"`
	ClearSubcategory bool        `json:"clear_subcategory"`
	Form             FormPayload `json:"form"`
	PDFURL           *string     `json:"pdf_url"`
	ImageURL         *string     `json:"image_url"`
	SortOrder        *int64      `json:"sort_order"`
	IsActive         *bool       `json:"is_active"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ListAdminCertificates handles GET /api/admin/certificates with the
// shared sort parameters.
func (h *Handler) ListAdminCertificates(w http.ResponseWriter, r *http.Request) {
	certificates, err := h.queries.ListCertificates(r.Context())
	if err != nil {
		h.logger.Error("listing certificates", "error", err)
		WriteInternalError(w, "Failed to list certificates")
		return
	}

	lang := middleware.GetLanguageCode(r)
	certificates = sortAdminList(r, certificates, func(c store.Certificate) sortKeys {
		return sortKeys{
			Title:     content.ResolveTitle(c.Content(), lang),
			SortOrder: c.SortOrder,
			CreatedAt: c.CreatedAt,
		}
	})

	responses := make([]AdminCertificateResponse, 0, len(certificates))
	for _, c := range certificates {
		responses = append(responses, adminCertificateResponse(c))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// GetAdminCertificate handles GET /api/admin/certificates/{id}.
func (h *Handler) GetAdminCertificate(w http.ResponseWriter, r *http.Request) {
	certificate, ok := requireEntityByID(h, w, r, "certificate", func(id int64) (store.Certificate, error) {
		return h.queries.GetCertificateByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminCertificateResponse(certificate), nil)
}

// validateCertificateRefs checks the category and optional subcategory
// references; the subcategory must belong to the category.
func (h *Handler) validateCertificateRefs(w http.ResponseWriter, r *http.Request, categoryID int64, subcategoryID sql.NullInt64) bool {
	ctx := r.Context()

	if categoryID == 0 {
		WriteValidationError(w, map[string]string{"category_id": "Category is required"})
		return false
	}
	if _, err := h.queries.GetCategoryByID(ctx, categoryID); err != nil {
		WriteValidationError(w, map[string]string{"category_id": "Category does not exist"})
		return false
	}
	if subcategoryID.Valid {
		subcategory, err := h.queries.GetSubcategoryByID(ctx, subcategoryID.Int64)
		if err != nil {
			WriteValidationError(w, map[string]string{"subcategory_id": "Subcategory does not exist"})
			return false
		}
		if subcategory.CategoryID != categoryID {
			WriteValidationError(w, map[string]string{"subcategory_id": "Subcategory belongs to another category"})
			return false
		}
	}
	return true
}

// CreateAdminCertificate handles POST /api/admin/certificates.
func (h *Handler) CreateAdminCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	var subcategoryID sql.NullInt64
	if req.SubcategoryID != nil {
		subcategoryID = sql.NullInt64{Int64: *req.SubcategoryID, Valid: true}
	}
	if !h.validateCertificateRefs(w, r, req.CategoryID, subcategoryID) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC().Truncate(time.Second)
	certificate, err := h.queries.CreateCertificate(ctx, store.CreateCertificateParams{
		CategoryID:      req.CategoryID,
		SubcategoryID:   subcategoryID,
		Title:           shape.Title,
		Description:     shape.Description,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		PDFURL:          req.PDFURL,
		ImageURL:        req.ImageURL,
		SortOrder:       req.SortOrder,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.logger.Error("creating certificate", "error", err)
		WriteInternalError(w, "Failed to create certificate")
		return
	}

	h.invalidateCatalog(ctx)
	WriteCreated(w, adminCertificateResponse(certificate))
}

// UpdateAdminCertificate handles PUT /api/admin/certificates/{id}.
func (h *Handler) UpdateAdminCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "certificate", func(id int64) (store.Certificate, error) {
		return h.queries.GetCertificateByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateCertificateRequest
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

	params := store.UpdateCertificateParams{
		ID:                existing.ID,
		CategoryID:        existing.CategoryID,
		SubcategoryID:     existing.SubcategoryID,
		Title:             shape.Title,
		Description:       shape.Description,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		PDFURL:            existing.PDFURL,
		ImageURL:          existing.ImageURL,
		SortOrder:         existing.SortOrder,
		IsActive:          existing.IsActive,
		UpdatedAt:         time.Now().UTC().Truncate(time.Second),
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	if req.CategoryID != nil {
		params.CategoryID = *req.CategoryID
	}
	switch {
	case req.ClearSubcategory:
		params.SubcategoryID = sql.NullInt64{}
	case req.SubcategoryID != nil:
		params.SubcategoryID = sql.NullInt64{Int64: *req.SubcategoryID, Valid: true}
	}
	if !h.validateCertificateRefs(w, r, params.CategoryID, params.SubcategoryID) {
		return
	}
	if req.PDFURL != nil {
		params.PDFURL = *req.PDFURL
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

	certificate, err := h.queries.UpdateCertificate(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "certificate", err)
		return
	}

	h.invalidateCatalog(ctx)
	WriteSuccess(w, adminCertificateResponse(certificate), nil)
}

// DeleteAdminCertificate handles DELETE /api/admin/certificates/{id}.
func (h *Handler) DeleteAdminCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certificate, ok := requireEntityByID(h, w, r, "certificate", func(id int64) (store.Certificate, error) {
		return h.queries.GetCertificateByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteCertificate(ctx, certificate.ID); err != nil {
		h.logger.Error("deleting certificate", "id", certificate.ID, "error", err)
		WriteInternalError(w, "Failed to delete certificate")
		return
	}

	h.logger.Info("certificate deleted", "category", "content", "id", certificate.ID)
	h.invalidateCatalog(ctx)
	w.WriteHeader(http.StatusNoContent)
}
