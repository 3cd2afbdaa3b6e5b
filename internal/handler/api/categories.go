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
	"github.com/pipeplast/pipecms/internal/util"
)

// AdminCategoryResponse is a category in admin API responses. UpdatedAt
// doubles as the optimistic concurrency token for later updates.
type AdminCategoryResponse struct {
	ID           int64                  `json:"id"`
	Slug         string                 `json:"slug"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Translations content.TranslationMap `json:"translations,omitempty"`
	FormState    FormPayload            `json:"form_state"`
	SortOrder    int64                  `json:"sort_order"`
	IsActive     bool                   `json:"is_active"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func adminCategoryResponse(c store.Category) AdminCategoryResponse {
	return AdminCategoryResponse{
		ID:           c.ID,
		Slug:         c.Slug,
		Title:        c.Title,
		Description:  c.Description,
		Translations: c.Translations,
		FormState:    formStateResponse(c.Content()),
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CreateCategoryRequest is the admin category create payload.
type CreateCategoryRequest struct {
	Slug      string      `json:"slug"`
	Form      FormPayload `json:"form"`
	SortOrder int64       `json:"sort_order"`
	IsActive  *bool       `json:"is_active"`
}

// UpdateCategoryRequest is the admin category update payload. UpdatedAt
// must carry the token from the last read.
type UpdateCategoryRequest struct {
	Slug      *string     `json:"slug"`
	Form      FormPayload `json:"form"`
	SortOrder *int64      `json:"sort_order"`
	IsActive  *bool       `json:"is_active"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ListAdminCategories handles GET /api/admin/categories. Supports
// ?sort=title|sort_order|created_at&dir=asc|desc.
func (h *Handler) ListAdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}

	lang := middleware.GetLanguageCode(r)
	categories = sortAdminList(r, categories, func(c store.Category) sortKeys {
		return sortKeys{
			Title:     content.ResolveTitle(c.Content(), lang),
			SortOrder: c.SortOrder,
			CreatedAt: c.CreatedAt,
		}
	})

	responses := make([]AdminCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, adminCategoryResponse(c))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// GetAdminCategory handles GET /api/admin/categories/{id}.
func (h *Handler) GetAdminCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := requireEntityByID(h, w, r, "category", func(id int64) (store.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminCategoryResponse(category), nil)
}

// CreateAdminCategory handles POST /api/admin/categories.
func (h *Handler) CreateAdminCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(shape.Title)
	}
	exists, err := h.queries.CategorySlugExists(ctx, slug)
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return
	}
	if exists {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC().Truncate(time.Second)
	category, err := h.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Slug:            slug,
		Title:           shape.Title,
		Description:     shape.Description,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		SortOrder:       req.SortOrder,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.logger.Error("creating category", "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}

	h.invalidateCatalog(ctx)
	WriteCreated(w, adminCategoryResponse(category))
}

// UpdateAdminCategory handles PUT /api/admin/categories/{id}. A stale
// updated_at token yields 409.
func (h *Handler) UpdateAdminCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "category", func(id int64) (store.Category, error) {
		return h.queries.GetCategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateCategoryRequest
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

	params := store.UpdateCategoryParams{
		ID:                existing.ID,
		Slug:              existing.Slug,
		Title:             shape.Title,
		Description:       shape.Description,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		SortOrder:         existing.SortOrder,
		IsActive:          existing.IsActive,
		UpdatedAt:         time.Now().UTC().Truncate(time.Second),
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	if req.Slug != nil && *req.Slug != "" && *req.Slug != existing.Slug {
		exists, err := h.queries.CategorySlugExistsExcluding(ctx, *req.Slug, existing.ID)
		if err != nil {
			WriteInternalError(w, "Failed to check slug")
			return
		}
		if exists {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		}
		params.Slug = *req.Slug
	}
	if req.SortOrder != nil {
		params.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	category, err := h.queries.UpdateCategory(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "category", err)
		return
	}

	h.invalidateCatalog(ctx)
	WriteSuccess(w, adminCategoryResponse(category), nil)
}

// DeleteAdminCategory handles DELETE /api/admin/categories/{id}.
// Certificates under the category are removed by cascade.
func (h *Handler) DeleteAdminCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, ok := requireEntityByID(h, w, r, "category", func(id int64) (store.Category, error) {
		return h.queries.GetCategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteCategory(ctx, category.ID); err != nil {
		h.logger.Error("deleting category", "id", category.ID, "error", err)
		WriteInternalError(w, "Failed to delete category")
		return
	}

	h.logger.Info("category deleted", "category", "content", "id", category.ID, "slug", category.Slug)
	h.invalidateCatalog(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// AdminSubcategoryResponse is a subcategory in admin API responses.
type AdminSubcategoryResponse struct {
	ID           int64                  `json:"id"`
	CategoryID   int64                  `json:"category_id"`
	Slug         string                 `json:"slug"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Translations content.TranslationMap `json:"translations,omitempty"`
	FormState    FormPayload            `json:"form_state"`
	SortOrder    int64                  `json:"sort_order"`
	IsActive     bool                   `json:"is_active"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func adminSubcategoryResponse(s store.Subcategory) AdminSubcategoryResponse {
	return AdminSubcategoryResponse{
		ID:           s.ID,
		CategoryID:   s.CategoryID,
		Slug:         s.Slug,
		Title:        s.Title,
		Description:  s.Description,
		Translations: s.Translations,
		FormState:    formStateResponse(s.Content()),
		SortOrder:    s.SortOrder,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// CreateSubcategoryRequest is the admin subcategory create payload.
type CreateSubcategoryRequest struct {
	CategoryID int64       `json:"category_id"`
	Slug       string      `json:"slug"`
	Form       FormPayload `json:"form"`
	SortOrder  int64       `json:"sort_order"`
	IsActive   *bool       `json:"is_active"`
}

// UpdateSubcategoryRequest is the admin subcategory update payload.
type UpdateSubcategoryRequest struct {
	CategoryID *int64      `json:"category_id"`
	Slug       *string     `json:"slug"`
	Form       FormPayload `json:"form"`
	SortOrder  *int64      `json:"sort_order"`
	IsActive   *bool       `json:"is_active"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ListAdminSubcategories handles GET /api/admin/subcategories. Supports
// ?category_id= filtering and the shared sort parameters.
func (h *Handler) ListAdminSubcategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var subcategories []store.Subcategory
	var err error
	if categoryID, ok := parseInt64Query(r, "category_id"); ok {
		subcategories, err = h.queries.ListSubcategoriesByCategory(ctx, categoryID)
	} else {
		subcategories, err = h.queries.ListSubcategories(ctx)
	}
	if err != nil {
		h.logger.Error("listing subcategories", "error", err)
		WriteInternalError(w, "Failed to list subcategories")
		return
	}

	lang := middleware.GetLanguageCode(r)
	subcategories = sortAdminList(r, subcategories, func(s store.Subcategory) sortKeys {
		return sortKeys{
			Title:     content.ResolveTitle(s.Content(), lang),
			SortOrder: s.SortOrder,
			CreatedAt: s.CreatedAt,
		}
	})

	responses := make([]AdminSubcategoryResponse, 0, len(subcategories))
	for _, s := range subcategories {
		responses = append(responses, adminSubcategoryResponse(s))
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// GetAdminSubcategory handles GET /api/admin/subcategories/{id}.
func (h *Handler) GetAdminSubcategory(w http.ResponseWriter, r *http.Request) {
	subcategory, ok := requireEntityByID(h, w, r, "subcategory", func(id int64) (store.Subcategory, error) {
		return h.queries.GetSubcategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminSubcategoryResponse(subcategory), nil)
}

// CreateAdminSubcategory handles POST /api/admin/subcategories.
func (h *Handler) CreateAdminSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSubcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}
	if req.CategoryID == 0 {
		WriteValidationError(w, map[string]string{"category_id": "Category is required"})
		return
	}
	if _, err := h.queries.GetCategoryByID(ctx, req.CategoryID); err != nil {
		WriteValidationError(w, map[string]string{"category_id": "Category does not exist"})
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(shape.Title)
	}
	exists, err := h.queries.SubcategorySlugExists(ctx, slug)
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return
	}
	if exists {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC().Truncate(time.Second)
	subcategory, err := h.queries.CreateSubcategory(ctx, store.CreateSubcategoryParams{
		CategoryID:      req.CategoryID,
		Slug:            slug,
		Title:           shape.Title,
		Description:     shape.Description,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		SortOrder:       req.SortOrder,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.logger.Error("creating subcategory", "error", err)
		WriteInternalError(w, "Failed to create subcategory")
		return
	}

	h.invalidateCatalog(ctx)
	WriteCreated(w, adminSubcategoryResponse(subcategory))
}

// UpdateAdminSubcategory handles PUT /api/admin/subcategories/{id}.
func (h *Handler) UpdateAdminSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "subcategory", func(id int64) (store.Subcategory, error) {
		return h.queries.GetSubcategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateSubcategoryRequest
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

	params := store.UpdateSubcategoryParams{
		ID:                existing.ID,
		CategoryID:        existing.CategoryID,
		Slug:              existing.Slug,
		Title:             shape.Title,
		Description:       shape.Description,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		SortOrder:         existing.SortOrder,
		IsActive:          existing.IsActive,
		UpdatedAt:         time.Now().UTC().Truncate(time.Second),
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	if req.CategoryID != nil {
		if _, err := h.queries.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			WriteValidationError(w, map[string]string{"category_id": "Category does not exist"})
			return
		}
		params.CategoryID = *req.CategoryID
	}
	if req.Slug != nil && *req.Slug != "" && *req.Slug != existing.Slug {
		exists, err := h.queries.SubcategorySlugExistsExcluding(ctx, *req.Slug, existing.ID)
		if err != nil {
			WriteInternalError(w, "Failed to check slug")
			return
		}
		if exists {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		}
		params.Slug = *req.Slug
	}
	if req.SortOrder != nil {
		params.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	subcategory, err := h.queries.UpdateSubcategory(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "subcategory", err)
		return
	}

	h.invalidateCatalog(ctx)
	WriteSuccess(w, adminSubcategoryResponse(subcategory), nil)
}

// DeleteAdminSubcategory handles DELETE /api/admin/subcategories/{id}.
// Certificates keep their category and lose the subcategory reference.
func (h *Handler) DeleteAdminSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subcategory, ok := requireEntityByID(h, w, r, "subcategory", func(id int64) (store.Subcategory, error) {
		return h.queries.GetSubcategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteSubcategory(ctx, subcategory.ID); err != nil {
		h.logger.Error("deleting subcategory", "id", subcategory.ID, "error", err)
		WriteInternalError(w, "Failed to delete subcategory")
		return
	}

	h.logger.Info("subcategory deleted", "category", "content", "id", subcategory.ID, "slug", subcategory.Slug)
	h.invalidateCatalog(ctx)
	w.WriteHeader(http.StatusNoContent)
}
