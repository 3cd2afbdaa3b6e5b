// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/store"
	"github.com/pipeplast/pipecms/internal/util"
)

// AdminNewsResponse is a news article in admin API responses. Body is the
// raw markdown source, not rendered HTML.
type AdminNewsResponse struct {
	ID           int64                  `json:"id"`
	Slug         string                 `json:"slug"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Body         string                 `json:"body"`
	Translations content.TranslationMap `json:"translations,omitempty"`
	FormState    FormPayload            `json:"form_state"`
	ImageURL     string                 `json:"image_url,omitempty"`
	IsPublished  bool                   `json:"is_published"`
	PublishAt    *time.Time             `json:"publish_at,omitempty"`
	PublishedAt  *time.Time             `json:"published_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func adminNewsResponse(a store.NewsArticle) AdminNewsResponse {
	resp := AdminNewsResponse{
		ID:           a.ID,
		Slug:         a.Slug,
		Title:        a.Title,
		Description:  a.Description,
		Body:         a.Body,
		Translations: a.Translations,
		FormState:    formStateResponse(a.Content()),
		ImageURL:     a.ImageURL,
		IsPublished:  a.IsPublished,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.PublishAt.Valid {
		at := a.PublishAt.Time
		resp.PublishAt = &at
	}
	if a.PublishedAt.Valid {
		at := a.PublishedAt.Time
		resp.PublishedAt = &at
	}
	return resp
}

// CreateNewsRequest is the admin news create payload.
type CreateNewsRequest struct {
	Slug        string      `json:"slug"`
	Form        FormPayload `json:"form"`
	Body        string      `json:"body"`
	ImageURL    string      `json:"image_url"`
	IsPublished bool        `json:"is_published"`
	PublishAt   *time.Time  `json:"publish_at"`
}

// UpdateNewsRequest is the admin news update payload. ClearPublishAt
// cancels a pending scheduled publication.
type UpdateNewsRequest struct {
	Slug           *string     `json:"slug"`
	Form           FormPayload `json:"form"`
	Body           *string     `json:"body"`
	ImageURL       *string     `json:"image_url"`
	IsPublished    *bool       `json:"is_published"`
	PublishAt      *time.Time  `json:"publish_at"`
	ClearPublishAt bool        `json:"clear_publish_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ListAdminNews handles GET /api/admin/news with pagination.
func (h *Handler) ListAdminNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	articles, err := h.queries.ListNews(ctx, store.ListNewsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("listing news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNews(ctx, false)
	if err != nil {
		h.logger.Error("counting news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	responses := make([]AdminNewsResponse, 0, len(articles))
	for _, a := range articles {
		responses = append(responses, adminNewsResponse(a))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetAdminNews handles GET /api/admin/news/{id}.
func (h *Handler) GetAdminNews(w http.ResponseWriter, r *http.Request) {
	article, ok := requireEntityByID(h, w, r, "article", func(id int64) (store.NewsArticle, error) {
		return h.queries.GetNewsByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, adminNewsResponse(article), nil)
}

// CreateAdminNews handles POST /api/admin/news.
func (h *Handler) CreateAdminNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	shape, fieldErrors := applyFormPayload(content.Entity{}, req.Form)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = util.Slugify(shape.Title)
	}
	exists, err := h.queries.NewsSlugExists(ctx, slug)
	if err != nil {
		h.logger.Error("checking news slug", "error", err)
		WriteInternalError(w, "Failed to create article")
		return
	}
	if exists {
		WriteValidationError(w, map[string]string{"slug": "Slug is already in use"})
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	params := store.CreateNewsParams{
		Slug:            slug,
		Title:           shape.Title,
		Description:     shape.Description,
		Body:            req.Body,
		Translations:    shape.Translations,
		DefaultLanguage: string(shape.DefaultLang()),
		ImageURL:        req.ImageURL,
		IsPublished:     req.IsPublished,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.PublishAt != nil {
		params.PublishAt = sql.NullTime{Time: req.PublishAt.UTC().Truncate(time.Second), Valid: true}
	}
	if req.IsPublished {
		params.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	article, err := h.queries.CreateNews(ctx, params)
	if err != nil {
		h.logger.Error("creating news", "error", err)
		WriteInternalError(w, "Failed to create article")
		return
	}
	WriteCreated(w, adminNewsResponse(article))
}

// UpdateAdminNews handles PUT /api/admin/news/{id}.
func (h *Handler) UpdateAdminNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(h, w, r, "article", func(id int64) (store.NewsArticle, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateNewsRequest
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

	now := time.Now().UTC().Truncate(time.Second)
	params := store.UpdateNewsParams{
		ID:                existing.ID,
		Slug:              existing.Slug,
		Title:             shape.Title,
		Description:       shape.Description,
		Body:              existing.Body,
		Translations:      shape.Translations,
		DefaultLanguage:   string(shape.DefaultLang()),
		ImageURL:          existing.ImageURL,
		IsPublished:       existing.IsPublished,
		PublishAt:         existing.PublishAt,
		PublishedAt:       existing.PublishedAt,
		UpdatedAt:         now,
		ExpectedUpdatedAt: req.UpdatedAt,
	}
	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug == "" {
			WriteValidationError(w, map[string]string{"slug": "Slug cannot be empty"})
			return
		}
		if slug != existing.Slug {
			exists, err := h.queries.NewsSlugExistsExcluding(ctx, slug, existing.ID)
			if err != nil {
				h.logger.Error("checking news slug", "error", err)
				WriteInternalError(w, "Failed to update article")
				return
			}
			if exists {
				WriteValidationError(w, map[string]string{"slug": "Slug is already in use"})
				return
			}
		}
		params.Slug = slug
	}
	if req.Body != nil {
		params.Body = *req.Body
	}
	if req.ImageURL != nil {
		params.ImageURL = *req.ImageURL
	}
	switch {
	case req.ClearPublishAt:
		params.PublishAt = sql.NullTime{}
	case req.PublishAt != nil:
		params.PublishAt = sql.NullTime{Time: req.PublishAt.UTC().Truncate(time.Second), Valid: true}
	}
	if req.IsPublished != nil {
		params.IsPublished = *req.IsPublished
		if *req.IsPublished && !existing.PublishedAt.Valid {
			params.PublishedAt = sql.NullTime{Time: now, Valid: true}
		}
	}

	article, err := h.queries.UpdateNews(ctx, params)
	if err != nil {
		h.writeUpdateError(w, "article", err)
		return
	}
	WriteSuccess(w, adminNewsResponse(article), nil)
}

// PublishAdminNews handles POST /api/admin/news/{id}/publish. It publishes
// the article immediately, regardless of any pending schedule.
func (h *Handler) PublishAdminNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(h, w, r, "article", func(id int64) (store.NewsArticle, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := h.queries.PublishNews(ctx, article.ID, now); err != nil {
		h.logger.Error("publishing news", "id", article.ID, "error", err)
		WriteInternalError(w, "Failed to publish article")
		return
	}

	published, err := h.queries.GetNewsByID(ctx, article.ID)
	if err != nil {
		h.logger.Error("reloading news", "id", article.ID, "error", err)
		WriteInternalError(w, "Failed to publish article")
		return
	}
	h.logger.Info("article published", "category", "content", "slug", published.Slug)
	WriteSuccess(w, adminNewsResponse(published), nil)
}

// DeleteAdminNews handles DELETE /api/admin/news/{id}.
func (h *Handler) DeleteAdminNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(h, w, r, "article", func(id int64) (store.NewsArticle, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteNews(ctx, article.ID); err != nil {
		h.logger.Error("deleting news", "id", article.ID, "error", err)
		WriteInternalError(w, "Failed to delete article")
		return
	}
	h.logger.Info("article deleted", "category", "content", "slug", article.Slug)
	w.WriteHeader(http.StatusNoContent)
}
