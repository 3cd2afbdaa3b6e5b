// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/handler"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// OrganizedCertificates handles GET /api/certificates/organized.
// Returns the certificate catalog grouped by category and subcategory,
// resolved for the request language. ?q= filters items by resolved title
// or description; filtered results bypass the cache.
func (h *Handler) OrganizedCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguageCode(r)
	query := r.URL.Query().Get("q")

	if query == "" && h.catalog != nil {
		organized, err := h.catalog.Get(ctx, lang, func() ([]content.OrganizedCategory, error) {
			return h.buildCatalog(ctx, lang, "")
		})
		if err != nil {
			h.logger.Error("building certificate catalog", "lang", lang, "error", err)
			WriteInternalError(w, "Failed to load certificates")
			return
		}
		WriteSuccess(w, organized, nil)
		return
	}

	organized, err := h.buildCatalog(ctx, lang, query)
	if err != nil {
		h.logger.Error("building certificate catalog", "lang", lang, "error", err)
		WriteInternalError(w, "Failed to load certificates")
		return
	}
	WriteSuccess(w, organized, nil)
}

// buildCatalog loads active categories, subcategories and certificates and
// organizes them for the language, optionally filtered by query.
func (h *Handler) buildCatalog(ctx context.Context, lang content.LanguageCode, query string) ([]content.OrganizedCategory, error) {
	categories, err := h.queries.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	subcategories, err := h.queries.ListActiveSubcategories(ctx)
	if err != nil {
		return nil, err
	}
	certificates, err := h.queries.ListActiveCertificates(ctx)
	if err != nil {
		return nil, err
	}

	orgCategories := make([]content.Category, 0, len(categories))
	for _, c := range categories {
		orgCategories = append(orgCategories, content.Category{
			ID:      c.ID,
			Slug:    c.Slug,
			Content: c.Content(),
		})
	}
	orgSubcategories := make([]content.Subcategory, 0, len(subcategories))
	for _, s := range subcategories {
		orgSubcategories = append(orgSubcategories, content.Subcategory{
			ID:         s.ID,
			CategoryID: s.CategoryID,
			Slug:       s.Slug,
			Content:    s.Content(),
		})
	}
	items := make([]content.Item, 0, len(certificates))
	for _, c := range certificates {
		item := content.Item{
			ID:         c.ID,
			CategoryID: c.CategoryID,
			PDFURL:     c.PDFURL,
			ImageURL:   c.ImageURL,
			Content:    c.Content(),
		}
		if c.SubcategoryID.Valid {
			subID := c.SubcategoryID.Int64
			item.SubcategoryID = &subID
		}
		items = append(items, item)
	}

	if query != "" {
		items = content.FilterItems(items, lang, query)
	}
	return content.Organize(orgCategories, orgSubcategories, items, lang), nil
}

// CategoryResponse is a public category in API responses.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SortOrder   int64  `json:"sort_order"`
}

// PublicCategories handles GET /api/categories. Returns active categories
// resolved for the request language.
func (h *Handler) PublicCategories(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)

	categories, err := h.queries.ListActiveCategories(r.Context())
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		entity := c.Content()
		responses = append(responses, CategoryResponse{
			ID:          c.ID,
			Slug:        c.Slug,
			Title:       content.ResolveTitle(entity, lang),
			Description: content.ResolveDescription(entity, lang),
			SortOrder:   c.SortOrder,
		})
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// NewsListItem is a published article in the public listing.
type NewsListItem struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// NewsDetailResponse is a published article with its rendered body.
type NewsDetailResponse struct {
	NewsListItem
	BodyHTML string `json:"body_html"`
}

// PublicNews handles GET /api/news. Returns published articles newest
// first with pagination.
func (h *Handler) PublicNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguageCode(r)

	page := handler.ParsePageParam(r)
	perPage := handler.ParsePerPageParam(r, handler.DefaultPerPage, handler.MaxPerPage)

	articles, err := h.queries.ListPublishedNews(ctx, store.ListNewsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("listing published news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNews(ctx, true)
	if err != nil {
		h.logger.Error("counting published news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	responses := make([]NewsListItem, 0, len(articles))
	for _, a := range articles {
		responses = append(responses, newsListItem(a, lang))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// PublicNewsDetail handles GET /api/news/{slug}. The markdown body is
// rendered to HTML and sanitized before it leaves the server.
func (h *Handler) PublicNewsDetail(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	slug := chi.URLParam(r, "slug")

	article, err := h.queries.GetPublishedNewsBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Article not found")
		} else {
			h.logger.Error("loading article", "slug", slug, "error", err)
			WriteInternalError(w, "Failed to load article")
		}
		return
	}

	bodyHTML, err := h.renderMarkdown(article.Body)
	if err != nil {
		h.logger.Error("rendering article body", "slug", slug, "error", err)
		WriteInternalError(w, "Failed to render article")
		return
	}

	WriteSuccess(w, NewsDetailResponse{
		NewsListItem: newsListItem(article, lang),
		BodyHTML:     bodyHTML,
	}, nil)
}

// renderMarkdown converts a markdown body to sanitized HTML.
func (h *Handler) renderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return h.sanitizer.Sanitize(buf.String()), nil
}

func newsListItem(a store.NewsArticle, lang content.LanguageCode) NewsListItem {
	entity := a.Content()
	item := NewsListItem{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       content.ResolveTitle(entity, lang),
		Description: content.ResolveDescription(entity, lang),
		ImageURL:    a.ImageURL,
	}
	if a.PublishedAt.Valid {
		published := a.PublishedAt.Time
		item.PublishedAt = &published
	}
	return item
}

// GalleryItemResponse is a public gallery entry.
type GalleryItemResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url"`
	SortOrder   int64  `json:"sort_order"`
}

// PublicGallery handles GET /api/gallery. Returns active gallery items in
// sort order, resolved for the request language.
func (h *Handler) PublicGallery(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)

	items, err := h.queries.ListActiveGalleryItems(r.Context())
	if err != nil {
		h.logger.Error("listing gallery", "error", err)
		WriteInternalError(w, "Failed to list gallery")
		return
	}

	responses := make([]GalleryItemResponse, 0, len(items))
	for _, item := range items {
		entity := item.Content()
		responses = append(responses, GalleryItemResponse{
			ID:          item.ID,
			Title:       content.ResolveTitle(entity, lang),
			Description: content.ResolveDescription(entity, lang),
			ImageURL:    item.ImageURL,
			SortOrder:   item.SortOrder,
		})
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// BrochureResponse is a public brochure entry.
type BrochureResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PDFURL      string `json:"pdf_url"`
	CategoryID  *int64 `json:"category_id,omitempty"`
	SortOrder   int64  `json:"sort_order"`
}

// PublicBrochures handles GET /api/brochures. Returns active brochures in
// sort order, resolved for the request language.
func (h *Handler) PublicBrochures(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)

	brochures, err := h.queries.ListActiveBrochures(r.Context())
	if err != nil {
		h.logger.Error("listing brochures", "error", err)
		WriteInternalError(w, "Failed to list brochures")
		return
	}

	responses := make([]BrochureResponse, 0, len(brochures))
	for _, b := range brochures {
		entity := b.Content()
		resp := BrochureResponse{
			ID:          b.ID,
			Title:       content.ResolveTitle(entity, lang),
			Description: content.ResolveDescription(entity, lang),
			PDFURL:      b.PDFURL,
			SortOrder:   b.SortOrder,
		}
		if b.CategoryID.Valid {
			categoryID := b.CategoryID.Int64
			resp.CategoryID = &categoryID
		}
		responses = append(responses, resp)
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// ActiveLanguageResponse is a public language entry.
type ActiveLanguageResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsDefault  bool   `json:"is_default"`
}

// PublicLanguages handles GET /api/languages. Returns the active site
// languages for the frontend language switcher.
func (h *Handler) PublicLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.languages.GetActive(r.Context())
	if err != nil {
		h.logger.Error("listing languages", "error", err)
		WriteInternalError(w, "Failed to list languages")
		return
	}

	responses := make([]ActiveLanguageResponse, 0, len(langs))
	for _, lang := range langs {
		responses = append(responses, ActiveLanguageResponse{
			Code:       lang.Code,
			Name:       lang.Name,
			NativeName: lang.NativeName,
			IsDefault:  lang.IsDefault,
		})
	}
	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}
