// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/pipeplast/pipecms/internal/seo"
	"github.com/pipeplast/pipecms/internal/store"
)

// staticSitemapPaths are the fixed site pages advertised to crawlers.
var staticSitemapPaths = []string{
	"/products",
	"/certificates",
	"/news",
	"/gallery",
	"/contact",
}

// Sitemap serves sitemap.xml covering the homepage, static pages,
// active product categories and published news.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	builder := seo.NewSitemapBuilder(h.siteURL)
	builder.AddHomepage()
	for _, path := range staticSitemapPaths {
		builder.AddStatic(path)
	}

	categories, err := h.queries.ListActiveCategories(ctx)
	if err != nil {
		h.logger.Error("listing categories for sitemap", "error", err)
		WriteInternalError(w, "Failed to generate sitemap")
		return
	}
	for _, cat := range categories {
		builder.AddProductCategory(cat.Slug, cat.UpdatedAt)
	}

	articles, err := h.queries.ListPublishedNews(ctx, store.ListNewsParams{Limit: 500})
	if err != nil {
		h.logger.Error("listing news for sitemap", "error", err)
		WriteInternalError(w, "Failed to generate sitemap")
		return
	}
	for _, article := range articles {
		if article.PublishedAt.Valid {
			builder.AddArticle(article.Slug, article.PublishedAt.Time)
		}
	}

	body, err := builder.Build()
	if err != nil {
		h.logger.Error("building sitemap", "error", err)
		WriteInternalError(w, "Failed to generate sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// RobotsTxt serves robots.txt. The JSON API is excluded from crawling.
func (h *Handler) RobotsTxt(w http.ResponseWriter, _ *http.Request) {
	body := seo.GenerateRobots(seo.RobotsConfig{SiteURL: h.siteURL})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
