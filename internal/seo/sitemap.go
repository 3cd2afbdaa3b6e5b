// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo generates the sitemap and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder assembles sitemap XML from site content.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder rooted at siteURL. A trailing
// slash on siteURL is dropped.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddStatic adds a fixed site page (products, gallery, contact).
func (b *SitemapBuilder) AddStatic(path string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.7",
	})
}

// AddProductCategory adds a product category page to the sitemap.
func (b *SitemapBuilder) AddProductCategory(slug string, updatedAt time.Time) {
	url := SitemapURL{
		Loc:        b.siteURL + "/products/" + slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !updatedAt.IsZero() {
		url.LastMod = updatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddArticle adds a published news article to the sitemap.
func (b *SitemapBuilder) AddArticle(slug string, publishedAt time.Time) {
	url := SitemapURL{
		Loc:        b.siteURL + "/news/" + slug,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.6",
	}
	if !publishedAt.IsZero() {
		url.LastMod = publishedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// Build generates the sitemap XML document.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	body, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
