// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "strings"

// Category is the organizer-side view of a product category.
type Category struct {
	ID      int64
	Slug    string
	Content Entity
}

// Subcategory is the organizer-side view of a subcategory.
type Subcategory struct {
	ID         int64
	CategoryID int64
	Slug       string
	Content    Entity
}

// Item is the organizer-side view of a groupable content item, typically a
// certificate. SubcategoryID is nil for items attached directly to the
// category.
type Item struct {
	ID            int64
	CategoryID    int64
	SubcategoryID *int64
	PDFURL        string
	ImageURL      string
	Content       Entity
}

// OrganizedItem is an item with its fields resolved for the display language.
type OrganizedItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// OrganizedSubcategory groups the items belonging to one subcategory.
type OrganizedSubcategory struct {
	ID           int64           `json:"id"`
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Certificates []OrganizedItem `json:"certificates"`
}

// OrganizedCategory is one entry of the organized listing. Exactly one of
// Subsections and Certificates is populated: when a category has subsections
// with matching items, loose items are not listed again at the top level.
type OrganizedCategory struct {
	ID           int64                  `json:"id"`
	Slug         string                 `json:"slug"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Subsections  []OrganizedSubcategory `json:"subsections,omitempty"`
	Certificates []OrganizedItem        `json:"certificates,omitempty"`
}

// Organize groups a flat item list under categories and subcategories for
// display in language lang.
//
// Per category: every subcategory with at least one matching item becomes a
// subsection holding those items. If any subsection qualifies, the category
// lists only subsections; otherwise it lists the items that carry no
// subcategory reference, so an item is never shown both standalone and under
// a subsection. Categories left with neither subsections nor items are
// dropped entirely.
//
// Input order of categories and subcategories is preserved. Sorting by
// sort_order is the producer's responsibility; Organize does not re-sort.
// Inputs are never mutated, so calling twice on the same slices yields
// structurally equal output.
func Organize(categories []Category, subcategories []Subcategory, items []Item, lang LanguageCode) []OrganizedCategory {
	itemsByCategory := make(map[int64][]Item)
	itemsBySubcategory := make(map[int64][]Item)
	for _, it := range items {
		if it.SubcategoryID != nil {
			itemsBySubcategory[*it.SubcategoryID] = append(itemsBySubcategory[*it.SubcategoryID], it)
		}
		itemsByCategory[it.CategoryID] = append(itemsByCategory[it.CategoryID], it)
	}

	subsByCategory := make(map[int64][]Subcategory)
	for _, sub := range subcategories {
		subsByCategory[sub.CategoryID] = append(subsByCategory[sub.CategoryID], sub)
	}

	result := make([]OrganizedCategory, 0, len(categories))
	for _, cat := range categories {
		entry := OrganizedCategory{
			ID:          cat.ID,
			Slug:        cat.Slug,
			Title:       ResolveTitle(cat.Content, lang),
			Description: ResolveDescription(cat.Content, lang),
		}

		for _, sub := range subsByCategory[cat.ID] {
			matched := itemsBySubcategory[sub.ID]
			if len(matched) == 0 {
				continue
			}
			entry.Subsections = append(entry.Subsections, OrganizedSubcategory{
				ID:           sub.ID,
				Slug:         sub.Slug,
				Title:        ResolveTitle(sub.Content, lang),
				Certificates: resolveItems(matched, lang),
			})
		}

		if len(entry.Subsections) == 0 {
			var loose []Item
			for _, it := range itemsByCategory[cat.ID] {
				if it.SubcategoryID == nil {
					loose = append(loose, it)
				}
			}
			entry.Certificates = resolveItems(loose, lang)
		}

		if len(entry.Subsections) == 0 && len(entry.Certificates) == 0 {
			continue
		}
		result = append(result, entry)
	}

	return result
}

// resolveItems maps items to their language-resolved display shape.
func resolveItems(items []Item, lang LanguageCode) []OrganizedItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]OrganizedItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrganizedItem{
			ID:          it.ID,
			Title:       ResolveTitle(it.Content, lang),
			Description: ResolveDescription(it.Content, lang),
			PDFURL:      it.PDFURL,
			ImageURL:    it.ImageURL,
		})
	}
	return out
}

// MatchQuery reports whether the entity's resolved title or description
// contains the search term, case-insensitively. An empty term matches
// everything.
func MatchQuery(e Entity, lang LanguageCode, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(ResolveTitle(e, lang)), q) {
		return true
	}
	return strings.Contains(strings.ToLower(ResolveDescription(e, lang)), q)
}

// FilterItems returns the items whose resolved fields match the search term.
// The input slice is not modified. A term matching nothing yields an empty,
// non-nil slice so callers can distinguish "no results" from "not filtered".
func FilterItems(items []Item, lang LanguageCode, query string) []Item {
	if query == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if MatchQuery(it.Content, lang, query) {
			out = append(out, it)
		}
	}
	return out
}
