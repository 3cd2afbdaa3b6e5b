// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
)

// Language is a row of the languages table.
type Language struct {
	ID         int64
	Code       string
	Name       string
	NativeName string
	IsDefault  bool
	IsActive   bool
	Direction  string
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// User is a row of the users table.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// Category is a row of the categories table.
type Category struct {
	ID              int64
	Slug            string
	Title           string
	Description     string
	Translations    content.TranslationMap
	DefaultLanguage string
	SortOrder       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the category.
func (c Category) Content() content.Entity {
	return content.Entity{
		Title:        c.Title,
		Description:  c.Description,
		Translations: c.Translations,
		Default:      content.LanguageCode(c.DefaultLanguage),
	}
}

// Subcategory is a row of the subcategories table.
type Subcategory struct {
	ID              int64
	CategoryID      int64
	Slug            string
	Title           string
	Description     string
	Translations    content.TranslationMap
	DefaultLanguage string
	SortOrder       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the subcategory.
func (s Subcategory) Content() content.Entity {
	return content.Entity{
		Title:        s.Title,
		Description:  s.Description,
		Translations: s.Translations,
		Default:      content.LanguageCode(s.DefaultLanguage),
	}
}

// Certificate is a row of the certificates table.
type Certificate struct {
	ID              int64
	CategoryID      int64
	SubcategoryID   sql.NullInt64
	Title           string
	Description     string
	Translations    content.TranslationMap
	DefaultLanguage string
	PDFURL          string
	ImageURL        string
	SortOrder       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the certificate.
func (c Certificate) Content() content.Entity {
	return content.Entity{
		Title:        c.Title,
		Description:  c.Description,
		Translations: c.Translations,
		Default:      content.LanguageCode(c.DefaultLanguage),
	}
}

// NewsArticle is a row of the news table.
type NewsArticle struct {
	ID              int64
	Slug            string
	Title           string
	Description     string
	Body            string
	Translations    content.TranslationMap
	DefaultLanguage string
	ImageURL        string
	IsPublished     bool
	PublishAt       sql.NullTime
	PublishedAt     sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the article.
func (n NewsArticle) Content() content.Entity {
	return content.Entity{
		Title:        n.Title,
		Description:  n.Description,
		Translations: n.Translations,
		Default:      content.LanguageCode(n.DefaultLanguage),
	}
}

// GalleryItem is a row of the gallery_items table.
type GalleryItem struct {
	ID              int64
	Title           string
	Description     string
	Translations    content.TranslationMap
	DefaultLanguage string
	ImageURL        string
	SortOrder       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the gallery item.
func (g GalleryItem) Content() content.Entity {
	return content.Entity{
		Title:        g.Title,
		Description:  g.Description,
		Translations: g.Translations,
		Default:      content.LanguageCode(g.DefaultLanguage),
	}
}

// Brochure is a row of the brochures table.
type Brochure struct {
	ID              int64
	CategoryID      sql.NullInt64
	Title           string
	Description     string
	Translations    content.TranslationMap
	DefaultLanguage string
	PDFURL          string
	SortOrder       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content returns the translation-relevant view of the brochure.
func (b Brochure) Content() content.Entity {
	return content.Entity{
		Title:        b.Title,
		Description:  b.Description,
		Translations: b.Translations,
		Default:      content.LanguageCode(b.DefaultLanguage),
	}
}

// ContactMessage is a row of the contact_messages table.
type ContactMessage struct {
	ID        int64
	Reference string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// JobApplication is a row of the job_applications table.
type JobApplication struct {
	ID        int64
	Reference string
	Name      string
	Email     string
	Phone     string
	Position  string
	Message   string
	CVURL     string
	IsRead    bool
	CreatedAt time.Time
}

// EmailSettings is the single row of the email_settings table.
type EmailSettings struct {
	ID          int64
	Provider    string
	APIKey      string
	SenderEmail string
	SenderName  string
	NotifyTo    string
	UpdatedAt   time.Time
}
