// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
)

// Optimistic updates: every Update* method here matches both id and the
// updated_at value the editor loaded. A zero-row match with an existing row
// means someone else saved first and the caller gets ErrStaleUpdate.

// ============================================================================
// Categories
// ============================================================================

const categoryColumns = "id, slug, title, description, translations, default_language, sort_order, is_active, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.Translations,
		&c.DefaultLanguage, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) collectCategories(rows *sql.Rows) ([]Category, error) {
	defer rows.Close()
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCategories returns all categories ordered for display.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectCategories(rows)
}

// ListActiveCategories returns active categories ordered for display.
func (q *Queries) ListActiveCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE is_active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectCategories(rows)
}

// GetCategoryByID returns a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
}

// GetCategoryBySlug returns a category by slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE slug = ?", slug))
}

// CategorySlugExists reports whether a slug is taken.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// CategorySlugExistsExcluding reports whether another category uses the slug.
func (q *Queries) CategorySlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?", slug, id).Scan(&n)
	return n > 0, err
}

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
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

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, p CreateCategoryParams) (Category, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (slug, title, description, translations, default_language, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.SortOrder, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategoryParams holds the fields for UpdateCategory. ExpectedUpdatedAt
// is the updated_at value the editor loaded.
type UpdateCategoryParams struct {
	ID                int64
	Slug              string
	Title             string
	Description       string
	Translations      content.TranslationMap
	DefaultLanguage   string
	SortOrder         int64
	IsActive          bool
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateCategory updates a category guarded by the optimistic token.
func (q *Queries) UpdateCategory(ctx context.Context, p UpdateCategoryParams) (Category, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE categories
		SET slug = ?, title = ?, description = ?, translations = ?, default_language = ?,
		    sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.Slug, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.SortOrder, p.IsActive, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return Category{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Category{}, err
	}
	if n == 0 {
		return Category{}, q.guardStale(ctx, "categories", p.ID)
	}
	return q.GetCategoryByID(ctx, p.ID)
}

// DeleteCategory removes a category; subcategories and certificates cascade.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// Subcategories
// ============================================================================

const subcategoryColumns = "id, category_id, slug, title, description, translations, default_language, sort_order, is_active, created_at, updated_at"

func scanSubcategory(row interface{ Scan(...any) error }) (Subcategory, error) {
	var s Subcategory
	err := row.Scan(&s.ID, &s.CategoryID, &s.Slug, &s.Title, &s.Description, &s.Translations,
		&s.DefaultLanguage, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) collectSubcategories(rows *sql.Rows) ([]Subcategory, error) {
	defer rows.Close()
	var out []Subcategory
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListSubcategories returns all subcategories ordered for display.
func (q *Queries) ListSubcategories(ctx context.Context) ([]Subcategory, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectSubcategories(rows)
}

// ListActiveSubcategories returns active subcategories ordered for display.
func (q *Queries) ListActiveSubcategories(ctx context.Context) ([]Subcategory, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories WHERE is_active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectSubcategories(rows)
}

// ListSubcategoriesByCategory returns a category's subcategories.
func (q *Queries) ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]Subcategory, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories WHERE category_id = ? ORDER BY sort_order, id",
		categoryID)
	if err != nil {
		return nil, err
	}
	return q.collectSubcategories(rows)
}

// GetSubcategoryByID returns a subcategory by primary key.
func (q *Queries) GetSubcategoryByID(ctx context.Context, id int64) (Subcategory, error) {
	return scanSubcategory(q.db.QueryRowContext(ctx,
		"SELECT "+subcategoryColumns+" FROM subcategories WHERE id = ?", id))
}

// SubcategorySlugExists reports whether a slug is taken.
func (q *Queries) SubcategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subcategories WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// SubcategorySlugExistsExcluding reports whether another subcategory uses the slug.
func (q *Queries) SubcategorySlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subcategories WHERE slug = ? AND id != ?", slug, id).Scan(&n)
	return n > 0, err
}

// CreateSubcategoryParams holds the fields for CreateSubcategory.
type CreateSubcategoryParams struct {
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

// CreateSubcategory inserts a subcategory and returns the stored row.
func (q *Queries) CreateSubcategory(ctx context.Context, p CreateSubcategoryParams) (Subcategory, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO subcategories (category_id, slug, title, description, translations, default_language, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Slug, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.SortOrder, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Subcategory{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Subcategory{}, err
	}
	return q.GetSubcategoryByID(ctx, id)
}

// UpdateSubcategoryParams holds the fields for UpdateSubcategory.
type UpdateSubcategoryParams struct {
	ID                int64
	CategoryID        int64
	Slug              string
	Title             string
	Description       string
	Translations      content.TranslationMap
	DefaultLanguage   string
	SortOrder         int64
	IsActive          bool
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateSubcategory updates a subcategory guarded by the optimistic token.
func (q *Queries) UpdateSubcategory(ctx context.Context, p UpdateSubcategoryParams) (Subcategory, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE subcategories
		SET category_id = ?, slug = ?, title = ?, description = ?, translations = ?,
		    default_language = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.CategoryID, p.Slug, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.SortOrder, p.IsActive, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return Subcategory{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Subcategory{}, err
	}
	if n == 0 {
		return Subcategory{}, q.guardStale(ctx, "subcategories", p.ID)
	}
	return q.GetSubcategoryByID(ctx, p.ID)
}

// DeleteSubcategory removes a subcategory; certificates keep their category
// but lose the subcategory reference.
func (q *Queries) DeleteSubcategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM subcategories WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// Certificates
// ============================================================================

const certificateColumns = "id, category_id, subcategory_id, title, description, translations, default_language, pdf_url, image_url, sort_order, is_active, created_at, updated_at"

func scanCertificate(row interface{ Scan(...any) error }) (Certificate, error) {
	var c Certificate
	err := row.Scan(&c.ID, &c.CategoryID, &c.SubcategoryID, &c.Title, &c.Description,
		&c.Translations, &c.DefaultLanguage, &c.PDFURL, &c.ImageURL,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) collectCertificates(rows *sql.Rows) ([]Certificate, error) {
	defer rows.Close()
	var out []Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCertificates returns all certificates ordered for display.
func (q *Queries) ListCertificates(ctx context.Context) ([]Certificate, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+certificateColumns+" FROM certificates ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectCertificates(rows)
}

// ListActiveCertificates returns active certificates ordered for display.
func (q *Queries) ListActiveCertificates(ctx context.Context) ([]Certificate, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+certificateColumns+" FROM certificates WHERE is_active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectCertificates(rows)
}

// GetCertificateByID returns a certificate by primary key.
func (q *Queries) GetCertificateByID(ctx context.Context, id int64) (Certificate, error) {
	return scanCertificate(q.db.QueryRowContext(ctx,
		"SELECT "+certificateColumns+" FROM certificates WHERE id = ?", id))
}

// CreateCertificateParams holds the fields for CreateCertificate.
type CreateCertificateParams struct {
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

// CreateCertificate inserts a certificate and returns the stored row.
func (q *Queries) CreateCertificate(ctx context.Context, p CreateCertificateParams) (Certificate, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO certificates (category_id, subcategory_id, title, description, translations, default_language, pdf_url, image_url, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.SubcategoryID, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.PDFURL, p.ImageURL, p.SortOrder, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Certificate{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Certificate{}, err
	}
	return q.GetCertificateByID(ctx, id)
}

// UpdateCertificateParams holds the fields for UpdateCertificate.
type UpdateCertificateParams struct {
	ID                int64
	CategoryID        int64
	SubcategoryID     sql.NullInt64
	Title             string
	Description       string
	Translations      content.TranslationMap
	DefaultLanguage   string
	PDFURL            string
	ImageURL          string
	SortOrder         int64
	IsActive          bool
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateCertificate updates a certificate guarded by the optimistic token.
func (q *Queries) UpdateCertificate(ctx context.Context, p UpdateCertificateParams) (Certificate, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE certificates
		SET category_id = ?, subcategory_id = ?, title = ?, description = ?, translations = ?,
		    default_language = ?, pdf_url = ?, image_url = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.CategoryID, p.SubcategoryID, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.PDFURL, p.ImageURL, p.SortOrder, p.IsActive, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return Certificate{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Certificate{}, err
	}
	if n == 0 {
		return Certificate{}, q.guardStale(ctx, "certificates", p.ID)
	}
	return q.GetCertificateByID(ctx, p.ID)
}

// DeleteCertificate removes a certificate.
func (q *Queries) DeleteCertificate(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM certificates WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// News
// ============================================================================

const newsColumns = "id, slug, title, description, body, translations, default_language, image_url, is_published, publish_at, published_at, created_at, updated_at"

func scanNewsArticle(row interface{ Scan(...any) error }) (NewsArticle, error) {
	var a NewsArticle
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.Translations,
		&a.DefaultLanguage, &a.ImageURL, &a.IsPublished, &a.PublishAt, &a.PublishedAt,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (q *Queries) collectNews(rows *sql.Rows) ([]NewsArticle, error) {
	defer rows.Close()
	var out []NewsArticle
	for rows.Next() {
		a, err := scanNewsArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListNewsParams holds paging for ListNews.
type ListNewsParams struct {
	Limit  int64
	Offset int64
}

// ListNews returns all articles newest first.
func (q *Queries) ListNews(ctx context.Context, p ListNewsParams) ([]NewsArticle, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+newsColumns+" FROM news ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return q.collectNews(rows)
}

// ListPublishedNews returns published articles newest first.
func (q *Queries) ListPublishedNews(ctx context.Context, p ListNewsParams) ([]NewsArticle, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news
		WHERE is_published = 1
		ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?`,
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return q.collectNews(rows)
}

// ListDueNews returns unpublished articles whose publish_at has passed.
func (q *Queries) ListDueNews(ctx context.Context, now time.Time) ([]NewsArticle, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news
		WHERE is_published = 0 AND publish_at IS NOT NULL AND publish_at <= ?
		ORDER BY publish_at, id`, now)
	if err != nil {
		return nil, err
	}
	return q.collectNews(rows)
}

// CountNews returns the number of articles, optionally published only.
func (q *Queries) CountNews(ctx context.Context, publishedOnly bool) (int64, error) {
	query := "SELECT COUNT(*) FROM news"
	if publishedOnly {
		query += " WHERE is_published = 1"
	}
	var n int64
	err := q.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

// GetNewsByID returns an article by primary key.
func (q *Queries) GetNewsByID(ctx context.Context, id int64) (NewsArticle, error) {
	return scanNewsArticle(q.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE id = ?", id))
}

// GetNewsBySlug returns an article by slug.
func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (NewsArticle, error) {
	return scanNewsArticle(q.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE slug = ?", slug))
}

// GetPublishedNewsBySlug returns a published article by slug.
func (q *Queries) GetPublishedNewsBySlug(ctx context.Context, slug string) (NewsArticle, error) {
	return scanNewsArticle(q.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE slug = ? AND is_published = 1", slug))
}

// NewsSlugExists reports whether a slug is taken.
func (q *Queries) NewsSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// NewsSlugExistsExcluding reports whether another article uses the slug.
func (q *Queries) NewsSlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news WHERE slug = ? AND id != ?", slug, id).Scan(&n)
	return n > 0, err
}

// CreateNewsParams holds the fields for CreateNews.
type CreateNewsParams struct {
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

// CreateNews inserts an article and returns the stored row.
func (q *Queries) CreateNews(ctx context.Context, p CreateNewsParams) (NewsArticle, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO news (slug, title, description, body, translations, default_language, image_url, is_published, publish_at, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Description, p.Body, p.Translations, p.DefaultLanguage,
		p.ImageURL, p.IsPublished, p.PublishAt, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return NewsArticle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NewsArticle{}, err
	}
	return q.GetNewsByID(ctx, id)
}

// UpdateNewsParams holds the fields for UpdateNews.
type UpdateNewsParams struct {
	ID                int64
	Slug              string
	Title             string
	Description       string
	Body              string
	Translations      content.TranslationMap
	DefaultLanguage   string
	ImageURL          string
	IsPublished       bool
	PublishAt         sql.NullTime
	PublishedAt       sql.NullTime
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateNews updates an article guarded by the optimistic token.
func (q *Queries) UpdateNews(ctx context.Context, p UpdateNewsParams) (NewsArticle, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE news
		SET slug = ?, title = ?, description = ?, body = ?, translations = ?, default_language = ?,
		    image_url = ?, is_published = ?, publish_at = ?, published_at = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.Slug, p.Title, p.Description, p.Body, p.Translations, p.DefaultLanguage,
		p.ImageURL, p.IsPublished, p.PublishAt, p.PublishedAt, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return NewsArticle{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewsArticle{}, err
	}
	if n == 0 {
		return NewsArticle{}, q.guardStale(ctx, "news", p.ID)
	}
	return q.GetNewsByID(ctx, p.ID)
}

// PublishNews marks an article published at the given instant. Used by both
// the admin publish action and the scheduler; bypasses the optimistic token
// since it touches only the publish flags.
func (q *Queries) PublishNews(ctx context.Context, id int64, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE news SET is_published = 1, published_at = ?, updated_at = ?
		WHERE id = ? AND is_published = 0`, at, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteNews removes an article.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// Gallery
// ============================================================================

const galleryColumns = "id, title, description, translations, default_language, image_url, sort_order, is_active, created_at, updated_at"

func scanGalleryItem(row interface{ Scan(...any) error }) (GalleryItem, error) {
	var g GalleryItem
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Translations, &g.DefaultLanguage,
		&g.ImageURL, &g.SortOrder, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (q *Queries) collectGalleryItems(rows *sql.Rows) ([]GalleryItem, error) {
	defer rows.Close()
	var out []GalleryItem
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListGalleryItems returns all gallery items ordered for display.
func (q *Queries) ListGalleryItems(ctx context.Context) ([]GalleryItem, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_items ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectGalleryItems(rows)
}

// ListActiveGalleryItems returns active gallery items ordered for display.
func (q *Queries) ListActiveGalleryItems(ctx context.Context) ([]GalleryItem, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_items WHERE is_active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectGalleryItems(rows)
}

// GetGalleryItemByID returns a gallery item by primary key.
func (q *Queries) GetGalleryItemByID(ctx context.Context, id int64) (GalleryItem, error) {
	return scanGalleryItem(q.db.QueryRowContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_items WHERE id = ?", id))
}

// CreateGalleryItemParams holds the fields for CreateGalleryItem.
type CreateGalleryItemParams struct {
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

// CreateGalleryItem inserts a gallery item and returns the stored row.
func (q *Queries) CreateGalleryItem(ctx context.Context, p CreateGalleryItemParams) (GalleryItem, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO gallery_items (title, description, translations, default_language, image_url, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.ImageURL, p.SortOrder, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return GalleryItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return GalleryItem{}, err
	}
	return q.GetGalleryItemByID(ctx, id)
}

// UpdateGalleryItemParams holds the fields for UpdateGalleryItem.
type UpdateGalleryItemParams struct {
	ID                int64
	Title             string
	Description       string
	Translations      content.TranslationMap
	DefaultLanguage   string
	ImageURL          string
	SortOrder         int64
	IsActive          bool
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateGalleryItem updates a gallery item guarded by the optimistic token.
func (q *Queries) UpdateGalleryItem(ctx context.Context, p UpdateGalleryItemParams) (GalleryItem, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE gallery_items
		SET title = ?, description = ?, translations = ?, default_language = ?,
		    image_url = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.ImageURL, p.SortOrder, p.IsActive, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return GalleryItem{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return GalleryItem{}, err
	}
	if n == 0 {
		return GalleryItem{}, q.guardStale(ctx, "gallery_items", p.ID)
	}
	return q.GetGalleryItemByID(ctx, p.ID)
}

// DeleteGalleryItem removes a gallery item.
func (q *Queries) DeleteGalleryItem(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM gallery_items WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ============================================================================
// Brochures
// ============================================================================

const brochureColumns = "id, category_id, title, description, translations, default_language, pdf_url, sort_order, is_active, created_at, updated_at"

func scanBrochure(row interface{ Scan(...any) error }) (Brochure, error) {
	var b Brochure
	err := row.Scan(&b.ID, &b.CategoryID, &b.Title, &b.Description, &b.Translations,
		&b.DefaultLanguage, &b.PDFURL, &b.SortOrder, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (q *Queries) collectBrochures(rows *sql.Rows) ([]Brochure, error) {
	defer rows.Close()
	var out []Brochure
	for rows.Next() {
		b, err := scanBrochure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListBrochures returns all brochures ordered for display.
func (q *Queries) ListBrochures(ctx context.Context) ([]Brochure, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+brochureColumns+" FROM brochures ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectBrochures(rows)
}

// ListActiveBrochures returns active brochures ordered for display.
func (q *Queries) ListActiveBrochures(ctx context.Context) ([]Brochure, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+brochureColumns+" FROM brochures WHERE is_active = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, err
	}
	return q.collectBrochures(rows)
}

// GetBrochureByID returns a brochure by primary key.
func (q *Queries) GetBrochureByID(ctx context.Context, id int64) (Brochure, error) {
	return scanBrochure(q.db.QueryRowContext(ctx,
		"SELECT "+brochureColumns+" FROM brochures WHERE id = ?", id))
}

// CreateBrochureParams holds the fields for CreateBrochure.
type CreateBrochureParams struct {
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

// CreateBrochure inserts a brochure and returns the stored row.
func (q *Queries) CreateBrochure(ctx context.Context, p CreateBrochureParams) (Brochure, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO brochures (category_id, title, description, translations, default_language, pdf_url, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.PDFURL, p.SortOrder, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Brochure{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Brochure{}, err
	}
	return q.GetBrochureByID(ctx, id)
}

// UpdateBrochureParams holds the fields for UpdateBrochure.
type UpdateBrochureParams struct {
	ID                int64
	CategoryID        sql.NullInt64
	Title             string
	Description       string
	Translations      content.TranslationMap
	DefaultLanguage   string
	PDFURL            string
	SortOrder         int64
	IsActive          bool
	UpdatedAt         time.Time
	ExpectedUpdatedAt time.Time
}

// UpdateBrochure updates a brochure guarded by the optimistic token.
func (q *Queries) UpdateBrochure(ctx context.Context, p UpdateBrochureParams) (Brochure, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE brochures
		SET category_id = ?, title = ?, description = ?, translations = ?, default_language = ?,
		    pdf_url = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.CategoryID, p.Title, p.Description, p.Translations, p.DefaultLanguage,
		p.PDFURL, p.SortOrder, p.IsActive, p.UpdatedAt, p.ID, p.ExpectedUpdatedAt)
	if err != nil {
		return Brochure{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Brochure{}, err
	}
	if n == 0 {
		return Brochure{}, q.guardStale(ctx, "brochures", p.ID)
	}
	return q.GetBrochureByID(ctx, p.ID)
}

// DeleteBrochure removes a brochure.
func (q *Queries) DeleteBrochure(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM brochures WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
