package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/i18n"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// requestWithLanguage places a language code into the request context the
// way the language middleware does.
func requestWithLanguage(r *http.Request, code string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyLanguageCode, code)
	return r.WithContext(ctx)
}

func TestOrganizedCertificates(t *testing.T) {
	db, h := testSetup(t)

	category := createTestCategory(t, db, "pressure-pipes")
	createTestCertificate(t, db, category.ID, "EN 12201 Compliance")
	createTestCertificate(t, db, category.ID, "ISO 9001")

	// Empty category should not appear.
	createTestCategory(t, db, "fittings")

	req := newGetRequest(t, "/api/certificates/organized", nil)
	w := executeHandler(t, h.OrganizedCertificates, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	organized := unmarshalData[[]content.OrganizedCategory](t, w)
	if len(organized) != 1 {
		t.Fatalf("got %d categories, want 1", len(organized))
	}
	if organized[0].Slug != "pressure-pipes" {
		t.Errorf("slug = %q, want pressure-pipes", organized[0].Slug)
	}
	if len(organized[0].Certificates) != 2 {
		t.Errorf("got %d certificates, want 2", len(organized[0].Certificates))
	}
}

func TestOrganizedCertificatesSearch(t *testing.T) {
	db, h := testSetup(t)

	category := createTestCategory(t, db, "pressure-pipes")
	createTestCertificate(t, db, category.ID, "EN 12201 Compliance")
	createTestCertificate(t, db, category.ID, "ISO 9001")

	req := newGetRequest(t, "/api/certificates/organized?q=iso", nil)
	w := executeHandler(t, h.OrganizedCertificates, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	organized := unmarshalData[[]content.OrganizedCategory](t, w)
	if len(organized) != 1 || len(organized[0].Certificates) != 1 {
		t.Fatalf("unexpected search result: %+v", organized)
	}
	if organized[0].Certificates[0].Title != "ISO 9001" {
		t.Errorf("title = %q, want ISO 9001", organized[0].Certificates[0].Title)
	}
}

func TestOrganizedCertificatesCached(t *testing.T) {
	db, h := testSetup(t)

	category := createTestCategory(t, db, "pressure-pipes")
	createTestCertificate(t, db, category.ID, "ISO 9001")

	req := newGetRequest(t, "/api/certificates/organized", nil)
	w := executeHandler(t, h.OrganizedCertificates, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	// A direct DB insert is invisible until the cache is invalidated.
	createTestCertificate(t, db, category.ID, "ISO 14001")

	w = executeHandler(t, h.OrganizedCertificates, newGetRequest(t, "/api/certificates/organized", nil))
	organized := unmarshalData[[]content.OrganizedCategory](t, w)
	if got := len(organized[0].Certificates); got != 1 {
		t.Fatalf("cached catalog has %d certificates, want 1", got)
	}

	h.invalidateCatalog(context.Background())

	w = executeHandler(t, h.OrganizedCertificates, newGetRequest(t, "/api/certificates/organized", nil))
	organized = unmarshalData[[]content.OrganizedCategory](t, w)
	if got := len(organized[0].Certificates); got != 2 {
		t.Fatalf("fresh catalog has %d certificates, want 2", got)
	}
}

func TestOrganizedCertificatesLanguageResolution(t *testing.T) {
	db, h := testSetup(t)

	now := time.Now().UTC().Truncate(time.Second)
	category, err := store.New(db).CreateCategory(context.Background(), store.CreateCategoryParams{
		Slug:  "pressure-pipes",
		Title: "Pressure Pipes",
		Translations: content.TranslationMap{
			content.LangMK: {Title: "Цевки под притисок"},
		},
		DefaultLanguage: "en",
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("creating category: %v", err)
	}
	createTestCertificate(t, db, category.ID, "ISO 9001")

	req := requestWithLanguage(newGetRequest(t, "/api/certificates/organized", nil), "mk")
	w := executeHandler(t, h.OrganizedCertificates, req)

	organized := unmarshalData[[]content.OrganizedCategory](t, w)
	if organized[0].Title != "Цевки под притисок" {
		t.Errorf("title = %q, want Macedonian translation", organized[0].Title)
	}

	// German has no override and falls back to the default language.
	req = requestWithLanguage(newGetRequest(t, "/api/certificates/organized", nil), "de")
	w = executeHandler(t, h.OrganizedCertificates, req)
	organized = unmarshalData[[]content.OrganizedCategory](t, w)
	if organized[0].Title != "Pressure Pipes" {
		t.Errorf("title = %q, want fallback to English", organized[0].Title)
	}
}

func TestPublicCategories(t *testing.T) {
	db, h := testSetup(t)

	createTestCategory(t, db, "pressure-pipes")
	createTestCategory(t, db, "cable-protection")

	w := executeHandler(t, h.PublicCategories, newGetRequest(t, "/api/categories", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	categories, meta := unmarshalList[CategoryResponse](t, w)
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	if meta == nil || meta.Total != 2 {
		t.Errorf("meta = %+v, want total 2", meta)
	}
}

func createPublishedArticle(t *testing.T, db *store.Queries, slug, title, body string) store.NewsArticle {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)

	article, err := db.CreateNews(context.Background(), store.CreateNewsParams{
		Slug:            slug,
		Title:           title,
		Body:            body,
		DefaultLanguage: "en",
		IsPublished:     true,
		PublishedAt:     sql.NullTime{Time: now, Valid: true},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("creating article: %v", err)
	}
	return article
}

func TestPublicNewsDetailRendersMarkdown(t *testing.T) {
	db, h := testSetup(t)
	queries := store.New(db)

	createPublishedArticle(t, queries, "new-pe100-line", "New PE100 Line",
		"We commissioned a **new extrusion line**.\n\n<script>alert(1)</script>")

	req := newGetRequest(t, "/api/news/new-pe100-line", map[string]string{"slug": "new-pe100-line"})
	w := executeHandler(t, h.PublicNewsDetail, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	detail := unmarshalData[NewsDetailResponse](t, w)
	if !strings.Contains(detail.BodyHTML, "<strong>new extrusion line</strong>") {
		t.Errorf("body HTML missing rendered markdown: %q", detail.BodyHTML)
	}
	if strings.Contains(detail.BodyHTML, "<script>") {
		t.Errorf("body HTML contains unsanitized script: %q", detail.BodyHTML)
	}
}

func TestPublicNewsDetailHidesDrafts(t *testing.T) {
	db, h := testSetup(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.New(db).CreateNews(context.Background(), store.CreateNewsParams{
		Slug:            "draft-article",
		Title:           "Draft",
		DefaultLanguage: "en",
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("creating draft: %v", err)
	}

	req := newGetRequest(t, "/api/news/draft-article", map[string]string{"slug": "draft-article"})
	w := executeHandler(t, h.PublicNewsDetail, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestPublicNewsPagination(t *testing.T) {
	db, h := testSetup(t)
	queries := store.New(db)

	for _, slug := range []string{"a", "b", "c"} {
		createPublishedArticle(t, queries, slug, "Article "+slug, "body")
	}

	w := executeHandler(t, h.PublicNews, newGetRequest(t, "/api/news?page=1&per_page=2", nil))
	items, meta := unmarshalList[NewsListItem](t, w)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if meta == nil || meta.Total != 3 || meta.Pages != 2 {
		t.Errorf("meta = %+v, want total 3 pages 2", meta)
	}
}

func TestPublicLanguages(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.PublicLanguages, newGetRequest(t, "/api/languages", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	languages, _ := unmarshalList[ActiveLanguageResponse](t, w)
	if len(languages) != 3 {
		t.Fatalf("got %d languages, want 3", len(languages))
	}
	if languages[0].Code != "en" || !languages[0].IsDefault {
		t.Errorf("first language = %+v, want default en", languages[0])
	}
}
