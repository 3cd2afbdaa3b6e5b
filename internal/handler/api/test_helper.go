// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pipeplast/pipecms/internal/cache"
	"github.com/pipeplast/pipecms/internal/store"
)

// testDB creates a migrated and seeded SQLite database in a temp directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "pipecms-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// testSetup creates a test database and API handler with an in-memory
// catalog cache.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()

	db := testDB(t)
	backend := cache.NewMemoryCacheWithTTL(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })

	h := NewHandler(Options{
		DB:        db,
		Languages: cache.NewLanguageCache(store.New(db)),
		Catalog:   cache.NewCatalogCache(backend, time.Minute),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		SiteURL:   "https://pipeplast.example.com",
	})
	return db, h
}

func testTimestamp(t *testing.T) time.Time {
	t.Helper()
	return time.Now().UTC().Truncate(time.Second)
}

// createTestCategory inserts a category with an English title derived from
// the slug.
func createTestCategory(t *testing.T, db *sql.DB, slug string) store.Category {
	t.Helper()
	now := testTimestamp(t)

	category, err := store.New(db).CreateCategory(context.Background(), store.CreateCategoryParams{
		Slug:            slug,
		Title:           strings.ReplaceAll(slug, "-", " "),
		Translations:    nil,
		DefaultLanguage: "en",
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("creating test category: %v", err)
	}
	return category
}

// createTestCertificate inserts an active certificate under the category.
func createTestCertificate(t *testing.T, db *sql.DB, categoryID int64, title string) store.Certificate {
	t.Helper()
	now := testTimestamp(t)

	certificate, err := store.New(db).CreateCertificate(context.Background(), store.CreateCertificateParams{
		CategoryID:      categoryID,
		Title:           title,
		DefaultLanguage: "en",
		PDFURL:          "/files/" + strings.ToLower(strings.ReplaceAll(title, " ", "-")) + ".pdf",
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("creating test certificate: %v", err)
	}
	return certificate
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newDeleteRequest creates an HTTP DELETE request with optional URL params.
func newDeleteRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is a generic wrapper for API list responses with data and meta.
type listResponse[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data
}

// unmarshalList unmarshals a JSON list response body into the specified type.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data, resp.Meta
}

// unmarshalError unmarshals a JSON error response body.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp.Error
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
