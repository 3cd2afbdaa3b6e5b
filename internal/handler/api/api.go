// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers for the public marketing API and
// the session-authenticated admin API.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pipeplast/pipecms/internal/cache"
	"github.com/pipeplast/pipecms/internal/handler"
	"github.com/pipeplast/pipecms/internal/mailer"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	languages *cache.LanguageCache
	catalog   *cache.CatalogCache
	mail      *mailer.Mailer
	sessions  *scs.SessionManager
	logger    *slog.Logger
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	textStrip *bluemonday.Policy
	loginGate *middleware.LoginProtection
	siteURL   string
}

// Options configures a Handler.
type Options struct {
	DB        *sql.DB
	Languages *cache.LanguageCache
	Catalog   *cache.CatalogCache
	Mailer    *mailer.Mailer
	Sessions  *scs.SessionManager
	Logger    *slog.Logger
	LoginGate *middleware.LoginProtection

	// SiteURL is the public site origin used in the sitemap and
	// robots.txt.
	SiteURL string
}

// NewHandler creates a new API handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report field errors under the JSON name the client submitted.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Handler{
		db:        opts.DB,
		queries:   store.New(opts.DB),
		languages: opts.Languages,
		catalog:   opts.Catalog,
		mail:      opts.Mailer,
		sessions:  opts.Sessions,
		logger:    logger,
		validate:  validate,
		sanitizer: bluemonday.UGCPolicy(),
		textStrip: bluemonday.StrictPolicy(),
		loginGate: opts.LoginGate,
		siteURL:   opts.SiteURL,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteConflict writes a 409 Conflict response. Used when an admin update
// carries a stale optimistic concurrency token.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with
// field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeUpdateError maps a store update failure: stale token to 409,
// missing row to 404, anything else to 500.
func (h *Handler) writeUpdateError(w http.ResponseWriter, entityName string, err error) {
	switch {
	case errors.Is(err, store.ErrStaleUpdate):
		WriteConflict(w, capitalizeFirst(entityName)+" was modified by someone else; reload and retry")
	case errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
	default:
		h.logger.Error("update failed", "entity", entityName, "error", err)
		WriteInternalError(w, "Failed to update "+entityName)
	}
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true, or writes the error response and returns
// false.
func requireEntityByID[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			h.logger.Error("fetch failed", "entity", entityName, "id", id, "error", err)
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}
	return entity, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Pagination helpers shared with the handler package.
const (
	DefaultPerPage = handler.DefaultPerPage
	MaxPerPage     = handler.MaxPerPage
)

var (
	ParsePageParam    = handler.ParsePageParam
	ParsePerPageParam = handler.ParsePerPageParam
)

// pageCount computes the number of pages for a total and page size.
func pageCount(total int64, perPage int) int {
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}
