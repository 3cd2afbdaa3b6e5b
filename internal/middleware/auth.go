// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication, language
// detection, rate limiting, and security headers.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/pipeplast/pipecms/internal/model"
	"github.com/pipeplast/pipecms/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser ContextKey = "user"
)

// Session keys for storing user data.
const (
	SessionKeyUserID = "user_id"
)

// apiError is the JSON error envelope shared by the auth and rate limit
// middleware. The handler package has richer helpers; middleware keeps its
// own minimal copy to avoid the import cycle.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	var e apiError
	e.Error.Code = code
	e.Error.Message = message
	_ = json.NewEncoder(w).Encode(e)
}

// RequireAuth rejects requests without a valid admin session.
func RequireAuth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser loads the session's user into the request context. Requests with
// a session pointing at a deleted user get their session destroyed. Use
// after RequireAuth.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Session is no longer valid")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose context user is not an admin. Use
// after LoadUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		if user.Role != model.RoleAdmin {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the current user from the request context, or nil.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}
