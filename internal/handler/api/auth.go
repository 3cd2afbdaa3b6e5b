// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pipeplast/pipecms/internal/auth"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the authenticated user in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func userResponse(u store.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.LastLoginAt.Valid {
		last := u.LastLoginAt.Time
		resp.LastLoginAt = &last
	}
	return resp
}

// Login handles POST /api/auth/login. Failed attempts count toward the
// account lockout; the generic error message never reveals whether the
// account exists.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(req); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.loginGate != nil {
		if locked, remaining := h.loginGate.IsAccountLocked(email); locked {
			h.logger.Warn("login attempt on locked account",
				"category", "auth", "email", email, "remaining", remaining)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account temporarily locked. Try again later.", nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("loading user", "error", err)
			WriteInternalError(w, "Login failed")
			return
		}
		h.recordLoginFailure(email, middleware.ClientIP(r))
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.logger.Error("verifying password", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	if !ok {
		h.recordLoginFailure(email, middleware.ClientIP(r))
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	if h.loginGate != nil {
		h.loginGate.RecordSuccessfulLogin(email)
	}

	// Upgrade hashes created with older argon2id parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if rehash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID,
				rehash, time.Now().UTC().Truncate(time.Second)); err != nil {
				h.logger.Warn("updating password hash", "error", err)
			}
		}
	}

	// New session token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		h.logger.Error("renewing session token", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	if err := h.queries.TouchUserLogin(ctx, user.ID, time.Now().UTC().Truncate(time.Second)); err != nil {
		h.logger.Warn("recording login time", "error", err)
	}

	h.logger.Info("login succeeded", "category", "auth", "user_id", user.ID)
	WriteSuccess(w, userResponse(user), nil)
}

// recordLoginFailure tracks a failed attempt for the lockout counter and
// event log.
func (h *Handler) recordLoginFailure(email, ip string) {
	if h.loginGate != nil {
		if locked, duration := h.loginGate.RecordFailedAttempt(email); locked {
			h.logger.Warn("account locked after failed logins",
				"category", "auth", "email", email, "duration", duration)
			return
		}
	}
	h.logger.Warn("login failed", "category", "auth", "email", email, "ip", ip)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUser(r)
	if err := h.sessions.Destroy(ctx); err != nil {
		h.logger.Error("destroying session", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}
	if user != nil {
		h.logger.Info("logout", "category", "auth", "user_id", user.ID)
	}
	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/admin/me. Requires LoadUser middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, userResponse(*user), nil)
}
