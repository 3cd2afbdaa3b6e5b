// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pipeplast/pipecms/internal/i18n"
	"github.com/pipeplast/pipecms/internal/middleware"
	"github.com/pipeplast/pipecms/internal/store"
)

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=50"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// JobRequest is the public job application payload.
type JobRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"max=50"`
	Position string `json:"position" validate:"required,max=200"`
	Message  string `json:"message" validate:"max=5000"`
	CVURL    string `json:"cv_url" validate:"omitempty,url,max=500"`
}

// SubmissionResponse acknowledges a public form submission.
type SubmissionResponse struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	lang := string(middleware.GetLanguageCode(r))

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(req); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	msg, err := h.queries.CreateContactMessage(r.Context(), store.CreateContactMessageParams{
		Reference: newReference(),
		Name:      h.cleanText(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     h.cleanText(req.Phone),
		Subject:   h.cleanText(req.Subject),
		Message:   h.cleanText(req.Message),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		h.logger.Error("storing contact message", "error", err)
		WriteInternalError(w, "Failed to submit message")
		return
	}

	h.logger.Info("contact message received",
		"category", "content", "reference", msg.Reference)

	if h.mail != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = h.mail.SendContactNotification(ctx, msg, lang)
		}()
	}

	WriteCreated(w, SubmissionResponse{
		Reference: msg.Reference,
		Message:   i18n.T(lang, "contact.received"),
	})
}

// SubmitJob handles POST /api/jobs.
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	lang := string(middleware.GetLanguageCode(r))

	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(req); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	app, err := h.queries.CreateJobApplication(r.Context(), store.CreateJobApplicationParams{
		Reference: newReference(),
		Name:      h.cleanText(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     h.cleanText(req.Phone),
		Position:  h.cleanText(req.Position),
		Message:   h.cleanText(req.Message),
		CVURL:     strings.TrimSpace(req.CVURL),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		h.logger.Error("storing job application", "error", err)
		WriteInternalError(w, "Failed to submit application")
		return
	}

	h.logger.Info("job application received",
		"category", "content", "reference", app.Reference)

	if h.mail != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = h.mail.SendJobNotification(ctx, app, lang)
		}()
	}

	WriteCreated(w, SubmissionResponse{
		Reference: app.Reference,
		Message:   i18n.T(lang, "job.received"),
	})
}

// validateStruct runs the validator and flattens failures into a field
// error map keyed by the JSON field name.
func (h *Handler) validateStruct(s any) map[string]string {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": "Invalid payload"}
	}

	fieldErrors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fieldErrors[field] = "This field is required"
		case "email":
			fieldErrors[field] = "Must be a valid email address"
		case "url":
			fieldErrors[field] = "Must be a valid URL"
		case "max":
			fieldErrors[field] = "Value is too long"
		default:
			fieldErrors[field] = "Invalid value"
		}
	}
	return fieldErrors
}

// cleanText strips markup from a plain-text form field and trims
// surrounding whitespace. Submissions are stored as plain text and must
// not carry HTML into admin views or notification mails.
func (h *Handler) cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.textStrip.Sanitize(s)))
}

// newReference returns a short public reference code for a submission.
func newReference() string {
	return uuid.NewString()[:8]
}
