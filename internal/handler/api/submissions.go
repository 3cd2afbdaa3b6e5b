// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/pipeplast/pipecms/internal/store"
)

// ContactMessageResponse is a contact message in admin API responses.
type ContactMessageResponse struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func contactMessageResponse(m store.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Reference: m.Reference,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// JobApplicationResponse is a job application in admin API responses.
type JobApplicationResponse struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position"`
	Message   string    `json:"message,omitempty"`
	CVURL     string    `json:"cv_url,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func jobApplicationResponse(a store.JobApplication) JobApplicationResponse {
	return JobApplicationResponse{
		ID:        a.ID,
		Reference: a.Reference,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Position:  a.Position,
		Message:   a.Message,
		CVURL:     a.CVURL,
		IsRead:    a.IsRead,
		CreatedAt: a.CreatedAt,
	}
}

// UnreadCounts is the admin inbox badge payload.
type UnreadCounts struct {
	ContactMessages int64 `json:"contact_messages"`
	JobApplications int64 `json:"job_applications"`
}

// ListContactMessages handles GET /api/admin/messages, newest first.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	messages, err := h.queries.ListContactMessages(ctx, store.ListContactMessagesParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("listing contact messages", "error", err)
		WriteInternalError(w, "Failed to list messages")
		return
	}
	total, err := h.queries.CountContactMessages(ctx)
	if err != nil {
		h.logger.Error("counting contact messages", "error", err)
		WriteInternalError(w, "Failed to list messages")
		return
	}

	responses := make([]ContactMessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, contactMessageResponse(m))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetContactMessage handles GET /api/admin/messages/{id}.
func (h *Handler) GetContactMessage(w http.ResponseWriter, r *http.Request) {
	message, ok := requireEntityByID(h, w, r, "message", func(id int64) (store.ContactMessage, error) {
		return h.queries.GetContactMessageByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, contactMessageResponse(message), nil)
}

// MarkContactMessageRead handles POST /api/admin/messages/{id}/read.
func (h *Handler) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message, ok := requireEntityByID(h, w, r, "message", func(id int64) (store.ContactMessage, error) {
		return h.queries.GetContactMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.MarkContactMessageRead(ctx, message.ID); err != nil {
		h.logger.Error("marking message read", "id", message.ID, "error", err)
		WriteInternalError(w, "Failed to update message")
		return
	}
	message.IsRead = true
	WriteSuccess(w, contactMessageResponse(message), nil)
}

// DeleteContactMessage handles DELETE /api/admin/messages/{id}.
func (h *Handler) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message, ok := requireEntityByID(h, w, r, "message", func(id int64) (store.ContactMessage, error) {
		return h.queries.GetContactMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteContactMessage(ctx, message.ID); err != nil {
		h.logger.Error("deleting message", "id", message.ID, "error", err)
		WriteInternalError(w, "Failed to delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListJobApplications handles GET /api/admin/applications, newest first.
func (h *Handler) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	applications, err := h.queries.ListJobApplications(ctx, store.ListJobApplicationsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("listing job applications", "error", err)
		WriteInternalError(w, "Failed to list applications")
		return
	}
	total, err := h.queries.CountJobApplications(ctx)
	if err != nil {
		h.logger.Error("counting job applications", "error", err)
		WriteInternalError(w, "Failed to list applications")
		return
	}

	responses := make([]JobApplicationResponse, 0, len(applications))
	for _, a := range applications {
		responses = append(responses, jobApplicationResponse(a))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// GetJobApplication handles GET /api/admin/applications/{id}.
func (h *Handler) GetJobApplication(w http.ResponseWriter, r *http.Request) {
	application, ok := requireEntityByID(h, w, r, "application", func(id int64) (store.JobApplication, error) {
		return h.queries.GetJobApplicationByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, jobApplicationResponse(application), nil)
}

// MarkJobApplicationRead handles POST /api/admin/applications/{id}/read.
func (h *Handler) MarkJobApplicationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, ok := requireEntityByID(h, w, r, "application", func(id int64) (store.JobApplication, error) {
		return h.queries.GetJobApplicationByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.MarkJobApplicationRead(ctx, application.ID); err != nil {
		h.logger.Error("marking application read", "id", application.ID, "error", err)
		WriteInternalError(w, "Failed to update application")
		return
	}
	application.IsRead = true
	WriteSuccess(w, jobApplicationResponse(application), nil)
}

// DeleteJobApplication handles DELETE /api/admin/applications/{id}.
func (h *Handler) DeleteJobApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, ok := requireEntityByID(h, w, r, "application", func(id int64) (store.JobApplication, error) {
		return h.queries.GetJobApplicationByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteJobApplication(ctx, application.ID); err != nil {
		h.logger.Error("deleting application", "id", application.ID, "error", err)
		WriteInternalError(w, "Failed to delete application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUnreadCounts handles GET /api/admin/submissions/unread.
func (h *Handler) GetUnreadCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contacts, err := h.queries.CountUnreadContactMessages(ctx)
	if err != nil {
		h.logger.Error("counting unread messages", "error", err)
		WriteInternalError(w, "Failed to count submissions")
		return
	}
	jobs, err := h.queries.CountUnreadJobApplications(ctx)
	if err != nil {
		h.logger.Error("counting unread applications", "error", err)
		WriteInternalError(w, "Failed to count submissions")
		return
	}
	WriteSuccess(w, UnreadCounts{ContactMessages: contacts, JobApplications: jobs}, nil)
}
