// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pipeplast/pipecms/internal/store"
)

// EventResponse is an audit log entry in admin API responses.
type EventResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"user_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func eventResponse(e store.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		userID := e.UserID.Int64
		resp.UserID = &userID
	}
	if e.Metadata != "" && json.Valid([]byte(e.Metadata)) {
		resp.Metadata = json.RawMessage(e.Metadata)
	}
	return resp
}

// ListAdminEvents handles GET /api/admin/events, newest first.
func (h *Handler) ListAdminEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, DefaultPerPage, MaxPerPage)

	events, err := h.queries.ListEvents(ctx, store.ListEventsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("listing events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		h.logger.Error("counting events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, eventResponse(e))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}
