// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// EmailSettings is the outbound-mail configuration record. The API key is
// write-only: admin reads get EmailSettingsView, which carries presence
// flags instead of the stored value.
type EmailSettings struct {
	ID          int64     `json:"id"`
	Provider    string    `json:"provider"` // e.g. "brevo", "smtp"
	APIKey      string    `json:"-"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name"`
	NotifyTo    string    `json:"notify_to"` // recipient for contact/job notifications
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmailSettingsView is the admin-facing read shape of EmailSettings.
type EmailSettingsView struct {
	Provider    string    `json:"provider"`
	HasAPIKey   bool      `json:"has_api_key"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name"`
	NotifyTo    string    `json:"notify_to"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// View maps the settings record to its read shape, dropping the key value.
func (s EmailSettings) View() EmailSettingsView {
	return EmailSettingsView{
		Provider:    s.Provider,
		HasAPIKey:   s.APIKey != "",
		SenderEmail: s.SenderEmail,
		SenderName:  s.SenderName,
		NotifyTo:    s.NotifyTo,
		UpdatedAt:   s.UpdatedAt,
	}
}
