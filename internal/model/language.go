// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language represents a content/UI language of the site.
type Language struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`        // ISO 639-1: en, mk, de
	Name       string    `json:"name"`        // English, Macedonian, German
	NativeName string    `json:"native_name"` // English, Македонски, Deutsch
	IsDefault  bool      `json:"is_default"`  // only one can be default
	IsActive   bool      `json:"is_active"`   // enabled for site
	Direction  string    `json:"direction"`   // ltr, rtl
	Position   int       `json:"position"`    // sort order in language switcher
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// SiteLanguages lists the languages the site ships with, default first.
var SiteLanguages = []struct {
	Code       string
	Name       string
	NativeName string
	Direction  string
}{
	{"en", "English", "English", "ltr"},
	{"mk", "Macedonian", "Македонски", "ltr"},
	{"de", "German", "Deutsch", "ltr"},
}
