// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/pipeplast/pipecms/internal/content"
)

// FormEntry is the per-language editor payload for one language.
type FormEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FormPayload maps language codes to editor entries. Admin create and
// update requests submit the translatable fields in this shape; the
// canonical columns are derived from the default-language entries.
type FormPayload map[string]FormEntry

// applyFormPayload threads the payload through the editor form state of
// the existing entity and returns the persisted shape. Languages absent
// from the payload keep their stored entries. Returns field errors for
// unknown language codes or a missing default-language title.
func applyFormPayload(existing content.Entity, payload FormPayload) (content.Entity, map[string]string) {
	fieldErrors := make(map[string]string)
	for lang := range payload {
		if !content.IsSupported(content.LanguageCode(lang)) {
			fieldErrors["translations."+lang] = "Unknown language code"
		}
	}
	if len(fieldErrors) > 0 {
		return content.Entity{}, fieldErrors
	}

	state := content.ToFormState(existing)
	for lang, entry := range payload {
		code := content.LanguageCode(lang)
		state = state.WithTitle(code, entry.Title).WithDescription(code, entry.Description)
	}

	shape := state.ToPersistedShape()
	if shape.Title == "" {
		fieldErrors["title"] = "Title is required in the default language"
		return content.Entity{}, fieldErrors
	}
	return shape, nil
}

// formStateResponse renders the editor form state of an entity: one entry
// per supported language, always defined.
func formStateResponse(e content.Entity) FormPayload {
	state := content.ToFormState(e)
	out := make(FormPayload, len(content.SupportedLanguages))
	for _, lang := range content.SupportedLanguages {
		out[string(lang)] = FormEntry{
			Title:       state.Title(lang),
			Description: state.Description(lang),
		}
	}
	return out
}
