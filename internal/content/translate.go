// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content implements the multi-language content model shared by the
// public site and the admin API: per-language field overrides with
// deterministic fallback to the canonical (default-language) fields,
// form-state synchronization for the admin editors, and the category /
// subcategory grouping pipeline used by the certificate listings.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LanguageCode identifies a supported content language.
type LanguageCode string

// Supported content languages. Adding a language here is a compile-time
// checked change: the Resolver and Synchronizer iterate SupportedLanguages
// and reject codes outside the set at decode time.
const (
	LangEN LanguageCode = "en"
	LangMK LanguageCode = "mk"
	LangDE LanguageCode = "de"
)

// DefaultLanguage is the language mirrored by the canonical entity fields
// when an entity does not declare its own default.
const DefaultLanguage = LangEN

// SupportedLanguages lists every content language, default first.
var SupportedLanguages = []LanguageCode{LangEN, LangMK, LangDE}

// IsSupported reports whether code is one of the supported content languages.
func IsSupported(code LanguageCode) bool {
	switch code {
	case LangEN, LangMK, LangDE:
		return true
	}
	return false
}

// LocalizedFields is a partial per-language override of the translatable
// entity fields. Empty strings mean "no override" and fall through to the
// canonical value.
type LocalizedFields struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether the record carries no overrides at all.
func (f LocalizedFields) IsEmpty() bool {
	return f.Title == "" && f.Description == ""
}

// TranslationMap holds per-language field overrides for a content entity.
// Keys are present only for languages with at least one override; a language
// entry may exist with only some fields populated.
type TranslationMap map[LanguageCode]LocalizedFields

// Clone returns a deep copy of the map. A nil map clones to nil.
func (m TranslationMap) Clone() TranslationMap {
	if m == nil {
		return nil
	}
	out := make(TranslationMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UnmarshalJSON decodes the persisted translations object, rejecting
// language keys outside the supported set.
func (m *TranslationMap) UnmarshalJSON(data []byte) error {
	raw := make(map[string]LocalizedFields)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TranslationMap, len(raw))
	for k, v := range raw {
		code := LanguageCode(k)
		if !IsSupported(code) {
			return fmt.Errorf("unsupported language code %q in translations", k)
		}
		out[code] = v
	}
	*m = out
	return nil
}

// Value implements driver.Valuer so a TranslationMap can be stored directly
// in a TEXT column. A nil or empty map is stored as an empty JSON object.
func (m TranslationMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling translations: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for reading the translations column.
func (m *TranslationMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		if v == "" {
			*m = nil
			return nil
		}
		return m.UnmarshalJSON([]byte(v))
	case []byte:
		if len(v) == 0 {
			*m = nil
			return nil
		}
		return m.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into TranslationMap", src)
	}
}

// Field names a translatable entity field.
type Field string

// Translatable entity fields.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

// Entity is the translation-relevant view of a content record: the canonical
// default-language fields plus the structured per-language overrides. The
// canonical Title and Description are the single source of truth when
// Translations is absent or the requested language has no override.
type Entity struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Translations TranslationMap `json:"translations,omitempty"`
	Default      LanguageCode   `json:"default_language,omitempty"`
}

// DefaultLang returns the entity's default language, falling back to the
// system default when unset.
func (e Entity) DefaultLang() LanguageCode {
	if e.Default != "" {
		return e.Default
	}
	return DefaultLanguage
}

// canonical returns the canonical value for a field.
func (e Entity) canonical(field Field) string {
	switch field {
	case FieldTitle:
		return e.Title
	case FieldDescription:
		return e.Description
	}
	return ""
}

// Resolve computes the effective display value of a field in the requested
// language: a non-empty override in translations wins, otherwise the
// canonical field. Resolution always succeeds because canonical fields are
// mandatory; the function is pure and O(1).
//
// When lang equals the entity's default language the override is still
// consulted first. Translations for the default language are expected to
// mirror the canonical field, but transient drift during editing must not
// break display elsewhere.
func Resolve(e Entity, field Field, lang LanguageCode) string {
	if override, ok := e.Translations[lang]; ok {
		var v string
		switch field {
		case FieldTitle:
			v = override.Title
		case FieldDescription:
			v = override.Description
		}
		if v != "" {
			return v
		}
	}
	return e.canonical(field)
}

// ResolveTitle is shorthand for Resolve(e, FieldTitle, lang).
func ResolveTitle(e Entity, lang LanguageCode) string {
	return Resolve(e, FieldTitle, lang)
}

// ResolveDescription is shorthand for Resolve(e, FieldDescription, lang).
func ResolveDescription(e Entity, lang LanguageCode) string {
	return Resolve(e, FieldDescription, lang)
}
