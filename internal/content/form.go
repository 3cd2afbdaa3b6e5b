// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// FormState is the editor-side view of a translatable entity: one entry per
// supported language, always defined (empty strings rather than missing keys)
// so form inputs have a controlled value. FormState is treated as an
// immutable value; edits go through the With* methods, which return a new
// state and leave the receiver untouched.
type FormState struct {
	Default      LanguageCode
	Translations map[LanguageCode]LocalizedFields
}

// ToFormState loads an entity into editor form state. Every supported
// language gets an entry even if the entity had none. The default-language
// entry is seeded from the entity's translations when present, otherwise
// from the canonical fields; the dual fallback keeps entities created before
// the translations feature existed editable without data loss.
func ToFormState(e Entity) FormState {
	def := e.DefaultLang()
	state := FormState{
		Default:      def,
		Translations: make(map[LanguageCode]LocalizedFields, len(SupportedLanguages)),
	}
	for _, lang := range SupportedLanguages {
		state.Translations[lang] = e.Translations[lang]
	}

	seed := state.Translations[def]
	if seed.Title == "" {
		seed.Title = e.Title
	}
	if seed.Description == "" {
		seed.Description = e.Description
	}
	state.Translations[def] = seed

	return state
}

// clone copies the state so With* edits never alias the receiver's map.
func (s FormState) clone() FormState {
	out := FormState{
		Default:      s.Default,
		Translations: make(map[LanguageCode]LocalizedFields, len(s.Translations)),
	}
	for k, v := range s.Translations {
		out.Translations[k] = v
	}
	return out
}

// WithTitle returns a new state with the title for lang replaced.
func (s FormState) WithTitle(lang LanguageCode, value string) FormState {
	out := s.clone()
	entry := out.Translations[lang]
	entry.Title = value
	out.Translations[lang] = entry
	return out
}

// WithDescription returns a new state with the description for lang replaced.
func (s FormState) WithDescription(lang LanguageCode, value string) FormState {
	out := s.clone()
	entry := out.Translations[lang]
	entry.Description = value
	out.Translations[lang] = entry
	return out
}

// Title returns the title entry for lang ("" when the entry is empty).
func (s FormState) Title(lang LanguageCode) string {
	return s.Translations[lang].Title
}

// Description returns the description entry for lang.
func (s FormState) Description(lang LanguageCode) string {
	return s.Translations[lang].Description
}

// ToPersistedShape maps form state back to the persisted entity shape. The
// canonical fields are re-derived from the default-language entries; an empty
// result is accepted input here, the API layer decides whether to reject it
// as a missing required field. All language entries are submitted as-is,
// including empty ones: the persistence layer decides whether to store
// empty-string overrides or normalize them to absent keys, this function
// does not prune. Untouched language entries survive byte-for-byte.
func (s FormState) ToPersistedShape() Entity {
	def := s.Default
	if def == "" {
		def = DefaultLanguage
	}

	translations := make(TranslationMap, len(s.Translations))
	for lang, entry := range s.Translations {
		translations[lang] = entry
	}

	return Entity{
		Title:        s.Translations[def].Title,
		Description:  s.Translations[def].Description,
		Translations: translations,
		Default:      def,
	}
}
