// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides UI-string translation for server-rendered messages
// such as form feedback and notification mails. Translations live in
// embedded JSON catalogs, one per site language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message is a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile is the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// SupportedLanguages lists the UI languages, default first.
var SupportedLanguages = []string{"en", "mk", "de"}

// Init loads the embedded catalogs.
func Init(logger *slog.Logger) error {
	catalog = &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  "en",
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	catalog.supported = tags
	catalog.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := catalog.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string)
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}
	return nil
}

// T translates a message key into the given language, formatting with args
// when provided. Unknown keys fall back to the default language and then to
// the key itself.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	langTranslations, ok := catalog.translations[lang]
	if !ok {
		langTranslations, ok = catalog.translations[catalog.defaultLang]
		if !ok {
			return key
		}
	}

	translation, ok := langTranslations[key]
	if !ok {
		if lang != catalog.defaultLang {
			if defaultTranslations, ok := catalog.translations[catalog.defaultLang]; ok {
				if translation, ok = defaultTranslations[key]; ok {
					if len(args) > 0 {
						return fmt.Sprintf(translation, args...)
					}
					return translation
				}
			}
		}
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or plain language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return "en"
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return catalog.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, _ := catalog.matcher.Match(tags...)
	if idx >= 0 && idx < len(catalog.supported) {
		return catalog.supported[idx].String()
	}
	return catalog.defaultLang
}

// IsSupported reports whether the language code has a catalog.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of loaded messages for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	if translations, ok := catalog.translations[lang]; ok {
		return len(translations)
	}
	return 0
}
