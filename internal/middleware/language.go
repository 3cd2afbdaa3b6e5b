// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pipeplast/pipecms/internal/cache"
	"github.com/pipeplast/pipecms/internal/content"
	"github.com/pipeplast/pipecms/internal/store"
)

// Context keys for language data.
const (
	ContextKeyLanguage     ContextKey = "language"
	ContextKeyLanguageCode ContextKey = "language_code"
)

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "pipecms_lang"

// LanguageInfo holds language data for the request context.
type LanguageInfo struct {
	ID         int64
	Code       string
	Name       string
	NativeName string
	Direction  string
	IsDefault  bool
}

// Language detects the request language and stores it in the context.
// Priority order:
//  1. Query parameter ?lang=XX (explicit switch, updates the cookie)
//  2. URL parameter {lang} from the chi router
//  3. Cookie preference
//  4. Accept-Language header
//  5. Default language
func Language(languages *cache.LanguageCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			defaultLang, err := languages.GetDefault(ctx)
			if err != nil || defaultLang == nil {
				next.ServeHTTP(w, r)
				return
			}

			activeLangs, err := languages.GetActive(ctx)
			if err != nil || len(activeLangs) == 0 {
				ctx = setLanguageContext(ctx, *defaultLang)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			langMap := make(map[string]store.Language, len(activeLangs))
			for _, lang := range activeLangs {
				langMap[strings.ToLower(lang.Code)] = lang
			}

			// 1. Explicit ?lang= switch updates the cookie.
			if queryLang := r.URL.Query().Get("lang"); queryLang != "" {
				if lang, ok := langMap[strings.ToLower(queryLang)]; ok {
					SetLanguageCookie(w, lang.Code)
					ctx = setLanguageContext(ctx, lang)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 2. Language prefix in the route, e.g. /mk/....
			if langParam := chi.URLParam(r, "lang"); langParam != "" {
				if lang, ok := langMap[strings.ToLower(langParam)]; ok {
					ctx = setLanguageContext(ctx, lang)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 3. Cookie preference.
			if cookie, err := r.Cookie(LanguageCookieName); err == nil {
				if lang, ok := langMap[strings.ToLower(cookie.Value)]; ok {
					ctx = setLanguageContext(ctx, lang)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 4. Accept-Language header.
			if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
				if lang := matchAcceptLanguage(acceptLang, langMap); lang != nil {
					ctx = setLanguageContext(ctx, *lang)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 5. Default language.
			ctx = setLanguageContext(ctx, *defaultLang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// matchAcceptLanguage finds the best active language for an Accept-Language
// header. Quality values are ignored; entries are tried in order.
func matchAcceptLanguage(acceptLang string, langMap map[string]store.Language) *store.Language {
	for _, part := range strings.Split(acceptLang, ",") {
		langPart := strings.TrimSpace(strings.Split(part, ";")[0])

		if lang, ok := langMap[strings.ToLower(langPart)]; ok {
			return &lang
		}
		// Primary code, e.g. de from de-AT.
		if idx := strings.Index(langPart, "-"); idx > 0 {
			if lang, ok := langMap[strings.ToLower(langPart[:idx])]; ok {
				return &lang
			}
		}
	}
	return nil
}

func setLanguageContext(ctx context.Context, lang store.Language) context.Context {
	info := LanguageInfo{
		ID:         lang.ID,
		Code:       lang.Code,
		Name:       lang.Name,
		NativeName: lang.NativeName,
		Direction:  lang.Direction,
		IsDefault:  lang.IsDefault,
	}
	ctx = context.WithValue(ctx, ContextKeyLanguage, info)
	ctx = context.WithValue(ctx, ContextKeyLanguageCode, lang.Code)
	return ctx
}

// GetLanguage retrieves the current language from the request context, or
// nil if the middleware did not run.
func GetLanguage(r *http.Request) *LanguageInfo {
	info, ok := r.Context().Value(ContextKeyLanguage).(LanguageInfo)
	if !ok {
		return nil
	}
	return &info
}

// GetLanguageCode returns the request's language code, falling back to the
// site default when no language middleware ran.
func GetLanguageCode(r *http.Request) content.LanguageCode {
	code, ok := r.Context().Value(ContextKeyLanguageCode).(string)
	if !ok {
		return content.DefaultLanguage
	}
	lang := content.LanguageCode(code)
	if !content.IsSupported(lang) {
		return content.DefaultLanguage
	}
	return lang
}

// SetLanguageCookie stores the language preference for a year.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
