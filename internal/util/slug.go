// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides slug generation and sql.Null* conversion helpers.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	slugRunOfDash = regexp.MustCompile(`-{2,}`)
)

// cyrillicLatin transliterates Macedonian Cyrillic so titles entered in
// mk still produce readable slugs. Unmapped Cyrillic characters fall
// through and are removed by the invalid-character pass.
var cyrillicLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'ѓ': "gj",
	'е': "e", 'ж': "zh", 'з': "z", 'ѕ': "dz", 'и': "i", 'ј': "j",
	'к': "k", 'л': "l", 'љ': "lj", 'м': "m", 'н': "n", 'њ': "nj",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'ќ': "kj",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'џ': "dzh",
	'ш': "sh",
}

// Slugify converts a title into a URL-friendly slug: lowercase,
// Cyrillic transliterated, accents stripped, spaces collapsed into
// single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := cyrillicLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	// Decompose accented Latin characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, b.String())

	result = strings.ReplaceAll(result, " ", "-")
	result = slugInvalid.ReplaceAllString(result, "")
	result = slugRunOfDash.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase
// alphanumerics and single interior hyphens only.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	if strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
