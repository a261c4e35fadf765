// Package textnorm canonicalizes free text before any keyword comparison.
//
// Users type Vietnamese with or without diacritics, so an accented word and
// its bare spelling must compare equal. Normalize lower-cases, decomposes to
// NFD, drops the combining marks U+0300..U+036F and keeps only a-z, 0-9 and
// whitespace.
//
// Whitespace is the Unicode White_Space set minus U+0085 (NEL), plus the
// byte order mark U+FEFF, the same set a browser matches with \s.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block
var combiningMarks = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

// Normalize returns the canonical form of text. It is pure and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)

	// A fresh chain per call: transformers carry state and are not safe to share.
	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks))
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if keep(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimFunc(b.String(), IsSpace)
}

// keep reports whether r survives the character filter
func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return IsSpace(r)
	}
}

// IsSpace reports whether r separates words
func IsSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// Words splits normalized text on whitespace runs, dropping empty tokens
func Words(normalized string) []string {
	return strings.FieldsFunc(normalized, IsSpace)
}
