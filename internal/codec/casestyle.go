package codec

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers carry state, so each call gets its own.

func toUpper(s string) string {
	return cases.Upper(language.Und).String(s)
}

func toLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func toTitle(s string) string {
	return cases.Title(language.Und).String(s)
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitWords breaks s into words. Characters outside [A-Za-z0-9_] separate
// words, and a new word starts at a lower-to-upper transition ("fooBar") or
// at the last capital of an acronym followed by lowercase ("HTTPServer").
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !isWordRune(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func joinWords(sep string, caser func(string) string) func(string) string {
	return func(s string) string {
		words := splitWords(s)
		for i, w := range words {
			words[i] = caser(w)
		}
		return strings.Join(words, sep)
	}
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + toLower(w[size:])
}

func toCamel(s string) string {
	words := splitWords(s)
	for i, w := range words {
		if i == 0 {
			words[i] = toLower(w)
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

func toPascal(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

// unjoinWords is the best-effort decode shared by the separator and
// camel-style formats: lowercase words joined by single spaces.
func unjoinWords(s string) string {
	words := splitWords(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = toLower(w)
	}
	return strings.Join(words, " ")
}
